package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const amazonSearchFixture = `<!doctype html>
<html><body>
<div class="s-result-list">
  <div data-asin="B0OTHER0001">
    <h2>Some Other Product</h2>
  </div>
  <div data-asin="B0ABCD1234" class="s-result-item">
    <h2>Acme Steel Water Bottle 1L, Insulated</h2>
    <img src="https://images.example/bottle.jpg" alt="bottle"/>
    <span class="a-price"><span class="a-price-whole">1,299.</span><span class="a-price-fraction">00</span></span>
    <div data-cy="reviews-block">
      <span aria-hidden="true">4.3</span>
      <a aria-label="12,847 ratings" href="#reviews">12,847</a>
    </div>
  </div>
</div>
</body></html>`

const amazonOutOfStockFixture = `<!doctype html>
<html><body>
<div data-asin="B0ABCD1234">
  <h2>Acme Steel Water Bottle 1L, Insulated</h2>
  <img src="https://images.example/bottle.jpg"/>
</div>
</body></html>`

func amazonTestExtractor(t *testing.T, page string) (*AmazonExtractor, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	client := NewHTTPClient(5 * time.Second)
	return NewAmazonExtractor(client, srv.URL, logger.NewNop()), srv
}

func TestAmazonExtractor_Extract(t *testing.T) {
	ext, _ := amazonTestExtractor(t, amazonSearchFixture)

	ref := entity.PageRef{
		SourceType:   entity.SourceAmazon,
		Key:          "B0ABCD1234",
		ReferenceURL: "https://amazon.in/dp/B0ABCD1234",
	}
	listing, err := ext.Extract(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "B0ABCD1234", listing.Key)
	assert.Equal(t, entity.SourceAmazon, listing.SourceType)
	assert.Equal(t, "Acme Steel Water Bottle 1L, Insulated", listing.Title)
	assert.Equal(t, "https://images.example/bottle.jpg", listing.ImageURL)
	assert.Equal(t, "https://amazon.in/dp/B0ABCD1234", listing.ReferenceURL)
	assert.True(t, listing.InStock)
	assert.Equal(t, 1299.0, listing.Price.Current)
	assert.Equal(t, 1299.0, listing.Price.Last, "a fresh snapshot has no price history yet")
	assert.Equal(t, 4.3, listing.Rating)
	assert.Equal(t, int64(12847), listing.RatingCount)
	assert.WithinDuration(t, time.Now(), listing.LastSeenAt, 5*time.Second)
}

func TestAmazonExtractor_MissingPriceMeansOutOfStock(t *testing.T) {
	ext, _ := amazonTestExtractor(t, amazonOutOfStockFixture)

	listing, err := ext.Extract(context.Background(), entity.PageRef{
		SourceType: entity.SourceAmazon,
		Key:        "B0ABCD1234",
	})
	require.NoError(t, err, "a missing price is out-of-stock, not a failure")

	assert.False(t, listing.InStock)
	assert.Zero(t, listing.Price.Current)
	assert.Zero(t, listing.Price.Last)
	assert.Equal(t, "Acme Steel Water Bottle 1L, Insulated", listing.Title)
}

func TestAmazonExtractor_MissingFragmentFailsWhole(t *testing.T) {
	ext, _ := amazonTestExtractor(t, amazonSearchFixture)

	listing, err := ext.Extract(context.Background(), entity.PageRef{
		SourceType: entity.SourceAmazon,
		Key:        "B0MISSING99",
	})
	require.Error(t, err)
	assert.Nil(t, listing, "no partially-filled listing on failure")
	assert.Contains(t, err.Error(), "B0MISSING99")
}

func TestAmazonExtractor_ServerErrorFailsWhole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	ext := NewAmazonExtractor(NewHTTPClient(5*time.Second), srv.URL, logger.NewNop())
	listing, err := ext.Extract(context.Background(), entity.PageRef{Key: "B0ABCD1234"})
	require.Error(t, err)
	assert.Nil(t, listing)
}
