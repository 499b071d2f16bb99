package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vikasg7/alerty/internal/entity"
)

func listingFixture(inStock bool, current, last float64) entity.Listing {
	return entity.Listing{
		Key:          "B0TESTASIN",
		SourceType:   entity.SourceAmazon,
		Title:        "Old Stored Title",
		ImageURL:     "https://img.example/old.jpg",
		ReferenceURL: "https://amazon.in/dp/B0TESTASIN",
		Price:        entity.Price{Current: current, Last: last},
		InStock:      inStock,
	}
}

func TestReconcile_RestockAlert(t *testing.T) {
	old := listingFixture(false, 999, 999)
	fresh := listingFixture(true, 999, 999)
	fresh.Title = "Fresh Title"

	updated, alerts := Reconcile(old, fresh)

	require.Len(t, alerts, 1)
	assert.Equal(t, AlertRestock, alerts[0].Type)
	assert.Equal(t, "Old Stored Title", alerts[0].Title, "alert shows what the user last saw")
	assert.Equal(t, "https://img.example/old.jpg", alerts[0].ImageURL)
	assert.True(t, updated.InStock)
	assert.Equal(t, "Fresh Title", updated.Title)
}

func TestReconcile_PriceDropAlert(t *testing.T) {
	old := listingFixture(true, 1500, 1500)
	fresh := listingFixture(true, 1200, 1200)

	updated, alerts := Reconcile(old, fresh)

	require.Len(t, alerts, 1)
	assert.Equal(t, AlertPriceDrop, alerts[0].Type)
	assert.Equal(t, 1200.0, alerts[0].NewPrice)
	assert.Equal(t, 300.0, alerts[0].Delta)
	assert.Equal(t, entity.Price{Current: 1200, Last: 1500}, updated.Price)
	assert.True(t, updated.OnSale())
}

func TestReconcile_RestockAndDropTogether(t *testing.T) {
	old := listingFixture(false, 2000, 2000)
	fresh := listingFixture(true, 1800, 1800)

	_, alerts := Reconcile(old, fresh)

	require.Len(t, alerts, 2)
	assert.Equal(t, AlertRestock, alerts[0].Type)
	assert.Equal(t, AlertPriceDrop, alerts[1].Type)
	assert.Equal(t, 200.0, alerts[1].Delta)
}

func TestReconcile_PriceIncreaseNeverAlerts(t *testing.T) {
	old := listingFixture(true, 1000, 1200)
	fresh := listingFixture(true, 1500, 1500)

	updated, alerts := Reconcile(old, fresh)

	assert.Empty(t, alerts)
	assert.Equal(t, entity.Price{Current: 1500, Last: 1000}, updated.Price)
	assert.False(t, updated.OnSale())
}

func TestReconcile_UnchangedPriceKeepsHistory(t *testing.T) {
	old := listingFixture(true, 1000, 1200)
	fresh := listingFixture(true, 1000, 1000)

	updated, alerts := Reconcile(old, fresh)

	assert.Empty(t, alerts)
	assert.Equal(t, entity.Price{Current: 1000, Last: 1200}, updated.Price,
		"unchanged price must not erase the recorded drop")
	assert.True(t, updated.OnSale())
}

func TestReconcile_OutOfStockKeepsOldPrice(t *testing.T) {
	old := listingFixture(true, 1000, 1200)
	fresh := listingFixture(false, 0, 0)

	updated, alerts := Reconcile(old, fresh)

	assert.Empty(t, alerts)
	assert.False(t, updated.InStock)
	assert.Equal(t, entity.Price{Current: 1000, Last: 1200}, updated.Price,
		"an out-of-stock snapshot carries no usable price")
}

func TestReconcile_DropWhileStillOutOfStockDoesNotAlert(t *testing.T) {
	old := listingFixture(false, 1000, 1000)
	fresh := listingFixture(false, 800, 800)

	_, alerts := Reconcile(old, fresh)

	assert.Empty(t, alerts)
}

func TestBadgeCount(t *testing.T) {
	listings := map[string]entity.Listing{
		"a": listingFixture(true, 900, 1000),
		"b": listingFixture(true, 1000, 1000),
		"c": listingFixture(false, 900, 1000),
	}

	assert.Equal(t, 1, BadgeCount(listings))
	assert.Equal(t, 0, BadgeCount(nil))
}
