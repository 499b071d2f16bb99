package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultAmazonBaseURL is the marketplace searched for tracked products.
const DefaultAmazonBaseURL = "https://www.amazon.in"

// availability filter keeps out-of-catalog results from drowning the ASIN we
// search for.
const amazonSearchPath = "/s?k=%s&rh=p_n_availability%%3A1318485031"

// AmazonExtractor scrapes the Amazon search results page for a single ASIN.
//
// Amazon exposes no structured availability flag on that page, so stock is
// inferred from the presence of a parseable price string. The inference is
// fragile and deliberately confined to this type.
type AmazonExtractor struct {
	client  *resty.Client
	baseURL string
	logger  *logger.Logger
}

func NewAmazonExtractor(client *resty.Client, baseURL string, log *logger.Logger) *AmazonExtractor {
	if baseURL == "" {
		baseURL = DefaultAmazonBaseURL
	}
	return &AmazonExtractor{
		client:  client,
		baseURL: baseURL,
		logger:  log.Named("AmazonExtractor"),
	}
}

func (e *AmazonExtractor) Extract(ctx context.Context, ref entity.PageRef) (*entity.Listing, error) {
	searchURL := e.baseURL + fmt.Sprintf(amazonSearchPath, ref.Key)

	resp, err := e.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("AmazonExtractor.Extract: fetch search page for %s: %w", ref.Key, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("AmazonExtractor.Extract: search page for %s returned status %d", ref.Key, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("AmazonExtractor.Extract: parse search page for %s: %w", ref.Key, err)
	}

	fragment := doc.Find(fmt.Sprintf("div[data-asin='%s']", ref.Key)).First()
	if fragment.Length() == 0 {
		return nil, fmt.Errorf("AmazonExtractor.Extract: product listing for %s doesn't exist", ref.Key)
	}

	title := strings.TrimSpace(fragment.Find("h2").First().Text())
	image, _ := fragment.Find("img").First().Attr("src")

	priceText := strings.ReplaceAll(strings.TrimSpace(fragment.Find("span.a-price-whole").First().Text()), ",", "")
	priceText = strings.TrimSuffix(priceText, ".")
	price, priceErr := strconv.ParseFloat(priceText, 64)
	inStock := priceText != "" && priceErr == nil
	if !inStock {
		price = 0
	}

	rating, ratingCount := e.parseRating(fragment)

	e.logger.Debug("Extracted Amazon listing",
		zap.String("key", ref.Key),
		zap.Bool("in_stock", inStock),
		zap.Float64("price", price),
	)

	return &entity.Listing{
		Key:          ref.Key,
		SourceType:   entity.SourceAmazon,
		Title:        title,
		ImageURL:     image,
		ReferenceURL: ref.ReferenceURL,
		Price:        entity.Price{Current: price, Last: price},
		InStock:      inStock,
		Rating:       rating,
		RatingCount:  ratingCount,
		LastSeenAt:   time.Now(),
	}, nil
}

// parseRating pulls the optional star rating and rating count out of the
// reviews block. Both are best-effort; a missing block yields zero values.
func (e *AmazonExtractor) parseRating(fragment *goquery.Selection) (float64, int64) {
	ratingText := strings.TrimSpace(fragment.Find("div[data-cy='reviews-block'] span[aria-hidden='true']").First().Text())
	rating, _ := strconv.ParseFloat(ratingText, 64)

	var ratingCount int64
	if label, ok := fragment.Find("div[data-cy='reviews-block'] a[aria-label*='ratings']").First().Attr("aria-label"); ok {
		fields := strings.Fields(label)
		if len(fields) > 0 {
			ratingCount, _ = strconv.ParseInt(strings.ReplaceAll(fields[0], ",", ""), 10, 64)
		}
	}
	return rating, ratingCount
}
