package extractor

import (
	"bytes"
	"context"
	"encoding/json"
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

const flipkartInStockAvailability = "https://schema.org/InStock"

// FlipkartExtractor fetches the product page itself and reads the embedded
// schema.org JSON-LD block, which carries title, price and an explicit
// availability signal.
type FlipkartExtractor struct {
	client *resty.Client
	logger *logger.Logger
}

func NewFlipkartExtractor(client *resty.Client, log *logger.Logger) *FlipkartExtractor {
	return &FlipkartExtractor{
		client: client,
		logger: log.Named("FlipkartExtractor"),
	}
}

// jsonLDProduct mirrors the subset of the schema.org Product block we need.
// Flipkart serializes price and rating values inconsistently (sometimes
// strings, sometimes numbers), hence the loose types.
type jsonLDProduct struct {
	Name            string        `json:"name"`
	Image           []string      `json:"image"`
	Offers          *jsonLDOffers `json:"offers"`
	AggregateRating *jsonLDRating `json:"aggregateRating"`
}

type jsonLDOffers struct {
	Price        any    `json:"price"`
	Availability string `json:"availability"`
}

type jsonLDRating struct {
	RatingValue any `json:"ratingValue"`
	RatingCount any `json:"ratingCount"`
}

func (e *FlipkartExtractor) Extract(ctx context.Context, ref entity.PageRef) (*entity.Listing, error) {
	resp, err := e.client.R().SetContext(ctx).Get(ref.ReferenceURL)
	if err != nil {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: fetch product page for %s: %w", ref.Key, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: product page for %s returned status %d", ref.Key, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: parse product page for %s: %w", ref.Key, err)
	}

	raw := strings.TrimSpace(doc.Find("script#jsonLD").First().Text())
	if raw == "" {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: no product metadata on page for %s", ref.Key)
	}

	var products []jsonLDProduct
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: decode product metadata for %s: %w", ref.Key, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: empty product metadata for %s", ref.Key)
	}
	product := products[0]

	if product.Name == "" {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: couldn't get product name for %s", ref.Key)
	}

	if product.Offers == nil {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: couldn't get product price for %s", ref.Key)
	}
	price, ok := toFloat(product.Offers.Price)
	if !ok {
		return nil, fmt.Errorf("FlipkartExtractor.Extract: couldn't get product price for %s", ref.Key)
	}

	var image string
	if len(product.Image) > 0 {
		image = product.Image[0]
	}

	var rating float64
	var ratingCount int64
	if product.AggregateRating != nil {
		rating, _ = toFloat(product.AggregateRating.RatingValue)
		if c, ok := toFloat(product.AggregateRating.RatingCount); ok {
			ratingCount = int64(c)
		}
	}

	inStock := product.Offers.Availability == flipkartInStockAvailability

	e.logger.Debug("Extracted Flipkart listing",
		zap.String("key", ref.Key),
		zap.Bool("in_stock", inStock),
		zap.Float64("price", price),
	)

	return &entity.Listing{
		Key:          ref.Key,
		SourceType:   entity.SourceFlipkart,
		Title:        product.Name,
		ImageURL:     image,
		ReferenceURL: ref.ReferenceURL,
		Price:        entity.Price{Current: price, Last: price},
		InStock:      inStock,
		Rating:       rating,
		RatingCount:  ratingCount,
		LastSeenAt:   time.Now(),
	}, nil
}

// toFloat coerces the loosely typed JSON-LD numeric fields.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(val, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
