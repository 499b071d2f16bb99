package entity

import "time"

// SourceType identifies the marketplace a listing was scraped from.
type SourceType string

const (
	SourceAmazon   SourceType = "amazon"
	SourceFlipkart SourceType = "flipkart"
)

// IsValid checks if the SourceType is one of the supported marketplaces.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceAmazon, SourceFlipkart:
		return true
	}
	return false
}

// Price carries the currently observed price together with the previous one.
// Last holds the current price as it was immediately before the most recent
// change; when a refresh observes the same price, neither field moves.
type Price struct {
	Current float64 `json:"current"`
	Last    float64 `json:"last"`
}

// Listing is one tracked product in its normalized form. The Key is the
// marketplace product code (ASIN for Amazon, pid/itm code for Flipkart) and
// doubles as the storage primary key.
type Listing struct {
	Key          string     `json:"key"`
	SourceType   SourceType `json:"sourceType"`
	Title        string     `json:"title"`
	ImageURL     string     `json:"imageUrl"`
	ReferenceURL string     `json:"referenceUrl"`
	Price        Price      `json:"price"`
	InStock      bool       `json:"inStock"`
	Rating       float64    `json:"rating,omitempty"`
	RatingCount  int64      `json:"ratingCount,omitempty"`
	LastSeenAt   time.Time  `json:"lastSeenAt"`
}

// PageRef is a resolved product page: which marketplace it belongs to, the
// product code extracted from the URL and the canonical URL to re-fetch it.
type PageRef struct {
	SourceType   SourceType
	Key          string
	ReferenceURL string
}

// OnSale reports whether the listing should count towards the badge: it is
// purchasable and cheaper than the previously recorded price.
func (l *Listing) OnSale() bool {
	return l.InStock && l.Price.Current < l.Price.Last
}
