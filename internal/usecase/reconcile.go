package usecase

import "github.com/Vikasg7/alerty/internal/entity"

// AlertType distinguishes the two user-alert-worthy transitions.
type AlertType string

const (
	AlertRestock   AlertType = "restock"
	AlertPriceDrop AlertType = "price_drop"
)

// Alert is a notification intent produced by reconciling an old listing
// against a fresh snapshot. Display fields are taken from the old listing,
// which is what the user last saw.
type Alert struct {
	Type         AlertType
	Key          string
	Title        string
	ImageURL     string
	ReferenceURL string

	// Price drop only.
	NewPrice float64
	Delta    float64
}

// Reconcile compares a stored listing with a freshly extracted snapshot of
// the same product and returns the listing to persist plus any alerts to
// fire. All conditions are evaluated against the old stored state.
//
// A restock (out-of-stock before, in-stock now) and a price drop (in stock
// and cheaper than the old current price) can both fire on the same pass.
// The drop's baseline is always the old current price. Price increases never
// alert; they only move the persisted price.
func Reconcile(old, fresh entity.Listing) (entity.Listing, []Alert) {
	var alerts []Alert

	if !old.InStock && fresh.InStock {
		alerts = append(alerts, Alert{
			Type:         AlertRestock,
			Key:          old.Key,
			Title:        old.Title,
			ImageURL:     old.ImageURL,
			ReferenceURL: old.ReferenceURL,
		})
	}

	if fresh.InStock && fresh.Price.Current < old.Price.Current {
		alerts = append(alerts, Alert{
			Type:         AlertPriceDrop,
			Key:          old.Key,
			Title:        old.Title,
			ImageURL:     old.ImageURL,
			ReferenceURL: old.ReferenceURL,
			NewPrice:     fresh.Price.Current,
			Delta:        old.Price.Current - fresh.Price.Current,
		})
	}

	// Display fields always track the fresh snapshot; the price pair only
	// moves when an in-stock refresh actually changed it, so an unchanged
	// price keeps its recorded history (and any visible discount) intact.
	updated := fresh
	updated.Price = old.Price
	if fresh.InStock && fresh.Price.Current != old.Price.Current {
		updated.Price = entity.Price{
			Current: fresh.Price.Current,
			Last:    old.Price.Current,
		}
	}

	return updated, alerts
}

// BadgeCount is the number of listings worth a badge: in stock and currently
// cheaper than their last recorded price.
func BadgeCount(listings map[string]entity.Listing) int {
	count := 0
	for _, l := range listings {
		if l.OnSale() {
			count++
		}
	}
	return count
}
