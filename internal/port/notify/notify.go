// Package notify defines the notification port and the user-facing message
// formatting shared by its implementations.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Notification is one user-visible alert. ID is the listing key, so a second
// alert for the same listing replaces the previous one instead of stacking.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ImageURL  string `json:"imageUrl,omitempty"`
	TargetURL string `json:"targetUrl"`
}

// Notifier delivers notifications to the user's display surface.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

const titleClampLimit = 50

// ClampTitle caps a display title to the clamp limit, truncating at the last
// whole word and appending an ellipsis marker.
func ClampTitle(title string) string {
	runes := []rune(title)
	if len(runes) < titleClampLimit {
		return title
	}
	words := strings.Split(string(runes[:titleClampLimit]), " ")
	if len(words) > 1 {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ") + "..."
}

// RestockMessage is the body of a restock alert.
func RestockMessage() string {
	return "Available now. Hurry!"
}

// PriceDropMessage is the body of a price-drop alert.
func PriceDropMessage(delta, current float64) string {
	return fmt.Sprintf("Price has dropped by ₹%s. Now Available at ₹%s. Hurry!",
		formatAmount(delta), formatAmount(current))
}

func formatAmount(v float64) string {
	if v < 0 {
		v = -v
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
