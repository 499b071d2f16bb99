package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "short title untouched",
			title: "Logitech MX Master 3S",
			want:  "Logitech MX Master 3S",
		},
		{
			name:  "long title truncated at word boundary",
			title: "Samsung Galaxy M34 5G (Midnight Blue, 8GB, 128GB Storage) Without Charger",
			want:  "Samsung Galaxy M34 5G (Midnight Blue, 8GB, 128GB...",
		},
		{
			name:  "single long word keeps its prefix",
			title: strings.Repeat("x", 80),
			want:  strings.Repeat("x", 50) + "...",
		},
		{
			name:  "empty",
			title: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampTitle(tt.title)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 53)
		})
	}
}

func TestPriceDropMessage(t *testing.T) {
	assert.Equal(t,
		"Price has dropped by ₹300. Now Available at ₹1200. Hurry!",
		PriceDropMessage(300, 1200))

	// Fractional rupees keep their decimals, a negative delta is shown as
	// its magnitude.
	assert.Equal(t,
		"Price has dropped by ₹99.5. Now Available at ₹400.25. Hurry!",
		PriceDropMessage(-99.5, 400.25))
}

func TestRestockMessage(t *testing.T) {
	assert.Equal(t, "Available now. Hurry!", RestockMessage())
}
