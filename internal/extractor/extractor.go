// Package extractor turns marketplace pages into normalized Listing
// snapshots. One strategy per source type, all behind the same contract:
// a complete snapshot or a descriptive error, never a half-populated one.
package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/go-resty/resty/v2"
)

// Extractor fetches and parses one marketplace page for the given reference.
// Every failure path is an error return; implementations must not panic past
// this boundary and must not return partially filled listings.
type Extractor interface {
	Extract(ctx context.Context, ref entity.PageRef) (*entity.Listing, error)
}

// Registry dispatches extraction by source type. Adding a marketplace means
// adding an entry here, nothing in the orchestrator changes.
type Registry map[entity.SourceType]Extractor

// For returns the extractor registered for the source type.
func (r Registry) For(source entity.SourceType) (Extractor, error) {
	e, ok := r[source]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for source %q", source)
	}
	return e, nil
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// NewHTTPClient builds the shared resty client used by all extractors.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", defaultUserAgent).
		SetHeader("Accept-Language", "en-IN,en;q=0.9")
}

// NewRegistry wires up the extractors for the supported marketplaces.
func NewRegistry(client *resty.Client, amazonBaseURL string, log *logger.Logger) Registry {
	return Registry{
		entity.SourceAmazon:   NewAmazonExtractor(client, amazonBaseURL, log),
		entity.SourceFlipkart: NewFlipkartExtractor(client, log),
	}
}
