// Package resolver decides whether a browsed page belongs to a supported
// marketplace and, if so, extracts the product code and the canonical URL
// used for all later re-fetches.
package resolver

import (
	"net/url"
	"regexp"

	"github.com/Vikasg7/alerty/internal/entity"
)

var (
	amazonDPPattern = regexp.MustCompile(`(?i)/dp/([A-Za-z0-9]{10})`)
	amazonGPPattern = regexp.MustCompile(`(?i)/gp/product/([A-Za-z0-9]{10})`)

	flipkartPIDPattern = regexp.MustCompile(`(?i)pid=([A-Za-z0-9]{1,16})`)
	flipkartITMPattern = regexp.MustCompile(`(?i)/p/(itm[A-Za-z0-9]{0,14})`)
)

// Resolve applies the source patterns in fixed priority order (Amazon before
// Flipkart) and returns nil when the URL matches none of them. A nil result
// means "unsupported page", not an error.
func Resolve(rawURL string) *entity.PageRef {
	if rawURL == "" {
		return nil
	}

	if key := firstMatch(rawURL, amazonDPPattern, amazonGPPattern); key != "" {
		return &entity.PageRef{
			SourceType:   entity.SourceAmazon,
			Key:          key,
			ReferenceURL: "https://amazon.in/dp/" + key,
		}
	}

	// The pid query parameter wins over the /p/itm... path segment when both
	// could match.
	if key := firstMatch(rawURL, flipkartPIDPattern, flipkartITMPattern); key != "" {
		ref, ok := canonicalFlipkartURL(rawURL)
		if !ok {
			return nil
		}
		return &entity.PageRef{
			SourceType:   entity.SourceFlipkart,
			Key:          key,
			ReferenceURL: ref,
		}
	}

	return nil
}

func firstMatch(rawURL string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// canonicalFlipkartURL rewrites the page URL onto the share host and drops
// the affiliate tracking parameter.
func canonicalFlipkartURL(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	parsed.Host = "dl.flipkart.com"
	query := parsed.Query()
	query.Del("affid")
	parsed.RawQuery = query.Encode()
	return parsed.String(), true
}
