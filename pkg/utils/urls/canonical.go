// ABOUTME: Product URL canonicalization for scraped listing links
// ABOUTME: Resolves relative links and strips tracking query parameters and fragments

package urls

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters retailers attach for click attribution.
// They vary per session and would break deduplication by URL.
var trackingParams = map[string]bool{
	"tracking_id":     true,
	"wid":             true,
	"sid":             true,
	"position":        true,
	"search_layout":   true,
	"type":            true,
	"polycard_client": true,
	"reco_backend":    true,
	"reco_client":     true,
	"reco_item_pos":   true,
}

// Canonical resolves a possibly-relative product link against a base URL and
// strips fragments and tracking parameters, producing a stable identifier for
// the product page.
func Canonical(raw string, base *url.URL) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}

	parsed.Fragment = ""

	query := parsed.Query()
	for key := range query {
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
