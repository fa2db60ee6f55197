// ABOUTME: MercadoLibre Chile source adapter for price searches
// ABOUTME: Fetches listing pages over HTTP and extracts products with goquery

package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"precios-api/core/domain"
	"precios-api/core/errors"
	"precios-api/core/interfaces"
	"precios-api/pkg/utils/parse"
	"precios-api/pkg/utils/urls"
)

const (
	mercadoLibreName    = "MercadoLibre"
	mercadoLibreBaseURL = "https://www.mercadolibre.cl"

	// maxPageBytes bounds how much listing HTML we are willing to read.
	maxPageBytes = 5 * 1024 * 1024
)

// MercadoLibre scrapes the MercadoLibre Chile listing page.
type MercadoLibre struct {
	httpClient interfaces.HTTPClient
	logger     interfaces.Logger
	baseURL    string
}

// MercadoLibreConfig configures the MercadoLibre adapter.
type MercadoLibreConfig struct {
	// BaseURL overrides the production site URL, mainly for tests.
	BaseURL string
}

// NewMercadoLibre creates a MercadoLibre source adapter.
func NewMercadoLibre(httpClient interfaces.HTTPClient, logger interfaces.Logger, config MercadoLibreConfig) *MercadoLibre {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = mercadoLibreBaseURL
	}
	return &MercadoLibre{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the source name used in results and per-source job status.
func (m *MercadoLibre) Name() string {
	return mercadoLibreName
}

// BuildQueryTarget builds the listing search URL for a normalized query.
func (m *MercadoLibre) BuildQueryTarget(normalizedQuery string) (*interfaces.QueryTarget, error) {
	if normalizedQuery == "" {
		return nil, &errors.ParseError{Source: mercadoLibreName, Message: "empty query"}
	}
	return &interfaces.QueryTarget{
		URL: fmt.Sprintf("%s/listado?search=%s", m.baseURL, url.QueryEscape(normalizedQuery)),
	}, nil
}

// Fetch downloads the listing page body.
func (m *MercadoLibre) Fetch(ctx context.Context, target *interfaces.QueryTarget) ([]byte, error) {
	resp, err := m.httpClient.Get(ctx, target.URL)
	if err != nil {
		return nil, &errors.FetchError{Source: mercadoLibreName, URL: target.URL, Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, &errors.FetchError{
			Source: mercadoLibreName,
			URL:    target.URL,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxPageBytes))
	if err != nil {
		return nil, &errors.FetchError{Source: mercadoLibreName, URL: target.URL, Err: err}
	}
	return body, nil
}

// Extract parses product cards out of a listing page.
func (m *MercadoLibre) Extract(page []byte, normalizedQuery string) ([]domain.ScrapedResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, &errors.ParseError{Source: mercadoLibreName, Message: err.Error()}
	}

	base, err := url.Parse(m.baseURL)
	if err != nil {
		return nil, &errors.ParseError{Source: mercadoLibreName, Message: err.Error()}
	}

	now := time.Now().UTC()
	var results []domain.ScrapedResult

	cards := doc.Find("li.ui-search-layout__item, div.ui-search-result__wrapper")
	cards.Each(func(i int, card *goquery.Selection) {
		result, ok := m.extractCard(card, base, now)
		if !ok {
			return
		}
		results = append(results, result)
	})

	if m.logger != nil {
		m.logger.Debug("Extracted MercadoLibre listing", map[string]interface{}{
			"query":   normalizedQuery,
			"cards":   cards.Length(),
			"results": len(results),
		})
	}

	return results, nil
}

// extractCard pulls name, price and URL out of a single product card.
// Returns ok=false when any of the three is missing, mirroring how partial
// cards are skipped rather than failing the whole page.
func (m *MercadoLibre) extractCard(card *goquery.Selection, base *url.URL, scrapedAt time.Time) (domain.ScrapedResult, bool) {
	name := cleanText(card.Find("h2.ui-search-item__title, a.ui-search-item__group__element.ui-search-link__title").First().Text())
	if name == "" {
		return domain.ScrapedResult{}, false
	}

	whole := card.Find("span.andes-money-amount__fraction, span.price-tag-fraction").First().Text()
	cents := card.Find("span.andes-money-amount__cents, span.price-tag-cents").First().Text()
	price, err := parse.PriceFromParts(whole, cents)
	if err != nil {
		return domain.ScrapedResult{}, false
	}

	href, exists := card.Find("a.ui-search-link, a.ui-search-result__content").First().Attr("href")
	if !exists || href == "" {
		return domain.ScrapedResult{}, false
	}
	productURL, err := urls.Canonical(href, base)
	if err != nil {
		return domain.ScrapedResult{}, false
	}

	return domain.ScrapedResult{
		SourceName:        mercadoLibreName,
		SourceProductName: name,
		Price:             price,
		Currency:          domain.DefaultCurrency,
		ProductURL:        productURL,
		ScrapedAt:         scrapedAt,
	}, true
}

// cleanText collapses internal whitespace and trims the result.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
