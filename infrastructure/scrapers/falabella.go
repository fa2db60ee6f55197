// ABOUTME: Falabella Chile source adapter for price searches
// ABOUTME: Fetches listing pages with colly and parses product pods with a JSON-LD fallback

package scrapers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"

	"precios-api/core/domain"
	"precios-api/core/errors"
	"precios-api/core/interfaces"
	"precios-api/pkg/utils/parse"
	"precios-api/pkg/utils/urls"
)

const (
	falabellaName    = "Falabella"
	falabellaBaseURL = "https://www.falabella.com/falabella-cl"

	falabellaUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	falabellaFetchTimeout = 30 * time.Second
)

// Falabella scrapes the Falabella Chile search page.
type Falabella struct {
	logger  interfaces.Logger
	baseURL string
}

// FalabellaConfig configures the Falabella adapter.
type FalabellaConfig struct {
	// BaseURL overrides the production site URL, mainly for tests.
	BaseURL string
}

// NewFalabella creates a Falabella source adapter.
func NewFalabella(logger interfaces.Logger, config FalabellaConfig) *Falabella {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = falabellaBaseURL
	}
	return &Falabella{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the source name used in results and per-source job status.
func (f *Falabella) Name() string {
	return falabellaName
}

// BuildQueryTarget builds the search URL for a normalized query.
func (f *Falabella) BuildQueryTarget(normalizedQuery string) (*interfaces.QueryTarget, error) {
	if normalizedQuery == "" {
		return nil, &errors.ParseError{Source: falabellaName, Message: "empty query"}
	}
	return &interfaces.QueryTarget{
		URL: fmt.Sprintf("%s/search?Ntt=%s", f.baseURL, url.QueryEscape(normalizedQuery)),
	}, nil
}

// Fetch downloads the search page body using colly.
func (f *Falabella) Fetch(ctx context.Context, target *interfaces.QueryTarget) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(falabellaUserAgent),
		colly.MaxBodySize(maxPageBytes),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)

	timeout := falabellaFetchTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, &errors.FetchError{Source: falabellaName, URL: target.URL, Err: ctx.Err()}
	}
	c.SetRequestTimeout(timeout)

	var body []byte
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		for key, value := range target.Headers {
			r.Headers.Set(key, value)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(target.URL); err != nil {
		return nil, &errors.FetchError{Source: falabellaName, URL: target.URL, Err: err}
	}
	c.Wait()

	if fetchErr != nil {
		return nil, &errors.FetchError{Source: falabellaName, URL: target.URL, Err: fetchErr}
	}
	if len(body) == 0 {
		return nil, &errors.FetchError{
			Source: falabellaName,
			URL:    target.URL,
			Err:    fmt.Errorf("empty response body"),
		}
	}
	return body, nil
}

// Extract parses product pods out of a search page, falling back to JSON-LD
// structured data when the grid markup yields nothing.
func (f *Falabella) Extract(page []byte, normalizedQuery string) ([]domain.ScrapedResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, &errors.ParseError{Source: falabellaName, Message: err.Error()}
	}

	base, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, &errors.ParseError{Source: falabellaName, Message: err.Error()}
	}

	now := time.Now().UTC()
	results := f.extractPods(doc, base, now)

	if len(results) == 0 {
		results = f.extractJSONLD(doc, base, now)
	}

	if f.logger != nil {
		f.logger.Debug("Extracted Falabella listing", map[string]interface{}{
			"query":   normalizedQuery,
			"results": len(results),
		})
	}

	return results, nil
}

func (f *Falabella) extractPods(doc *goquery.Document, base *url.URL, scrapedAt time.Time) []domain.ScrapedResult {
	var results []domain.ScrapedResult

	doc.Find("div.pod, div.product-card, div.product-item").Each(func(i int, pod *goquery.Selection) {
		name := cleanText(pod.Find("b.pod-title, span.copy10, div.product-card__name, a.product-item__name").First().Text())
		if name == "" {
			if title, ok := pod.Find("a[title]").First().Attr("title"); ok {
				name = cleanText(title)
			}
		}
		if name == "" {
			return
		}

		price, ok := f.extractPodPrice(pod)
		if !ok {
			return
		}

		href, exists := pod.Find("a.pod-link, div.product-card__name a, a.product-item__name, a.product-item__image").First().Attr("href")
		if !exists || href == "" {
			return
		}
		productURL, err := urls.Canonical(href, base)
		if err != nil {
			return
		}

		results = append(results, domain.ScrapedResult{
			SourceName:        falabellaName,
			SourceProductName: name,
			Price:             price,
			Currency:          domain.DefaultCurrency,
			ProductURL:        productURL,
			ScrapedAt:         scrapedAt,
		})
	})

	return results
}

// extractPodPrice prefers the offer price and falls back to the list price.
func (f *Falabella) extractPodPrice(pod *goquery.Selection) (float64, bool) {
	selectors := []string{
		"li.price-best span.copy1",
		"span.copy1",
		"div.product-card__price",
		"span.product-item__price",
		"li.price-original span.copy3",
	}

	for _, selector := range selectors {
		text := cleanText(pod.Find(selector).First().Text())
		if text == "" {
			continue
		}
		// Some prices render a trailing ".--" for zero cents.
		text = strings.Split(text, ".--")[0]
		if price, err := parse.Price(text); err == nil {
			return price, true
		}
	}
	return 0, false
}

// ldItemList mirrors the schema.org ItemList structure Falabella embeds.
type ldItemList struct {
	Type     string `json:"@type"`
	Elements []struct {
		Type   string `json:"@type"`
		Name   string `json:"name"`
		URL    string `json:"url"`
		Offers struct {
			Type  string          `json:"@type"`
			Price json.RawMessage `json:"price"`
		} `json:"offers"`
	} `json:"itemListElement"`
}

func (f *Falabella) extractJSONLD(doc *goquery.Document, base *url.URL, scrapedAt time.Time) []domain.ScrapedResult {
	var results []domain.ScrapedResult

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, script *goquery.Selection) bool {
		var list ldItemList
		if err := json.Unmarshal([]byte(script.Text()), &list); err != nil {
			return true
		}
		if list.Type != "ItemList" {
			return true
		}

		for _, element := range list.Elements {
			if element.Type != "Product" || element.Name == "" || element.URL == "" {
				continue
			}

			// Price is either a JSON number or a Chilean-formatted string;
			// the two disagree on what a dot means.
			raw := string(element.Offers.Price)
			var price float64
			var priceErr error
			if strings.HasPrefix(raw, `"`) {
				price, priceErr = parse.Price(strings.Trim(raw, `"`))
			} else if raw != "" && raw != "null" {
				price, priceErr = strconv.ParseFloat(raw, 64)
			} else {
				continue
			}
			if priceErr != nil || price < 0 {
				continue
			}

			productURL, err := urls.Canonical(element.URL, base)
			if err != nil {
				continue
			}

			results = append(results, domain.ScrapedResult{
				SourceName:        falabellaName,
				SourceProductName: cleanText(element.Name),
				Price:             price,
				Currency:          domain.DefaultCurrency,
				ProductURL:        productURL,
				ScrapedAt:         scrapedAt,
			})
		}

		return len(results) == 0
	})

	return results
}
