// ABOUTME: Tests for the Falabella source adapter
// ABOUTME: Covers URL building, colly fetch against a local server, pod and JSON-LD extraction

package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"precios-api/core/errors"
	"precios-api/core/interfaces"
)

const falabellaListing = `<!DOCTYPE html>
<html><body>
<div id="testId-searchResults">
  <div class="pod">
    <a class="pod-link" href="/falabella-cl/product/1234/notebook-hp">
      <b class="pod-title">Notebook HP 14</b>
    </a>
    <li class="price-best"><span class="copy1">$ 449.990</span></li>
  </div>
  <div class="pod">
    <a class="pod-link" href="https://www.falabella.com/falabella-cl/product/5678/tablet">
      <b class="pod-title">Tablet Samsung</b>
    </a>
    <li class="price-original"><span class="copy3">$ 189.990.--</span></li>
  </div>
  <div class="pod">
    <a class="pod-link" href="/falabella-cl/product/9999/sin-precio">
      <b class="pod-title">Producto sin precio</b>
    </a>
  </div>
</div>
</body></html>`

const falabellaJSONLD = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{
  "@type": "ItemList",
  "itemListElement": [
    {
      "@type": "Product",
      "name": "Notebook  Acer Aspire",
      "url": "https://www.falabella.com/falabella-cl/product/111/acer",
      "offers": {"@type": "Offer", "price": 399990}
    },
    {
      "@type": "Product",
      "name": "Audifonos Sony",
      "url": "https://www.falabella.com/falabella-cl/product/222/sony",
      "offers": {"@type": "Offer", "price": "89.990"}
    },
    {
      "@type": "Product",
      "name": "Sin oferta",
      "url": "https://www.falabella.com/falabella-cl/product/333/x"
    }
  ]
}
</script>
</head><body><div>no pods here</div></body></html>`

func TestFalabellaName(t *testing.T) {
	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{})
	if adapter.Name() != "Falabella" {
		t.Errorf("Name() = %q, want Falabella", adapter.Name())
	}
}

func TestFalabellaBuildQueryTarget(t *testing.T) {
	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{})

	target, err := adapter.BuildQueryTarget("notebook gamer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://www.falabella.com/falabella-cl/search?Ntt=notebook+gamer"
	if target.URL != want {
		t.Errorf("URL = %q, want %q", target.URL, want)
	}
}

func TestFalabellaFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(falabellaListing))
	}))
	defer server.Close()

	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{BaseURL: server.URL})

	target, _ := adapter.BuildQueryTarget("notebook")
	body, err := adapter.Fetch(context.Background(), target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected a non-empty body")
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("User-Agent = %q, want a browser agent", gotUA)
	}
}

func TestFalabellaFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{BaseURL: server.URL})

	target, _ := adapter.BuildQueryTarget("notebook")
	_, err := adapter.Fetch(context.Background(), target)
	if !errors.IsFetch(err) {
		t.Errorf("expected fetch error on 503, got %v", err)
	}
}

func TestFalabellaFetchExpiredContext(t *testing.T) {
	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{BaseURL: "http://127.0.0.1:1"})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	target := &interfaces.QueryTarget{URL: "http://127.0.0.1:1/search?Ntt=x"}
	if _, err := adapter.Fetch(ctx, target); !errors.IsFetch(err) {
		t.Errorf("expected fetch error for expired context, got %v", err)
	}
}

func TestFalabellaExtractPods(t *testing.T) {
	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{})

	results, err := adapter.Extract([]byte(falabellaListing), "notebook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.SourceProductName != "Notebook HP 14" {
		t.Errorf("name = %q", first.SourceProductName)
	}
	if first.Price != 449990 {
		t.Errorf("price = %v, want 449990", first.Price)
	}
	if !strings.HasPrefix(first.ProductURL, "https://www.falabella.com/") {
		t.Errorf("relative URL not resolved: %q", first.ProductURL)
	}

	// The second pod only carries a list price with a trailing ".--".
	if results[1].Price != 189990 {
		t.Errorf("list price = %v, want 189990", results[1].Price)
	}
}

func TestFalabellaExtractJSONLDFallback(t *testing.T) {
	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{})

	results, err := adapter.Extract([]byte(falabellaJSONLD), "notebook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results from JSON-LD, got %d", len(results))
	}

	if results[0].SourceProductName != "Notebook Acer Aspire" {
		t.Errorf("name = %q, whitespace not collapsed", results[0].SourceProductName)
	}
	if results[0].Price != 399990 {
		t.Errorf("numeric price = %v, want 399990", results[0].Price)
	}
	if results[1].Price != 89990 {
		t.Errorf("formatted price = %v, want 89990", results[1].Price)
	}
}

func TestFalabellaExtractPodsWinOverJSONLD(t *testing.T) {
	adapter := NewFalabella(&mockLogger{}, FalabellaConfig{})

	page := strings.Replace(falabellaJSONLD, "<div>no pods here</div>",
		`<div class="pod">
			<a class="pod-link" href="/falabella-cl/product/1/x"><b class="pod-title">Desde el pod</b></a>
			<span class="copy1">$ 9.990</span>
		</div>`, 1)

	results, err := adapter.Extract([]byte(page), "notebook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || results[0].SourceProductName != "Desde el pod" {
		t.Fatalf("expected the pod result to take precedence, got %+v", results)
	}
}
