package adidas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/utils"
)

func testScraper(serverURL string) *Scraper {
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	s := New(cfg, utils.NewLogger(utils.LevelError))
	s.url = serverURL
	return s
}

func itemsJSON(items string) string {
	return fmt.Sprintf(`{"raw": {"itemList": {"items": [%s]}}}`, items)
}

func TestRunNormalizesListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, itemsJSON(""))
			return
		}
		fmt.Fprint(w, itemsJSON(`{"modelId": "JQ1234", "salePrice": 299.0, "link": "stan-smith.html"}`))
	}))
	defer server.Close()

	s := testScraper(server.URL)
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Products) != 2 { // one per query partition
		t.Fatalf("products: got %d, want 2", len(result.Products))
	}

	p := result.Products[0]
	if p.ID != "JQ1234" {
		t.Errorf("ID: got %q, want JQ1234", p.ID)
	}
	if p.Price != 299.0 {
		t.Errorf("Price: got %.2f, want 299.00", p.Price)
	}
	if p.Link != "https://www.adidas.pl/stan-smith.html" {
		t.Errorf("Link: got %q", p.Link)
	}
	if p.Source != "adidas" {
		t.Errorf("Source: got %q, want adidas", p.Source)
	}
}

func TestRunSkipsItemsMissingKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, itemsJSON(""))
			return
		}
		fmt.Fprint(w, itemsJSON(`{"modelId": "NO1111", "salePrice": 100.0, "link": "ok.html"},
			{"salePrice": 100.0, "link": "no-model.html"},
			{"modelId": "NO2222", "link": "no-price.html"}`))
	}))
	defer server.Close()

	s := testScraper(server.URL)
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Products) != 2 { // only the complete item, once per partition
		t.Errorf("products: got %d, want 2 (incomplete items skipped, page kept)", len(result.Products))
	}
}

func TestRunRestartsOffsetPerPartition(t *testing.T) {
	starts := make(map[string][]string)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		start := r.URL.Query().Get("start")
		starts[q] = append(starts[q], start)

		if start == "0" {
			fmt.Fprint(w, itemsJSON(`{"modelId": "AB1234", "salePrice": 100.0, "link": "a.html"}`))
			return
		}
		fmt.Fprint(w, itemsJSON(""))
	}))
	defer server.Close()

	s := testScraper(server.URL)
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, q := range queries {
		got := starts[q]
		if len(got) != 2 || got[0] != "0" || got[1] != "48" {
			t.Errorf("partition %q start offsets: got %v, want [0 48]", q, got)
		}
	}
}

func TestHeadersOverrides(t *testing.T) {
	h := headers()
	if _, ok := h["accept-language"]; ok {
		t.Error("accept-language should be removed for adidas requests")
	}
	if ua := h["user-agent"]; ua == "" || ua[:11] != "Mozilla/5.0" {
		t.Errorf("unexpected user-agent %q", ua)
	}
}
