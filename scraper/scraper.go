package scraper

import (
	"context"
	"errors"

	"sneaker-arbitrage/models"
)

// Source is a single catalog source. Run fetches and normalizes the
// source's full catalog. Recoverable problems (a failed page, a listing
// missing a field) are handled inside Run; a returned error means the
// source produced nothing usable and the run must not proceed to the
// join with an undercounted table.
type Source interface {
	Name() string
	Run(ctx context.Context) (*Result, error)
}

// Result is one source's normalized output, tagged by source name.
// Retail sources fill Products; the resale-market source fills Market.
type Result struct {
	Source   string
	Products []models.ProductRecord
	Market   []models.MarketRecord
}

// ErrMalformedPayload marks a response body that decoded but did not
// have the expected shape. It is deliberately distinct from a clean
// empty page so a transient parse failure cannot masquerade as the end
// of a catalog.
var ErrMalformedPayload = errors.New("malformed payload")

// BaseHeaders returns the spoofed mobile-browser identity shared by the
// retail sources. Callers get a fresh map each time; mutating it cannot
// bleed into another source's requests.
func BaseHeaders() map[string]string {
	return map[string]string{
		"accept":           "application/json",
		"accept-encoding":  "utf-8",
		"accept-language":  "en-GB,en;q=0.9",
		"sec-fetch-dest":   "empty",
		"sec-fetch-mode":   "cors",
		"sec-fetch-site":   "same-origin",
		"user-agent":       "Mozilla/5.0 (iPhone; CPU iPhone OS 13_2_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.0.3 Mobile/15E148 Safari/604.1",
		"x-requested-with": "XMLHttpRequest",
		"app-platform":     "Iron",
		"app-version":      "2022.05.08.04",
	}
}
