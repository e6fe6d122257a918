package eobuwie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/models"
	"sneaker-arbitrage/scraper"
	"sneaker-arbitrage/utils"
)

const (
	sourceName = "eobuwie"
	baseURL    = "https://eobuwie.com.pl/t-api/rest/search/eobuwie/v5/search_web"
	pageLimit  = 72
)

// categories are the two catalog partitions scraped per run.
var categories = []string{
	"meskie/polbuty/sneakersy",
	"damskie/polbuty/sneakersy",
}

// Scraper fetches the Eobuwie catalog through the search API, walking
// each category partition one page at a time.
type Scraper struct {
	logger *utils.Logger
	http   *resty.Client
	url    string
}

// New creates a ready-to-use Eobuwie Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		logger: logger,
		http:   resty.New().SetTimeout(cfg.HTTPTimeout),
		url:    baseURL,
	}
}

func (s *Scraper) Name() string { return sourceName }

// Run walks both category partitions and unions their records. The page
// counter restarts at one for every partition.
func (s *Scraper) Run(ctx context.Context) (*scraper.Result, error) {
	s.logger.Info("[eobuwie] Starting scrape — %d categories", len(categories))

	pager := &scraper.Paginator{Source: sourceName, Logger: s.logger}
	var products []models.ProductRecord

	for _, category := range categories {
		category := category
		partition := pager.Collect(ctx, category, scraper.Cursor{Start: 1, Step: 1},
			func(ctx context.Context, page int) ([]models.ProductRecord, error) {
				return s.fetchPage(ctx, category, page)
			})
		products = append(products, partition...)
	}

	s.logger.Info("[eobuwie] Scrape complete — %d products", len(products))
	return &scraper.Result{Source: sourceName, Products: products}, nil
}

// searchResponse mirrors the slice of the Eobuwie payload the pipeline needs.
type searchResponse struct {
	Products []struct {
		Values struct {
			Model struct {
				Value string `json:"value"`
			} `json:"model"`
			FinalPrice struct {
				Value struct {
					PlPL struct {
						PLN struct {
							Amount *float64 `json:"amount"`
						} `json:"PLN"`
					} `json:"pl_PL"`
				} `json:"value"`
			} `json:"final_price"`
			URLKey struct {
				Value struct {
					PlPL string `json:"pl_PL"`
				} `json:"value"`
			} `json:"url_key"`
		} `json:"values"`
	} `json:"products"`
}

func (s *Scraper) fetchPage(ctx context.Context, category string, page int) ([]models.ProductRecord, error) {
	params := url.Values{
		"channel":      {"eobuwie"},
		"currency":     {"PLN"},
		"locale":       {"pl_PL"},
		"limit":        {strconv.Itoa(pageLimit)},
		"page":         {strconv.Itoa(page)},
		"categories[]": {category},
		"select[]": {
			"product_active",
			"product_badge",
			"final_price",
			"model",
			"url_key",
			"pl_PL",
		},
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeaders(scraper.BaseHeaders()).
		SetQueryParamsFromValues(params).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("eobuwie: request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("eobuwie: unexpected status %s", resp.Status())
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("eobuwie: decode: %w: %v", scraper.ErrMalformedPayload, err)
	}

	return s.parse(body), nil
}

func (s *Scraper) parse(body searchResponse) []models.ProductRecord {
	var records []models.ProductRecord

	for _, product := range body.Products {
		model := strings.TrimSpace(product.Values.Model.Value)
		price := product.Values.FinalPrice.Value.PlPL.PLN.Amount
		urlKey := product.Values.URLKey.Value.PlPL

		if model == "" || price == nil || urlKey == "" {
			s.logger.Warn("[eobuwie] Skipping listing missing model/price/url_key (model %q)", model)
			continue
		}

		records = append(records, models.ProductRecord{
			ID:     ParseModel(model),
			Price:  *price,
			Link:   "https://eobuwie.com.pl/p/" + urlKey,
			Source: sourceName,
		})
	}

	return records
}

// ParseModel derives the style identifier from a whitespace-separated
// model string. A short trailing token on a long enough model is a
// colorway-code suffix, so the identifier keeps the token before it:
// "Air Max V2" -> "Max-V2", "Stan Smith" -> "Smith".
func ParseModel(value string) string {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return ""
	}
	last := tokens[len(tokens)-1]
	if len(last) < 5 && len(tokens) > 2 {
		return tokens[len(tokens)-2] + "-" + last
	}
	return last
}
