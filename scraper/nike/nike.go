package nike

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/models"
	"sneaker-arbitrage/scraper"
	"sneaker-arbitrage/utils"
)

const (
	sourceName = "nike"
	baseURL    = "https://api.nike.com/cic/browse/v2"
	anchorStep = 24
)

// attributeIDs are the two catalog partitions scraped per run.
var attributeIDs = []string{
	// women shoes
	"16633190-45e5-4830-a068-232ac7aea82c,7baf216c-acc6-4452-9e07-39c2ca77ba32",
	// men shoes
	"0f64ecc7-d624-4e91-b171-b83a03dd8550,16633190-45e5-4830-a068-232ac7aea82c",
}

// Scraper fetches the Nike catalog through the browse API, walking each
// attribute partition with a numeric anchor offset.
type Scraper struct {
	logger *utils.Logger
	http   *resty.Client
	url    string
}

// New creates a ready-to-use Nike Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		logger: logger,
		http:   resty.New().SetTimeout(cfg.HTTPTimeout),
		url:    baseURL,
	}
}

func (s *Scraper) Name() string { return sourceName }

// Run walks both attribute partitions and unions their records.
func (s *Scraper) Run(ctx context.Context) (*scraper.Result, error) {
	s.logger.Info("[nike] Starting scrape — %d attribute partitions", len(attributeIDs))

	pager := &scraper.Paginator{Source: sourceName, Logger: s.logger}
	var products []models.ProductRecord

	for _, attribute := range attributeIDs {
		attribute := attribute
		partition := pager.Collect(ctx, attribute, scraper.Cursor{Start: 0, Step: anchorStep},
			func(ctx context.Context, anchor int) ([]models.ProductRecord, error) {
				return s.fetchPage(ctx, attribute, anchor)
			})
		products = append(products, partition...)
	}

	s.logger.Info("[nike] Scrape complete — %d products", len(products))
	return &scraper.Result{Source: sourceName, Products: products}, nil
}

// browseResponse mirrors the slice of the Nike payload the pipeline needs.
type browseResponse struct {
	Data struct {
		Products struct {
			Products []struct {
				InStock     bool   `json:"inStock"`
				ProductType string `json:"productType"`
				URL         string `json:"url"`
				Price       struct {
					CurrentPrice float64 `json:"currentPrice"`
				} `json:"price"`
			} `json:"products"`
		} `json:"products"`
	} `json:"data"`
}

func (s *Scraper) fetchPage(ctx context.Context, attribute string, anchor int) ([]models.ProductRecord, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeaders(scraper.BaseHeaders()).
		SetQueryParams(map[string]string{
			"queryid":           "products",
			"anonymousId":       "AA0CFA5C8E52CA284E0B58B1F25BC32C",
			"country":           "pl",
			"language":          "pl",
			"localizedRangeStr": "{lowestPrice} – {highestPrice}",
			"endpoint":          endpointPath(attribute, anchor),
		}).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("nike: request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nike: unexpected status %s", resp.Status())
	}

	var body browseResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("nike: decode: %w: %v", scraper.ErrMalformedPayload, err)
	}

	return s.parse(body), nil
}

func (s *Scraper) parse(body browseResponse) []models.ProductRecord {
	var records []models.ProductRecord

	for _, product := range body.Data.Products.Products {
		if !product.InStock || product.ProductType != "FOOTWEAR" {
			continue
		}
		if len(product.URL) <= 14 || !strings.Contains(product.URL, "/") {
			s.logger.Warn("[nike] Skipping listing with unusable url %q", product.URL)
			continue
		}

		segments := strings.Split(product.URL, "/")
		id := segments[len(segments)-1]
		if id == "" {
			s.logger.Warn("[nike] Skipping listing with empty id (url %q)", product.URL)
			continue
		}

		records = append(records, models.ProductRecord{
			ID:     id,
			Price:  product.Price.CurrentPrice,
			Link:   "https://www.nike.com/pl/" + product.URL[14:],
			Source: sourceName,
		})
	}

	return records
}

// endpointPath builds the nested product-feed endpoint the browse API
// proxies to. The anchor is the absolute offset into the partition.
func endpointPath(attribute string, anchor int) string {
	return fmt.Sprintf(
		"/product_feed/rollup_threads/v2?filter=marketplace(PL)&"+
			"filter=language(pl)&filter=employeePrice(true)&"+
			"filter=attributeIds(%s)&anchor=%d&"+
			"consumerChannelId=d9a5bc42-4b9c-4976-858a-f159cf99c647&count=%d",
		attribute, anchor, anchorStep)
}
