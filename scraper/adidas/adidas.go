package adidas

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/models"
	"sneaker-arbitrage/scraper"
	"sneaker-arbitrage/utils"
)

const (
	sourceName = "adidas"
	baseURL    = "https://www.adidas.pl/api/plp/content-engine"
	startStep  = 48
)

// queries are the two catalog partitions scraped per run.
var queries = []string{"mezczyzni-buty", "kobiety-buty"}

// Scraper fetches the Adidas catalog through the content-engine API,
// walking each query partition with a numeric start offset.
type Scraper struct {
	logger *utils.Logger
	http   *resty.Client
	url    string
}

// New creates a ready-to-use Adidas Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		logger: logger,
		http:   resty.New().SetTimeout(cfg.HTTPTimeout),
		url:    baseURL,
	}
}

func (s *Scraper) Name() string { return sourceName }

// Run walks both query partitions and unions their records. The start
// offset restarts at zero for every partition.
func (s *Scraper) Run(ctx context.Context) (*scraper.Result, error) {
	s.logger.Info("[adidas] Starting scrape — %d query partitions", len(queries))

	pager := &scraper.Paginator{Source: sourceName, Logger: s.logger}
	var products []models.ProductRecord

	for _, query := range queries {
		query := query
		partition := pager.Collect(ctx, query, scraper.Cursor{Start: 0, Step: startStep},
			func(ctx context.Context, start int) ([]models.ProductRecord, error) {
				return s.fetchPage(ctx, query, start)
			})
		products = append(products, partition...)
	}

	s.logger.Info("[adidas] Scrape complete — %d products", len(products))
	return &scraper.Result{Source: sourceName, Products: products}, nil
}

// contentResponse mirrors the slice of the Adidas payload the pipeline needs.
type contentResponse struct {
	Raw struct {
		ItemList struct {
			Items []json.RawMessage `json:"items"`
		} `json:"itemList"`
	} `json:"raw"`
}

type item struct {
	ModelID   *string  `json:"modelId"`
	SalePrice *float64 `json:"salePrice"`
	Link      *string  `json:"link"`
}

func (s *Scraper) fetchPage(ctx context.Context, query string, start int) ([]models.ProductRecord, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeaders(headers()).
		SetQueryParams(map[string]string{
			"experiment": "CORP_BEN",
			"query":      query,
			"start":      strconv.Itoa(start),
		}).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("adidas: request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("adidas: unexpected status %s", resp.Status())
	}

	var body contentResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("adidas: decode: %w: %v", scraper.ErrMalformedPayload, err)
	}

	return s.parse(body), nil
}

func (s *Scraper) parse(body contentResponse) []models.ProductRecord {
	var records []models.ProductRecord

	for _, raw := range body.Raw.ItemList.Items {
		var it item
		if err := json.Unmarshal(raw, &it); err != nil {
			s.logger.Warn("[adidas] Skipping undecodable item: %v", err)
			continue
		}
		if it.ModelID == nil || it.SalePrice == nil || it.Link == nil {
			s.logger.Warn("[adidas] Skipping item missing modelId/salePrice/link")
			continue
		}

		records = append(records, models.ProductRecord{
			ID:     *it.ModelID,
			Price:  *it.SalePrice,
			Link:   "https://www.adidas.pl/" + *it.Link,
			Source: sourceName,
		})
	}

	return records
}

// headers is the shared spoofed identity with the Adidas-specific
// overrides: an Android UA and no accept-language.
func headers() map[string]string {
	h := scraper.BaseHeaders()
	h["user-agent"] = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Mobile Safari/537.36"
	delete(h, "accept-language")
	return h
}
