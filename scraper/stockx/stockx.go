package stockx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/models"
	"sneaker-arbitrage/scraper"
	"sneaker-arbitrage/utils"
)

const (
	sourceName = "stockx"
	browseURL  = "https://stockx.com/api/browse"
)

// Scraper fetches resale market data from the StockX browse API. The
// endpoint only serves JavaScript-rendered delivery, so each query is
// loaded in a headless browser and the JSON payload is lifted out of
// the <pre> block of the rendered page. There is no pagination: one
// request per configured search query.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use StockX Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

func (s *Scraper) Name() string { return sourceName }

// Run starts one headless browser for the whole source and issues one
// request per search query. A failed query is logged and skipped, but
// when every query fails (a browser that never came up looks like
// this) the source reports the failure instead of returning an empty
// table.
func (s *Scraper) Run(ctx context.Context) (*scraper.Result, error) {
	s.logger.Info("[stockx] Starting scrape — %d queries", len(s.cfg.StockXQueries))

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[stockx] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	var market []models.MarketRecord
	var lastErr error
	failed := 0
	for _, query := range s.cfg.StockXQueries {
		records, err := s.fetchQuery(allocCtx, query)
		if err != nil {
			s.logger.Error("[stockx] Query %q failed: %v", query, err)
			failed++
			lastErr = err
			continue
		}
		market = append(market, records...)
		s.logger.Info("[stockx] Query %q yielded %d records", query, len(records))
	}

	if failed > 0 && failed == len(s.cfg.StockXQueries) {
		return nil, fmt.Errorf("stockx: all %d queries failed: %w", failed, lastErr)
	}

	s.logger.Info("[stockx] Scrape complete — %d market records", len(market))
	return &scraper.Result{Source: sourceName, Market: market}, nil
}

// fetchQuery navigates the browser to the browse endpoint for one
// search query, waits the fixed settle period, and extracts the
// rendered payload.
func (s *Scraper) fetchQuery(allocCtx context.Context, query string) ([]models.MarketRecord, error) {
	pageURL := fmt.Sprintf("%s?_search=%s&resultsPerPage=%d",
		browseURL, query, s.cfg.StockXResultsPerPage)

	var pageSource string
	err := s.retry.Do(allocCtx, fmt.Sprintf("stockx-query-%s", query), func() error {
		tabCtx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(s.cfg.BrowserSettle),
			chromedp.OuterHTML("html", &pageSource),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("stockx: navigate: %w", err)
	}

	return s.extractPayload(pageSource)
}

// browsePayload mirrors the JSON blob the browse endpoint renders.
type browsePayload struct {
	Products []productEntry `json:"Products"`
}

type productEntry struct {
	Title   string       `json:"title"`
	StyleID string       `json:"styleId"`
	Market  marketObject `json:"market"`
}

type marketObject struct {
	LowestAsk             *float64 `json:"lowestAsk"`
	LowestAskSize         string   `json:"lowestAskSize"`
	NumberOfAsks          *int     `json:"numberOfAsks"`
	HasAsks               bool     `json:"hasAsks"`
	SalesThisPeriod       *int     `json:"salesThisPeriod"`
	SalesLastPeriod       *int     `json:"salesLastPeriod"`
	HighestBid            *float64 `json:"highestBid"`
	HighestBidSize        string   `json:"highestBidSize"`
	NumberOfBids          *int     `json:"numberOfBids"`
	HasBids               bool     `json:"hasBids"`
	AnnualHigh            *float64 `json:"annualHigh"`
	AnnualLow             *float64 `json:"annualLow"`
	DeadstockRangeLow     *float64 `json:"deadstockRangeLow"`
	DeadstockRangeHigh    *float64 `json:"deadstockRangeHigh"`
	Volatility            *float64 `json:"volatility"`
	DeadstockSold         *int     `json:"deadstockSold"`
	PricePremium          *float64 `json:"pricePremium"`
	AverageDeadstockPrice *float64 `json:"averageDeadstockPrice"`
	LastSale              *float64 `json:"lastSale"`
	LastSaleSize          string   `json:"lastSaleSize"`
	SalesLast72Hours      *int     `json:"salesLast72Hours"`
	ChangeValue           *float64 `json:"changeValue"`
	ChangePercentage      *float64 `json:"changePercentage"`
	TotalDollars          *float64 `json:"totalDollars"`
	DeadstockSoldRank     *int     `json:"deadstockSoldRank"`
}

// extractPayload pulls the <pre>-tagged JSON blob out of the rendered
// page and normalizes it into market records.
func (s *Scraper) extractPayload(pageSource string) ([]models.MarketRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageSource))
	if err != nil {
		return nil, fmt.Errorf("stockx: parse html: %w: %v", scraper.ErrMalformedPayload, err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return nil, fmt.Errorf("stockx: no <pre> payload in rendered page: %w", scraper.ErrMalformedPayload)
	}

	var payload browsePayload
	if err := json.Unmarshal([]byte(pre.Text()), &payload); err != nil {
		return nil, fmt.Errorf("stockx: decode: %w: %v", scraper.ErrMalformedPayload, err)
	}

	var records []models.MarketRecord
	for _, product := range payload.Products {
		if product.StyleID == "" {
			s.logger.Warn("[stockx] Skipping product with no styleId (title %q)", product.Title)
			continue
		}

		m := product.Market
		records = append(records, models.MarketRecord{
			StyleID: product.StyleID,
			Title:   product.Title,

			LowestAsk:             m.LowestAsk,
			LowestAskSize:         m.LowestAskSize,
			NumberOfAsks:          m.NumberOfAsks,
			HasAsks:               m.HasAsks,
			SalesThisPeriod:       m.SalesThisPeriod,
			SalesLastPeriod:       m.SalesLastPeriod,
			HighestBid:            m.HighestBid,
			HighestBidSize:        m.HighestBidSize,
			NumberOfBids:          m.NumberOfBids,
			HasBids:               m.HasBids,
			AnnualHigh:            m.AnnualHigh,
			AnnualLow:             m.AnnualLow,
			DeadstockRangeLow:     m.DeadstockRangeLow,
			DeadstockRangeHigh:    m.DeadstockRangeHigh,
			Volatility:            m.Volatility,
			DeadstockSold:         m.DeadstockSold,
			PricePremium:          m.PricePremium,
			AverageDeadstockPrice: m.AverageDeadstockPrice,
			LastSale:              m.LastSale,
			LastSaleSize:          m.LastSaleSize,
			SalesLast72Hours:      m.SalesLast72Hours,
			ChangeValue:           m.ChangeValue,
			ChangePercentage:      m.ChangePercentage,
			TotalDollars:          m.TotalDollars,
			DeadstockSoldRank:     m.DeadstockSoldRank,
		})
	}

	return records, nil
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
