package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-resty/resty/v2"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/utils"
)

// ExchangeClient looks up the USD→PLN mid rate from the central-bank
// rates API. The rate is fetched at most once per run; any failure
// falls back to the configured default and is never fatal.
type ExchangeClient struct {
	logger   *utils.Logger
	http     *resty.Client
	url      string
	fallback float64

	once sync.Once
	rate float64
}

// NewExchangeClient creates an ExchangeClient from config.
func NewExchangeClient(cfg *config.Config, logger *utils.Logger) *ExchangeClient {
	return &ExchangeClient{
		logger:   logger,
		http:     resty.New().SetTimeout(cfg.HTTPTimeout),
		url:      cfg.ExchangeRateURL,
		fallback: cfg.ExchangeRateFallback,
	}
}

type ratesResponse struct {
	Rates []struct {
		Mid float64 `json:"mid"`
	} `json:"rates"`
}

// Rate returns the USD→PLN rate, fetching it on first use.
func (c *ExchangeClient) Rate(ctx context.Context) float64 {
	c.once.Do(func() {
		c.rate = c.fetch(ctx)
	})
	return c.rate
}

func (c *ExchangeClient) fetch(ctx context.Context) float64 {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		c.logger.Warn("[exchange] Rate lookup failed: %v — defaulting to %.2f", err, c.fallback)
		return c.fallback
	}
	if resp.IsError() {
		c.logger.Warn("[exchange] Rate lookup returned %s — defaulting to %.2f", resp.Status(), c.fallback)
		return c.fallback
	}

	var body ratesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || len(body.Rates) == 0 {
		c.logger.Warn("[exchange] Unusable rate payload — defaulting to %.2f", c.fallback)
		return c.fallback
	}

	rate := body.Rates[0].Mid
	if rate <= 0 {
		c.logger.Warn("[exchange] Non-positive rate %.4f — defaulting to %.2f", rate, c.fallback)
		return c.fallback
	}

	c.logger.Info("[exchange] USD→PLN rate: %.4f", rate)
	return rate
}
