package main

import (
	"context"
	"fmt"
	"os"

	"sneaker-arbitrage/config"
	"sneaker-arbitrage/scraper"
	"sneaker-arbitrage/scraper/adidas"
	"sneaker-arbitrage/scraper/eobuwie"
	"sneaker-arbitrage/scraper/nike"
	"sneaker-arbitrage/scraper/stockx"
	"sneaker-arbitrage/services"
	"sneaker-arbitrage/storage"
	"sneaker-arbitrage/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))
	ctx := context.Background()

	logger.Info("=== Sneaker Arbitrage Scanner starting ===")
	logger.Info("Config — http timeout: %v | settle: %v | min profit: %.0f PLN | max volatility: %.2f",
		cfg.HTTPTimeout, cfg.BrowserSettle, cfg.MinProfitPLN, cfg.MaxVolatility)

	sources := []scraper.Source{
		stockx.New(cfg, logger),
		nike.New(cfg, logger),
		adidas.New(cfg, logger),
		eobuwie.New(cfg, logger),
	}

	orchestrator := services.NewOrchestrator(logger, sources...)
	market, retail, err := orchestrator.RunAll(ctx)
	if err != nil {
		logger.Error("Fetch failed: %v", err)
		os.Exit(1)
	}

	reconciler := services.NewReconciler(logger)
	joined, err := reconciler.Join(market, retail)
	if err != nil {
		logger.Error("Join failed: %v", err)
		os.Exit(1)
	}

	mergedWriter, err := storage.NewCSVWriter(cfg.MergedCSVPath)
	if err != nil {
		logger.Error("Failed to create merged CSV writer: %v", err)
		os.Exit(1)
	}
	if err := mergedWriter.WriteJoined(joined); err != nil {
		logger.Error("Merged CSV write failed: %v", err)
	} else {
		logger.Info("Merged table saved to %s", cfg.MergedCSVPath)
	}
	_ = mergedWriter.Close()

	exchange := services.NewExchangeClient(cfg, logger)
	rate := exchange.Rate(ctx)

	analyzer := services.NewAnalyzer(logger,
		services.FeeSchedule{
			PaymentProcessingRate: cfg.PaymentProcessingRate,
			TransactionFeeRate:    cfg.TransactionFeeRate,
			ShippingUSD:           cfg.ShippingUSD,
		},
		services.Thresholds{
			MinProfitPLN:  cfg.MinProfitPLN,
			MaxVolatility: cfg.MaxVolatility,
		},
		rate,
	)
	scored := analyzer.Analyze(joined)

	opportunityWriter, err := storage.NewCSVWriter(cfg.OpportunitiesCSVPath)
	if err != nil {
		logger.Error("Failed to create opportunities CSV writer: %v", err)
		os.Exit(1)
	}
	if err := opportunityWriter.WriteScored(scored); err != nil {
		logger.Error("Opportunities CSV write failed: %v", err)
	} else {
		logger.Info("Opportunities saved to %s", cfg.OpportunitiesCSVPath)
	}
	_ = opportunityWriter.Close()

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			if err := pgWriter.WriteScored(scored); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Opportunities stored in PostgreSQL (table: opportunities)")
			}
			_ = pgWriter.Close()
		}
	}

	reportSvc := services.NewReportService(logger)
	report := reportSvc.Generate(len(market), len(retail), len(joined), scored)
	reportSvc.Print(report)

	fmt.Printf("  Done. Merged table → %s | Opportunities → %s\n\n",
		cfg.MergedCSVPath, cfg.OpportunitiesCSVPath)
}
