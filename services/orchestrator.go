package services

import (
	"context"
	"fmt"

	"sneaker-arbitrage/models"
	"sneaker-arbitrage/scraper"
	"sneaker-arbitrage/utils"
)

// Orchestrator fans out one goroutine per source and joins on all of
// them before anything downstream runs. Collection is keyed by source
// name, so the split below is stable no matter which source finishes
// first.
type Orchestrator struct {
	logger  *utils.Logger
	sources []scraper.Source
}

// NewOrchestrator creates an Orchestrator over the given sources.
func NewOrchestrator(logger *utils.Logger, sources ...scraper.Source) *Orchestrator {
	return &Orchestrator{logger: logger, sources: sources}
}

// RunAll launches every source concurrently, blocks until all have
// finished, and splits the collected output into the market table and
// the row-wise union of the retail tables. A source that returns an
// unrecovered error fails the whole run; the pipeline never joins
// against a silently undercounted table.
func (o *Orchestrator) RunAll(ctx context.Context) ([]models.MarketRecord, []models.ProductRecord, error) {
	results := utils.NewResultMap[*scraper.Result]()
	group := utils.NewTaskGroup()

	for _, src := range o.sources {
		src := src
		group.Go(func() error {
			o.logger.Info("[orchestrator] Source %s started", src.Name())

			res, err := src.Run(ctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}

			results.Put(src.Name(), res)
			o.logger.Info("[orchestrator] Source %s finished", src.Name())
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, fmt.Errorf("orchestrator: %w", err)
	}

	// Split in declared source order so output ordering is deterministic.
	var market []models.MarketRecord
	var retail []models.ProductRecord
	for _, src := range o.sources {
		res, ok := results.Get(src.Name())
		if !ok {
			continue
		}
		market = append(market, res.Market...)
		retail = append(retail, res.Products...)
	}

	o.logger.Info("[orchestrator] All sources complete — %d market rows, %d retail rows",
		len(market), len(retail))
	return market, retail, nil
}
