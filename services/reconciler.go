package services

import (
	"errors"
	"fmt"

	"sneaker-arbitrage/models"
	"sneaker-arbitrage/utils"
)

// ErrJoinIntegrity is returned when a table required for the join has
// no rows. An empty input would silently produce an all-null or empty
// result table, so it is fatal for the run instead.
var ErrJoinIntegrity = errors.New("join input table is empty")

// Reconciler left-joins market rows to retail rows on the shared style
// identifier.
type Reconciler struct {
	logger *utils.Logger
}

// NewReconciler creates a Reconciler with the given logger.
func NewReconciler(logger *utils.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Join attaches retail columns to every market row whose styleId has a
// matching retail id. Market rows without a match are retained with
// empty retail columns. Retail rows are deduplicated by id first,
// keeping the lowest price, so the join is one-to-at-most-one.
func (r *Reconciler) Join(market []models.MarketRecord, retail []models.ProductRecord) ([]models.JoinedRecord, error) {
	if len(market) == 0 {
		return nil, fmt.Errorf("reconciler: market table: %w", ErrJoinIntegrity)
	}
	if len(retail) == 0 {
		return nil, fmt.Errorf("reconciler: retail table: %w", ErrJoinIntegrity)
	}

	best := r.dedupe(retail)

	joined := make([]models.JoinedRecord, 0, len(market))
	matched := 0
	for _, m := range market {
		j := models.JoinedRecord{MarketRecord: m}
		if p, ok := best[m.StyleID]; ok {
			price := p.Price
			j.RetailID = p.ID
			j.Price = &price
			j.Link = p.Link
			j.RetailSource = p.Source
			matched++
		}
		joined = append(joined, j)
	}

	r.logger.Info("[reconciler] Joined %d market rows against %d retail ids — %d matched",
		len(market), len(best), matched)
	return joined, nil
}

// dedupe collapses duplicate retail listings (the same id seen across
// pages or sources) down to the cheapest one.
func (r *Reconciler) dedupe(retail []models.ProductRecord) map[string]models.ProductRecord {
	best := make(map[string]models.ProductRecord, len(retail))
	for _, p := range retail {
		if p.ID == "" {
			continue
		}
		if cur, ok := best[p.ID]; !ok || p.Price < cur.Price {
			best[p.ID] = p
		}
	}

	if dropped := len(retail) - len(best); dropped > 0 {
		r.logger.Debug("[reconciler] Deduplicated %d retail rows down to %d ids", len(retail), len(best))
	}
	return best
}
