package scraper

import (
	"context"
	"errors"

	"sneaker-arbitrage/models"
	"sneaker-arbitrage/utils"
)

// Cursor describes how a source walks its catalog: the first cursor
// value and the amount it advances by after every non-empty page.
// Page-numbered sources use Step 1; offset sources use their page size.
type Cursor struct {
	Start int
	Step  int
}

// PageFunc fetches and parses the page at the given cursor value,
// returning the records extracted from it. A nil error with zero
// records is the end-of-data signal.
type PageFunc func(ctx context.Context, cursor int) ([]models.ProductRecord, error)

// Paginator runs the shared "empty page = end of data" loop. Each query
// partition gets its own Collect call, so the cursor always restarts at
// Start and parameters never bleed across partitions.
type Paginator struct {
	Source string
	Logger *utils.Logger
}

// Collect pages through one partition until an empty page, a transient
// fetch failure, or a malformed payload. Failures abort the partition
// but keep everything gathered so far; only the empty page is treated
// as the catalog's legitimate end.
func (p *Paginator) Collect(ctx context.Context, partition string, cur Cursor, fetch PageFunc) []models.ProductRecord {
	var records []models.ProductRecord

	for cursor := cur.Start; ; cursor += cur.Step {
		page, err := fetch(ctx, cursor)
		if err != nil {
			if errors.Is(err, ErrMalformedPayload) {
				p.Logger.Error("[%s] partition %q: malformed payload at cursor %d: %v — aborting partition",
					p.Source, partition, cursor, err)
			} else {
				p.Logger.Error("[%s] partition %q: fetch failed at cursor %d: %v — aborting partition",
					p.Source, partition, cursor, err)
			}
			return records
		}

		if len(page) == 0 {
			p.Logger.Info("[%s] partition %q: empty page at cursor %d — end of data",
				p.Source, partition, cursor)
			return records
		}

		records = append(records, page...)
		p.Logger.Debug("[%s] partition %q: cursor %d yielded %d records (total %d)",
			p.Source, partition, cursor, len(page), len(records))
	}
}
