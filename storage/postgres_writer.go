package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"sneaker-arbitrage/models"
)

// PostgresWriter persists scored opportunities to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS opportunities (
			id                      SERIAL PRIMARY KEY,
			style_id                VARCHAR(64)   NOT NULL,
			title                   TEXT          NOT NULL DEFAULT '',
			source                  VARCHAR(50)   NOT NULL,
			price                   NUMERIC(10,2) NOT NULL,
			final_price_after_taxes NUMERIC(10,2) NOT NULL,
			profit_or_loss          NUMERIC(10,2) NOT NULL,
			lowest_ask              NUMERIC(10,2),
			highest_bid             NUMERIC(10,2),
			number_of_bids          INTEGER,
			volatility              NUMERIC(8,4),
			link                    TEXT          UNIQUE NOT NULL,
			created_at              TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_opportunities_style_id ON opportunities(style_id);
		CREATE INDEX IF NOT EXISTS idx_opportunities_profit   ON opportunities(profit_or_loss);
		CREATE INDEX IF NOT EXISTS idx_opportunities_source   ON opportunities(source);
	`)
	return err
}

// Clear deletes all existing opportunities from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM opportunities")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// WriteScored batch-inserts all scored opportunities, clearing the
// previous run's rows first.
func (pw *PostgresWriter) WriteScored(rows []models.ScoredRecord) error {
	if len(rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.ScoredRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*11)

	for idx := range batch {
		r := &batch[idx]
		base := idx * 11
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6,
				base+7, base+8, base+9, base+10, base+11))
		valueArgs = append(valueArgs,
			r.StyleID, r.Title, r.RetailSource, nullFloat(r.Price),
			r.FinalPriceAfterTaxes, r.ProfitOrLoss,
			nullFloat(r.LowestAsk), nullFloat(r.HighestBid),
			nullInt(r.NumberOfBids), nullFloat(r.Volatility), r.Link)
	}

	query := fmt.Sprintf(`
		INSERT INTO opportunities (style_id, title, source, price,
			final_price_after_taxes, profit_or_loss,
			lowest_ask, highest_bid, number_of_bids, volatility, link)
		VALUES %s
		ON CONFLICT (link) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
