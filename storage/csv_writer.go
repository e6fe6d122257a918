package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"sneaker-arbitrage/models"
)

// CSVWriter writes one tabular artifact to a CSV file. It is safe for
// concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically. The header row is
// written by the first Write call, since it depends on the record type.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

var joinedHeader = []string{
	"style_id", "title", "lowest_ask", "highest_bid", "last_sale",
	"average_deadstock_price", "volatility", "number_of_bids",
	"number_of_asks", "sales_last_period",
	"retail_id", "price", "link", "source",
}

// WriteJoined writes the merged market+retail table.
func (c *CSVWriter) WriteJoined(rows []models.JoinedRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writer.Write(joinedHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i := range rows {
		if err := c.writer.Write(joinedRow(&rows[i])); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// WriteScored writes the final opportunity table.
func (c *CSVWriter) WriteScored(rows []models.ScoredRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := append(append([]string{}, joinedHeader...),
		"final_price_after_taxes", "profit_or_loss")
	if err := c.writer.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for i := range rows {
		row := append(joinedRow(&rows[i].JoinedRecord),
			formatFloat(rows[i].FinalPriceAfterTaxes),
			formatFloat(rows[i].ProfitOrLoss))
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func joinedRow(r *models.JoinedRecord) []string {
	return []string{
		r.StyleID,
		r.Title,
		formatFloatPtr(r.LowestAsk),
		formatFloatPtr(r.HighestBid),
		formatFloatPtr(r.LastSale),
		formatFloatPtr(r.AverageDeadstockPrice),
		formatFloatPtr(r.Volatility),
		formatIntPtr(r.NumberOfBids),
		formatIntPtr(r.NumberOfAsks),
		formatIntPtr(r.SalesLastPeriod),
		r.RetailID,
		formatFloatPtr(r.Price),
		r.Link,
		r.RetailSource,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
