package scraper

import (
	"context"
	"fmt"
	"testing"

	"sneaker-arbitrage/models"
	"sneaker-arbitrage/utils"
)

func testLogger() *utils.Logger { return utils.NewLogger(utils.LevelError) }

func page(n int) []models.ProductRecord {
	return []models.ProductRecord{{ID: fmt.Sprintf("id-%d", n), Price: float64(n), Source: "test"}}
}

func TestPaginatorStopsOnEmptyPage(t *testing.T) {
	p := &Paginator{Source: "test", Logger: testLogger()}

	var requested []int
	records := p.Collect(context.Background(), "part", Cursor{Start: 0, Step: 24},
		func(_ context.Context, cursor int) ([]models.ProductRecord, error) {
			requested = append(requested, cursor)
			if cursor >= 72 {
				return nil, nil
			}
			return page(cursor), nil
		})

	if len(records) != 3 {
		t.Errorf("records: got %d, want 3", len(records))
	}
	want := []int{0, 24, 48, 72}
	if len(requested) != len(want) {
		t.Fatalf("requests issued: got %v, want %v", requested, want)
	}
	for i, cursor := range want {
		if requested[i] != cursor {
			t.Errorf("request %d: got cursor %d, want %d", i, requested[i], cursor)
		}
	}
}

func TestPaginatorPageNumberCursor(t *testing.T) {
	p := &Paginator{Source: "test", Logger: testLogger()}

	var requested []int
	p.Collect(context.Background(), "part", Cursor{Start: 1, Step: 1},
		func(_ context.Context, cursor int) ([]models.ProductRecord, error) {
			requested = append(requested, cursor)
			if cursor > 2 {
				return nil, nil
			}
			return page(cursor), nil
		})

	want := []int{1, 2, 3}
	if len(requested) != len(want) {
		t.Fatalf("requests issued: got %v, want %v", requested, want)
	}
}

func TestPaginatorKeepsRecordsOnTransientError(t *testing.T) {
	p := &Paginator{Source: "test", Logger: testLogger()}

	calls := 0
	records := p.Collect(context.Background(), "part", Cursor{Start: 0, Step: 1},
		func(_ context.Context, cursor int) ([]models.ProductRecord, error) {
			calls++
			if cursor == 2 {
				return nil, fmt.Errorf("connection reset")
			}
			return page(cursor), nil
		})

	if len(records) != 2 {
		t.Errorf("records: got %d, want 2 (pages before the failure)", len(records))
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3 (no requests after the failure)", calls)
	}
}

func TestPaginatorAbortsOnMalformedPayload(t *testing.T) {
	p := &Paginator{Source: "test", Logger: testLogger()}

	calls := 0
	records := p.Collect(context.Background(), "part", Cursor{Start: 0, Step: 1},
		func(_ context.Context, cursor int) ([]models.ProductRecord, error) {
			calls++
			if cursor == 1 {
				return nil, fmt.Errorf("decode: %w: bad json", ErrMalformedPayload)
			}
			return page(cursor), nil
		})

	if len(records) != 1 {
		t.Errorf("records: got %d, want 1", len(records))
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func TestBaseHeadersReturnsFreshMap(t *testing.T) {
	a := BaseHeaders()
	a["user-agent"] = "mutated"
	delete(a, "accept-language")

	b := BaseHeaders()
	if b["user-agent"] == "mutated" {
		t.Error("mutation of one header map leaked into the next")
	}
	if _, ok := b["accept-language"]; !ok {
		t.Error("accept-language missing from fresh header map")
	}
}
