package services

import (
	"testing"

	"sneaker-arbitrage/models"
)

func scoredSample() []models.ScoredRecord {
	mk := func(style, source string, profit float64) models.ScoredRecord {
		return models.ScoredRecord{
			JoinedRecord: models.JoinedRecord{
				MarketRecord: models.MarketRecord{StyleID: style, Title: style},
				RetailID:     style,
				Price:        models.Float(300),
				RetailSource: source,
			},
			FinalPriceAfterTaxes: 300 + profit,
			ProfitOrLoss:         profit,
		}
	}
	return []models.ScoredRecord{
		mk("A", "nike", 80),
		mk("B", "adidas", 250),
		mk("C", "nike", 120),
	}
}

func TestReportCountsAndBest(t *testing.T) {
	svc := NewReportService(testLogger())
	r := svc.Generate(10, 20, 10, scoredSample())

	if r.MarketRows != 10 || r.RetailRows != 20 || r.JoinedRows != 10 {
		t.Errorf("row counts wrong: %+v", r)
	}
	if r.Opportunities != 3 {
		t.Errorf("Opportunities: got %d, want 3", r.Opportunities)
	}
	if r.BestOpportunity == nil || r.BestOpportunity.StyleID != "B" {
		t.Errorf("BestOpportunity: got %+v, want style B", r.BestOpportunity)
	}
}

func TestReportTopByProfitSorted(t *testing.T) {
	svc := NewReportService(testLogger())
	r := svc.Generate(0, 0, 0, scoredSample())

	if len(r.TopByProfit) != 3 {
		t.Fatalf("TopByProfit: got %d entries, want 3", len(r.TopByProfit))
	}
	if r.TopByProfit[0].ProfitOrLoss != 250 || r.TopByProfit[2].ProfitOrLoss != 80 {
		t.Errorf("TopByProfit not sorted by profit: %v, %v",
			r.TopByProfit[0].ProfitOrLoss, r.TopByProfit[2].ProfitOrLoss)
	}
}

func TestReportGroupsBySource(t *testing.T) {
	svc := NewReportService(testLogger())
	r := svc.Generate(0, 0, 0, scoredSample())

	if r.OpportunitiesBySource["nike"] != 2 {
		t.Errorf("nike count: got %d, want 2", r.OpportunitiesBySource["nike"])
	}
	if r.OpportunitiesBySource["adidas"] != 1 {
		t.Errorf("adidas count: got %d, want 1", r.OpportunitiesBySource["adidas"])
	}
}

func TestReportEmptyInput(t *testing.T) {
	svc := NewReportService(testLogger())
	r := svc.Generate(0, 0, 0, nil)

	if r.Opportunities != 0 {
		t.Errorf("expected 0 opportunities for empty input")
	}
	if r.BestOpportunity != nil {
		t.Error("BestOpportunity should be nil for empty input")
	}
}
