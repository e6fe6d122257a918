package services

import (
	"reflect"
	"testing"

	"sneaker-arbitrage/models"
)

func defaultFees() FeeSchedule {
	return FeeSchedule{PaymentProcessingRate: 0.03, TransactionFeeRate: 0.09, ShippingUSD: 5.45}
}

func defaultThresholds() Thresholds {
	return Thresholds{MinProfitPLN: 50, MaxVolatility: 1.0}
}

func joinedRow(adpUSD, pricePLN float64) models.JoinedRecord {
	return models.JoinedRecord{
		MarketRecord: models.MarketRecord{
			StyleID:               "DZ5485-612",
			Title:                 "Jordan 1 Retro High OG",
			AverageDeadstockPrice: models.Float(adpUSD),
			HighestBid:            models.Float(120),
			LowestAsk:             models.Float(140),
			LastSale:              models.Float(130),
			Volatility:            models.Float(0.05),
			NumberOfBids:          models.Int(12),
		},
		RetailID:     "DZ5485-612",
		Price:        models.Float(pricePLN),
		Link:         "https://retail.example/dz5485",
		RetailSource: "nike",
	}
}

func TestAnalyzeProfitabilityArithmetic(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	// 100 USD deadstock avg, 300 PLN retail:
	// converted = 400.00, final = 400*0.88 - 21.80 = 330.20, profit = 30.20
	rows := a.Analyze([]models.JoinedRecord{joinedRow(100, 300)})
	if len(rows) != 0 {
		t.Fatalf("profit 30.20 must not pass the >50 filter, got %d rows", len(rows))
	}

	// 150 USD deadstock avg: converted = 600.00, final = 506.20, profit = 206.20
	rows = a.Analyze([]models.JoinedRecord{joinedRow(150, 300)})
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}

	r := rows[0]
	if *r.AverageDeadstockPrice != 600.00 {
		t.Errorf("converted ADP: got %.2f, want 600.00", *r.AverageDeadstockPrice)
	}
	if r.FinalPriceAfterTaxes != 506.20 {
		t.Errorf("FinalPriceAfterTaxes: got %.2f, want 506.20", r.FinalPriceAfterTaxes)
	}
	if r.ProfitOrLoss != 206.20 {
		t.Errorf("ProfitOrLoss: got %.2f, want 206.20", r.ProfitOrLoss)
	}
}

func TestAnalyzeConvertsUSDFields(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	rows := a.Analyze([]models.JoinedRecord{joinedRow(150, 300)})
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}

	r := rows[0]
	if *r.HighestBid != 480.00 {
		t.Errorf("HighestBid: got %.2f, want 480.00", *r.HighestBid)
	}
	if *r.LowestAsk != 560.00 {
		t.Errorf("LowestAsk: got %.2f, want 560.00", *r.LowestAsk)
	}
	if *r.LastSale != 520.00 {
		t.Errorf("LastSale: got %.2f, want 520.00", *r.LastSale)
	}
	if *r.Volatility != 0.20 {
		t.Errorf("Volatility: got %.2f, want 0.20", *r.Volatility)
	}
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	input := []models.JoinedRecord{joinedRow(150, 300)}
	a.Analyze(input)

	if *input[0].AverageDeadstockPrice != 150 {
		t.Errorf("input ADP mutated: got %.2f, want 150", *input[0].AverageDeadstockPrice)
	}
	if *input[0].Volatility != 0.05 {
		t.Errorf("input volatility mutated: got %.2f, want 0.05", *input[0].Volatility)
	}
}

func TestAnalyzeIdempotence(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	input := []models.JoinedRecord{joinedRow(150, 300), joinedRow(200, 400)}
	first := a.Analyze(input)
	second := a.Analyze(input)

	if !reflect.DeepEqual(first, second) {
		t.Error("analyzing the same rows twice produced different output")
	}
}

func TestAnalyzeDropsRowsWithoutJoinKey(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	unmatched := joinedRow(500, 0)
	unmatched.RetailID = ""
	unmatched.Price = nil

	rows := a.Analyze([]models.JoinedRecord{unmatched})
	if len(rows) != 0 {
		t.Errorf("rows without a retail match must be dropped, got %d", len(rows))
	}
}

func TestAnalyzeFilterRequiresBidsAndLowVolatility(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	noBids := joinedRow(150, 300)
	noBids.NumberOfBids = models.Int(0)

	nilBids := joinedRow(150, 300)
	nilBids.NumberOfBids = nil

	volatile := joinedRow(150, 300)
	volatile.Volatility = models.Float(0.3) // 1.20 after conversion

	rows := a.Analyze([]models.JoinedRecord{noBids, nilBids, volatile})
	if len(rows) != 0 {
		t.Errorf("filter should exclude all three rows, got %d", len(rows))
	}
}

func TestAnalyzePreservesInputOrder(t *testing.T) {
	a := NewAnalyzer(testLogger(), defaultFees(), defaultThresholds(), 4.0)

	first := joinedRow(150, 300)
	first.StyleID = "FIRST"
	second := joinedRow(400, 300)
	second.StyleID = "SECOND"

	rows := a.Analyze([]models.JoinedRecord{first, second})
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].StyleID != "FIRST" || rows[1].StyleID != "SECOND" {
		t.Errorf("input order not preserved: got %q, %q", rows[0].StyleID, rows[1].StyleID)
	}
}
