package services

import (
	"math"

	"sneaker-arbitrage/models"
	"sneaker-arbitrage/utils"
)

// FeeSchedule holds the resale platform's cut and the fixed shipping
// cost, expressed the way the platform quotes them.
type FeeSchedule struct {
	PaymentProcessingRate float64
	TransactionFeeRate    float64
	ShippingUSD           float64
}

// Thresholds decide which scored rows count as actionable opportunities.
// A row must clear MinProfitPLN, have at least one open bid, and sit
// below MaxVolatility.
type Thresholds struct {
	MinProfitPLN  float64
	MaxVolatility float64
}

// Analyzer converts market figures to PLN, applies the fee model, and
// filters the joined table down to actionable opportunities. It is a
// pure function of its input plus the exchange rate fixed at
// construction, so analyzing the same rows twice gives identical output.
type Analyzer struct {
	logger *utils.Logger
	fees   FeeSchedule
	limits Thresholds
	rate   float64
}

// NewAnalyzer creates an Analyzer with a fixed USD→PLN exchange rate.
func NewAnalyzer(logger *utils.Logger, fees FeeSchedule, limits Thresholds, rate float64) *Analyzer {
	return &Analyzer{logger: logger, fees: fees, limits: limits, rate: rate}
}

// Analyze scores every joined row and returns the opportunities, in
// input order. Rows without a retail match, or where the profit math
// cannot be computed, are dropped.
func (a *Analyzer) Analyze(rows []models.JoinedRecord) []models.ScoredRecord {
	var opportunities []models.ScoredRecord
	scored := 0

	for _, row := range rows {
		if row.RetailID == "" {
			continue
		}

		converted := a.convert(row)
		if converted.AverageDeadstockPrice == nil || converted.Price == nil {
			continue
		}
		scored++

		final := round2(*converted.AverageDeadstockPrice*(1-a.fees.PaymentProcessingRate-a.fees.TransactionFeeRate) -
			a.fees.ShippingUSD*a.rate)
		profit := round2(final - *converted.Price)

		if !a.isOpportunity(profit, converted) {
			continue
		}

		opportunities = append(opportunities, models.ScoredRecord{
			JoinedRecord:         converted,
			FinalPriceAfterTaxes: final,
			ProfitOrLoss:         profit,
		})
	}

	a.logger.Info("[analyzer] Scored %d rows — found %d profitable opportunities at rate %.4f",
		scored, len(opportunities), a.rate)
	return opportunities
}

func (a *Analyzer) isOpportunity(profit float64, row models.JoinedRecord) bool {
	if profit <= a.limits.MinProfitPLN {
		return false
	}
	if row.NumberOfBids == nil || *row.NumberOfBids <= 0 {
		return false
	}
	if row.Volatility == nil || *row.Volatility >= a.limits.MaxVolatility {
		return false
	}
	return true
}

// convert returns a copy of row with every USD-denominated market field
// rebased to PLN. The copy gets fresh pointers, so the caller's row is
// never mutated.
func (a *Analyzer) convert(row models.JoinedRecord) models.JoinedRecord {
	row.AverageDeadstockPrice = a.toPLN(row.AverageDeadstockPrice)
	row.HighestBid = a.toPLN(row.HighestBid)
	row.LowestAsk = a.toPLN(row.LowestAsk)
	row.Volatility = a.toPLN(row.Volatility)
	row.LastSale = a.toPLN(row.LastSale)
	return row
}

func (a *Analyzer) toPLN(v *float64) *float64 {
	if v == nil {
		return nil
	}
	converted := round2(*v * a.rate)
	return &converted
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
