package models

// ProductRecord is one normalized retail listing. ID is the retailer's
// style/model identifier and doubles as the join key against market data.
// Listings missing any of these fields are dropped at parse time, never
// kept as partial records.
type ProductRecord struct {
	ID     string
	Price  float64
	Link   string
	Source string
}

// MarketRecord carries the resale market's signal set for one product,
// taken verbatim from the upstream "market" object. Numeric fields use
// pointers because the upstream payload may omit any of them.
type MarketRecord struct {
	StyleID string
	Title   string

	LowestAsk             *float64
	LowestAskSize         string
	NumberOfAsks          *int
	HasAsks               bool
	SalesThisPeriod       *int
	SalesLastPeriod       *int
	HighestBid            *float64
	HighestBidSize        string
	NumberOfBids          *int
	HasBids               bool
	AnnualHigh            *float64
	AnnualLow             *float64
	DeadstockRangeLow     *float64
	DeadstockRangeHigh    *float64
	Volatility            *float64
	DeadstockSold         *int
	PricePremium          *float64
	AverageDeadstockPrice *float64
	LastSale              *float64
	LastSaleSize          string
	SalesLast72Hours      *int
	ChangeValue           *float64
	ChangePercentage      *float64
	TotalDollars          *float64
	DeadstockSoldRank     *int
}

// JoinedRecord is a MarketRecord with the retail columns attached by the
// left join. RetailID stays empty and Price nil when no retail listing
// matched the style id.
type JoinedRecord struct {
	MarketRecord

	RetailID     string
	Price        *float64
	Link         string
	RetailSource string
}

// ScoredRecord is a JoinedRecord with the profitability math applied.
// ProfitOrLoss is always FinalPriceAfterTaxes minus the retail price.
type ScoredRecord struct {
	JoinedRecord

	FinalPriceAfterTaxes float64
	ProfitOrLoss         float64
}

// Float returns a pointer to v. Handy when building records by hand.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
