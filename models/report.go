package models

// RunReport holds the computed summary of one pipeline run.
type RunReport struct {
	MarketRows    int
	RetailRows    int
	JoinedRows    int
	Opportunities int

	BestOpportunity       *ScoredRecord
	TopByProfit           []*ScoredRecord
	OpportunitiesBySource map[string]int
}
