package services

import (
	"fmt"
	"sort"
	"strings"

	"sneaker-arbitrage/models"
	"sneaker-arbitrage/utils"
)

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(marketRows, retailRows, joinedRows int, scored []models.ScoredRecord) *models.RunReport {
	report := &models.RunReport{
		MarketRows:            marketRows,
		RetailRows:            retailRows,
		JoinedRows:            joinedRows,
		Opportunities:         len(scored),
		OpportunitiesBySource: make(map[string]int),
	}

	ranked := make([]*models.ScoredRecord, 0, len(scored))
	for i := range scored {
		r := &scored[i]
		ranked = append(ranked, r)
		if r.RetailSource != "" {
			report.OpportunitiesBySource[r.RetailSource]++
		}
		if report.BestOpportunity == nil || r.ProfitOrLoss > report.BestOpportunity.ProfitOrLoss {
			report.BestOpportunity = r
		}
	}

	// Top 5 by profit
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].ProfitOrLoss > ranked[j].ProfitOrLoss
	})
	if len(ranked) > 5 {
		report.TopByProfit = ranked[:5]
	} else {
		report.TopByProfit = ranked
	}

	return report
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  👟 ARBITRAGE SCAN REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Market rows fetched    : \033[1m%d\033[0m\n", r.MarketRows)
	fmt.Printf("  Retail rows fetched    : \033[1m%d\033[0m\n", r.RetailRows)
	fmt.Printf("  Joined rows            : \033[1m%d\033[0m\n", r.JoinedRows)
	fmt.Printf("  Opportunities found    : \033[1;32m%d\033[0m\n", r.Opportunities)
	fmt.Println()

	// Best Opportunity
	if r.BestOpportunity != nil {
		best := r.BestOpportunity
		fmt.Printf("\033[1;33m  Best Opportunity\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s (%s)\n", truncate(best.Title, 44), best.StyleID)
		fmt.Printf("  Buy at   : %.2f PLN (%s)\n", deref(best.Price), best.RetailSource)
		fmt.Printf("  Net sale : %.2f PLN\n", best.FinalPriceAfterTaxes)
		fmt.Printf("  Profit   : \033[1;32m%.2f PLN\033[0m\n", best.ProfitOrLoss)
		fmt.Println()
	}

	// Top 5 by profit
	fmt.Printf("\033[1;33m  Top 5 Opportunities by Profit\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopByProfit) == 0 {
		fmt.Printf("  No profitable flips this run\n")
	} else {
		for i, o := range r.TopByProfit {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m+%.2f PLN\033[0m\n",
				i+1, truncate(o.Title, 38), o.ProfitOrLoss)
		}
	}
	fmt.Println()

	// Opportunities by retail source
	fmt.Printf("\033[1;33m  Opportunities by Retail Source\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.OpportunitiesBySource) == 0 {
		fmt.Printf("  No source data\n")
	} else {
		type srcCount struct {
			src   string
			count int
		}
		var srcs []srcCount
		for src, cnt := range r.OpportunitiesBySource {
			srcs = append(srcs, srcCount{src, cnt})
		}
		sort.Slice(srcs, func(i, j int) bool {
			return srcs[i].count > srcs[j].count
		})
		for _, sc := range srcs {
			bar := strings.Repeat("█", sc.count)
			fmt.Printf("  %-20s %s (%d)\n", sc.src, bar, sc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
