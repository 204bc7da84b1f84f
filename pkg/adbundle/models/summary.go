package models

import "github.com/shopspring/decimal"

// AccountSummary is one per-account row of the creative sheet aggregation.
type AccountSummary struct {
	// Account is the grouping key exactly as it appears in the sheet.
	Account string `json:"account"`
	// Cost is the summed spend of the account.
	Cost decimal.Decimal `json:"cost"`
	// Revenue is the summed GMV of the account.
	Revenue decimal.Decimal `json:"revenue"`
	// Videos is the number of distinct video IDs (nil if no video column).
	Videos *int `json:"videos,omitempty"`
	// ROAS is Revenue / Cost rounded to two places, or 0 when Cost is 0.
	ROAS decimal.Decimal `json:"roas"`
}

// SummaryTable is the account aggregation together with the sheet columns
// it was computed from.
type SummaryTable struct {
	AccountColumn string `json:"account_column"`
	CostColumn    string `json:"cost_column"`
	RevenueColumn string `json:"revenue_column"`
	// VideoColumn is empty when no video column was resolved.
	VideoColumn string           `json:"video_column,omitempty"`
	Rows        []AccountSummary `json:"rows"`
}

// TotalCost returns the sum of Cost across all rows.
func (s *SummaryTable) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, row := range s.Rows {
		total = total.Add(row.Cost)
	}
	return total
}
