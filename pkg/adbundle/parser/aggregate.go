package parser

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/models"
)

// ROASPlaces is the number of decimal places ROAS is rounded to.
const ROASPlaces = 2

// AggregateAccounts groups the creative sheet by account and sums cost and
// revenue per account. When includeVideos is set and a video column
// resolves, the distinct video IDs per account are counted as well.
//
// Nothing is aggregated if account, cost or revenue cannot be resolved.
// Group keys are compared exactly, without trimming. Rows come back sorted
// by cost, highest first, with ties kept in first-seen order.
func AggregateAccounts(table *models.Table, kw FieldKeywords, includeVideos bool) (*models.SummaryTable, *ResolutionError) {
	binding, rerr := ResolveFields(table.SheetName, table.Columns, kw)
	if rerr != nil {
		return nil, rerr
	}

	accountIdx := table.ColumnIndex(binding.Account)
	costIdx := table.ColumnIndex(binding.Cost)
	revenueIdx := table.ColumnIndex(binding.Revenue)
	videoIdx := -1
	if includeVideos && binding.VideoID != "" {
		videoIdx = table.ColumnIndex(binding.VideoID)
	}

	type group struct {
		row    models.AccountSummary
		videos map[string]struct{}
	}
	var order []*group
	groups := make(map[string]*group)

	for _, rec := range table.Records {
		key := models.FormatValue(rec.Value(accountIdx))
		g, ok := groups[key]
		if !ok {
			g = &group{row: models.AccountSummary{Account: key, Cost: decimal.Zero, Revenue: decimal.Zero}}
			if videoIdx >= 0 {
				g.videos = make(map[string]struct{})
			}
			groups[key] = g
			order = append(order, g)
		}

		g.row.Cost = g.row.Cost.Add(ToDecimal(rec.Value(costIdx)))
		g.row.Revenue = g.row.Revenue.Add(ToDecimal(rec.Value(revenueIdx)))

		if videoIdx >= 0 {
			if id := models.FormatValue(rec.Value(videoIdx)); id != "" {
				g.videos[id] = struct{}{}
			}
		}
	}

	summary := &models.SummaryTable{
		AccountColumn: binding.Account,
		CostColumn:    binding.Cost,
		RevenueColumn: binding.Revenue,
		Rows:          make([]models.AccountSummary, 0, len(order)),
	}
	if videoIdx >= 0 {
		summary.VideoColumn = binding.VideoID
	}

	for _, g := range order {
		row := g.row
		if g.videos != nil {
			n := len(g.videos)
			row.Videos = &n
		}
		row.ROAS = ROAS(row.Revenue, row.Cost)
		summary.Rows = append(summary.Rows, row)
	}

	sort.SliceStable(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].Cost.GreaterThan(summary.Rows[j].Cost)
	})

	return summary, nil
}

// ROAS returns revenue / cost rounded to ROASPlaces, or 0 when cost is not
// positive.
func ROAS(revenue, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return revenue.DivRound(cost, ROASPlaces)
}
