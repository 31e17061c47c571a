// Package analytics derives portfolio figures from a snapshot of
// investments. Nothing here is persisted; every value is recomputed from
// the investments passed in.
package analytics

import (
	"sort"

	"folio/internal/models"
)

// InvestmentReturn is the per-investment row of a summary.
type InvestmentReturn struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Currency          string   `json:"currency"`
	InitialInvestment int64    `json:"initial_investment"`
	CurrentValue      int64    `json:"current_value"`
	Profit            int64    `json:"profit"`
	ReturnPercentage  float64  `json:"return_percentage"`
	Tags              []string `json:"tags"`
}

// TagTotal is the value attributed to one tag. An investment with several
// tags contributes its full value to each, so tag totals may sum to more
// than the portfolio value.
type TagTotal struct {
	Tag        string  `json:"tag"`
	Total      int64   `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary bundles every derived figure shown on the dashboard.
type Summary struct {
	Currency          string             `json:"currency"`
	InvestmentCount   int                `json:"investment_count"`
	TotalInvested     int64              `json:"total_invested"`
	TotalCurrentValue int64              `json:"total_current_value"`
	TotalProfit       int64              `json:"total_profit"`
	ReturnPercentage  float64            `json:"return_percentage"`
	Investments       []InvestmentReturn `json:"investments"`
	Tags              []TagTotal         `json:"tags"`
}

// Percentage returns part as a percentage of whole, or 0 when whole is 0.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// ReturnPercentage is profit relative to the amount invested.
func ReturnPercentage(profit, invested int64) float64 {
	return Percentage(profit, invested)
}

// TotalInvested sums the initial investment of every investment.
func TotalInvested(investments []models.Investment) int64 {
	var total int64
	for i := range investments {
		total += investments[i].InitialInvestment
	}
	return total
}

// TotalCurrentValue sums the current value of every investment.
func TotalCurrentValue(investments []models.Investment) int64 {
	var total int64
	for i := range investments {
		total += investments[i].CurrentValue
	}
	return total
}

// TotalProfit is the current value minus the amount invested.
func TotalProfit(investments []models.Investment) int64 {
	return TotalCurrentValue(investments) - TotalInvested(investments)
}

// Returns computes the return row for each investment, in input order.
func Returns(investments []models.Investment) []InvestmentReturn {
	rows := make([]InvestmentReturn, 0, len(investments))
	for i := range investments {
		inv := &investments[i]
		profit := inv.CurrentValue - inv.InitialInvestment
		tags := inv.Tags
		if tags == nil {
			tags = []string{}
		}
		rows = append(rows, InvestmentReturn{
			ID:                inv.ID,
			Name:              inv.Name,
			Currency:          inv.Currency,
			InitialInvestment: inv.InitialInvestment,
			CurrentValue:      inv.CurrentValue,
			Profit:            profit,
			ReturnPercentage:  ReturnPercentage(profit, inv.InitialInvestment),
			Tags:              tags,
		})
	}
	return rows
}

// TagTotals groups current value by tag, sorted by tag name. Percentages are
// relative to the total portfolio value.
func TagTotals(investments []models.Investment) []TagTotal {
	byTag := make(map[string]*TagTotal)
	for i := range investments {
		inv := &investments[i]
		for _, tag := range models.NormalizeTags(inv.Tags) {
			t, ok := byTag[tag]
			if !ok {
				t = &TagTotal{Tag: tag}
				byTag[tag] = t
			}
			t.Total += inv.CurrentValue
			t.Count++
		}
	}

	portfolio := TotalCurrentValue(investments)
	totals := make([]TagTotal, 0, len(byTag))
	for _, t := range byTag {
		t.Percentage = Percentage(t.Total, portfolio)
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Tag < totals[j].Tag })
	return totals
}

// Summarize computes the full dashboard summary.
func Summarize(investments []models.Investment) Summary {
	invested := TotalInvested(investments)
	current := TotalCurrentValue(investments)
	profit := current - invested

	return Summary{
		Currency:          CommonCurrency(investments),
		InvestmentCount:   len(investments),
		TotalInvested:     invested,
		TotalCurrentValue: current,
		TotalProfit:       profit,
		ReturnPercentage:  ReturnPercentage(profit, invested),
		Investments:       Returns(investments),
		Tags:              TagTotals(investments),
	}
}

// CommonCurrency returns the currency shared by every investment, the
// default currency for an empty portfolio, or "" when currencies are mixed.
func CommonCurrency(investments []models.Investment) string {
	currency := ""
	for i := range investments {
		c := investments[i].Currency
		if c == "" {
			c = models.DefaultCurrency
		}
		if currency == "" {
			currency = c
			continue
		}
		if c != currency {
			return ""
		}
	}
	if currency == "" {
		return models.DefaultCurrency
	}
	return currency
}
