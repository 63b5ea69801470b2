package analytics

import (
	"sort"
	"time"

	"takatrack/internal/core"
)

// BudgetStatus classifies how far a budget has been consumed. The tiers
// mirror the display colors: on-track below 75%, warning from 75%, near the
// limit from 90%, over once the server flags overspend.
type BudgetStatus string

const (
	BudgetOnTrack   BudgetStatus = "on-track"
	BudgetWarning   BudgetStatus = "warning"
	BudgetNearLimit BudgetStatus = "near-limit"
	BudgetOver      BudgetStatus = "over-budget"
)

// Alert threshold: budgets at 80% usage or already overspent surface on the
// dashboard.
const alertThresholdPct = 80

// StatusOf classifies a single budget from its server-supplied fields. The
// server's isOverBudget flag wins over the percentage tiers.
func StatusOf(b core.Budget) BudgetStatus {
	switch {
	case b.IsOverBudget:
		return BudgetOver
	case b.PercentageUsed >= 90:
		return BudgetNearLimit
	case b.PercentageUsed >= 75:
		return BudgetWarning
	default:
		return BudgetOnTrack
	}
}

// Label returns the display form of a budget status.
func (s BudgetStatus) Label() string {
	switch s {
	case BudgetOnTrack:
		return "On Track"
	case BudgetWarning:
		return "Watch Spending"
	case BudgetNearLimit:
		return "Near Limit"
	case BudgetOver:
		return "Over Budget"
	default:
		return "Unknown"
	}
}

// BudgetAlerts returns the budgets that warrant a dashboard alert, capped at
// limit entries (pass limit<=0 for all). Input order is preserved.
func BudgetAlerts(budgets []core.Budget, limit int) []core.Budget {
	alerts := make([]core.Budget, 0)
	for _, b := range budgets {
		if b.PercentageUsed >= alertThresholdPct || b.IsOverBudget {
			alerts = append(alerts, b)
		}
	}
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

// OverBudgetCount counts budgets the server has flagged as overspent.
func OverBudgetCount(budgets []core.Budget) int {
	n := 0
	for _, b := range budgets {
		if b.IsOverBudget {
			n++
		}
	}
	return n
}

// HistoryBucket aggregates one calendar month of budget history.
type HistoryBucket struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Label      string  `json:"label"`
	Budgeted   float64 `json:"budgeted"`
	Spent      float64 `json:"spent"`
	OverCount  int     `json:"overCount"`
	EntryCount int     `json:"entryCount"`
}

// BudgetHistory groups per-category budget rows into (year, month) buckets,
// oldest first.
func BudgetHistory(history []core.Budget) []HistoryBucket {
	byMonth := make(map[[2]int]*HistoryBucket)
	for _, b := range history {
		key := [2]int{b.Year, b.Month}
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &HistoryBucket{
				Year:  b.Year,
				Month: b.Month,
				Label: time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			}
			byMonth[key] = bucket
		}
		bucket.Budgeted += b.Amount
		bucket.Spent += b.Spent
		bucket.EntryCount++
		if b.IsOverBudget {
			bucket.OverCount++
		}
	}

	buckets := make([]HistoryBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}

// ClampPercent caps a percentage at 100 for progress-bar rendering. The raw
// server value stays untouched; only the display copy is clamped.
func ClampPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
