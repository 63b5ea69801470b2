// Package analytics turns raw backend record lists into the aggregate
// figures, chart series and classification labels the dashboard displays.
// Every function here is pure: output depends only on the records passed in
// and the reference time, never on fetch state or clocks read internally.
package analytics

import (
	"time"

	"takatrack/internal/core"
)

// IncomeSummary holds the headline income figures for the income page.
type IncomeSummary struct {
	Total      float64 `json:"total"`
	ThisMonth  float64 `json:"thisMonth"`
	LastMonth  float64 `json:"lastMonth"`
	Growth     float64 `json:"growth"`
	AvgMonthly float64 `json:"avgMonthly"`
	Count      int     `json:"count"`
}

// TrendPoint is one chart-ready month bucket.
type TrendPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// IncomeStats computes the income page summary from an unordered record list.
//
// Growth is reported as 0 (not infinite) when last month has no baseline.
// AvgMonthly divides by the number of distinct (year, month) pairs that have
// at least one record, not by calendar months elapsed. An empty list yields
// all zeros.
func IncomeStats(incomes []core.Income, now time.Time) IncomeSummary {
	var s IncomeSummary
	s.Count = len(incomes)

	// Anchor to the first of the month: AddDate(0,-1,0) from e.g. March 31
	// would land in March again.
	lastMonth := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())

	seen := make(map[[2]int]struct{})
	for _, in := range incomes {
		s.Total += in.Amount
		if in.Date.SameMonth(now.Year(), now.Month()) {
			s.ThisMonth += in.Amount
		}
		if in.Date.SameMonth(lastMonth.Year(), lastMonth.Month()) {
			s.LastMonth += in.Amount
		}
		seen[[2]int{in.Date.Year(), int(in.Date.Time.Month())}] = struct{}{}
	}

	if s.LastMonth > 0 {
		s.Growth = (s.ThisMonth - s.LastMonth) / s.LastMonth * 100
	}
	if len(seen) > 0 {
		s.AvgMonthly = s.Total / float64(len(seen))
	}
	return s
}

// IncomeTrend buckets incomes into the six calendar months ending at now.
// The result always has exactly six points, oldest first; months with no
// records contribute a zero bucket.
func IncomeTrend(incomes []core.Income, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		bucket := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		var total float64
		for _, in := range incomes {
			if in.Date.SameMonth(bucket.Year(), bucket.Month()) {
				total += in.Amount
			}
		}
		points = append(points, TrendPoint{
			Month:  bucket.Format("Jan"),
			Amount: total,
		})
	}
	return points
}
