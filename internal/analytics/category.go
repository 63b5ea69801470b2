package analytics

import (
	"sort"

	"takatrack/internal/core"
)

// CategoryAmount is one slice of the category breakdown chart.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CategoryBreakdown sums recent expenses by category name and returns the
// top n, largest first. Expenses without a category are skipped.
func CategoryBreakdown(expenses []core.Expense, n int) []CategoryAmount {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, e := range expenses {
		if e.Category == nil {
			continue
		}
		if _, ok := sums[e.Category.Name]; !ok {
			order = append(order, e.Category.Name)
		}
		sums[e.Category.Name] += e.Amount
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: sums[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
