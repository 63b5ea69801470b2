package analytics

import "takatrack/internal/core"

// DebtProgress is the payoff percentage of a debt: the paid-off share of the
// principal. A zero principal yields 0 rather than dividing.
func DebtProgress(d core.Debt) float64 {
	if d.PrincipalAmount <= 0 {
		return 0
	}
	paid := d.PrincipalAmount - d.RemainingAmount
	return paid / d.PrincipalAmount * 100
}

// DebtProgressView pairs a debt with its display-clamped payoff percentage.
type DebtProgressView struct {
	Debt     core.Debt `json:"debt"`
	Progress float64   `json:"progress"`
	Label    string    `json:"statusLabel"`
}

// DebtProgressList derives the per-debt progress views for list rendering.
func DebtProgressList(debts []core.Debt) []DebtProgressView {
	views := make([]DebtProgressView, 0, len(debts))
	for _, d := range debts {
		views = append(views, DebtProgressView{
			Debt:     d,
			Progress: ClampPercent(DebtProgress(d)),
			Label:    d.Status.Label(),
		})
	}
	return views
}
