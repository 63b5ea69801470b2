package analytics

import "takatrack/internal/core"

// ScoreWeights parameterizes the financial health heuristic. The magnitudes
// are provisional, so they live in a struct instead of hard-coded literals.
type ScoreWeights struct {
	Base             int
	NoOverBudget     int
	OneOverBudget    int
	NoBudgetsBonus   int
	RecurringTracked int
	HasGoals         int
	GoalProgress     int
	Max              int
}

// DefaultScoreWeights reproduces the shipped heuristic: base 50, budget
// adherence up to +20, recurring tracking +10, goals up to +20, capped at
// 100. With these values the score can never leave [50, 100]; the lower
// bound is a property of the weights, not an explicit clamp.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Base:             50,
		NoOverBudget:     20,
		OneOverBudget:    10,
		NoBudgetsBonus:   5,
		RecurringTracked: 10,
		HasGoals:         10,
		GoalProgress:     10,
		Max:              100,
	}
}

// HealthScore computes the heuristic financial health score from current
// budgets, active recurring expenses and locally stored savings goals.
func HealthScore(budgets []core.Budget, recurring []core.RecurringExpense, goals []core.SavingsGoal, w ScoreWeights) int {
	score := w.Base

	if len(budgets) > 0 {
		switch OverBudgetCount(budgets) {
		case 0:
			score += w.NoOverBudget
		case 1:
			score += w.OneOverBudget
		}
	} else {
		// No budgets yet: a small bonus for getting started.
		score += w.NoBudgetsBonus
	}

	if len(recurring) > 0 {
		score += w.RecurringTracked
	}

	if len(goals) > 0 {
		score += w.HasGoals
		for _, g := range goals {
			if g.CurrentAmount > 0 {
				score += w.GoalProgress
				break
			}
		}
	}

	if score > w.Max {
		score = w.Max
	}
	return score
}
