// Package goals implements the savings-goal engine: progress math,
// milestones, deadline pacing and the locally persisted goal collection.
// Goals are the one entity this service owns outright; the backend never
// sees them.
package goals

import (
	"math"
	"sort"
	"time"

	"takatrack/internal/core"
)

// Milestone is a fixed progress threshold that unlocks a badge.
type Milestone struct {
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

var milestones = []Milestone{
	{25, "Started!"},
	{50, "Halfway!"},
	{75, "Almost there!"},
	{100, "Achieved!"},
}

// Progress returns the goal completion percentage, capped at 100. A target
// of zero or less is treated as already achieved.
func Progress(current, target float64) float64 {
	if target <= 0 {
		return 100
	}
	return math.Min(current/target*100, 100)
}

// DaysRemaining counts the days from today until the deadline, rounding up.
// Past deadlines yield negative values; callers decide how to render overdue
// goals, so no clamping happens here.
func DaysRemaining(deadline core.Date, today time.Time) int {
	diff := deadline.Sub(today)
	return int(math.Ceil(diff.Hours() / 24))
}

// MonthlyTarget is the contribution per month still needed to hit the target
// by the deadline, using an approximate 30-day month. Once the deadline has
// passed (months <= 0) it reports 0 rather than a negative pace.
func MonthlyTarget(current, target float64, deadline core.Date, today time.Time) float64 {
	remaining := target - current
	months := float64(DaysRemaining(deadline, today)) / 30
	if months <= 0 {
		return 0
	}
	return remaining / months
}

// Milestones returns every badge unlocked at the given progress, lowest
// first. The set is cumulative: a goal at 80% carries the 25/50/75 badges,
// not just the highest one.
func Milestones(progress float64) []Milestone {
	unlocked := make([]Milestone, 0, len(milestones))
	for _, m := range milestones {
		if progress >= m.Percent {
			unlocked = append(unlocked, m)
		}
	}
	return unlocked
}

// CrossedMilestones returns the badges newly unlocked when progress moves
// from before to after.
func CrossedMilestones(before, after float64) []Milestone {
	crossed := make([]Milestone, 0)
	for _, m := range milestones {
		if before < m.Percent && after >= m.Percent {
			crossed = append(crossed, m)
		}
	}
	return crossed
}

// SortByPriority orders goals for display: high before medium before low.
// The sort is stable so goals sharing a priority keep their stored order.
// The input slice is not modified.
func SortByPriority(list []core.SavingsGoal) []core.SavingsGoal {
	sorted := make([]core.SavingsGoal, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}
