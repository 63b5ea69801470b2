package goals

import (
	"testing"
	"time"

	"takatrack/internal/core"
)

func date(y int, m time.Month, d int) core.Date {
	return core.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		name            string
		current, target float64
		want            float64
	}{
		{"empty goal", 0, 1000, 0},
		{"partial", 250, 1000, 25},
		{"complete", 1000, 1000, 100},
		{"overfunded clamps", 1500, 1000, 100},
		{"zero target treated as achieved", 0, 0, 100},
		{"negative target treated as achieved", 50, -10, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Progress(tc.current, tc.target); got != tc.want {
				t.Fatalf("Progress(%v, %v) = %v, want %v", tc.current, tc.target, got, tc.want)
			}
		})
	}
}

func TestProgressNeverEscapesRange(t *testing.T) {
	for _, current := range []float64{-50, 0, 1, 500, 999, 1000, 2500} {
		for _, target := range []float64{-1, 0, 1, 1000} {
			p := Progress(current, target)
			if p < 0 && target > 0 && current >= 0 {
				t.Fatalf("Progress(%v, %v) = %v below 0", current, target, p)
			}
			if p > 100 {
				t.Fatalf("Progress(%v, %v) = %v above 100", current, target, p)
			}
		}
	}
}

func TestMilestonesCumulative(t *testing.T) {
	cases := []struct {
		progress float64
		want     []string
	}{
		{0, nil},
		{24.9, nil},
		{25, []string{"Started!"}},
		{60, []string{"Started!", "Halfway!"}},
		{80, []string{"Started!", "Halfway!", "Almost there!"}},
		{100, []string{"Started!", "Halfway!", "Almost there!", "Achieved!"}},
	}
	for _, tc := range cases {
		got := Milestones(tc.progress)
		if len(got) != len(tc.want) {
			t.Fatalf("Milestones(%v) = %v, want labels %v", tc.progress, got, tc.want)
		}
		for i, m := range got {
			if m.Label != tc.want[i] {
				t.Fatalf("Milestones(%v)[%d] = %q, want %q", tc.progress, i, m.Label, tc.want[i])
			}
		}
	}
}

func TestMilestonesMonotonic(t *testing.T) {
	// More progress never unlocks fewer badges.
	prev := 0
	for p := 0.0; p <= 100; p += 5 {
		n := len(Milestones(p))
		if n < prev {
			t.Fatalf("badge count dropped from %d to %d at progress %v", prev, n, p)
		}
		prev = n
	}
}

func TestCrossedMilestones(t *testing.T) {
	crossed := CrossedMilestones(20, 55)
	if len(crossed) != 2 || crossed[0].Percent != 25 || crossed[1].Percent != 50 {
		t.Fatalf("CrossedMilestones(20, 55) = %v", crossed)
	}
	if got := CrossedMilestones(25, 25); len(got) != 0 {
		t.Fatalf("no movement should cross nothing, got %v", got)
	}
	if got := CrossedMilestones(99, 100); len(got) != 1 || got[0].Label != "Achieved!" {
		t.Fatalf("CrossedMilestones(99, 100) = %v", got)
	}
}

func TestDaysRemaining(t *testing.T) {
	today := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		deadline core.Date
		want     int
	}{
		{"ten days out", date(2025, time.June, 11), 10},
		{"today", date(2025, time.June, 1), 0},
		{"overdue", date(2025, time.May, 25), -7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysRemaining(tc.deadline, today); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMonthlyTarget(t *testing.T) {
	today := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	// 60 days ~ 2 months to save the remaining 600.
	got := MonthlyTarget(400, 1000, date(2025, time.March, 2), today)
	if got != 300 {
		t.Fatalf("monthly target = %v, want 300", got)
	}

	// Past deadlines report 0 instead of a negative pace.
	if got := MonthlyTarget(0, 1000, date(2024, time.December, 1), today); got != 0 {
		t.Fatalf("overdue goal should report 0, got %v", got)
	}
}

func TestCompletedGoalHasEveryBadge(t *testing.T) {
	p := Progress(1000, 1000)
	if p != 100 {
		t.Fatalf("progress = %v, want 100", p)
	}
	if got := Milestones(p); len(got) != 4 {
		t.Fatalf("completed goal unlocked %d badges, want 4", len(got))
	}
}

func TestSortByPriority(t *testing.T) {
	list := []core.SavingsGoal{
		{ID: 1, Priority: core.PriorityLow},
		{ID: 2, Priority: core.PriorityHigh},
		{ID: 3, Priority: core.PriorityMedium},
		{ID: 4, Priority: core.PriorityHigh},
	}
	sorted := SortByPriority(list)

	wantOrder := []int64{2, 4, 3, 1}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Fatalf("position %d has goal %d, want %d", i, sorted[i].ID, id)
		}
	}
	// Input order is untouched.
	if list[0].ID != 1 {
		t.Fatalf("input slice was modified: %+v", list)
	}
}
