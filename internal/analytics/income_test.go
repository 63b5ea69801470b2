package analytics

import (
	"testing"
	"time"

	"takatrack/internal/core"
)

func income(amount float64, year, month, day int) core.Income {
	return core.Income{Amount: amount, Date: core.NewDate(year, month, day)}
}

func TestIncomeStatsExampleScenario(t *testing.T) {
	incomes := []core.Income{
		income(100, 2025, 1, 15),
		income(200, 2025, 2, 10),
	}
	now := time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)

	s := IncomeStats(incomes, now)
	if s.ThisMonth != 200 {
		t.Errorf("thisMonth = %v, want 200", s.ThisMonth)
	}
	if s.LastMonth != 100 {
		t.Errorf("lastMonth = %v, want 100", s.LastMonth)
	}
	if s.Growth != 100 {
		t.Errorf("growth = %v, want 100", s.Growth)
	}
	if s.AvgMonthly != 150 {
		t.Errorf("avgMonthly = %v, want 150", s.AvgMonthly)
	}
	if s.Count != 2 {
		t.Errorf("count = %v, want 2", s.Count)
	}
	if s.Total != 300 {
		t.Errorf("total = %v, want 300", s.Total)
	}
}

func TestIncomeStatsEmpty(t *testing.T) {
	s := IncomeStats(nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if s.Total != 0 || s.ThisMonth != 0 || s.LastMonth != 0 || s.Growth != 0 || s.AvgMonthly != 0 || s.Count != 0 {
		t.Fatalf("empty input should yield all zeros, got %+v", s)
	}
}

func TestIncomeStatsGrowthNoBaseline(t *testing.T) {
	// Last month 0, this month positive: growth must be 0, not +Inf.
	incomes := []core.Income{income(500, 2025, 4, 3)}
	s := IncomeStats(incomes, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	if s.Growth != 0 {
		t.Fatalf("growth = %v, want 0 when last month is empty", s.Growth)
	}
	if s.ThisMonth != 500 {
		t.Fatalf("thisMonth = %v, want 500", s.ThisMonth)
	}
}

func TestIncomeStatsJanuaryLastMonth(t *testing.T) {
	// Previous month of January is December of the prior year.
	incomes := []core.Income{
		income(300, 2024, 12, 20),
		income(100, 2025, 1, 5),
	}
	s := IncomeStats(incomes, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	if s.LastMonth != 300 {
		t.Fatalf("lastMonth = %v, want 300 (December 2024)", s.LastMonth)
	}
}

func TestIncomeStatsDistinctMonths(t *testing.T) {
	// January appears in two different years; both count as distinct months.
	incomes := []core.Income{
		income(100, 2024, 1, 10),
		income(200, 2025, 1, 10),
		income(300, 2025, 1, 20),
	}
	s := IncomeStats(incomes, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if s.AvgMonthly != 300 { // 600 total / 2 distinct (year,month) pairs
		t.Fatalf("avgMonthly = %v, want 300", s.AvgMonthly)
	}
}

func TestIncomeTrendAlwaysSixBuckets(t *testing.T) {
	now := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		incomes []core.Income
	}{
		{"empty", nil},
		{"single", []core.Income{income(50, 2025, 1, 1)}},
		{"outside window", []core.Income{income(50, 2020, 1, 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points := IncomeTrend(tc.incomes, now)
			if len(points) != 6 {
				t.Fatalf("got %d points, want 6", len(points))
			}
			for _, p := range points {
				if p.Amount < 0 {
					t.Fatalf("bucket %s is negative: %v", p.Month, p.Amount)
				}
			}
		})
	}
}

func TestIncomeTrendOrderAndLabels(t *testing.T) {
	now := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	points := IncomeTrend([]core.Income{
		income(100, 2025, 1, 15),
		income(200, 2025, 2, 10),
		income(999, 2024, 8, 1), // before the window, must not leak in
	}, now)

	wantLabels := []string{"Sep", "Oct", "Nov", "Dec", "Jan", "Feb"}
	for i, want := range wantLabels {
		if points[i].Month != want {
			t.Fatalf("point %d label = %q, want %q", i, points[i].Month, want)
		}
	}
	if points[4].Amount != 100 || points[5].Amount != 200 {
		t.Fatalf("Jan/Feb buckets = %v/%v, want 100/200", points[4].Amount, points[5].Amount)
	}
	for i := 0; i < 4; i++ {
		if points[i].Amount != 0 {
			t.Fatalf("bucket %s should be 0, got %v", points[i].Month, points[i].Amount)
		}
	}
}

func TestIncomeTrendYearBoundary(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	points := IncomeTrend([]core.Income{
		income(40, 2024, 8, 2),
		income(60, 2025, 1, 2),
	}, now)
	if points[0].Month != "Aug" || points[0].Amount != 40 {
		t.Fatalf("oldest bucket = %+v, want Aug/40", points[0])
	}
	if points[5].Month != "Jan" || points[5].Amount != 60 {
		t.Fatalf("newest bucket = %+v, want Jan/60", points[5])
	}
}
