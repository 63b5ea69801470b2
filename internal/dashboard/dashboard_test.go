package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"takatrack/internal/backendapi"
	"takatrack/internal/core"
)

type fakeBackend struct {
	monthly   backendapi.MonthlySummary
	yearly    backendapi.YearlySummary
	expenses  []core.Expense
	budgets   []core.Budget
	recurring []core.RecurringExpense
	trend     []backendapi.TrendRow

	failBudgets bool
	failMonthly bool
}

func (f *fakeBackend) MonthlyAnalytics(ctx context.Context, year, month int) (backendapi.MonthlySummary, error) {
	if f.failMonthly {
		return backendapi.MonthlySummary{}, errors.New("monthly down")
	}
	return f.monthly, nil
}

func (f *fakeBackend) YearlyAnalytics(ctx context.Context, year int) (backendapi.YearlySummary, error) {
	return f.yearly, nil
}

func (f *fakeBackend) RecentExpenses(ctx context.Context, size int) ([]core.Expense, error) {
	return f.expenses, nil
}

func (f *fakeBackend) CurrentBudgets(ctx context.Context) ([]core.Budget, error) {
	if f.failBudgets {
		return nil, errors.New("budgets down")
	}
	return f.budgets, nil
}

func (f *fakeBackend) ActiveRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	return f.recurring, nil
}

func (f *fakeBackend) SpendingTrends(ctx context.Context, months int) ([]backendapi.TrendRow, error) {
	return f.trend, nil
}

type fakeGoals struct {
	goals []core.SavingsGoal
}

func (f *fakeGoals) List(ctx context.Context) ([]core.SavingsGoal, error) {
	return f.goals, nil
}

type fakeAlertPublisher struct {
	alerts []string
}

func (f *fakeAlertPublisher) PublishBudgetAlert(ctx context.Context, b core.Budget) error {
	f.alerts = append(f.alerts, b.CategoryName)
	return nil
}

func cat(name string) *core.Category { return &core.Category{Name: name} }

func fullBackend() *fakeBackend {
	return &fakeBackend{
		monthly: backendapi.MonthlySummary{TotalExpenses: 1200},
		yearly:  backendapi.YearlySummary{TotalExpenses: 9000},
		expenses: []core.Expense{
			{ID: 1, Amount: 40, Category: cat("Food")},
			{ID: 2, Amount: 60, Category: cat("Transport")},
		},
		budgets: []core.Budget{
			{CategoryName: "Food", PercentageUsed: 50},
			{CategoryName: "Rent", PercentageUsed: 110, IsOverBudget: true},
		},
		recurring: []core.RecurringExpense{
			{ID: 1, IsActive: true}, {ID: 2, IsActive: true},
			{ID: 3, IsActive: true}, {ID: 4, IsActive: true},
		},
		trend: []backendapi.TrendRow{{Month: "Mar", Amount: 800}},
	}
}

func newService(b Backend, g GoalLister, p AlertPublisher) *Service {
	s := NewService(b, g, p)
	s.now = func() time.Time {
		return time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSnapshotAssemblesAllSections(t *testing.T) {
	backend := fullBackend()
	goals := &fakeGoals{goals: []core.SavingsGoal{{TargetAmount: 100, CurrentAmount: 50}}}
	svc := newService(backend, goals, nil)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Stats.MonthlyExpenses != 1200 || snap.Stats.YearlyExpenses != 9000 {
		t.Fatalf("stats = %+v", snap.Stats)
	}
	if snap.Stats.ActiveBudgets != 2 || snap.Stats.RecurringCount != 4 {
		t.Fatalf("stats = %+v", snap.Stats)
	}
	if len(snap.UpcomingRecurring) != 3 {
		t.Fatalf("upcoming = %d entries, want 3", len(snap.UpcomingRecurring))
	}
	if len(snap.BudgetAlerts) != 1 || snap.BudgetAlerts[0].CategoryName != "Rent" {
		t.Fatalf("alerts = %+v", snap.BudgetAlerts)
	}
	if len(snap.Categories) != 2 || snap.Categories[0].Name != "Transport" {
		t.Fatalf("categories = %+v", snap.Categories)
	}
	if len(snap.Trend) != 1 {
		t.Fatalf("trend = %+v", snap.Trend)
	}

	// base 50 + 10 (one over-budget) + 10 recurring + 10 goals + 10 progress.
	if snap.HealthScore != 90 {
		t.Fatalf("health score = %d, want 90", snap.HealthScore)
	}
}

func TestSnapshotDegradesFailedSections(t *testing.T) {
	backend := fullBackend()
	backend.failBudgets = true
	backend.failMonthly = true
	svc := newService(backend, &fakeGoals{}, nil)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot must not fail on branch errors: %v", err)
	}

	if snap.Stats.MonthlyExpenses != 0 {
		t.Fatalf("failed monthly branch leaked %v", snap.Stats.MonthlyExpenses)
	}
	if snap.Stats.ActiveBudgets != 0 || len(snap.BudgetAlerts) != 0 {
		t.Fatalf("failed budgets branch leaked: %+v", snap)
	}

	// Healthy sections still arrive.
	if snap.Stats.YearlyExpenses != 9000 || snap.Stats.RecurringCount != 4 {
		t.Fatalf("healthy sections lost: %+v", snap.Stats)
	}
}

func TestSnapshotPublishesOverBudgetAlerts(t *testing.T) {
	backend := fullBackend()
	pub := &fakeAlertPublisher{}
	svc := newService(backend, nil, pub)

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(pub.alerts) != 1 || pub.alerts[0] != "Rent" {
		t.Fatalf("published alerts = %v", pub.alerts)
	}
}

func TestSnapshotWithoutGoals(t *testing.T) {
	svc := newService(fullBackend(), nil, nil)
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	// base 50 + 10 (one over-budget) + 10 recurring, no goal credit.
	if snap.HealthScore != 70 {
		t.Fatalf("health score = %d, want 70", snap.HealthScore)
	}
}
