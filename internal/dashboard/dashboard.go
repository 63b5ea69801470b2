// Package dashboard assembles the landing-page snapshot from six concurrent
// backend fetches plus the local goal collection. A failed fetch degrades its
// own section to empty; the snapshot itself always succeeds.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"takatrack/internal/analytics"
	"takatrack/internal/backendapi"
	"takatrack/internal/core"
	"takatrack/internal/fetch"
)

const (
	recentExpenseCount = 5
	trendMonths        = 6
	upcomingCount      = 3
	topCategories      = 5
)

// Backend is the slice of the API client the snapshot needs.
type Backend interface {
	MonthlyAnalytics(ctx context.Context, year, month int) (backendapi.MonthlySummary, error)
	YearlyAnalytics(ctx context.Context, year int) (backendapi.YearlySummary, error)
	RecentExpenses(ctx context.Context, size int) ([]core.Expense, error)
	CurrentBudgets(ctx context.Context) ([]core.Budget, error)
	ActiveRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error)
	SpendingTrends(ctx context.Context, months int) ([]backendapi.TrendRow, error)
}

// GoalLister provides the locally stored goals; nil disables the goal
// portion of the health score.
type GoalLister interface {
	List(ctx context.Context) ([]core.SavingsGoal, error)
}

// AlertPublisher announces over-budget categories found while building a
// snapshot. Nil disables announcements.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, b core.Budget) error
}

// Stats are the four headline numbers.
type Stats struct {
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	YearlyExpenses  float64 `json:"yearlyExpenses"`
	ActiveBudgets   int     `json:"activeBudgets"`
	RecurringCount  int     `json:"recurringCount"`
}

// Snapshot is everything the landing page renders in one response.
type Snapshot struct {
	Stats             Stats                      `json:"stats"`
	HealthScore       int                        `json:"healthScore"`
	RecentExpenses    []core.Expense             `json:"recentExpenses"`
	BudgetAlerts      []core.Budget              `json:"budgetAlerts"`
	UpcomingRecurring []core.RecurringExpense    `json:"upcomingRecurring"`
	Categories        []analytics.CategoryAmount `json:"categories"`
	Trend             []backendapi.TrendRow      `json:"trend"`
	GeneratedAt       time.Time                  `json:"generatedAt"`
}

// Service builds dashboard snapshots.
type Service struct {
	backend   Backend
	goals     GoalLister
	publisher AlertPublisher
	weights   analytics.ScoreWeights
	now       func() time.Time
}

func NewService(backend Backend, goals GoalLister, publisher AlertPublisher) *Service {
	return &Service{
		backend:   backend,
		goals:     goals,
		publisher: publisher,
		weights:   analytics.DefaultScoreWeights(),
		now:       time.Now,
	}
}

// Snapshot fans out the six backend fetches, derives the display fields and
// the health score, and publishes alert events for over-budget categories.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	now := s.now()
	year, month := now.Year(), int(now.Month())

	var (
		monthly   fetch.Result[backendapi.MonthlySummary]
		yearly    fetch.Result[backendapi.YearlySummary]
		recent    fetch.Result[[]core.Expense]
		budgets   fetch.Result[[]core.Budget]
		recurring fetch.Result[[]core.RecurringExpense]
		trend     fetch.Result[[]backendapi.TrendRow]
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch.Go(g, gctx, &monthly, func(ctx context.Context) (backendapi.MonthlySummary, error) {
		return s.backend.MonthlyAnalytics(ctx, year, month)
	})
	fetch.Go(g, gctx, &yearly, func(ctx context.Context) (backendapi.YearlySummary, error) {
		return s.backend.YearlyAnalytics(ctx, year)
	})
	fetch.Go(g, gctx, &recent, func(ctx context.Context) ([]core.Expense, error) {
		return s.backend.RecentExpenses(ctx, recentExpenseCount)
	})
	fetch.Go(g, gctx, &budgets, func(ctx context.Context) ([]core.Budget, error) {
		return s.backend.CurrentBudgets(ctx)
	})
	fetch.Go(g, gctx, &recurring, func(ctx context.Context) ([]core.RecurringExpense, error) {
		return s.backend.ActiveRecurringExpenses(ctx)
	})
	fetch.Go(g, gctx, &trend, func(ctx context.Context) ([]backendapi.TrendRow, error) {
		return s.backend.SpendingTrends(ctx, trendMonths)
	})
	g.Wait()

	s.logFailures(ctx, map[string]error{
		"monthly":   monthly.Err,
		"yearly":    yearly.Err,
		"expenses":  recent.Err,
		"budgets":   budgets.Err,
		"recurring": recurring.Err,
		"trends":    trend.Err,
	})

	budgetList := budgets.OrZero()
	recurringList := recurring.OrZero()
	recentList := recent.OrZero()

	goalList := s.loadGoals(ctx)
	alerts := analytics.BudgetAlerts(budgetList, 3)
	s.announceAlerts(ctx, budgetList)

	upcoming := recurringList
	if len(upcoming) > upcomingCount {
		upcoming = upcoming[:upcomingCount]
	}

	return Snapshot{
		Stats: Stats{
			MonthlyExpenses: monthly.OrZero().TotalExpenses,
			YearlyExpenses:  yearly.OrZero().TotalExpenses,
			ActiveBudgets:   len(budgetList),
			RecurringCount:  len(recurringList),
		},
		HealthScore:       analytics.HealthScore(budgetList, recurringList, goalList, s.weights),
		RecentExpenses:    recentList,
		BudgetAlerts:      alerts,
		UpcomingRecurring: upcoming,
		Categories:        analytics.CategoryBreakdown(recentList, topCategories),
		Trend:             trend.OrZero(),
		GeneratedAt:       now,
	}, nil
}

func (s *Service) loadGoals(ctx context.Context) []core.SavingsGoal {
	if s.goals == nil {
		return nil
	}
	goals, err := s.goals.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load goals for snapshot", "error", err)
		return nil
	}
	return goals
}

func (s *Service) announceAlerts(ctx context.Context, budgets []core.Budget) {
	if s.publisher == nil {
		return
	}
	for _, b := range budgets {
		if !b.IsOverBudget {
			continue
		}
		if err := s.publisher.PublishBudgetAlert(ctx, b); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"category", b.CategoryName, "error", err)
		}
	}
}

func (s *Service) logFailures(ctx context.Context, branches map[string]error) {
	for name, err := range branches {
		if err != nil {
			slog.WarnContext(ctx, "Dashboard section degraded",
				"section", name, "error", err)
		}
	}
}
