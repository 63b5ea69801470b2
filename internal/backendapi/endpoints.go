package backendapi

import (
	"context"
	"fmt"

	"takatrack/internal/core"
)

// Incomes returns every income record for the authenticated user.
func (c *Client) Incomes(ctx context.Context) ([]core.Income, error) {
	var out []core.Income
	if err := c.get(ctx, "/incomes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentBudgets returns the budgets for the current month.
func (c *Client) CurrentBudgets(ctx context.Context) ([]core.Budget, error) {
	var out []core.Budget
	if err := c.get(ctx, "/budgets/current", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BudgetHistory returns past months' budgets.
func (c *Client) BudgetHistory(ctx context.Context) ([]core.Budget, error) {
	var out []core.Budget
	if err := c.get(ctx, "/budgets/history", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BudgetAnalytics returns the server-side budget aggregate.
func (c *Client) BudgetAnalytics(ctx context.Context) (core.BudgetSummary, error) {
	var out core.BudgetSummary
	if err := c.get(ctx, "/budgets/analytics", &out); err != nil {
		return core.BudgetSummary{}, err
	}
	return out, nil
}

// SharedExpenses returns the user's shared-expense ledger entries.
func (c *Client) SharedExpenses(ctx context.Context) ([]core.SharedExpense, error) {
	var out []core.SharedExpense
	if err := c.get(ctx, "/shared-expenses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Debts returns every debt record.
func (c *Client) Debts(ctx context.Context) ([]core.Debt, error) {
	var out []core.Debt
	if err := c.get(ctx, "/debts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DebtStats returns the server-side debt aggregate.
func (c *Client) DebtStats(ctx context.Context) (core.DebtStats, error) {
	var out core.DebtStats
	if err := c.get(ctx, "/debts/stats", &out); err != nil {
		return core.DebtStats{}, err
	}
	return out, nil
}

// Predictions returns the server-computed spending predictions.
func (c *Client) Predictions(ctx context.Context) ([]core.Prediction, error) {
	var out []core.Prediction
	if err := c.get(ctx, "/predictions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Nudges returns the user's nudges, read and unread.
func (c *Client) Nudges(ctx context.Context) ([]core.Nudge, error) {
	var out []core.Nudge
	if err := c.get(ctx, "/nudges", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateNudge posts a new nudge, used by the milestone worker to turn queue
// events into user-visible notifications.
func (c *Client) CreateNudge(ctx context.Context, n core.Nudge) (core.Nudge, error) {
	var out core.Nudge
	if err := c.post(ctx, "/nudges", n, &out); err != nil {
		return core.Nudge{}, err
	}
	return out, nil
}

// MarkNudgeRead flags a nudge as read.
func (c *Client) MarkNudgeRead(ctx context.Context, id int64) error {
	return c.put(ctx, fmt.Sprintf("/nudges/%d/read", id), nil, nil)
}

// Receipts returns uploaded receipts and their OCR pipeline status.
func (c *Client) Receipts(ctx context.Context) ([]core.Receipt, error) {
	var out []core.Receipt
	if err := c.get(ctx, "/receipts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveRecurringExpenses returns subscriptions currently being tracked.
func (c *Client) ActiveRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	var out []core.RecurringExpense
	if err := c.get(ctx, "/recurring-expenses/active", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MonthlySummary is the aggregate from /analytics/monthly.
type MonthlySummary struct {
	TotalExpenses float64 `json:"totalExpenses"`
}

// YearlySummary is the aggregate from /analytics/yearly.
type YearlySummary struct {
	TotalExpenses float64 `json:"totalExpenses"`
}

// TrendRow is one point of the server-side spending trend series.
type TrendRow struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// SharedSummary is the server aggregate from /shared-expenses/summary.
type SharedSummary struct {
	TotalOwedToYou float64 `json:"totalOwedToYou"`
	TotalYouOwe    float64 `json:"totalYouOwe"`
}

// MonthlyAnalytics returns the spending aggregate for one month.
func (c *Client) MonthlyAnalytics(ctx context.Context, year, month int) (MonthlySummary, error) {
	var out MonthlySummary
	path := fmt.Sprintf("/analytics/monthly?year=%d&month=%d", year, month)
	if err := c.get(ctx, path, &out); err != nil {
		return MonthlySummary{}, err
	}
	return out, nil
}

// YearlyAnalytics returns the spending aggregate for one year.
func (c *Client) YearlyAnalytics(ctx context.Context, year int) (YearlySummary, error) {
	var out YearlySummary
	if err := c.get(ctx, fmt.Sprintf("/analytics/yearly?year=%d", year), &out); err != nil {
		return YearlySummary{}, err
	}
	return out, nil
}

// SpendingTrends returns the trend series for the last months.
func (c *Client) SpendingTrends(ctx context.Context, months int) ([]TrendRow, error) {
	var out []TrendRow
	if err := c.get(ctx, fmt.Sprintf("/analytics/trends?months=%d", months), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentExpenses returns the newest expenses, at most size of them. The
// backend pages this resource; only the first page's content is needed here.
func (c *Client) RecentExpenses(ctx context.Context, size int) ([]core.Expense, error) {
	var out struct {
		Content []core.Expense `json:"content"`
	}
	if err := c.get(ctx, fmt.Sprintf("/expenses?page=0&size=%d", size), &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

// SharedExpenseSummary returns the server-side owe totals.
func (c *Client) SharedExpenseSummary(ctx context.Context) (SharedSummary, error) {
	var out SharedSummary
	if err := c.get(ctx, "/shared-expenses/summary", &out); err != nil {
		return SharedSummary{}, err
	}
	return out, nil
}

// TaxRecords returns the deductible summary rows for the given year.
func (c *Client) TaxRecords(ctx context.Context, year int) ([]core.TaxRecord, error) {
	var out []core.TaxRecord
	if err := c.get(ctx, fmt.Sprintf("/tax-exports?year=%d", year), &out); err != nil {
		return nil, err
	}
	return out, nil
}
