package http

import (
	"errors"
	"net/http"
	"strconv"

	"takatrack/internal/analytics"
	"takatrack/internal/core"
	"takatrack/internal/dashboard"
	"takatrack/internal/goals"
)

const snapshotCacheKey = "dashboard"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshotCache.GetOrFill(snapshotCacheKey, func() (dashboard.Snapshot, error) {
		return s.dashboard.Snapshot(r.Context())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleIncomeAnalytics(w http.ResponseWriter, r *http.Request) {
	incomes, err := s.backend.Incomes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.IncomeStats(incomes, s.now()))
}

func (s *Server) handleIncomeTrend(w http.ResponseWriter, r *http.Request) {
	incomes, err := s.backend.Incomes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.IncomeTrend(incomes, s.now()))
}

type budgetView struct {
	core.Budget
	Status       analytics.BudgetStatus `json:"status"`
	StatusLabel  string                 `json:"statusLabel"`
	DisplayUsage float64                `json:"displayUsage"`
}

type budgetOverview struct {
	Budgets    []budgetView              `json:"budgets"`
	Alerts     []core.Budget             `json:"alerts"`
	OverBudget int                       `json:"overBudgetCount"`
	History    []analytics.HistoryBucket `json:"history"`
}

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	current, err := s.backend.CurrentBudgets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	history, err := s.backend.BudgetHistory(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]budgetView, 0, len(current))
	for _, b := range current {
		status := analytics.StatusOf(b)
		views = append(views, budgetView{
			Budget:       b,
			Status:       status,
			StatusLabel:  status.Label(),
			DisplayUsage: analytics.ClampPercent(b.PercentageUsed),
		})
	}

	writeJSON(w, http.StatusOK, budgetOverview{
		Budgets:    views,
		Alerts:     analytics.BudgetAlerts(current, 3),
		OverBudget: analytics.OverBudgetCount(current),
		History:    analytics.BudgetHistory(history),
	})
}

func (s *Server) handleBudgetAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.backend.BudgetAnalytics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDebtProgress(w http.ResponseWriter, r *http.Request) {
	debts, err := s.backend.Debts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.DebtProgressList(debts))
}

func (s *Server) handleDebtStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.backend.DebtStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := s.backend.Predictions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, predictions)
}

func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.backend.Receipts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (s *Server) handleNudges(w http.ResponseWriter, r *http.Request) {
	nudges, err := s.backend.Nudges(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nudges)
}

func (s *Server) handleMarkNudgeRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.backend.MarkNudgeRead(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ledgerResponse struct {
	Expenses []ledgerEntry           `json:"expenses"`
	Summary  analytics.LedgerSummary `json:"summary"`
	Groups   []string                `json:"groups"`
}

type ledgerEntry struct {
	core.SharedExpense
	PaymentProgress float64 `json:"paymentProgress"`
	SplitLabel      string  `json:"splitLabel"`
}

func (s *Server) handleSharedLedger(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledgerCache.GetOrFill("ledger", func() ([]core.SharedExpense, error) {
		return s.backend.SharedExpenses(r.Context())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := analytics.LedgerFilter{
		Tab:   analytics.LedgerTab(r.URL.Query().Get("tab")),
		Group: r.URL.Query().Get("group"),
		Query: r.URL.Query().Get("q"),
	}
	if filter.Tab == "" {
		filter.Tab = analytics.TabAll
	}

	filtered := analytics.FilterLedger(expenses, s.userID, filter)
	entries := make([]ledgerEntry, 0, len(filtered))
	for _, exp := range filtered {
		entries = append(entries, ledgerEntry{
			SharedExpense:   exp,
			PaymentProgress: analytics.PaymentProgress(exp),
			SplitLabel:      exp.SplitType.Label(),
		})
	}

	writeJSON(w, http.StatusOK, ledgerResponse{
		Expenses: entries,
		Summary:  analytics.SummarizeLedger(expenses, s.userID),
		Groups:   analytics.Groups(expenses),
	})
}

// handleSharedSummary passes the server's owe totals through untouched; the
// backend is authoritative for aggregates it already computes. The locally
// derived ledger summary exists for filtering views the server does not
// aggregate.
func (s *Server) handleSharedSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.backend.SharedExpenseSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type goalView struct {
	core.SavingsGoal
	Progress      float64           `json:"progress"`
	DaysRemaining int               `json:"daysRemaining"`
	MonthlyTarget float64           `json:"monthlyTarget"`
	Milestones    []goals.Milestone `json:"milestones"`
}

func (s *Server) goalView(g core.SavingsGoal) goalView {
	progress := goals.Progress(g.CurrentAmount, g.TargetAmount)
	return goalView{
		SavingsGoal:   g,
		Progress:      progress,
		DaysRemaining: goals.DaysRemaining(g.Deadline, s.now()),
		MonthlyTarget: goals.MonthlyTarget(g.CurrentAmount, g.TargetAmount, g.Deadline, s.now()),
		Milestones:    goals.Milestones(progress),
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	list, err := s.goals.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]goalView, 0, len(list))
	for _, g := range list {
		views = append(views, s.goalView(g))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := decodeBody(r, &g); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	created, err := s.goals.Create(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusCreated, s.goalView(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var g core.SavingsGoal
	if err := decodeBody(r, &g); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	updated, err := s.goals.Update(r.Context(), id, g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, s.goalView(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.goals.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

type contributionResponse struct {
	Goal      goalView          `json:"goal"`
	NewBadges []goals.Milestone `json:"newBadges"`
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var c core.Contribution
	if err := decodeBody(r, &c); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	updated, crossed, err := s.goals.Contribute(r.Context(), id, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, contributionResponse{
		Goal:      s.goalView(updated),
		NewBadges: crossed,
	})
}

type taxExportRequest struct {
	Year int `json:"year"`
}

type taxExportResponse struct {
	Year    int `json:"year"`
	Records int `json:"records"`
}

func (s *Server) handleTaxExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "tax export not configured"})
		return
	}
	var req taxExportRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Year == 0 {
		req.Year = s.now().Year()
	}
	count, err := s.exporter.Run(r.Context(), req.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taxExportResponse{Year: req.Year, Records: count})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id in path")
	}
	return id, nil
}
