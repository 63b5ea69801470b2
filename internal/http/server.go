// Package http serves the derived-analytics JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"takatrack/internal/backendapi"
	"takatrack/internal/cache"
	"takatrack/internal/core"
	"takatrack/internal/dashboard"
	"takatrack/internal/goals"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Backend is the slice of the API client the handlers consume directly.
type Backend interface {
	Incomes(ctx context.Context) ([]core.Income, error)
	CurrentBudgets(ctx context.Context) ([]core.Budget, error)
	BudgetHistory(ctx context.Context) ([]core.Budget, error)
	BudgetAnalytics(ctx context.Context) (core.BudgetSummary, error)
	Debts(ctx context.Context) ([]core.Debt, error)
	DebtStats(ctx context.Context) (core.DebtStats, error)
	SharedExpenses(ctx context.Context) ([]core.SharedExpense, error)
	SharedExpenseSummary(ctx context.Context) (backendapi.SharedSummary, error)
	Predictions(ctx context.Context) ([]core.Prediction, error)
	Receipts(ctx context.Context) ([]core.Receipt, error)
	Nudges(ctx context.Context) ([]core.Nudge, error)
	MarkNudgeRead(ctx context.Context, id int64) error
}

// TaxExporter runs one tax export; cmd/tax-export shares the implementation.
type TaxExporter interface {
	Run(ctx context.Context, year int) (int, error)
}

// Options carries the optional wiring for NewServer.
type Options struct {
	UserID       int64
	CacheTTL     time.Duration
	CacheSize    int
	CleanupEvery time.Duration
	Exporter     TaxExporter
	Now          func() time.Time
}

type Server struct {
	http.Server

	backend     Backend
	goals       *goals.Service
	dashboard   *dashboard.Service
	exporter    TaxExporter
	userID      int64
	now         func() time.Time
	rateLimiter *rateLimiter

	snapshotCache *cache.LRUCache[dashboard.Snapshot]
	ledgerCache   *cache.LRUCache[[]core.SharedExpense]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, caches and middleware into a ready-to-run server.
func NewServer(addr string, backend Backend, goalSvc *goals.Service, dash *dashboard.Service, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CleanupEvery <= 0 {
		opts.CleanupEvery = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:       backend,
		goals:         goalSvc,
		dashboard:     dash,
		exporter:      opts.Exporter,
		userID:        opts.UserID,
		now:           opts.Now,
		rateLimiter:   newRateLimiter(),
		snapshotCache: cache.NewLRUCache[dashboard.Snapshot](opts.CacheSize, opts.CacheTTL),
		ledgerCache:   cache.NewLRUCache[[]core.SharedExpense](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.snapshotCache)
	s.cacheManager.Register(s.ledgerCache)
	s.cacheManager.StartCleanup(opts.CleanupEvery)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/income/analytics", s.withMiddleware(s.handleIncomeAnalytics))
	mux.HandleFunc("GET /api/income/trend", s.withMiddleware(s.handleIncomeTrend))
	mux.HandleFunc("GET /api/budgets/overview", s.withMiddleware(s.handleBudgetOverview))
	mux.HandleFunc("GET /api/budgets/analytics", s.withMiddleware(s.handleBudgetAnalytics))
	mux.HandleFunc("GET /api/debts/progress", s.withMiddleware(s.handleDebtProgress))
	mux.HandleFunc("GET /api/debts/stats", s.withMiddleware(s.handleDebtStats))
	mux.HandleFunc("GET /api/shared/ledger", s.withMiddleware(s.handleSharedLedger))
	mux.HandleFunc("GET /api/shared/summary", s.withMiddleware(s.handleSharedSummary))

	// Server-computed resources pass through untouched.
	mux.HandleFunc("GET /api/predictions", s.withMiddleware(s.handlePredictions))
	mux.HandleFunc("GET /api/receipts", s.withMiddleware(s.handleReceipts))
	mux.HandleFunc("GET /api/nudges", s.withMiddleware(s.handleNudges))
	mux.HandleFunc("PUT /api/nudges/{id}/read", s.withMiddleware(s.handleMarkNudgeRead))

	mux.HandleFunc("GET /api/goals", s.withMiddleware(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withMiddleware(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.withMiddleware(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withMiddleware(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/contributions", s.withMiddleware(s.handleContribute))

	mux.HandleFunc("POST /api/tax-export/run", s.withMiddleware(s.handleTaxExport))

	return s
}

// Shutdown stops the background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withMiddleware adds security headers, a request ID, request logging and
// rate limiting on mutations.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateViews drops cached aggregates after a goal mutation so the next
// dashboard read reflects it.
func (s *Server) invalidateViews() {
	s.snapshotCache.Delete(snapshotCacheKey)
}

// Rate limiter, in-memory per client IP.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

const (
	rateLimitPerMinute   = 60
	rateLimitSweepEvery  = 5 * time.Minute
	rateLimitStaleCutoff = 10 * time.Minute
)

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(rateLimitSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rateLimitStaleCutoff)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= rateLimitPerMinute
}
