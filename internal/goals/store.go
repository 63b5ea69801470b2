package goals

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"takatrack/internal/core"

	_ "modernc.org/sqlite"
)

// Store persists the savings-goal collection. The whole list is the unit of
// storage: mutations read the collection, change it, and write it back, and
// the Service serializes those read-modify-write cycles so no partial state
// is ever observable.
type Store interface {
	// List returns the stored collection.
	List(ctx context.Context) ([]core.SavingsGoal, error)

	// Save replaces the stored collection (last write wins).
	Save(ctx context.Context, list []core.SavingsGoal) error

	Close() error
}

// SQLiteStore keeps the goal collection in a local SQLite database, the
// service-side replacement for the browser's local storage. Schema changes
// go through versioned migrations instead of the silent shape drift the
// key-value original risked.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the goals database and brings
// the schema up to date.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_amount, current_amount, deadline, category, priority, contributions, created_at
		FROM savings_goals
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	list := make([]core.SavingsGoal, 0)
	for rows.Next() {
		var (
			g             core.SavingsGoal
			deadline      string
			createdAt     string
			contributions string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&deadline, &g.Category, &g.Priority, &contributions, &createdAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.Deadline, err = parseStoredDate(deadline); err != nil {
			return nil, fmt.Errorf("goal %d: parse deadline: %w", g.ID, err)
		}
		if g.CreatedAt, err = parseStoredDate(createdAt); err != nil {
			return nil, fmt.Errorf("goal %d: parse created_at: %w", g.ID, err)
		}
		if err := json.Unmarshal([]byte(contributions), &g.Contributions); err != nil {
			return nil, fmt.Errorf("goal %d: decode contributions: %w", g.ID, err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return list, nil
}

// Save implements Store: the collection is rewritten atomically inside one
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, list []core.SavingsGoal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM savings_goals`); err != nil {
		return fmt.Errorf("clear goals: %w", err)
	}

	for i, g := range list {
		contributions, err := json.Marshal(g.Contributions)
		if err != nil {
			return fmt.Errorf("goal %d: encode contributions: %w", g.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO savings_goals
				(id, position, name, target_amount, current_amount, deadline, category, priority, contributions, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, g.Name, g.TargetAmount, g.CurrentAmount,
			g.Deadline.Format("2006-01-02"), g.Category, string(g.Priority),
			string(contributions), g.CreatedAt.Format("2006-01-02"))
		if err != nil {
			return fmt.Errorf("insert goal %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Savings goals saved", "count", len(list))
	return nil
}

func parseStoredDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

// MemoryStore holds the collection in memory. It backs tests and the
// "memory" data backend for running without a database file.
type MemoryStore struct {
	mu   sync.RWMutex
	list []core.SavingsGoal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(ctx context.Context) ([]core.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGoals(s.list), nil
}

func (s *MemoryStore) Save(ctx context.Context, list []core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = cloneGoals(list)
	return nil
}

// cloneGoals copies the contribution lists too, so stored goals never alias
// slices the caller may keep mutating.
func cloneGoals(list []core.SavingsGoal) []core.SavingsGoal {
	out := make([]core.SavingsGoal, len(list))
	copy(out, list)
	for i := range out {
		if out[i].Contributions != nil {
			out[i].Contributions = append([]core.Contribution(nil), out[i].Contributions...)
		}
	}
	return out
}

func (s *MemoryStore) Close() error { return nil }
