package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"takatrack/internal/core"
)

// ErrGoalNotFound is returned when a goal ID does not exist in the
// collection.
var ErrGoalNotFound = errors.New("savings goal not found")

// MilestonePublisher announces newly crossed milestones. The AMQP client
// satisfies it; a nil publisher disables announcements.
type MilestonePublisher interface {
	PublishGoalMilestone(ctx context.Context, goal core.SavingsGoal, m Milestone) error
}

// Service orchestrates goal mutations over the store. Every mutation is a
// read-modify-write of the whole collection; the mutex serializes them so a
// contribution can never land on a stale snapshot.
type Service struct {
	mu        sync.Mutex
	store     Store
	publisher MilestonePublisher
	now       func() time.Time
}

func NewService(store Store, publisher MilestonePublisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns the collection ordered for display: high priority first,
// stored order preserved within a priority.
func (s *Service) List(ctx context.Context) ([]core.SavingsGoal, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return SortByPriority(list), nil
}

// Get returns a single goal by ID.
func (s *Service) Get(ctx context.Context, id int64) (core.SavingsGoal, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("list goals: %w", err)
	}
	for _, g := range list {
		if g.ID == id {
			return g, nil
		}
	}
	return core.SavingsGoal{}, ErrGoalNotFound
}

// Create validates and appends a new goal. The ID is assigned here, one past
// the highest existing ID, and CreatedAt is stamped with today.
func (s *Service) Create(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.List(ctx)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("list goals: %w", err)
	}

	var maxID int64
	for _, existing := range list {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	g.ID = maxID + 1
	g.CreatedAt = core.Date{Time: s.now()}
	if g.Contributions == nil {
		g.Contributions = []core.Contribution{}
	}

	if err := s.store.Save(ctx, append(list, g)); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goals: %w", err)
	}

	slog.InfoContext(ctx, "Savings goal created", "id", g.ID, "name", g.Name)
	return g, nil
}

// Update replaces the fields of an existing goal. The ID, contribution
// history and creation date are immutable; everything else comes from g.
func (s *Service) Update(ctx context.Context, id int64, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.List(ctx)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("list goals: %w", err)
	}

	for i, existing := range list {
		if existing.ID != id {
			continue
		}
		g.ID = existing.ID
		g.Contributions = existing.Contributions
		g.CreatedAt = existing.CreatedAt
		list[i] = g

		if err := s.store.Save(ctx, list); err != nil {
			return core.SavingsGoal{}, fmt.Errorf("save goals: %w", err)
		}
		slog.InfoContext(ctx, "Savings goal updated", "id", id)
		return g, nil
	}
	return core.SavingsGoal{}, ErrGoalNotFound
}

// Delete removes a goal from the collection.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	for i, existing := range list {
		if existing.ID != id {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if err := s.store.Save(ctx, list); err != nil {
			return fmt.Errorf("save goals: %w", err)
		}
		slog.InfoContext(ctx, "Savings goal deleted", "id", id)
		return nil
	}
	return ErrGoalNotFound
}

// Contribute appends a contribution to a goal and advances its current
// amount in the same write, so the history and the total can never diverge.
// It returns the updated goal and the milestones the contribution crossed.
func (s *Service) Contribute(ctx context.Context, id int64, c core.Contribution) (core.SavingsGoal, []Milestone, error) {
	if err := c.Validate(); err != nil {
		return core.SavingsGoal{}, nil, err
	}
	if c.Date.IsZero() {
		c.Date = core.Date{Time: s.now()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.List(ctx)
	if err != nil {
		return core.SavingsGoal{}, nil, fmt.Errorf("list goals: %w", err)
	}

	for i, g := range list {
		if g.ID != id {
			continue
		}

		before := Progress(g.CurrentAmount, g.TargetAmount)
		g.Contributions = append(g.Contributions, c)
		g.CurrentAmount += c.Amount
		after := Progress(g.CurrentAmount, g.TargetAmount)
		list[i] = g

		if err := s.store.Save(ctx, list); err != nil {
			return core.SavingsGoal{}, nil, fmt.Errorf("save goals: %w", err)
		}

		crossed := CrossedMilestones(before, after)
		s.announce(ctx, g, crossed)

		slog.InfoContext(ctx, "Contribution recorded",
			"goalId", id, "amount", c.Amount, "progress", after)
		return g, crossed, nil
	}
	return core.SavingsGoal{}, nil, ErrGoalNotFound
}

func (s *Service) announce(ctx context.Context, g core.SavingsGoal, crossed []Milestone) {
	if s.publisher == nil || len(crossed) == 0 {
		return
	}
	for _, m := range crossed {
		if err := s.publisher.PublishGoalMilestone(ctx, g, m); err != nil {
			// The contribution is already saved; a lost announcement only
			// costs a nudge.
			slog.ErrorContext(ctx, "Failed to publish milestone event",
				"goalId", g.ID, "milestone", m.Percent, "error", err)
		}
	}
}
