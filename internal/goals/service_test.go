package goals

import (
	"context"
	"errors"
	"testing"
	"time"

	"takatrack/internal/core"
)

type capturingPublisher struct {
	events []Milestone
	fail   bool
}

func (p *capturingPublisher) PublishGoalMilestone(ctx context.Context, goal core.SavingsGoal, m Milestone) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, m)
	return nil
}

func newTestService(t *testing.T) (*Service, *capturingPublisher) {
	t.Helper()
	pub := &capturingPublisher{}
	svc := NewService(NewMemoryStore(), pub)
	svc.now = func() time.Time {
		return time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, pub
}

func newGoal(name string, target float64) core.SavingsGoal {
	return core.SavingsGoal{
		Name:         name,
		TargetAmount: target,
		Deadline:     date(2026, time.January, 1),
		Priority:     core.PriorityMedium,
	}
}

func TestServiceCreateAssignsIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, newGoal("Emergency fund", 1000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, newGoal("Vacation", 500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("createdAt not stamped")
	}
}

func TestServiceCreateRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), newGoal("   ", 1000))
	if !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	_, err = svc.Create(context.Background(), newGoal("Car", 0))
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestServiceListSortsByPriority(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	low := newGoal("Low", 100)
	low.Priority = core.PriorityLow
	high := newGoal("High", 100)
	high.Priority = core.PriorityHigh

	if _, err := svc.Create(ctx, low); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, high); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Name != "High" || list[1].Name != "Low" {
		t.Fatalf("list order = %q, %q", list[0].Name, list[1].Name)
	}
}

func TestServiceUpdatePreservesHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newGoal("Laptop", 2000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.Contribute(ctx, created.ID, core.Contribution{Amount: 300}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	renamed := newGoal("New laptop", 2500)
	updated, err := svc.Update(ctx, created.ID, renamed)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New laptop" || updated.TargetAmount != 2500 {
		t.Fatalf("updated = %+v", updated)
	}
	if len(updated.Contributions) != 1 {
		t.Fatalf("update dropped contribution history: %+v", updated.Contributions)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt.Time) {
		t.Fatalf("update changed createdAt: %v", updated.CreatedAt)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newGoal("Bike", 800))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("err = %v, want ErrGoalNotFound", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("err = %v, want ErrGoalNotFound", err)
	}
}

func TestServiceContributeAdvancesAmountAndHistoryTogether(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newGoal("Trip", 1000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, crossed, err := svc.Contribute(ctx, created.ID, core.Contribution{Amount: 250})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if got.CurrentAmount != 250 {
		t.Fatalf("currentAmount = %v, want 250", got.CurrentAmount)
	}
	if len(got.Contributions) != 1 || got.Contributions[0].Amount != 250 {
		t.Fatalf("contributions = %+v", got.Contributions)
	}
	if got.Contributions[0].Date.IsZero() {
		t.Fatal("contribution date not stamped")
	}
	if len(crossed) != 1 || crossed[0].Percent != 25 {
		t.Fatalf("crossed = %v, want the 25%% milestone", crossed)
	}

	// A stored copy must agree with the returned one.
	stored, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CurrentAmount != got.CurrentAmount || len(stored.Contributions) != len(got.Contributions) {
		t.Fatalf("stored goal diverged: %+v", stored)
	}
}

func TestServiceContributePublishesCrossedMilestones(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newGoal("Fund", 1000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// One big contribution crosses three thresholds at once.
	_, crossed, err := svc.Contribute(ctx, created.ID, core.Contribution{Amount: 800})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if len(crossed) != 3 {
		t.Fatalf("crossed %d milestones, want 3", len(crossed))
	}
	if len(pub.events) != 3 {
		t.Fatalf("published %d events, want 3", len(pub.events))
	}
	if pub.events[0].Percent != 25 || pub.events[2].Percent != 75 {
		t.Fatalf("events = %v", pub.events)
	}

	// Reaching the same threshold twice publishes nothing new.
	_, crossed, err = svc.Contribute(ctx, created.ID, core.Contribution{Amount: 10})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if len(crossed) != 0 || len(pub.events) != 3 {
		t.Fatalf("repeat threshold published events: crossed=%v events=%v", crossed, pub.events)
	}
}

func TestServiceContributeSurvivesPublisherFailure(t *testing.T) {
	svc, pub := newTestService(t)
	pub.fail = true
	ctx := context.Background()

	created, err := svc.Create(ctx, newGoal("Fund", 100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _, err := svc.Contribute(ctx, created.ID, core.Contribution{Amount: 50})
	if err != nil {
		t.Fatalf("contribution must not fail on publish errors: %v", err)
	}
	if got.CurrentAmount != 50 {
		t.Fatalf("currentAmount = %v, want 50", got.CurrentAmount)
	}
}

func TestServiceContributeRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newGoal("Fund", 100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.Contribute(ctx, created.ID, core.Contribution{Amount: 0}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, _, err := svc.Contribute(ctx, 999, core.Contribution{Amount: 10}); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("err = %v, want ErrGoalNotFound", err)
	}
}
