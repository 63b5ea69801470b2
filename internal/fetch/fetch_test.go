package fetch

import (
	"context"
	"errors"
	"testing"
)

func TestAllCollectsEveryBranch(t *testing.T) {
	boom := errors.New("boom")
	results := All(context.Background(),
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, boom },
		func(ctx context.Context) (int, error) { return 3, nil },
	)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !results[0].OK() || results[0].Value != 1 {
		t.Fatalf("branch 0 = %+v", results[0])
	}
	if results[1].OK() || !errors.Is(results[1].Err, boom) {
		t.Fatalf("branch 1 = %+v", results[1])
	}
	if !results[2].OK() || results[2].Value != 3 {
		t.Fatalf("failed sibling must not cancel branch 2: %+v", results[2])
	}
}

func TestOrDefault(t *testing.T) {
	ok := Result[[]string]{Value: []string{"a"}}
	if got := ok.OrDefault(nil); len(got) != 1 {
		t.Fatalf("got %v", got)
	}

	failed := Result[[]string]{Err: errors.New("down")}
	if got := failed.OrDefault([]string{"fallback"}); len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("got %v", got)
	}
	if got := failed.OrZero(); got != nil {
		t.Fatalf("OrZero = %v, want nil", got)
	}
}

func TestAllEmptyBatch(t *testing.T) {
	if results := All[int](context.Background()); len(results) != 0 {
		t.Fatalf("empty batch returned %v", results)
	}
}
