package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := Map(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		return n * 10, nil
	})
	want := []int{10, 20, 30, 40, 50}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %d; want %d", i, got[i], want[i])
		}
	}
}

func TestMapSkipsFailures(t *testing.T) {
	items := []int{1, 2, 3, 4}
	got := Map(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, errors.New("even")
		}
		return n, nil
	})
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected [1 3], got %v", got)
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	const workers = 2
	var active, peak atomic.Int32

	items := make([]int, 20)
	Map(context.Background(), items, workers, func(_ context.Context, n int) (int, error) {
		cur := active.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		active.Add(-1)
		return n, nil
	})

	if p := peak.Load(); p > workers {
		t.Errorf("peak concurrency %d exceeded worker bound %d", p, workers)
	}
}

func TestMapEmptyAndCancelled(t *testing.T) {
	if got := Map[int, int](context.Background(), nil, 4, nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := Map(ctx, []int{1, 2, 3}, 1, func(context.Context, int) (int, error) {
		return 1, nil
	})
	if len(got) != 0 {
		t.Fatalf("expected no results after cancellation, got %v", got)
	}
}
