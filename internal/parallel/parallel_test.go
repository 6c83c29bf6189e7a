package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	tasks := []Task[int]{
		{Name: "one", Fn: func(context.Context) (int, error) { return 1, nil }},
		{Name: "two", Fn: func(context.Context) (int, error) { return 2, nil }},
		{Name: "three", Fn: func(context.Context) (int, error) { return 3, nil }},
	}

	results := Run(context.Background(), tasks, 4)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if !r.OK() {
			t.Errorf("task %s should be OK", r.Name)
		}
		if r.Value != i+1 {
			t.Errorf("task %s: expected %d, got %d", r.Name, i+1, r.Value)
		}
	}
}

func TestRun_WithErrors(t *testing.T) {
	tasks := []Task[string]{
		{Name: "ok-task", Fn: func(context.Context) (string, error) { return "fine", nil }},
		{Name: "fail-task", Fn: func(context.Context) (string, error) { return "partial", fmt.Errorf("simulated failure") }},
		{Name: "after", Fn: func(context.Context) (string, error) { return "still runs", nil }},
	}

	results := Run(context.Background(), tasks, 1)

	// Results should be in order
	if !results[0].OK() || results[0].Value != "fine" {
		t.Errorf("first task should be OK, got %+v", results[0])
	}
	if results[1].OK() {
		t.Error("second task should have failed")
	}
	if results[1].Value != "partial" {
		t.Errorf("expected value %q, got %q", "partial", results[1].Value)
	}
	if !results[2].OK() {
		t.Error("a failure should not stop later tasks")
	}
}

func TestRun_Concurrency(t *testing.T) {
	var maxConcurrent int64
	var current int64

	tasks := make([]Task[struct{}], 10)
	for i := range tasks {
		tasks[i] = Task[struct{}]{
			Name: fmt.Sprintf("task-%d", i),
			Fn: func(context.Context) (struct{}, error) {
				c := atomic.AddInt64(&current, 1)
				// Track max concurrent
				for {
					old := atomic.LoadInt64(&maxConcurrent)
					if c <= old || atomic.CompareAndSwapInt64(&maxConcurrent, old, c) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return struct{}{}, nil
			},
		}
	}

	results := Run(context.Background(), tasks, 2)
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	if maxConcurrent > 2 {
		t.Errorf("max concurrent should be <= 2, got %d", maxConcurrent)
	}
}

func TestRun_DefaultConcurrency(t *testing.T) {
	tasks := []Task[int]{{Name: "test", Fn: func(context.Context) (int, error) { return 0, nil }}}

	// Should not panic with 0 concurrency (defaults to 4)
	results := Run(context.Background(), tasks, 0)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	tasks := []Task[int]{{Name: "never", Fn: func(context.Context) (int, error) { ran = true; return 0, nil }}}
	results := Run(ctx, tasks, 1)
	if ran {
		t.Error("task should not run after cancel")
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results[0].Err)
	}
	if results[0].Name != "never" {
		t.Errorf("expected name to be kept, got %q", results[0].Name)
	}
}

func TestRun_TimingTracked(t *testing.T) {
	tasks := []Task[int]{{Name: "slow", Fn: func(context.Context) (int, error) {
		time.Sleep(30 * time.Millisecond)
		return 0, nil
	}}}

	results := Run(context.Background(), tasks, 1)
	if results[0].Elapsed < 30*time.Millisecond {
		t.Errorf("expected elapsed >= 30ms, got %v", results[0].Elapsed)
	}
}
