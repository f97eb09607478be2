package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_BasicExecution(t *testing.T) {
	var calls atomic.Int32
	pool := New(Config{Workers: 2})

	jobs := make([]Job, 3)
	for i := range jobs {
		id := []string{"a", "b", "c"}[i]
		jobs[i] = Job{ID: id, Run: func(ctx context.Context) (any, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			return id + "-done", nil
		}}
	}

	results := pool.Run(context.Background(), jobs)

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected error for %s: %v", r.ID, r.Err)
		}
	}
	if calls.Load() != int32(len(jobs)) {
		t.Errorf("expected %d job invocations, got %d", len(jobs), calls.Load())
	}
}

func TestPool_Parallelism(t *testing.T) {
	pool := New(Config{Workers: 4})

	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = Job{ID: string(rune('a' + i)), Run: func(ctx context.Context) (any, error) {
			time.Sleep(50 * time.Millisecond)
			return nil, nil
		}}
	}

	start := time.Now()
	results := pool.Run(context.Background(), jobs)
	elapsed := time.Since(start)

	if elapsed > 200*time.Millisecond {
		t.Errorf("expected parallel execution in ~100ms, took %v", elapsed)
	}
	if len(results) != len(jobs) {
		t.Errorf("expected %d results, got %d", len(jobs), len(results))
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := New(Config{Workers: 2})

	jobs := []Job{
		{ID: "ok1", Run: func(ctx context.Context) (any, error) { return nil, nil }},
		{ID: "bad", Run: func(ctx context.Context) (any, error) { return nil, errors.New("simulated failure") }},
		{ID: "ok2", Run: func(ctx context.Context) (any, error) { return nil, nil }},
	}

	results := pool.Run(context.Background(), jobs)

	var successCount, failCount int
	for _, r := range results {
		if r.Err != nil {
			failCount++
			if r.ID != "bad" {
				t.Errorf("unexpected failure for %s", r.ID)
			}
		} else {
			successCount++
		}
	}
	if successCount != 2 {
		t.Errorf("expected 2 successes, got %d", successCount)
	}
	if failCount != 1 {
		t.Errorf("expected 1 failure, got %d", failCount)
	}
}

func TestPool_Cancellation(t *testing.T) {
	pool := New(Config{Workers: 2})

	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = Job{ID: string(rune('a' + i)), Run: func(ctx context.Context) (any, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(100 * time.Millisecond):
				return nil, nil
			}
		}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results := pool.Run(ctx, jobs)
	elapsed := time.Since(start)

	if elapsed > 250*time.Millisecond {
		t.Errorf("expected early cancellation, took %v", elapsed)
	}
	if len(results) == 0 {
		t.Error("expected at least some results")
	}
}

func TestPool_ProgressCallback(t *testing.T) {
	var progressCalls atomic.Int32
	var lastCompleted, lastTotal int

	pool := New(Config{
		Workers: 2,
		OnProgress: func(completed, total, failed int) {
			progressCalls.Add(1)
			lastCompleted = completed
			lastTotal = total
		},
	})

	jobs := []Job{
		{ID: "a", Run: func(ctx context.Context) (any, error) { return nil, nil }},
		{ID: "b", Run: func(ctx context.Context) (any, error) { return nil, nil }},
		{ID: "c", Run: func(ctx context.Context) (any, error) { return nil, nil }},
	}

	pool.Run(context.Background(), jobs)

	if progressCalls.Load() == 0 {
		t.Error("expected progress callbacks, got none")
	}
	if lastCompleted != len(jobs) || lastTotal != len(jobs) {
		t.Errorf("expected final callback to report %d/%d, got %d/%d", len(jobs), len(jobs), lastCompleted, lastTotal)
	}
}

func TestPool_EmptyJobs(t *testing.T) {
	pool := New(Config{Workers: 2})
	results := pool.Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty jobs, got %d", len(results))
	}
}
