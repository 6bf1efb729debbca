package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"technews/internal/logging"
)

func TestSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(logging.New("error"))
	s.AddJob("counter", 20*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	if got := runs.Load(); got < 3 {
		t.Fatalf("expected at least 3 runs (one immediate plus ticks), got %d", got)
	}
}

func TestSchedulerStopHaltsJobs(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(logging.New("error"))
	s.AddJob("counter", 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Fatalf("job kept running after Stop: %d -> %d", after, got)
	}
}

func TestSchedulerSkipsInvalidJobs(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(logging.New("error"))
	s.AddJob("no-interval", 0, func(context.Context) { runs.Add(1) })
	s.AddJob("no-func", time.Millisecond, nil)

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	if got := runs.Load(); got != 0 {
		t.Fatalf("invalid job executed %d times", got)
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(logging.New("error"))
	s.AddJob("counter", 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	cancel()

	time.Sleep(30 * time.Millisecond)
	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Fatalf("job kept running after cancel: %d -> %d", after, got)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}
