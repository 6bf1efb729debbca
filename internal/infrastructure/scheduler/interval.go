package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"technews/internal/ports"
)

// IntervalScheduler runs each registered job on its own fixed-rate ticker.
// Jobs are independent: overlapping executions of different jobs are allowed,
// matching the ingestion design where storage constraints absorb races.
type IntervalScheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	jobs    []job
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
}

type job struct {
	name     string
	interval time.Duration
	run      func(context.Context)
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds an empty scheduler.
func NewIntervalScheduler(logger *slog.Logger) *IntervalScheduler {
	return &IntervalScheduler{logger: logger}
}

// AddJob registers a recurring job. Must be called before Start.
func (s *IntervalScheduler) AddJob(name string, interval time.Duration, run func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start launches one goroutine per job. Each job runs once immediately and
// then on every tick until ctx is cancelled or Stop is called.
func (s *IntervalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.stop = make(chan struct{})

	for _, j := range s.jobs {
		if j.run == nil || j.interval <= 0 {
			continue
		}

		s.wg.Add(1)
		go s.loop(ctx, j)
	}

	return nil
}

func (s *IntervalScheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	s.logger.Info("job scheduled", "job", j.name, "interval", j.interval)

	j.run(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.run(ctx)
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

// Stop halts all job goroutines and waits for in-flight runs to return.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	close(s.stop)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
