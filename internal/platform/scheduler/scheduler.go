// Package scheduler runs a job on a fixed interval with at most one run in flight.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval は価格更新ジョブの既定の実行間隔です。
const DefaultInterval = 10 * time.Minute

// ErrAlreadyStarted is returned by Start when the scheduler is already running its loop.
var ErrAlreadyStarted = errors.New("scheduler already started")

// State reports whether a job run is in flight.
type State int32

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Locker guards a run across processes. TryLock reports false when another
// process holds the lock.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocker makes every run acquire l first. Lock errors do not block the run.
func WithLocker(l Locker) Option {
	return func(s *Scheduler) { s.locker = l }
}

// WithName sets the name used in log lines.
func WithName(name string) Option {
	return func(s *Scheduler) { s.name = name }
}

// Scheduler fires Job every interval. A tick that arrives while the previous
// run is still in flight is dropped.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	locker   Locker

	state atomic.Int32

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running sync.WaitGroup
}

// New creates a Scheduler. If interval is 0 it defaults to DefaultInterval.
func New(interval time.Duration, job Job, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{name: "scheduler", interval: interval, job: job}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current run state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Start launches the ticker loop and returns immediately. The first run
// happens one interval after Start. The loop ends when ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)

	slog.Info("scheduler started", "name", s.name, "interval", s.interval)
	return nil
}

// Stop ends the ticker loop and waits for an in-flight run to finish.
// It is safe to call Stop more than once or without Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.running.Wait()
	slog.Info("scheduler stopped", "name", s.name)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.running.Add(1)
			go func() {
				defer s.running.Done()
				s.tick(ctx)
			}()
		}
	}
}

// tick performs one run unless another is in flight. It reports whether the
// job was invoked.
func (s *Scheduler) tick(ctx context.Context) bool {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		slog.Warn("previous run still in progress, skipping tick", "name", s.name)
		return false
	}
	defer s.state.Store(int32(StateIdle))

	// 停止要求が来ても実行中のサイクルは最後まで走らせる（Stopが完了を待つ）
	runCtx := context.WithoutCancel(ctx)

	if s.locker != nil {
		ok, err := s.locker.TryLock(runCtx)
		switch {
		case err != nil:
			slog.Warn("lock unavailable, running without it", "name", s.name, "error", err)
		case !ok:
			slog.Info("another instance holds the lock, skipping tick", "name", s.name)
			return false
		default:
			defer func() {
				if err := s.locker.Unlock(runCtx); err != nil {
					slog.Warn("failed to release lock", "name", s.name, "error", err)
				}
			}()
		}
	}

	start := time.Now()
	if err := s.job(runCtx); err != nil {
		slog.Error("scheduled run failed", "name", s.name, "error", err, "duration", time.Since(start))
		return true
	}
	slog.Debug("scheduled run finished", "name", s.name, "duration", time.Since(start))
	return true
}
