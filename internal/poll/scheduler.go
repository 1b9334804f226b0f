package poll

import (
	"context"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

// DefaultInterval matches the board's refresh cadence.
const DefaultInterval = 5 * time.Second

// RefreshFunc runs one consolidation pass.
type RefreshFunc func(ctx context.Context) error

// Scheduler drives the fixed-interval refresh loop. One refresh runs at a
// time: a tick that fires while a pass is still in flight waits its turn
// (the refresh itself serializes), so a tick never processes results while
// the previous store update is in flight. Kick requests an immediate pass,
// which is how push events and partial-failure reconciliation skip the wait
// for the next tick.
type Scheduler struct {
	interval time.Duration
	refresh  RefreshFunc
	logger   aqm.Logger

	kick   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

func NewScheduler(interval time.Duration, refresh RefreshFunc, logger aqm.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Scheduler{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. The first pass runs immediately so the
// board is populated before the first tick elapses.
func (s *Scheduler) Start(ctx context.Context) error {
	s.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.cancel = cancel
		go s.run(loopCtx)
	})
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Infof("poll scheduler started, interval %s", s.interval)
	s.runRefresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("poll scheduler stopped")
			return
		case <-ticker.C:
			s.runRefresh(ctx)
		case <-s.kick:
			s.runRefresh(ctx)
		}
	}
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.refresh(ctx); err != nil {
		// A failed pass keeps the previous board contents; the next tick
		// will try again. No backoff, no automatic retry storm.
		s.logger.Errorf("refresh pass incomplete: %v", err)
	}
}

// Kick schedules an immediate refresh. Coalesces: a pending kick absorbs
// further ones.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and waits for the in-flight pass to finish, so no
// late resolution mutates torn-down state.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	if s.cancel == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
