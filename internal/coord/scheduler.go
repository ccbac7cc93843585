// Package coord provides the live-monitoring scheduler.
package coord

import (
	"context"
	"sync"
	"time"

	"github.com/hypertrend/trendwatch/internal/logging"
)

// DefaultInterval is the time between live refresh cycles.
const DefaultInterval = 5 * time.Minute

// Refresher triggers a full refresh batch. Satisfied by
// *refresh.Orchestrator; an interface for dependency injection (testing).
type Refresher interface {
	RefreshAll(ctx context.Context) bool
}

// Scheduler periodically triggers batch refreshes while live monitoring
// is on. Start/Stop may be toggled repeatedly; batches in flight when
// Stop is called run to completion.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a stopped scheduler. A non-positive interval
// falls back to DefaultInterval.
func NewScheduler(r Refresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{refresher: r, interval: interval}
}

// Start begins ticking. ctx bounds the batches themselves; the ticker
// loop is stopped via Stop. Calling Start while already running is a
// no-op and returns false.
func (s *Scheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return false
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx, loopCtx)

	logging.Info("live monitoring started", "interval", s.interval)
	return true
}

// run ticks until either context ends. Batches receive batchCtx, not
// loopCtx, so Stop never aborts a refresh that has already begun.
func (s *Scheduler) run(batchCtx, loopCtx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			return
		case <-batchCtx.Done():
			return
		case <-ticker.C:
			s.refresher.RefreshAll(batchCtx)
		}
	}
}

// Stop cancels the ticker loop. Idempotent. An in-flight batch is left
// to finish; use Wait to join it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	logging.Info("live monitoring stopped")
}

// Running reports whether the ticker loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Wait blocks until the background goroutine exits. Call after Stop (or
// after canceling the context passed to Start).
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
