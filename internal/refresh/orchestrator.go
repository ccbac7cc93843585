// Package refresh drives keyword refreshes against a trend provider,
// pacing requests and fanning results out to the leaderboard, the
// activity log and the toast queue.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/logging"
	"github.com/hypertrend/trendwatch/internal/monitor"
	"github.com/hypertrend/trendwatch/internal/provider"
	"github.com/hypertrend/trendwatch/internal/store"
	"github.com/hypertrend/trendwatch/internal/toast"
)

// DefaultDelay is the pause enforced between consecutive provider
// requests in a batch.
const DefaultDelay = 15 * time.Second

// CycleState describes the progress of the current (or last) batch.
type CycleState struct {
	Running         bool
	CurrentIndex    int    // 0-based position within the batch, -1 while idle
	Total           int
	CurrentKeyword  string // keyword with a call in flight, empty once it settles
	LastCompletedAt time.Time
}

// Orchestrator refreshes keywords one at a time. At most one batch runs
// at once, and a keyword already being refreshed is never fetched twice
// concurrently.
type Orchestrator struct {
	provider provider.Provider
	board    *board.Board
	log      *monitor.Log
	toasts   *toast.Queue
	store    *store.Store // optional, nil disables persistence
	region   string
	delay    time.Duration

	mu      sync.Mutex
	running bool
	cycle   CycleState
}

// New creates an orchestrator. st may be nil when persistence is not
// wanted (tests). A non-positive delay disables inter-request pacing.
func New(p provider.Provider, b *board.Board, log *monitor.Log, toasts *toast.Queue, st *store.Store, region string, delay time.Duration) *Orchestrator {
	return &Orchestrator{
		provider: p,
		board:    b,
		log:      log,
		toasts:   toasts,
		store:    st,
		region:   region,
		delay:    delay,
		cycle:    CycleState{CurrentIndex: -1},
	}
}

// RefreshOne refreshes a single keyword by board ID. Returns false when
// the keyword is unknown, already refreshing, or the provider call
// failed. The board's refreshing flag is always cleared on the way out.
func (o *Orchestrator) RefreshOne(ctx context.Context, id string) bool {
	prev, ok := o.board.Get(id)
	if !ok {
		logging.Warn("refresh requested for unknown keyword", "id", id)
		return false
	}
	if !o.board.MarkRefreshing(id, true) {
		logging.Debug("refresh skipped, already in flight", "keyword", prev.Keyword)
		return false
	}
	o.setCurrentKeyword(prev.Keyword)
	defer o.setCurrentKeyword("")

	o.log.Append(monitor.KindFetch, prev.Keyword, fmt.Sprintf("Refreshing %q...", prev.Keyword), nil)
	o.toasts.Enqueue(toast.KindInfo, "Refreshing", prev.Keyword)

	start := time.Now()
	data, err := o.provider.Refresh(ctx, prev.Keyword, o.region)
	elapsed := time.Since(start)

	if err != nil {
		o.board.MarkRefreshing(id, false)
		o.log.Append(monitor.KindError, prev.Keyword,
			fmt.Sprintf("Refresh failed: %v", err),
			&monitor.Details{Duration: elapsed})
		o.toasts.Enqueue(toast.KindError, fmt.Sprintf("Failed to refresh %q", prev.Keyword), err.Error())
		logging.Error("refresh failed", "keyword", prev.Keyword, "err", err, "elapsed", elapsed)
		return false
	}

	at := data.LastUpdated
	if at.IsZero() {
		at = time.Now()
	}
	o.board.UpsertSample(id, data.Sparkline, at)

	cur, _ := o.board.Get(id)
	details := &monitor.Details{
		CurrentInterest:    intPtr(cur.CurrentInterest),
		PreviousInterest:   intPtr(prev.CurrentInterest),
		TrendScore:         floatPtr(cur.TrendScore),
		PreviousTrendScore: floatPtr(prev.TrendScore),
		DataPoints:         intPtr(data.DataPoints),
		Duration:           elapsed,
	}
	o.log.Append(monitor.KindSuccess, prev.Keyword,
		fmt.Sprintf("Refreshed %q: interest %d, trend %+.1f", prev.Keyword, cur.CurrentInterest, cur.TrendScore),
		details)
	o.toasts.Enqueue(toast.KindSuccess, fmt.Sprintf("Refreshed %q", prev.Keyword),
		fmt.Sprintf("Interest: %d, Trend: %+.1f%%", cur.CurrentInterest, cur.TrendScore))
	logging.Info("refresh complete", "keyword", prev.Keyword, "interest", cur.CurrentInterest,
		"trend", cur.TrendScore, "elapsed", elapsed)

	o.persist(id, data, at)
	return true
}

// persist writes the returned sparkline to the store. The provider does
// not timestamp individual samples, so points are spaced one hour apart
// ending at the refresh time.
func (o *Orchestrator) persist(id string, data provider.TrendData, at time.Time) {
	if o.store == nil || len(data.Sparkline) == 0 {
		return
	}
	keywordID := data.KeywordID
	if keywordID == "" {
		keywordID = id
	}
	points := make([]store.Point, len(data.Sparkline))
	n := len(data.Sparkline)
	for i, v := range data.Sparkline {
		points[i] = store.Point{
			TS:       at.Add(-time.Duration(n-1-i) * time.Hour),
			Interest: v,
		}
	}
	if err := o.store.SaveSeries(keywordID, o.region, points); err != nil {
		logging.Error("failed to persist series", "keyword_id", keywordID, "err", err)
	}
}

// RefreshAll refreshes every keyword on the board in leaderboard order,
// pausing for the configured delay after each call settles before
// starting the next one. It returns false without
// doing anything when a batch is already running or the board is empty.
// Individual failures are logged and the batch continues. Blocks until
// the batch finishes or ctx is canceled.
func (o *Orchestrator) RefreshAll(ctx context.Context) bool {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		logging.Debug("refresh-all skipped, batch already running")
		return false
	}
	entries := o.board.Snapshot()
	if len(entries) == 0 {
		o.mu.Unlock()
		return false
	}
	o.running = true
	o.cycle = CycleState{Running: true, Total: len(entries), CurrentIndex: -1}
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.cycle.Running = false
		o.cycle.CurrentIndex = -1
		o.cycle.LastCompletedAt = time.Now()
		o.mu.Unlock()
	}()

	logging.Info("refresh-all started", "keywords", len(entries))

	for i, e := range entries {
		if ctx.Err() != nil {
			logging.Warn("refresh-all canceled", "err", ctx.Err())
			return true
		}

		o.mu.Lock()
		o.cycle.CurrentIndex = i
		o.mu.Unlock()

		o.RefreshOne(ctx, e.ID)

		// The pause between keywords is counted from the moment the
		// call settles, not from when it started. No trailing pause
		// after the last keyword.
		if i == len(entries)-1 {
			break
		}
		if !o.pause(ctx) {
			logging.Warn("refresh-all canceled", "err", ctx.Err())
			return true
		}
	}

	logging.Info("refresh-all finished", "keywords", len(entries))
	return true
}

// pause waits out the configured inter-request delay. Returns false
// when ctx is canceled first.
func (o *Orchestrator) pause(ctx context.Context) bool {
	if o.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(o.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (o *Orchestrator) setCurrentKeyword(keyword string) {
	o.mu.Lock()
	o.cycle.CurrentKeyword = keyword
	o.mu.Unlock()
}

// Cycle returns a snapshot of the batch progress.
func (o *Orchestrator) Cycle() CycleState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cycle
}

// Running reports whether a batch is in progress.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
