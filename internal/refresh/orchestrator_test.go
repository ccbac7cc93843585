package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/monitor"
	"github.com/hypertrend/trendwatch/internal/provider"
	"github.com/hypertrend/trendwatch/internal/toast"
)

// mockProvider records calls and returns canned responses per keyword.
type mockProvider struct {
	mu        sync.Mutex
	calls     []string
	starts    []time.Time
	responses map[string]provider.TrendData
	errs      map[string]error
	block     chan struct{} // when non-nil, Refresh waits until closed
	latency   time.Duration // when positive, each call takes this long
}

func (m *mockProvider) Refresh(ctx context.Context, keyword, region string) (provider.TrendData, error) {
	m.mu.Lock()
	m.calls = append(m.calls, keyword)
	m.starts = append(m.starts, time.Now())
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return provider.TrendData{}, ctx.Err()
		}
	}
	if m.latency > 0 {
		select {
		case <-time.After(m.latency):
		case <-ctx.Done():
			return provider.TrendData{}, ctx.Err()
		}
	}

	if err, ok := m.errs[keyword]; ok {
		return provider.TrendData{}, err
	}
	if data, ok := m.responses[keyword]; ok {
		return data, nil
	}
	return provider.TrendData{Keyword: keyword, Sparkline: []int{10, 20, 30}, CurrentInterest: 30, DataPoints: 3}, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockProvider) calledKeywords() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockProvider) callStarts() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.starts...)
}

func newTestOrchestrator(p provider.Provider, delay time.Duration) (*Orchestrator, *board.Board, *monitor.Log, *toast.Queue) {
	b := board.New()
	log := monitor.NewLog(monitor.DefaultCapacity)
	toasts := toast.NewQueue(time.Minute) // long TTL so tests see every toast
	o := New(p, b, log, toasts, nil, "US", delay)
	return o, b, log, toasts
}

func countKinds(entries []monitor.Entry) map[monitor.Kind]int {
	counts := make(map[monitor.Kind]int)
	for _, e := range entries {
		counts[e.Kind]++
	}
	return counts
}

func TestRefreshOneSuccess(t *testing.T) {
	mock := &mockProvider{
		responses: map[string]provider.TrendData{
			"rust": {Keyword: "rust", Sparkline: []int{0, 0, 80}, CurrentInterest: 80, DataPoints: 3},
		},
	}
	o, b, log, toasts := newTestOrchestrator(mock, 0)
	b.Add("k1", "rust", []int{0, 0, 10})

	if !o.RefreshOne(context.Background(), "k1") {
		t.Fatal("expected RefreshOne to succeed")
	}

	entry, _ := b.Get("k1")
	if entry.CurrentInterest != 80 {
		t.Errorf("expected interest 80, got %d", entry.CurrentInterest)
	}
	if entry.IsRefreshing {
		t.Error("expected refreshing flag cleared")
	}

	entries := log.Snapshot()
	counts := countKinds(entries)
	if counts[monitor.KindFetch] != 1 || counts[monitor.KindSuccess] != 1 {
		t.Errorf("expected one fetch and one success entry, got %v", counts)
	}

	// Success entry carries before/after details.
	last := entries[len(entries)-1]
	if last.Details == nil {
		t.Fatal("expected details on success entry")
	}
	if *last.Details.PreviousInterest != 10 || *last.Details.CurrentInterest != 80 {
		t.Errorf("unexpected interest detail: prev=%d cur=%d",
			*last.Details.PreviousInterest, *last.Details.CurrentInterest)
	}
	if *last.Details.DataPoints != 3 {
		t.Errorf("expected 3 data points, got %d", *last.Details.DataPoints)
	}

	// The success toast summarizes the new numbers.
	foundSuccess := false
	for _, tst := range toasts.Active() {
		if tst.Kind == toast.KindSuccess {
			foundSuccess = true
			if tst.Message != "Interest: 80, Trend: +80.0%" {
				t.Errorf("success toast message = %q, want the interest/trend summary", tst.Message)
			}
		}
	}
	if !foundSuccess {
		t.Error("expected success toast")
	}
}

func TestRefreshOneFailure(t *testing.T) {
	mock := &mockProvider{errs: map[string]error{"rust": errors.New("upstream 429")}}
	o, b, log, toasts := newTestOrchestrator(mock, 0)
	b.Add("k1", "rust", []int{0, 0, 10})

	if o.RefreshOne(context.Background(), "k1") {
		t.Fatal("expected RefreshOne to fail")
	}

	entry, _ := b.Get("k1")
	if entry.IsRefreshing {
		t.Error("expected refreshing flag cleared after failure")
	}
	if entry.CurrentInterest != 10 {
		t.Errorf("expected board state untouched on failure, got interest %d", entry.CurrentInterest)
	}

	counts := countKinds(log.Snapshot())
	if counts[monitor.KindError] != 1 {
		t.Errorf("expected one error entry, got %v", counts)
	}

	foundError := false
	for _, tst := range toasts.Active() {
		if tst.Kind == toast.KindError {
			foundError = true
			if tst.Message != "upstream 429" {
				t.Errorf("error toast message = %q, want the provider error", tst.Message)
			}
		}
	}
	if !foundError {
		t.Error("expected error toast")
	}
}

func TestRefreshOneUnknownKeyword(t *testing.T) {
	mock := &mockProvider{}
	o, _, _, _ := newTestOrchestrator(mock, 0)

	if o.RefreshOne(context.Background(), "nope") {
		t.Fatal("expected RefreshOne to reject unknown ID")
	}
	if mock.callCount() != 0 {
		t.Errorf("expected no provider calls, got %d", mock.callCount())
	}
}

func TestRefreshOneInFlightGuard(t *testing.T) {
	block := make(chan struct{})
	mock := &mockProvider{block: block}
	o, b, _, _ := newTestOrchestrator(mock, 0)
	b.Add("k1", "rust", []int{0, 0, 10})

	done := make(chan bool, 1)
	go func() {
		done <- o.RefreshOne(context.Background(), "k1")
	}()

	// Wait until the first refresh has marked the entry.
	deadline := time.After(2 * time.Second)
	for {
		if e, _ := b.Get("k1"); e.IsRefreshing {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for refresh to start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if o.RefreshOne(context.Background(), "k1") {
		t.Error("expected second refresh to be rejected while in flight")
	}
	if mock.callCount() != 1 {
		t.Errorf("expected exactly one provider call, got %d", mock.callCount())
	}

	close(block)
	select {
	case ok := <-done:
		if !ok {
			t.Error("expected first refresh to succeed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first refresh")
	}
}

func TestRefreshOneTracksCurrentKeyword(t *testing.T) {
	block := make(chan struct{})
	mock := &mockProvider{block: block}
	o, b, _, _ := newTestOrchestrator(mock, 0)
	b.Add("k1", "rust", []int{0, 0, 10})

	done := make(chan bool, 1)
	go func() {
		done <- o.RefreshOne(context.Background(), "k1")
	}()

	deadline := time.After(2 * time.Second)
	for o.Cycle().CurrentKeyword != "rust" {
		select {
		case <-deadline:
			t.Fatalf("current keyword = %q, want rust", o.Cycle().CurrentKeyword)
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(block)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh")
	}
	if kw := o.Cycle().CurrentKeyword; kw != "" {
		t.Errorf("current keyword after settle = %q, want empty", kw)
	}
}

func TestRefreshAllClearsCurrentKeywordBetweenCalls(t *testing.T) {
	mock := &mockProvider{}
	o, b, _, _ := newTestOrchestrator(mock, 300*time.Millisecond)
	b.Add("k1", "alpha", []int{0, 0, 30})
	b.Add("k2", "beta", []int{0, 0, 20})

	done := make(chan struct{})
	go func() {
		o.RefreshAll(context.Background())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for mock.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for first call")
		case <-time.After(5 * time.Millisecond):
		}
	}
	// Land inside the pause after the first keyword settled.
	time.Sleep(50 * time.Millisecond)

	state := o.Cycle()
	if !state.Running {
		t.Fatal("expected batch still running during the pause")
	}
	if state.CurrentKeyword != "" {
		t.Errorf("current keyword during pause = %q, want empty", state.CurrentKeyword)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestRefreshAllPausesAfterSettle(t *testing.T) {
	latency := 60 * time.Millisecond
	delay := 80 * time.Millisecond
	mock := &mockProvider{latency: latency}
	o, b, _, _ := newTestOrchestrator(mock, delay)
	b.Add("k1", "alpha", []int{0, 0, 30})
	b.Add("k2", "beta", []int{0, 0, 20})

	if !o.RefreshAll(context.Background()) {
		t.Fatal("expected RefreshAll to run")
	}

	starts := mock.callStarts()
	if len(starts) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(starts))
	}
	// The pause begins only once the slow call settles, so the second
	// request cannot start before latency+delay has passed.
	if gap := starts[1].Sub(starts[0]); gap < latency+delay {
		t.Errorf("second call started after %v, want at least %v", gap, latency+delay)
	}
}

func TestRefreshAllSequentialWithSpacing(t *testing.T) {
	mock := &mockProvider{}
	delay := 50 * time.Millisecond
	o, b, _, _ := newTestOrchestrator(mock, delay)
	b.Add("k1", "alpha", []int{0, 0, 30})
	b.Add("k2", "beta", []int{0, 0, 20})
	b.Add("k3", "gamma", []int{0, 0, 10})

	start := time.Now()
	if !o.RefreshAll(context.Background()) {
		t.Fatal("expected RefreshAll to run")
	}
	elapsed := time.Since(start)

	// First request is immediate, the remaining two wait out the delay.
	if elapsed < 2*delay {
		t.Errorf("expected at least %v of pacing, finished in %v", 2*delay, elapsed)
	}
	if elapsed > 3*delay {
		t.Errorf("expected fewer than 3 delays, took %v", elapsed)
	}

	calls := mock.calledKeywords()
	if len(calls) != 3 {
		t.Fatalf("expected 3 provider calls, got %d", len(calls))
	}
	// Leaderboard order: alpha (30) first, gamma (10) last.
	if calls[0] != "alpha" || calls[2] != "gamma" {
		t.Errorf("expected leaderboard order, got %v", calls)
	}

	state := o.Cycle()
	if state.Running {
		t.Error("expected cycle no longer running")
	}
	if state.CurrentIndex != -1 {
		t.Errorf("expected idle index -1, got %d", state.CurrentIndex)
	}
	if state.LastCompletedAt.IsZero() {
		t.Error("expected LastCompletedAt set")
	}
}

func TestRefreshAllMutualExclusion(t *testing.T) {
	block := make(chan struct{})
	mock := &mockProvider{block: block}
	o, b, _, _ := newTestOrchestrator(mock, 0)
	b.Add("k1", "rust", []int{0, 0, 10})

	done := make(chan bool, 1)
	go func() {
		done <- o.RefreshAll(context.Background())
	}()

	deadline := time.After(2 * time.Second)
	for !o.Running() {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for batch to start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if o.RefreshAll(context.Background()) {
		t.Error("expected concurrent RefreshAll to be rejected")
	}

	close(block)
	select {
	case ok := <-done:
		if !ok {
			t.Error("expected first batch to run")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestRefreshAllEmptyBoard(t *testing.T) {
	mock := &mockProvider{}
	o, _, _, _ := newTestOrchestrator(mock, 0)

	if o.RefreshAll(context.Background()) {
		t.Error("expected RefreshAll to be a no-op on an empty board")
	}
	if mock.callCount() != 0 {
		t.Errorf("expected no provider calls, got %d", mock.callCount())
	}
	if idx := o.Cycle().CurrentIndex; idx != -1 {
		t.Errorf("expected idle index -1, got %d", idx)
	}
}

func TestRefreshAllContinuesAfterFailure(t *testing.T) {
	mock := &mockProvider{errs: map[string]error{"beta": errors.New("boom")}}
	o, b, log, _ := newTestOrchestrator(mock, 0)
	b.Add("k1", "alpha", []int{0, 0, 30})
	b.Add("k2", "beta", []int{0, 0, 20})
	b.Add("k3", "gamma", []int{0, 0, 10})

	if !o.RefreshAll(context.Background()) {
		t.Fatal("expected RefreshAll to run")
	}

	if mock.callCount() != 3 {
		t.Errorf("expected all 3 keywords attempted, got %d calls", mock.callCount())
	}
	counts := countKinds(log.Snapshot())
	if counts[monitor.KindError] != 1 {
		t.Errorf("expected one error entry, got %v", counts)
	}
	if counts[monitor.KindSuccess] != 2 {
		t.Errorf("expected two success entries, got %v", counts)
	}

	// The failed keyword must not be stuck refreshing.
	if e, _ := b.Get("k2"); e.IsRefreshing {
		t.Error("expected beta's refreshing flag cleared")
	}
}

func TestRefreshAllCancel(t *testing.T) {
	mock := &mockProvider{}
	o, b, _, _ := newTestOrchestrator(mock, 10*time.Second)
	b.Add("k1", "alpha", []int{0, 0, 30})
	b.Add("k2", "beta", []int{0, 0, 20})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.RefreshAll(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for mock.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for first call")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected batch to stop promptly on cancel")
	}
	if mock.callCount() != 1 {
		t.Errorf("expected only the first keyword fetched, got %d calls", mock.callCount())
	}
	if o.Running() {
		t.Error("expected batch no longer running")
	}
}
