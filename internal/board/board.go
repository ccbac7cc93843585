// Package board owns the authoritative set of tracked keywords and their
// ranked view. All mutations re-rank the collection before releasing the
// lock, so every read observes a consistent, fully-ranked snapshot.
package board

import (
	"sort"
	"sync"
	"time"

	"github.com/hypertrend/trendwatch/internal/trend"
)

// Entry is a single tracked keyword with its derived leaderboard state.
type Entry struct {
	ID              string
	Keyword         string
	CurrentInterest int
	TrendScore      float64
	Sparkline       []int
	Rank            int  // 1-based, dense
	RankChange      int  // previous rank minus current rank; 0 until the entry moves
	New             bool // no prior rank (never re-ranked before)
	LastUpdated     time.Time
	IsRefreshing    bool
}

// Board is the mutable ranked collection. Goroutine-safe; the internal
// slice is kept in leaderboard order at all times.
type Board struct {
	mu      sync.Mutex
	entries []Entry

	subscribers   []chan []Entry
	subscribersMu sync.RWMutex
}

// New creates an empty board.
func New() *Board {
	return &Board{}
}

// Add inserts a keyword with its seed series and re-ranks. The trend
// score is derived from the series, never set directly. Duplicate IDs are
// rejected.
func (b *Board) Add(id, keyword string, samples []int) bool {
	b.mu.Lock()
	for _, e := range b.entries {
		if e.ID == id {
			b.mu.Unlock()
			return false
		}
	}

	e := Entry{
		ID:      id,
		Keyword: keyword,
		New:     true,
	}
	applySamples(&e, samples)
	b.entries = append(b.entries, e)
	b.rerank()
	b.mu.Unlock()

	b.notify()
	return true
}

// UpsertSample replaces an entry's series after a successful refresh:
// recomputes the trend score, updates current interest to the last
// sample, stamps LastUpdated, clears the in-flight flag, and re-ranks.
// Returns false for an unknown ID.
func (b *Board) UpsertSample(id string, samples []int, at time.Time) bool {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return false
	}

	e := &b.entries[idx]
	applySamples(e, samples)
	e.LastUpdated = at
	e.IsRefreshing = false
	b.rerank()
	b.mu.Unlock()

	b.notify()
	return true
}

// MarkRefreshing toggles an entry's in-flight flag. Setting it true on an
// entry that is already refreshing returns false — this is the guard
// against duplicate in-flight refreshes. Unknown IDs also return false.
func (b *Board) MarkRefreshing(id string, v bool) bool {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	if v && b.entries[idx].IsRefreshing {
		b.mu.Unlock()
		return false
	}
	b.entries[idx].IsRefreshing = v
	b.mu.Unlock()

	b.notify()
	return true
}

// Get returns a copy of the entry with the given ID.
func (b *Board) Get(id string) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return Entry{}, false
	}
	return copyEntry(b.entries[idx]), true
}

// Snapshot returns a copy of all entries in leaderboard order.
func (b *Board) Snapshot() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	for i, e := range b.entries {
		out[i] = copyEntry(e)
	}
	return out
}

// Rerank re-sorts and re-ranks without changing any scores. Idempotent:
// with no intervening updates the ordering and rank deltas are unchanged.
func (b *Board) Rerank() {
	b.mu.Lock()
	b.rerank()
	b.mu.Unlock()
	b.notify()
}

// Len returns the number of tracked keywords.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Subscribe returns a channel receiving the ranked snapshot after every
// mutation. Drain it; a full channel drops intermediate states.
func (b *Board) Subscribe() <-chan []Entry {
	ch := make(chan []Entry, 16)
	b.subscribersMu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (b *Board) Unsubscribe(ch <-chan []Entry) {
	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// rerank sorts by trend score descending and assigns dense 1-based ranks.
// The sort is stable: equal scores preserve their prior relative order,
// so ties go to the entry that ranked earlier before. Callers hold b.mu.
func (b *Board) rerank() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].TrendScore > b.entries[j].TrendScore
	})
	for i := range b.entries {
		e := &b.entries[i]
		newRank := i + 1
		if e.Rank == 0 {
			e.New = true
			e.RankChange = 0
		} else {
			e.New = false
			if e.Rank != newRank {
				e.RankChange = e.Rank - newRank
			}
			// Rank unchanged: keep the delta from the last actual move.
		}
		e.Rank = newRank
	}
}

func (b *Board) indexOf(id string) int {
	for i, e := range b.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) notify() {
	snapshot := b.Snapshot()

	b.subscribersMu.RLock()
	defer b.subscribersMu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// applySamples derives the sample-dependent fields. The sparkline is
// copied so later caller mutations cannot alias board state.
func applySamples(e *Entry, samples []int) {
	spark := make([]int, len(samples))
	copy(spark, samples)
	e.Sparkline = spark
	e.TrendScore = trend.Score(samples)
	if len(samples) > 0 {
		e.CurrentInterest = samples[len(samples)-1]
	} else {
		e.CurrentInterest = 0
	}
}

func copyEntry(e Entry) Entry {
	spark := make([]int, len(e.Sparkline))
	copy(spark, e.Sparkline)
	e.Sparkline = spark
	return e
}
