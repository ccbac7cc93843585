// Package monitor provides the bounded activity log shown in the live
// monitor panel. Entries are append-only; the log is a fixed-capacity ring
// that silently evicts the oldest entry once full, so the most recent
// activity always wins.
package monitor

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// DefaultCapacity is the number of entries retained when no capacity is
// given.
const DefaultCapacity = 100

// Kind identifies the category of a log entry.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindFetch   Kind = "fetch"
)

// Details carries the structured payload of a refresh outcome.
// All fields are optional; pointers distinguish "absent" from zero.
type Details struct {
	CurrentInterest    *int
	PreviousInterest   *int
	TrendScore         *float64
	PreviousTrendScore *float64
	DataPoints         *int
	Duration           time.Duration
}

// Entry is a single immutable log record.
type Entry struct {
	ID        string
	Timestamp time.Time
	Kind      Kind
	Keyword   string
	Message   string
	Details   *Details
}

// Log is a fixed-size circular buffer of entries. Goroutine-safe.
type Log struct {
	mu    sync.Mutex
	buf   []Entry
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
	now   func() time.Time

	subscribers   []chan []Entry
	subscribersMu sync.RWMutex
}

// NewLog creates a log with the given capacity. Non-positive capacities
// fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		buf:  make([]Entry, capacity),
		size: capacity,
		now:  time.Now,
	}
}

// Append creates an entry and adds it to the log, evicting the oldest
// entry if the log is full. Returns the created entry.
func (l *Log) Append(kind Kind, keyword, message string, details *Details) Entry {
	l.mu.Lock()

	e := Entry{
		ID:        newEntryID(l.now()),
		Timestamp: l.now(),
		Kind:      kind,
		Keyword:   keyword,
		Message:   message,
		Details:   details,
	}

	l.buf[l.head] = e
	l.head = (l.head + 1) % l.size
	if l.count < l.size {
		l.count++
	}
	l.mu.Unlock()

	l.notify()
	return e
}

// Snapshot returns a copy of all entries in chronological order (oldest
// first). The returned slice is safe to use without locks.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == 0 {
		return nil
	}

	result := make([]Entry, l.count)
	if l.count < l.size {
		copy(result, l.buf[:l.count])
	} else {
		n := copy(result, l.buf[l.head:])
		copy(result[n:], l.buf[:l.head])
	}
	return result
}

// Last returns the n most recent entries in chronological order.
// If n exceeds the count, all entries are returned. n <= 0 returns nil.
func (l *Log) Last(n int) []Entry {
	if n <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == 0 {
		return nil
	}
	if n > l.count {
		n = l.count
	}

	result := make([]Entry, n)
	start := (l.head - n + l.size) % l.size
	if start+n <= l.size {
		copy(result, l.buf[start:start+n])
	} else {
		first := l.size - start
		copy(result, l.buf[start:])
		copy(result[first:], l.buf[:n-first])
	}
	return result
}

// Len returns the number of entries currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Cap returns the log capacity.
func (l *Log) Cap() int {
	return l.size
}

// Stats returns entry counts by kind over the whole buffer. Used by the
// monitor panel footer (total / success / errors).
func (l *Log) Stats() map[Kind]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[Kind]int)
	start := 0
	if l.count >= l.size {
		start = l.head
	}
	for i := 0; i < l.count; i++ {
		idx := (start + i) % l.size
		counts[l.buf[idx].Kind]++
	}
	return counts
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	l.head = 0
	l.count = 0
	l.mu.Unlock()

	l.notify()
}

// Subscribe returns a channel that receives a snapshot after every
// append or clear. Slow subscribers miss updates rather than block.
func (l *Log) Subscribe() <-chan []Entry {
	l.subscribersMu.Lock()
	defer l.subscribersMu.Unlock()

	ch := make(chan []Entry, 1)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel.
func (l *Log) Unsubscribe(ch <-chan []Entry) {
	l.subscribersMu.Lock()
	defer l.subscribersMu.Unlock()

	for i, sub := range l.subscribers {
		if sub == ch {
			l.subscribers = append(l.subscribers[:i], l.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

func (l *Log) notify() {
	snapshot := l.Snapshot()

	l.subscribersMu.RLock()
	defer l.subscribersMu.RUnlock()

	for _, ch := range l.subscribers {
		select {
		case ch <- snapshot:
		default: // subscriber is behind, drop this update
		}
	}
}

// newEntryID builds a time-based ID with a random suffix so that entries
// created within the same millisecond remain unique.
func newEntryID(t time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%d-%x", t.UnixMilli(), b[:])
}
