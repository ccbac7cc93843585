// Package toast manages transient user-facing notifications. Each toast
// removes itself a fixed interval after creation regardless of redraws;
// explicit dismissal removes it early.
package toast

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 5 * time.Second

// Kind identifies the visual category of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Toast is a single transient notification.
type Toast struct {
	ID      string
	Kind    Kind
	Title   string
	Message string
}

// Queue holds the currently visible toasts in enqueue order (oldest
// first). Goroutine-safe.
type Queue struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []Toast
	timers map[string]*time.Timer
	closed bool

	subscribers   []chan []Toast
	subscribersMu sync.RWMutex
}

// NewQueue creates a queue whose toasts expire after ttl. Non-positive
// ttl falls back to DefaultTTL.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// Enqueue adds a toast and schedules its removal after the queue's TTL,
// counted from now. Returns the toast's ID.
func (q *Queue) Enqueue(kind Kind, title, message string) string {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ""
	}

	id := newToastID()
	q.active = append(q.active, Toast{ID: id, Kind: kind, Title: title, Message: message})
	q.timers[id] = time.AfterFunc(q.ttl, func() { q.Dismiss(id) })
	q.mu.Unlock()

	q.notify()
	return id
}

// Dismiss removes a toast immediately. A no-op if the toast has already
// expired or been dismissed.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	removed := false
	for i, t := range q.active {
		if t.ID == id {
			q.active = append(q.active[:i], q.active[i+1:]...)
			removed = true
			break
		}
	}
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	if removed {
		q.notify()
	}
}

// Active returns the visible toasts in enqueue order.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.active))
	copy(out, q.active)
	return out
}

// Subscribe returns a channel receiving the active toast list after every
// change. The channel should be drained to avoid dropped updates.
func (q *Queue) Subscribe() <-chan []Toast {
	ch := make(chan []Toast, 16)
	q.subscribersMu.Lock()
	q.subscribers = append(q.subscribers, ch)
	q.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (q *Queue) Unsubscribe(ch <-chan []Toast) {
	q.subscribersMu.Lock()
	defer q.subscribersMu.Unlock()

	for i, sub := range q.subscribers {
		if sub == ch {
			q.subscribers = append(q.subscribers[:i], q.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close stops all outstanding expiry timers and drops pending toasts.
// The queue rejects enqueues afterwards.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.active = nil
	q.mu.Unlock()
}

// notify sends the current active list to all subscribers. Slow
// subscribers miss intermediate states, never the lock.
func (q *Queue) notify() {
	snapshot := q.Active()

	q.subscribersMu.RLock()
	defer q.subscribersMu.RUnlock()

	for _, ch := range q.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func newToastID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%d-%x", time.Now().UnixMilli(), b[:])
}
