package scanner

import (
	"sync"
	"time"
)

// Window is a time-bounded "seen recently" set keyed by the normalized
// card fingerprint. Entries expire after the cooldown; expired entries
// are dropped lazily on lookup. The window additionally caps its size
// so a long scanning session cannot grow it without bound.
type Window struct {
	mu       sync.Mutex
	cooldown time.Duration
	capacity int
	seen     map[string]time.Time

	now func() time.Time // подменяется в тестах
}

// NewWindow creates a dedup window with the given cooldown and entry
// cap. A non-positive capacity disables the cap.
func NewWindow(cooldown time.Duration, capacity int) *Window {
	return &Window{
		cooldown: cooldown,
		capacity: capacity,
		seen:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Seen reports whether fingerprint was recorded within the cooldown
// window. An expired entry is removed and reported as unseen.
func (w *Window) Seen(fingerprint string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	at, ok := w.seen[fingerprint]
	if !ok {
		return false
	}
	if w.now().Sub(at) > w.cooldown {
		delete(w.seen, fingerprint)
		return false
	}
	return true
}

// Record stamps fingerprint with the current time. When the cap is
// reached the oldest entry is evicted first.
func (w *Window) Record(fingerprint string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.seen[fingerprint]; !ok && w.capacity > 0 && len(w.seen) >= w.capacity {
		w.evictOldestLocked()
	}
	w.seen[fingerprint] = w.now()
}

// Len returns the current number of tracked fingerprints, expired
// entries included.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

func (w *Window) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, at := range w.seen {
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey = key
			oldestAt = at
		}
	}
	if oldestKey != "" {
		delete(w.seen, oldestKey)
	}
}
