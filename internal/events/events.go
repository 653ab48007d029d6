// Package events provides the subscribable event stream the core
// exposes to its callers. Operations still return their results
// directly; the bus only mirrors state changes (admission denied, sync
// state, identified items, collection progress) so a UI can react
// without polling.
//
// Publishing never blocks: a subscriber that stops draining its channel
// loses events rather than stalling the store or the pipeline.
package events

import (
	"sync"

	"github.com/cardkeep/cardkeep/models"
)

// Kind discriminates the payload carried by an Event.
type Kind int

const (
	// KindAdmissionDenied fires when AddCard is refused by the tier
	// limit. Payload: Admission.
	KindAdmissionDenied Kind = iota

	// KindSyncStateChanged fires on every sync state transition.
	// Payload: Sync.
	KindSyncStateChanged

	// KindItemIdentified fires when the pipeline promotes a scanned item
	// to identified. Payload: Item.
	KindItemIdentified

	// KindCollectionProgress fires after a successful AddCard with the
	// per-set completion counters. Payload: Progress.
	KindCollectionProgress
)

// Admission describes a refused admission.
type Admission struct {
	Key      models.CardKey
	Quantity int
	Limit    int
	Owned    int
	Tier     models.Tier
}

// Progress describes per-set completion after an admission.
type Progress struct {
	Game           models.Game
	SetID          string
	CollectedInSet int
	// SetTotalCards is zero when set metadata has not been fetched yet.
	SetTotalCards int
}

// Event is one entry of the stream. Exactly one payload field is set,
// selected by Kind.
type Event struct {
	Kind      Kind
	Admission *Admission
	Sync      *models.SyncStatus
	Item      *models.ScannedItem
	Progress  *Progress
}

const subscriberBuffer = 16

// Bus is a small fan-out of core events. The zero value is not usable;
// construct with NewBus.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its receive channel
// together with a cancel function. Cancel is idempotent and closes the
// channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber without blocking. A
// subscriber whose buffer is full misses the event; the UI resyncs from
// the next snapshot read.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
