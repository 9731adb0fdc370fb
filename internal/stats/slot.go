package stats

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/qudata/hostmon/internal/domain"
)

// Slot is the single-slot handoff between the update loop and the
// presentation side. Publishing replaces the previous snapshot; nothing is
// queued, so readers only ever see the latest complete value.
type Slot struct {
	latest atomic.Pointer[domain.Snapshot]

	mu   sync.Mutex
	subs map[string]chan domain.Snapshot
}

func NewSlot() *Slot {
	return &Slot{subs: make(map[string]chan domain.Snapshot)}
}

// Publish stores snap as the latest value and hands it to every subscriber,
// overwriting anything a subscriber has not read yet.
func (s *Slot) Publish(snap domain.Snapshot) {
	s.latest.Store(&snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		replaceLatest(ch, snap)
	}
}

// Latest returns a copy of the most recent snapshot, or false before the
// first publish.
func (s *Slot) Latest() (domain.Snapshot, bool) {
	p := s.latest.Load()
	if p == nil {
		return domain.Snapshot{}, false
	}
	return *p, true
}

// Subscription delivers the latest snapshot each time one is published.
type Subscription struct {
	ID string
	C  <-chan domain.Snapshot
}

// Subscribe registers a replace-latest consumer. The channel is closed by
// Unsubscribe.
func (s *Slot) Subscribe() Subscription {
	ch := make(chan domain.Snapshot, 1)
	id := uuid.NewString()

	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()

	return Subscription{ID: id, C: ch}
}

func (s *Slot) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Slot) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// replaceLatest sends snap on a 1-buffered channel, dropping an unread value.
// Callers hold s.mu, so no other sender races for the buffer.
func replaceLatest(ch chan domain.Snapshot, snap domain.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
