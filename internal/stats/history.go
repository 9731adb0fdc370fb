package stats

import (
	"sync"

	"github.com/qudata/hostmon/internal/domain"
)

// History keeps the last N snapshots in memory for sparkline rendering.
// Oldest entries are dropped; nothing is written to disk.
type History struct {
	mu    sync.RWMutex
	buf   []domain.Snapshot
	start int
	size  int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]domain.Snapshot, capacity)}
}

func (h *History) Add(snap domain.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = snap
		h.size++
		return
	}
	h.buf[h.start] = snap
	h.start = (h.start + 1) % len(h.buf)
}

// Snapshots returns a copy of the retained snapshots, oldest first.
func (h *History) Snapshots() []domain.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.Snapshot, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Since returns retained snapshots with Seq greater than seq, oldest first.
func (h *History) Since(seq uint64) []domain.Snapshot {
	all := h.Snapshots()
	for i, s := range all {
		if s.Seq > seq {
			return all[i:]
		}
	}
	return []domain.Snapshot{}
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

func (h *History) Cap() int {
	return len(h.buf)
}
