package stats

import (
	"testing"

	"github.com/qudata/hostmon/internal/domain"
)

func seqs(snaps []domain.Snapshot) []uint64 {
	out := make([]uint64, len(snaps))
	for i, s := range snaps {
		out[i] = s.Seq
	}
	return out
}

func TestHistory_DropsOldest(t *testing.T) {
	h := NewHistory(3)
	for seq := uint64(1); seq <= 5; seq++ {
		h.Add(domain.Snapshot{Seq: seq})
	}

	got := seqs(h.Snapshots())
	want := []uint64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if h.Len() != 3 || h.Cap() != 3 {
		t.Fatalf("expected len/cap 3/3, got %d/%d", h.Len(), h.Cap())
	}
}

func TestHistory_PartiallyFilled(t *testing.T) {
	h := NewHistory(120)
	h.Add(domain.Snapshot{Seq: 7})
	h.Add(domain.Snapshot{Seq: 8})

	got := seqs(h.Snapshots())
	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Fatalf("expected [7 8], got %v", got)
	}
}

func TestHistory_Since(t *testing.T) {
	h := NewHistory(10)
	for seq := uint64(1); seq <= 4; seq++ {
		h.Add(domain.Snapshot{Seq: seq})
	}

	if got := seqs(h.Since(2)); len(got) != 2 || got[0] != 3 {
		t.Fatalf("expected [3 4], got %v", got)
	}
	if got := h.Since(4); len(got) != 0 {
		t.Fatalf("expected nothing newer than 4, got %v", seqs(got))
	}
}
