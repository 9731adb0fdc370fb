package stats

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qudata/hostmon/internal/domain"
)

type countingCollector struct {
	n atomic.Uint64
}

func (c *countingCollector) Collect(context.Context) domain.Snapshot {
	seq := c.n.Add(1)
	return domain.Snapshot{Seq: seq, CPUPercent: float64(seq)}
}

func TestPublisher_PublishesEveryTick(t *testing.T) {
	slot := NewSlot()
	history := NewHistory(10)
	sub := slot.Subscribe()
	collector := &countingCollector{}
	p := NewPublisher(collector, slot, history, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	var last uint64
	deadline := time.After(2 * time.Second)
	for last < 3 {
		select {
		case snap := <-sub.C:
			if snap.Seq <= last {
				t.Fatalf("snapshots went backwards: %d after %d", snap.Seq, last)
			}
			last = snap.Seq
		case <-deadline:
			t.Fatalf("timed out waiting for snapshots, last seq %d", last)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publisher did not stop after cancel")
	}

	latest, ok := slot.Latest()
	if !ok || latest.Seq != collector.n.Load() {
		t.Fatalf("slot should hold the last collected snapshot, got %d want %d", latest.Seq, collector.n.Load())
	}
	if history.Len() == 0 {
		t.Fatalf("history should record published snapshots")
	}
}

func TestPublisher_FirstSnapshotIsImmediate(t *testing.T) {
	slot := NewSlot()
	p := NewPublisher(&countingCollector{}, slot, NewHistory(1), time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	defer cancel()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if snap, ok := slot.Latest(); ok {
			if snap.Seq != 1 {
				t.Fatalf("expected first snapshot seq 1, got %d", snap.Seq)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no snapshot published before the first tick")
}

func TestPublisher_CancelledBeforeStart(t *testing.T) {
	slot := NewSlot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewPublisher(&countingCollector{}, slot, NewHistory(1), time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil))).Run(ctx)
	if _, ok := slot.Latest(); ok {
		t.Fatalf("cancelled publisher should not collect")
	}
}
