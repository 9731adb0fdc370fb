package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qudata/hostmon/internal/domain"
)

// Collector produces one snapshot per call.
type Collector interface {
	Collect(ctx context.Context) domain.Snapshot
}

// Publisher drives the collector on a fixed tick and replaces the latest
// snapshot in the slot. Collections never overlap.
type Publisher struct {
	collector Collector
	slot      *Slot
	history   *History
	interval  time.Duration
	logger    *slog.Logger

	count int
}

func NewPublisher(collector Collector, slot *Slot, history *History, interval time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{
		collector: collector,
		slot:      slot,
		history:   history,
		interval:  interval,
		logger:    logger,
	}
}

func (p *Publisher) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Run publishes a first snapshot immediately, then one per tick until ctx
// is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Publisher) tick(ctx context.Context) {
	start := time.Now()
	snap := p.collector.Collect(ctx)
	p.slot.Publish(snap)
	p.history.Add(snap)

	if took := time.Since(start); took > p.interval {
		p.logger.Warn("collection overran tick", "took", took.String(), "interval", p.interval.String())
	}

	if p.count%60 == 0 {
		p.logger.Info("stats",
			"seq", snap.Seq,
			"cpu", fmt.Sprintf("%.1f%%", snap.CPUPercent),
			"mem", fmt.Sprintf("%d/%d MB", snap.UsedMemoryMB, snap.TotalMemoryMB),
			"down_mbps", fmt.Sprintf("%.2f", snap.DownloadMbps),
			"up_mbps", fmt.Sprintf("%.2f", snap.UploadMbps),
			"battery", fmt.Sprintf("%.0f%%", snap.BatteryPercent),
		)
	}
	p.count++
}
