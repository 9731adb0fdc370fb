package network

import (
	"context"
	"log/slog"
	"time"

	"github.com/qudata/hostmon/internal/domain"
)

// Module is the OS-backed network capability. It owns the rate tracker, so
// previous counters live exactly as long as the module.
type Module struct {
	source  CounterSource
	tracker *RateTracker
	now     func() time.Time
	logger  *slog.Logger
	failing bool
}

func NewModule(source CounterSource, logger *slog.Logger) *Module {
	return &Module{
		source:  source,
		tracker: NewRateTracker(),
		now:     time.Now,
		logger:  logger,
	}
}

// Sample reads counters and updates the rate. A failed read returns the
// previous reading and leaves the baseline where it was, so the next good
// read is differenced against the last known-good counters.
func (m *Module) Sample(ctx context.Context) domain.NetworkReading {
	counters, err := m.source.Counters(ctx)
	if err != nil {
		if !m.failing {
			m.logger.Warn("network counters unavailable, holding previous rate", "err", err)
		}
		m.failing = true
		return m.tracker.Last()
	}
	if m.failing {
		m.logger.Info("network counters recovered")
		m.failing = false
	}
	return m.tracker.Observe(counters, m.now())
}

// Stub stands in when the network capability is disabled.
type Stub struct{}

func (Stub) Sample(context.Context) domain.NetworkReading {
	return domain.NeutralNetwork()
}
