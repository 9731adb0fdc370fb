// Package sampler runs one collection pass across the CPU/memory reader and
// the capability modules, producing a Snapshot.
package sampler

import (
	"context"
	"log/slog"
	"time"

	"github.com/qudata/hostmon/internal/battery"
	"github.com/qudata/hostmon/internal/config"
	"github.com/qudata/hostmon/internal/disk"
	"github.com/qudata/hostmon/internal/domain"
	"github.com/qudata/hostmon/internal/network"
	"github.com/qudata/hostmon/internal/system"
)

// Modules is the set of sources a Sampler pulls from. Every field must be
// set; disabled capabilities are bound to their stubs.
type Modules struct {
	System  domain.SystemSampler
	Battery domain.Module[domain.BatteryReading]
	Network domain.Module[domain.NetworkReading]
	Disk    domain.Module[domain.DiskReading]
}

// Sampler owns all module state and is driven from a single goroutine.
type Sampler struct {
	modules Modules
	caps    domain.Capabilities
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger

	seq        uint64
	lastSystem domain.SystemReading
}

// New binds the real or stub implementation of each capability according
// to the configured enable-set.
func New(cfg *config.Config, logger *slog.Logger) *Sampler {
	caps := cfg.Capabilities
	m := Modules{
		System:  system.NewReader(logger.With("module", "system")),
		Battery: battery.Stub{},
		Network: network.Stub{},
		Disk:    disk.Stub{},
	}
	if caps.Battery {
		m.Battery = battery.NewModule(logger.With("module", "battery"))
	}
	if caps.Network {
		src := network.NewIOCounterSource(cfg.Network.Interfaces, cfg.Network.IncludeLoopback)
		m.Network = network.NewModule(src, logger.With("module", "network"))
	}
	if caps.Disk {
		m.Disk = disk.NewModule(cfg.Disk.Paths, logger.With("module", "disk"))
	}

	logger.Info("capabilities bound",
		"battery", caps.Battery,
		"network", caps.Network,
		"disk", caps.Disk,
	)
	return NewWithModules(m, caps, cfg.ModuleTimeout, logger)
}

// NewWithModules builds a Sampler over explicit modules.
func NewWithModules(m Modules, caps domain.Capabilities, timeout time.Duration, logger *slog.Logger) *Sampler {
	return &Sampler{
		modules: m,
		caps:    caps,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
}

// Capabilities returns the enable-set the sampler was built with.
func (s *Sampler) Capabilities() domain.Capabilities {
	return s.caps
}

// Collect runs one pass and returns a fully populated snapshot. It never
// fails: each module is bounded by the module timeout and a panicking module
// contributes its neutral reading.
func (s *Sampler) Collect(ctx context.Context) domain.Snapshot {
	sys := sample(ctx, s, "system", s.modules.System, s.lastSystem)
	s.lastSystem = sys

	bat := sample(ctx, s, "battery", s.modules.Battery, domain.NeutralBattery())
	net := sample(ctx, s, "network", s.modules.Network, domain.NeutralNetwork())
	dsk := sample(ctx, s, "disk", s.modules.Disk, domain.NeutralDisk())

	s.seq++
	return domain.Snapshot{
		Seq:       s.seq,
		Timestamp: s.now(),

		CPUPercent:    sys.CPUPercent,
		UsedMemoryMB:  min(sys.UsedMemoryMB, sys.TotalMemoryMB),
		TotalMemoryMB: sys.TotalMemoryMB,

		BatteryPercent:  bat.Percent,
		BatteryCharging: bat.Charging,

		DownloadMbps:    net.DownloadMbps,
		UploadMbps:      net.UploadMbps,
		NetworkTotalGiB: net.TotalGiB,

		DiskUsedGB:  dsk.UsedGB,
		DiskTotalGB: dsk.TotalGB,
		DiskPercent: dsk.Percent(),
	}
}

func sample[R any](ctx context.Context, s *Sampler, name string, m domain.Module[R], fallback R) (r R) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("module panicked", "module", name, "panic", rec)
			r = fallback
		}
	}()

	return m.Sample(ctx)
}
