// Package disk aggregates used and total space across the host's filesystems.
package disk

import (
	"context"
	"log/slog"

	psdisk "github.com/shirou/gopsutil/v4/disk"

	"github.com/qudata/hostmon/internal/domain"
)

const bytesPerGB = 1 << 30

// Module is the OS-backed disk capability. With explicit paths it sums those
// mountpoints; otherwise it sums every physical partition once per device.
type Module struct {
	paths      []string
	partitions func(ctx context.Context, all bool) ([]psdisk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*psdisk.UsageStat, error)
	logger     *slog.Logger
}

func NewModule(paths []string, logger *slog.Logger) *Module {
	return &Module{
		paths:      paths,
		partitions: psdisk.PartitionsWithContext,
		usage:      psdisk.UsageWithContext,
		logger:     logger,
	}
}

func (m *Module) Sample(ctx context.Context) domain.DiskReading {
	mounts, err := m.mountpoints(ctx)
	if err != nil {
		m.logger.Debug("disk partitions unavailable", "err", err)
		return domain.NeutralDisk()
	}

	var total, used uint64
	for _, mp := range mounts {
		u, err := m.usage(ctx, mp)
		if err != nil {
			m.logger.Debug("disk usage failed", "path", mp, "err", err)
			continue
		}
		total += u.Total
		// Used as total minus space available to unprivileged users, so
		// reserved blocks count as used.
		if u.Total > u.Free {
			used += u.Total - u.Free
		}
	}

	return domain.DiskReading{
		UsedGB:  float64(used) / bytesPerGB,
		TotalGB: float64(total) / bytesPerGB,
	}
}

func (m *Module) mountpoints(ctx context.Context) ([]string, error) {
	if len(m.paths) > 0 {
		return dedupe(m.paths), nil
	}

	parts, err := m.partitions(ctx, false)
	if err != nil {
		return nil, domain.ErrQuery{Source: "disk partitions", Err: err}
	}

	seen := make(map[string]struct{}, len(parts))
	mounts := make([]string, 0, len(parts))
	for _, p := range parts {
		key := p.Device
		if key == "" {
			key = p.Mountpoint
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		mounts = append(mounts, p.Mountpoint)
	}
	return mounts, nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok || p == "" {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Stub stands in when the disk capability is disabled.
type Stub struct{}

func (Stub) Sample(context.Context) domain.DiskReading {
	return domain.NeutralDisk()
}
