package system

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/qudata/hostmon/internal/domain"
)

// Probe collects static host information once at startup.
type Probe struct {
	hostID string
}

// NewProbe creates a probe that stamps results with the persisted host id.
func NewProbe(hostID string) *Probe {
	return &Probe{hostID: hostID}
}

// HostInfo describes the machine. Fields that cannot be read stay empty.
func (p *Probe) HostInfo(ctx context.Context) domain.HostInfo {
	info := domain.HostInfo{
		ID:       p.hostID,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUCores: runtime.NumCPU(),
	}

	if h, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform
		info.PlatformVersion = h.PlatformVersion
		info.KernelVersion = h.KernelVersion
		info.BootTime = h.BootTime
		if h.KernelArch != "" {
			info.Arch = h.KernelArch
		}
	}

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		info.CPUCores = n
	}

	return info
}
