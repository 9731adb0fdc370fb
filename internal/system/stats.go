package system

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/qudata/hostmon/internal/domain"
)

const bytesPerMB = 1 << 20

// Reader samples CPU utilization and physical memory.
// CPU utilization is the delta since the previous Sample call, so the caller
// controls the interval; the very first value may be 0.
type Reader struct {
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	logger        *slog.Logger

	last domain.SystemReading
}

func NewReader(logger *slog.Logger) *Reader {
	return &Reader{
		cpuPercent:    cpu.PercentWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		logger:        logger,
	}
}

// Sample returns the current reading. A failed query keeps the previous
// value of the affected fields.
func (r *Reader) Sample(ctx context.Context) domain.SystemReading {
	reading := r.last

	if pct, err := r.cpuPercent(ctx, 0, false); err != nil {
		r.logger.Debug("cpu percent failed", "err", domain.ErrQuery{Source: "cpu", Err: err})
	} else if len(pct) > 0 {
		reading.CPUPercent = clampPercent(pct[0])
	}

	if vm, err := r.virtualMemory(ctx); err != nil {
		r.logger.Debug("virtual memory failed", "err", domain.ErrQuery{Source: "memory", Err: err})
	} else {
		reading.TotalMemoryMB = vm.Total / bytesPerMB
		reading.UsedMemoryMB = min(vm.Used/bytesPerMB, reading.TotalMemoryMB)
	}

	r.last = reading
	return reading
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
