package system

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

func newTestReader(cpuVals []float64, cpuErr error, vm *mem.VirtualMemoryStat, vmErr error) *Reader {
	r := NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return cpuVals, cpuErr
	}
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return vm, vmErr
	}
	return r
}

func TestReader_Sample(t *testing.T) {
	r := newTestReader([]float64{37.5}, nil, &mem.VirtualMemoryStat{Total: 16 << 30, Used: 6 << 30}, nil)

	got := r.Sample(context.Background())
	if got.CPUPercent != 37.5 {
		t.Fatalf("expected cpu 37.5, got %v", got.CPUPercent)
	}
	if got.TotalMemoryMB != 16384 || got.UsedMemoryMB != 6144 {
		t.Fatalf("expected 6144/16384 MB, got %d/%d", got.UsedMemoryMB, got.TotalMemoryMB)
	}
}

func TestReader_ClampsOutOfRange(t *testing.T) {
	r := newTestReader([]float64{100.4}, nil, &mem.VirtualMemoryStat{Total: 1 << 30, Used: 2 << 30}, nil)

	got := r.Sample(context.Background())
	if got.CPUPercent != 100 {
		t.Fatalf("expected cpu clamped to 100, got %v", got.CPUPercent)
	}
	if got.UsedMemoryMB > got.TotalMemoryMB {
		t.Fatalf("used memory %d exceeds total %d", got.UsedMemoryMB, got.TotalMemoryMB)
	}
}

func TestReader_ColdStartIsAccepted(t *testing.T) {
	r := newTestReader([]float64{}, nil, &mem.VirtualMemoryStat{Total: 1 << 30}, nil)

	got := r.Sample(context.Background())
	if got.CPUPercent != 0 {
		t.Fatalf("expected 0 on cold start, got %v", got.CPUPercent)
	}
}

func TestReader_FailureKeepsPrevious(t *testing.T) {
	r := newTestReader([]float64{20}, nil, &mem.VirtualMemoryStat{Total: 8 << 30, Used: 2 << 30}, nil)
	first := r.Sample(context.Background())

	r.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return nil, errors.New("proc stat unreadable")
	}
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("meminfo unreadable")
	}

	if got := r.Sample(context.Background()); got != first {
		t.Fatalf("expected previous reading %+v, got %+v", first, got)
	}
}
