package disk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	psdisk "github.com/shirou/gopsutil/v4/disk"

	"github.com/qudata/hostmon/internal/domain"
)

func newTestModule(paths []string, parts []psdisk.PartitionStat, usage map[string]*psdisk.UsageStat) *Module {
	m := NewModule(paths, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.partitions = func(context.Context, bool) ([]psdisk.PartitionStat, error) {
		return parts, nil
	}
	m.usage = func(_ context.Context, path string) (*psdisk.UsageStat, error) {
		u, ok := usage[path]
		if !ok {
			return nil, errors.New("no such mount")
		}
		return u, nil
	}
	return m
}

func TestModule_SumsDistinctDevices(t *testing.T) {
	parts := []psdisk.PartitionStat{
		{Device: "/dev/sda1", Mountpoint: "/"},
		{Device: "/dev/sda1", Mountpoint: "/var/lib/docker/overlay"},
		{Device: "/dev/sdb1", Mountpoint: "/data"},
	}
	usage := map[string]*psdisk.UsageStat{
		"/":     {Total: 100 * bytesPerGB, Free: 40 * bytesPerGB},
		"/data": {Total: 300 * bytesPerGB, Free: 100 * bytesPerGB},
	}

	got := newTestModule(nil, parts, usage).Sample(context.Background())
	if got.TotalGB != 400 || got.UsedGB != 260 {
		t.Fatalf("expected 260/400 GB, got %+v", got)
	}
	if p := got.Percent(); p != 65 {
		t.Fatalf("expected 65%%, got %v", p)
	}
}

func TestModule_ExplicitPaths(t *testing.T) {
	usage := map[string]*psdisk.UsageStat{
		"/":     {Total: 100 * bytesPerGB, Free: 75 * bytesPerGB},
		"/data": {Total: 300 * bytesPerGB, Free: 100 * bytesPerGB},
	}

	got := newTestModule([]string{"/", "/", "/missing"}, nil, usage).Sample(context.Background())
	if got.TotalGB != 100 || got.UsedGB != 25 {
		t.Fatalf("expected 25/100 GB from / only, got %+v", got)
	}
}

func TestModule_PartitionFailureIsNeutral(t *testing.T) {
	m := newTestModule(nil, nil, nil)
	m.partitions = func(context.Context, bool) ([]psdisk.PartitionStat, error) {
		return nil, errors.New("mtab unreadable")
	}
	if got := m.Sample(context.Background()); got != domain.NeutralDisk() {
		t.Fatalf("expected neutral reading, got %+v", got)
	}
}

func TestStub_Idempotent(t *testing.T) {
	var s Stub
	for i := 0; i < 5; i++ {
		if got := s.Sample(context.Background()); got != domain.NeutralDisk() {
			t.Fatalf("call %d: expected neutral reading, got %+v", i, got)
		}
	}
}
