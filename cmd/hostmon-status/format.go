package main

import (
	"fmt"
	"strings"

	"github.com/qudata/hostmon/internal/domain"
)

// formatLine renders a snapshot as one status-bar line. Disabled
// capabilities are shown as "off" rather than their neutral values.
func formatLine(s domain.Snapshot, caps domain.Capabilities) string {
	parts := []string{
		fmt.Sprintf("cpu %.0f%%", s.CPUPercent),
		fmt.Sprintf("mem %.0f%% (%d/%d MB)", s.MemoryPercent(), s.UsedMemoryMB, s.TotalMemoryMB),
	}

	if caps.Disk {
		parts = append(parts, fmt.Sprintf("disk %.0f%% (%.0f/%.0f GB)", s.DiskPercent, s.DiskUsedGB, s.DiskTotalGB))
	} else {
		parts = append(parts, "disk off")
	}

	if caps.Network {
		parts = append(parts, fmt.Sprintf("down %.1f Mb/s up %.1f Mb/s total %.2f GiB", s.DownloadMbps, s.UploadMbps, s.NetworkTotalGiB))
	} else {
		parts = append(parts, "net off")
	}

	if caps.Battery {
		bat := fmt.Sprintf("bat %.0f%%", s.BatteryPercent)
		if s.BatteryCharging {
			bat += " +"
		}
		parts = append(parts, bat)
	} else {
		parts = append(parts, "bat off")
	}

	return strings.Join(parts, " | ")
}
