package domain

import "time"

// Snapshot is one fully populated metrics reading, produced once per tick.
// Every field is always set; a disabled capability carries its neutral reading.
type Snapshot struct {
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`

	CPUPercent    float64 `json:"cpu_percent"`
	UsedMemoryMB  uint64  `json:"used_memory_mb"`
	TotalMemoryMB uint64  `json:"total_memory_mb"`

	BatteryPercent  float64 `json:"battery_percent"`
	BatteryCharging bool    `json:"battery_charging"`

	DownloadMbps    float64 `json:"download_mbps"`
	UploadMbps      float64 `json:"upload_mbps"`
	NetworkTotalGiB float64 `json:"network_total_gib"`

	DiskUsedGB  float64 `json:"disk_used_gb"`
	DiskTotalGB float64 `json:"disk_total_gb"`
	DiskPercent float64 `json:"disk_percent"`
}

// MemoryPercent returns used memory as a share of total (0-100).
func (s Snapshot) MemoryPercent() float64 {
	if s.TotalMemoryMB == 0 {
		return 0
	}
	return float64(s.UsedMemoryMB) / float64(s.TotalMemoryMB) * 100.0
}

// SystemReading is the always-on CPU and memory sample.
type SystemReading struct {
	CPUPercent    float64
	UsedMemoryMB  uint64
	TotalMemoryMB uint64
}

// BatteryReading is the battery capability sample.
type BatteryReading struct {
	Percent  float64
	Charging bool
}

// NetworkReading is the network capability sample.
type NetworkReading struct {
	DownloadMbps float64
	UploadMbps   float64
	TotalGiB     float64
}

// DiskReading is the disk capability sample, in GiB.
type DiskReading struct {
	UsedGB  float64
	TotalGB float64
}

// Percent returns used disk space as a share of total (0-100).
func (r DiskReading) Percent() float64 {
	if r.TotalGB <= 0 {
		return 0
	}
	return r.UsedGB / r.TotalGB * 100.0
}

func NeutralBattery() BatteryReading { return BatteryReading{Percent: 100.0} }
func NeutralNetwork() NetworkReading { return NetworkReading{} }
func NeutralDisk() DiskReading       { return DiskReading{} }
