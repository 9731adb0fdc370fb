package domain

import "context"

// Module is an optional metrics source sampled once per tick.
// Implementations never return errors: a failed OS query yields the
// module's neutral (or previous) reading instead.
type Module[R any] interface {
	Sample(ctx context.Context) R
}

// SystemSampler reads the always-on CPU and memory figures.
type SystemSampler = Module[SystemReading]

// Capabilities is the enable-set chosen at startup. It never changes during a run.
type Capabilities struct {
	Battery bool `json:"battery" yaml:"battery"`
	Network bool `json:"network" yaml:"network"`
	Disk    bool `json:"disk" yaml:"disk"`
}

// AllCapabilities enables every optional module.
func AllCapabilities() Capabilities {
	return Capabilities{Battery: true, Network: true, Disk: true}
}
