// Package battery reads the host battery level and charging state.
package battery

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/qudata/hostmon/internal/domain"
)

// Module is the OS-backed battery capability. Hosts without a battery, and
// platforms with no reader, report the neutral reading.
type Module struct {
	read   func(ctx context.Context) (domain.BatteryReading, error)
	logger *slog.Logger
}

func NewModule(logger *slog.Logger) *Module {
	return &Module{read: readBattery, logger: logger}
}

func (m *Module) Sample(ctx context.Context) domain.BatteryReading {
	r, err := m.read(ctx)
	if err != nil {
		var none domain.ErrNoBattery
		if !errors.As(err, &none) {
			m.logger.Debug("battery read failed", "err", err)
		}
		return domain.NeutralBattery()
	}
	r.Percent = clampPercent(r.Percent)
	return r
}

// Stub stands in when the battery capability is disabled.
type Stub struct{}

func (Stub) Sample(context.Context) domain.BatteryReading {
	return domain.NeutralBattery()
}

// parsePmset extracts the internal battery line from `pmset -g batt` output:
//
//	Now drawing from 'AC Power'
//	 -InternalBattery-0 (id=4653155)	87%; charging; 0:41 remaining present: true
func parsePmset(out string) (domain.BatteryReading, error) {
	acPower := strings.Contains(out, "AC Power")
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "InternalBattery") || !strings.Contains(line, "%") {
			continue
		}
		for _, part := range strings.Fields(line) {
			if !strings.HasSuffix(part, "%;") && !strings.HasSuffix(part, "%") {
				continue
			}
			clean := strings.TrimSuffix(strings.TrimSuffix(part, ";"), "%")
			pct, err := strconv.ParseFloat(clean, 64)
			if err != nil {
				continue
			}
			charging := strings.Contains(line, "charging") && !strings.Contains(line, "discharging")
			return domain.BatteryReading{Percent: pct, Charging: charging || acPower}, nil
		}
	}
	return domain.BatteryReading{}, domain.ErrNoBattery{}
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
