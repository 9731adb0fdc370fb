//go:build linux

package battery

import (
	"context"

	"github.com/qudata/hostmon/internal/domain"
)

func readBattery(_ context.Context) (domain.BatteryReading, error) {
	return readPowerSupply(sysfsPowerSupply)
}
