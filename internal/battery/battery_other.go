//go:build !linux && !darwin

package battery

import (
	"context"

	"github.com/qudata/hostmon/internal/domain"
)

func readBattery(context.Context) (domain.BatteryReading, error) {
	return domain.BatteryReading{}, domain.ErrNoBattery{}
}
