//go:build darwin

package battery

import (
	"context"
	"os/exec"

	"github.com/qudata/hostmon/internal/domain"
)

func readBattery(ctx context.Context) (domain.BatteryReading, error) {
	out, err := exec.CommandContext(ctx, "pmset", "-g", "batt").Output()
	if err != nil {
		return domain.BatteryReading{}, domain.ErrQuery{Source: "pmset", Err: err}
	}
	return parsePmset(string(out))
}
