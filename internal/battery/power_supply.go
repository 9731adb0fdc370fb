package battery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qudata/hostmon/internal/domain"
)

const sysfsPowerSupply = "/sys/class/power_supply"

// readPowerSupply walks a sysfs power_supply directory. Capacities of several
// batteries are averaged; the host counts as charging when any battery reports
// "Charging" or any mains/USB supply is online.
func readPowerSupply(root string) (domain.BatteryReading, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.BatteryReading{}, domain.ErrNoBattery{}
		}
		return domain.BatteryReading{}, domain.ErrQuery{Source: root, Err: err}
	}

	var (
		sum       float64
		batteries int
		charging  bool
		online    bool
	)
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		switch readAttr(dir, "type") {
		case "Battery":
			capacity, err := strconv.ParseFloat(readAttr(dir, "capacity"), 64)
			if err != nil {
				continue
			}
			sum += capacity
			batteries++
			if readAttr(dir, "status") == "Charging" {
				charging = true
			}
		case "Mains", "USB", "USB_C":
			if readAttr(dir, "online") == "1" {
				online = true
			}
		}
	}

	if batteries == 0 {
		return domain.BatteryReading{}, domain.ErrNoBattery{}
	}
	return domain.BatteryReading{
		Percent:  sum / float64(batteries),
		Charging: charging || online,
	}, nil
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
