package network

import (
	"context"
	"strings"

	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/qudata/hostmon/internal/domain"
)

// CounterSource reads cumulative interface byte counters.
type CounterSource interface {
	Counters(ctx context.Context) (Counters, error)
}

// IOCounterSource sums gopsutil per-NIC counters over the selected interfaces.
// With no explicit interface list every non-loopback interface is summed.
type IOCounterSource struct {
	interfaces      map[string]struct{}
	includeLoopback bool
}

func NewIOCounterSource(interfaces []string, includeLoopback bool) *IOCounterSource {
	s := &IOCounterSource{includeLoopback: includeLoopback}
	if len(interfaces) > 0 {
		s.interfaces = make(map[string]struct{}, len(interfaces))
		for _, name := range interfaces {
			name = strings.TrimSpace(name)
			if name != "" {
				s.interfaces[name] = struct{}{}
			}
		}
	}
	return s
}

func (s *IOCounterSource) Counters(ctx context.Context) (Counters, error) {
	stats, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return Counters{}, domain.ErrQuery{Source: "net io counters", Err: err}
	}
	return s.sum(stats), nil
}

func (s *IOCounterSource) sum(stats []psnet.IOCountersStat) Counters {
	var c Counters
	for _, st := range stats {
		if !s.selected(st.Name) {
			continue
		}
		c.RxBytes += st.BytesRecv
		c.TxBytes += st.BytesSent
	}
	return c
}

func (s *IOCounterSource) selected(name string) bool {
	if s.interfaces != nil {
		_, ok := s.interfaces[name]
		return ok
	}
	if isLoopback(name) {
		return s.includeLoopback
	}
	return true
}

// isLoopback matches "lo" on Linux and "lo0", "lo1"... on BSD/macOS.
func isLoopback(name string) bool {
	if !strings.HasPrefix(name, "lo") {
		return false
	}
	rest := name[2:]
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
