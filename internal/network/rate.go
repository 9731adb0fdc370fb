package network

import (
	"time"

	"github.com/qudata/hostmon/internal/domain"
)

const (
	bitsPerByte    = 8
	bitsPerMegabit = 1_000_000
	bytesPerGiB    = 1 << 30
)

// Counters are cumulative byte counters summed over the selected interfaces.
type Counters struct {
	RxBytes uint64
	TxBytes uint64
}

// RateTracker turns cumulative byte counters into throughput by differencing
// against the previous observation. It is not safe for concurrent use; the
// sampler owns it and drives it from a single goroutine.
type RateTracker struct {
	seeded   bool
	prev     Counters
	prevTime time.Time
	last     domain.NetworkReading
}

func NewRateTracker() *RateTracker {
	return &RateTracker{}
}

// Observe records a successful counter read taken at now and returns the
// resulting reading. The first observation only seeds the baseline and
// reports zero rates.
func (t *RateTracker) Observe(cur Counters, now time.Time) domain.NetworkReading {
	if !t.seeded {
		t.seeded = true
		t.prev = cur
		t.prevTime = now
		t.last = domain.NetworkReading{}
		return t.last
	}

	elapsed := now.Sub(t.prevTime).Seconds()
	if elapsed <= 0 {
		return t.last
	}

	deltaRx := floorDelta(cur.RxBytes, t.prev.RxBytes)
	deltaTx := floorDelta(cur.TxBytes, t.prev.TxBytes)

	t.last = domain.NetworkReading{
		DownloadMbps: megabitsPerSecond(deltaRx, elapsed),
		UploadMbps:   megabitsPerSecond(deltaTx, elapsed),
		TotalGiB:     t.last.TotalGiB + float64(deltaRx+deltaTx)/bytesPerGiB,
	}
	t.prev = cur
	t.prevTime = now
	return t.last
}

// Last returns the most recent reading without touching the baseline.
// Used when the counter query fails.
func (t *RateTracker) Last() domain.NetworkReading {
	return t.last
}

// Seeded reports whether a baseline has been recorded.
func (t *RateTracker) Seeded() bool {
	return t.seeded
}

// floorDelta treats a counter that went backwards (reset, wraparound,
// interface set changed) as no traffic.
func floorDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func megabitsPerSecond(bytes uint64, seconds float64) float64 {
	return float64(bytes) * bitsPerByte / (seconds * bitsPerMegabit)
}
