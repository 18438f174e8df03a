// Package bench times a function over repeated runs.
package bench

import (
	"time"

	"pkgstats/util"
)

type Stats struct {
	Runs    int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// Measure runs fn repeats times (at least once) and returns elapsed-time
// statistics. The first error stops the measurement.
func Measure(repeats int, fn func() error) (Stats, error) {
	if repeats < 1 {
		repeats = 1
	}

	durations := make([]time.Duration, 0, repeats)
	for i := 0; i < repeats; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return Stats{}, err
		}
		durations = append(durations, time.Since(start))
	}

	stats := Stats{
		Runs:  len(durations),
		Total: util.Sum(durations),
		Min:   durations[0],
		Max:   durations[0],
	}
	stats.Average = stats.Total / time.Duration(stats.Runs)
	for _, d := range durations[1:] {
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	return stats, nil
}
