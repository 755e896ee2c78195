package colorimetry

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewReplicates is returned when a sample standard deviation is
// requested for fewer than two readings.
var ErrTooFewReplicates = errors.New("at least 2 replicate images are required")

// Stats summarizes the replicate readings for one concentration.
type Stats struct {
	N int

	// Mean and StdDev are per channel (R, G, B), in percent. StdDev is the
	// sample standard deviation (divisor N-1).
	Mean   [3]float64
	StdDev [3]float64
}

// Aggregate computes per-channel mean and sample standard deviation across
// readings.
func Aggregate(readings []Reading) (Stats, error) {
	if len(readings) < 2 {
		return Stats{}, fmt.Errorf("got %d: %w", len(readings), ErrTooFewReplicates)
	}

	out := Stats{N: len(readings)}
	for ch := range ChannelNames {
		values := make([]float64, 0, len(readings))
		for _, r := range readings {
			values = append(values, r.Channels()[ch])
		}

		out.Mean[ch], out.StdDev[ch] = stat.MeanStdDev(values, nil)
	}

	return out, nil
}

// AverageSD is the arithmetic mean of the three channel standard deviations.
func (s Stats) AverageSD() (float64, error) {
	return stats.Mean(stats.Float64Data(s.StdDev[:]))
}
