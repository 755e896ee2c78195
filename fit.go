package colorimetry

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

var ErrDegenerateFit = errors.New("a linear fit needs at least 2 distinct concentrations")

// Fit is the least-squares line through one channel's calibration means:
// mean = Intercept + Slope*concentration.
type Fit struct {
	Channel   string
	Slope     float64
	Intercept float64
	R2        float64
}

// FitChannels fits a line per channel to the calibration's means.
func FitChannels(c Calibration) ([3]Fit, error) {
	var out [3]Fit

	x := c.Concentrations()
	distinct := make(map[float64]struct{})
	for _, v := range x {
		distinct[v] = struct{}{}
	}
	if len(distinct) < 2 {
		return out, ErrDegenerateFit
	}

	for ch, name := range ChannelNames {
		y := c.Means(ch)
		alpha, beta := stat.LinearRegression(x, y, nil, false)

		// A flat channel is fit exactly by its constant line, but RSquared
		// divides by its zero variance.
		r2 := 1.0
		if stat.Variance(y, nil) > 0 {
			r2 = stat.RSquared(x, y, nil, alpha, beta)
		}

		out[ch] = Fit{
			Channel:   name,
			Slope:     beta,
			Intercept: alpha,
			R2:        r2,
		}
	}

	return out, nil
}
