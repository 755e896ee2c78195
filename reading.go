// Package colorimetry reduces photographs of a colorimetric assay to a
// calibration curve: the mean non-background color of each image, summarized
// across the replicate images taken at each known concentration.
package colorimetry

import (
	"errors"
	"image"
	"image/color"

	"github.com/carbocation/runningvariance"
)

// ErrAllBackground is returned for an image with no non-background pixels,
// whose mean color would otherwise be NaN.
var ErrAllBackground = errors.New("image has no non-background pixels")

// ChannelNames are in the order used by every [3]float64 in this package.
var ChannelNames = [3]string{"R", "G", "B"}

// Reading is the average color of one image's non-background pixels. Values
// are percentages of full scale (0-100).
type Reading struct {
	Image   string
	R, G, B float64

	// Pixels is the number of non-background pixels that were averaged.
	Pixels int

	// PixelSD is the spread of each channel across those pixels, also in
	// percent.
	PixelSD [3]float64
}

func (r Reading) Channels() [3]float64 {
	return [3]float64{r.R, r.G, r.B}
}

// IsBackground reports whether a pixel is the pure white backdrop. Only an
// exact (255, 255, 255) qualifies.
func IsBackground(r, g, b uint8) bool {
	return r == 255 && g == 255 && b == 255
}

// Extract averages every non-background pixel of img. Images are read through
// their 8-bit non-premultiplied RGB values; alpha is ignored.
func Extract(img image.Image) (Reading, error) {
	rs := [3]*runningvariance.RunningStat{
		runningvariance.NewRunningStat(),
		runningvariance.NewRunningStat(),
		runningvariance.NewRunningStat(),
	}

	at := rgbReader(img)
	bounds := img.Bounds()
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := at(x, y)
			if IsBackground(r, g, b) {
				continue
			}

			rs[0].Push(float64(r))
			rs[1].Push(float64(g))
			rs[2].Push(float64(b))
			n++
		}
	}

	if n == 0 {
		return Reading{}, ErrAllBackground
	}

	out := Reading{
		R:      toPercent(rs[0].Mean()),
		G:      toPercent(rs[1].Mean()),
		B:      toPercent(rs[2].Mean()),
		Pixels: n,
	}
	for i := range rs {
		out.PixelSD[i] = toPercent(rs[i].StandardDeviation())
	}

	return out, nil
}

func toPercent(v float64) float64 {
	return v * 100 / 255
}

// rgbReader returns a pixel accessor for img. The common decoder outputs are
// read straight from their backing slices; anything else goes through the
// color model.
func rgbReader(img image.Image) func(x, y int) (r, g, b uint8) {
	switch m := img.(type) {
	case *image.NRGBA:
		return func(x, y int) (uint8, uint8, uint8) {
			i := m.PixOffset(x, y)
			return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
		}
	case *image.YCbCr:
		return func(x, y int) (uint8, uint8, uint8) {
			yi, ci := m.YOffset(x, y), m.COffset(x, y)
			return color.YCbCrToRGB(m.Y[yi], m.Cb[ci], m.Cr[ci])
		}
	case *image.Gray:
		return func(x, y int) (uint8, uint8, uint8) {
			v := m.Pix[m.PixOffset(x, y)]
			return v, v, v
		}
	default:
		return func(x, y int) (uint8, uint8, uint8) {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			return c.R, c.G, c.B
		}
	}
}
