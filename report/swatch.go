package report

import (
	"image"

	"github.com/carbocation/colorimetry"
	"github.com/carbocation/colorimetry/assay"
	"github.com/carbocation/pfx"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	swatchCell   = 40
	swatchPad    = 6
	swatchLabel  = 80
	swatchHeader = 20
)

// Swatch draws one row per concentration: a square filled with each
// replicate's mean color, then, set apart and outlined, the square for the
// concentration's mean. It makes outlier replicates easy to spot by eye.
func Swatch(cal colorimetry.Calibration) image.Image {
	maxN := 0
	for _, p := range cal.Points {
		if len(p.Readings) > maxN {
			maxN = len(p.Readings)
		}
	}

	meanX := swatchLabel + maxN*(swatchCell+swatchPad) + 2*swatchPad
	width := meanX + swatchCell + swatchPad
	height := swatchHeader + len(cal.Points)*(swatchCell+swatchPad) + swatchPad

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(cal.Assay.Name, swatchPad, swatchHeader/2, 0, 0.5)
	dc.DrawStringAnchored("mean", float64(meanX+swatchCell/2), swatchHeader/2, 0.5, 0.5)

	for i, p := range cal.Points {
		y := float64(swatchHeader + i*(swatchCell+swatchPad))

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(assay.FormatConcentration(p.Concentration), swatchPad, y+swatchCell/2, 0, 0.5)

		for j, r := range p.Readings {
			x := float64(swatchLabel + j*(swatchCell+swatchPad))
			dc.SetRGB(r.R/100, r.G/100, r.B/100)
			dc.DrawRectangle(x, y, swatchCell, swatchCell)
			dc.Fill()
		}

		dc.SetRGB(p.Mean[0]/100, p.Mean[1]/100, p.Mean[2]/100)
		dc.DrawRectangle(float64(meanX), y, swatchCell, swatchCell)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	return dc.Image()
}

func WriteSwatch(path string, cal colorimetry.Calibration) error {
	return pfx.Err(gg.SavePNG(path, Swatch(cal)))
}
