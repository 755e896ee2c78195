package colorimetry

import (
	"context"
	"fmt"
	"log"

	"github.com/carbocation/colorimetry/assay"
	"github.com/carbocation/colorimetry/imageio"
	"github.com/carbocation/pfx"
)

// FolderLoader yields the decoded images of one folder in a stable order.
// imageio.Loader is the production implementation.
type FolderLoader interface {
	LoadFolder(ctx context.Context, folder string) ([]imageio.NamedImage, error)
}

// Point is one calibration point: the readings of every replicate image at a
// known concentration, and their summary.
type Point struct {
	Concentration float64
	Folder        string
	Readings      []Reading
	Stats
}

type Calibration struct {
	Assay  assay.Assay
	Points []Point
}

// Calibrate walks the assay's concentrations in order, loading and reducing
// each folder. Any unreadable file, all-background image or concentration
// with fewer than two images aborts the run.
func Calibrate(ctx context.Context, a assay.Assay, loader FolderLoader) (Calibration, error) {
	out := Calibration{Assay: a, Points: make([]Point, 0, len(a.Concentrations))}

	if err := a.Validate(); err != nil {
		return out, pfx.Err(err)
	}

	for _, conc := range a.Concentrations {
		point, err := calibratePoint(ctx, a, conc, loader)
		if err != nil {
			return out, fmt.Errorf("%s concentration %s (folder %q): %w", a.Name, assay.FormatConcentration(conc), point.Folder, err)
		}

		log.Printf("%s %s: %d images, RGB %.2f/%.2f/%.2f (SD %.2f/%.2f/%.2f)\n",
			a.Name, assay.FormatConcentration(conc), point.N,
			point.Mean[0], point.Mean[1], point.Mean[2],
			point.StdDev[0], point.StdDev[1], point.StdDev[2])

		out.Points = append(out.Points, point)
	}

	return out, nil
}

func calibratePoint(ctx context.Context, a assay.Assay, conc float64, loader FolderLoader) (Point, error) {
	point := Point{
		Concentration: conc,
		Folder:        a.FolderName(conc),
	}

	imgs, err := loader.LoadFolder(ctx, imageio.JoinPath(a.ImagePath, point.Folder))
	if err != nil {
		return point, err
	}

	point.Readings = make([]Reading, 0, len(imgs))
	for _, img := range imgs {
		reading, err := Extract(img.Image)
		if err != nil {
			return point, fmt.Errorf("%s: %w", img.Name, err)
		}
		reading.Image = img.Name

		point.Readings = append(point.Readings, reading)
	}

	point.Stats, err = Aggregate(point.Readings)
	if err != nil {
		return point, err
	}

	return point, nil
}

// Concentrations returns the x values of the curve.
func (c Calibration) Concentrations() []float64 {
	out := make([]float64, 0, len(c.Points))
	for _, p := range c.Points {
		out = append(out, p.Concentration)
	}

	return out
}

// Means returns the curve's y values for one channel (0=R, 1=G, 2=B).
func (c Calibration) Means(channel int) []float64 {
	out := make([]float64, 0, len(c.Points))
	for _, p := range c.Points {
		out = append(out, p.Mean[channel])
	}

	return out
}

// StdDevs returns the error bar half-widths for one channel.
func (c Calibration) StdDevs(channel int) []float64 {
	out := make([]float64, 0, len(c.Points))
	for _, p := range c.Points {
		out = append(out, p.StdDev[channel])
	}

	return out
}
