// Package report renders a calibration as a chart, as tables and as a
// color swatch sheet.
package report

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/colorimetry"
	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartWidth  = 800
	ChartHeight = 600
)

// Series colors, in R, G, B order: lightcoral, yellowgreen, cornflowerblue.
var seriesColors = [3]drawing.Color{
	{R: 240, G: 128, B: 128, A: 255},
	{R: 154, G: 205, B: 50, A: 255},
	{R: 100, G: 149, B: 237, A: 255},
}

type marker int

const (
	markerCircle marker = iota
	markerDiamond
	markerSquare
)

// Marker shapes in R, G, B order.
var seriesMarkers = [3]marker{markerCircle, markerDiamond, markerSquare}

// draw fills the marker centered on (x, y), size pixels from center to edge.
func (m marker) draw(r chart.Renderer, x, y, size int) {
	switch m {
	case markerDiamond:
		r.MoveTo(x, y-size)
		r.LineTo(x+size, y)
		r.LineTo(x, y+size)
		r.LineTo(x-size, y)
		r.Close()
	case markerSquare:
		r.MoveTo(x-size, y-size)
		r.LineTo(x+size, y-size)
		r.LineTo(x+size, y+size)
		r.LineTo(x-size, y+size)
		r.Close()
	default:
		r.Circle(float64(size), x, y)
	}
	r.FillStroke()
}

// errorBarSeries is a line series with a vertical ±Errors[i] bar, capped at
// both ends, and a Marker at every point. Legend handling is inherited from
// the embedded series so each channel appears once.
type errorBarSeries struct {
	chart.ContinuousSeries
	Errors     []float64
	CapWidth   int
	Marker     marker
	MarkerSize int
}

func (s errorBarSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)

	style := s.Style.InheritFrom(defaults)
	r.SetStrokeColor(style.GetStrokeColor())
	r.SetStrokeWidth(style.GetStrokeWidth())

	clamp := func(v float64) float64 {
		return math.Max(yrange.GetMin(), math.Min(yrange.GetMax(), v))
	}

	for i, x := range s.XValues {
		if i >= len(s.Errors) || i >= len(s.YValues) {
			break
		}

		px := canvasBox.Left + xrange.Translate(x)
		top := canvasBox.Bottom - yrange.Translate(clamp(s.YValues[i]+s.Errors[i]))
		bottom := canvasBox.Bottom - yrange.Translate(clamp(s.YValues[i]-s.Errors[i]))

		r.MoveTo(px, top)
		r.LineTo(px, bottom)
		r.MoveTo(px-s.CapWidth, top)
		r.LineTo(px+s.CapWidth, top)
		r.MoveTo(px-s.CapWidth, bottom)
		r.LineTo(px+s.CapWidth, bottom)
		r.Stroke()
	}

	if s.MarkerSize <= 0 {
		return
	}

	r.SetFillColor(style.GetStrokeColor())
	for i, x := range s.XValues {
		if i >= len(s.YValues) {
			break
		}

		px := canvasBox.Left + xrange.Translate(x)
		py := canvasBox.Bottom - yrange.Translate(clamp(s.YValues[i]))
		s.Marker.draw(r, px, py, s.MarkerSize)
	}
}

// Chart lays out the calibration curve: one series per channel with error
// bars of one sample standard deviation, on the assay's fixed axes.
func Chart(cal colorimetry.Calibration) chart.Chart {
	a := cal.Assay
	x := cal.Concentrations()

	series := make([]chart.Series, 0, len(colorimetry.ChannelNames))
	for ch, name := range colorimetry.ChannelNames {
		col := seriesColors[ch]
		series = append(series, errorBarSeries{
			ContinuousSeries: chart.ContinuousSeries{
				Name:    name,
				XValues: x,
				YValues: cal.Means(ch),
				Style: chart.Style{
					StrokeColor: col,
					StrokeWidth: 2,
				},
			},
			Errors:     cal.StdDevs(ch),
			CapWidth:   5,
			Marker:     seriesMarkers[ch],
			MarkerSize: 5,
		})
	}

	graph := chart.Chart{
		Width:  ChartWidth,
		Height: ChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  a.XLabel,
			Range: &chart.ContinuousRange{Min: a.XRange[0], Max: a.XRange[1]},
			Ticks: ticks(a.XRange[0], a.XRange[1], a.XTick),
		},
		YAxis: chart.YAxis{
			Name:  a.YLabel,
			Range: &chart.ContinuousRange{Min: a.YRange[0], Max: a.YRange[1]},
			Ticks: ticks(a.YRange[0], a.YRange[1], a.YTick),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph
}

// WriteChart renders the calibration curve to path, as SVG if path ends in
// .svg and as PNG otherwise.
func WriteChart(path string, cal colorimetry.Calibration) error {
	graph := Chart(cal)

	provider := chart.PNG
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		provider = chart.SVG
	}

	outFile, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer outFile.Close()

	bw := bufio.NewWriter(outFile)
	if err := graph.Render(provider, bw); err != nil {
		return pfx.Err(err)
	}
	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}

	return pfx.Err(outFile.Close())
}

// ticks places a labelled tick at every multiple of step within [min, max].
// A step of 0 leaves tick placement to the chart.
func ticks(min, max, step float64) []chart.Tick {
	if step <= 0 {
		return nil
	}

	out := make([]chart.Tick, 0)
	first := math.Ceil(min/step) * step
	for i := 0; ; i++ {
		// Round away accumulated error so labels read 0.5, not 0.5000000001
		v := math.Round((first+float64(i)*step)*1e9) / 1e9
		if v > max {
			break
		}
		if v == 0 {
			// Drop the sign of -0
			v = 0
		}
		out = append(out, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}

	return out
}
