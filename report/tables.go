package report

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/carbocation/colorimetry"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// DefaultTableDir is where tables are written unless told otherwise.
const DefaultTableDir = "excel"

type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
	TSV  Format = "tsv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case XLSX, CSV, TSV:
		return f, nil
	}

	return "", fmt.Errorf("unknown table format %q (expected xlsx, csv or tsv)", s)
}

// SummaryRow is one concentration of the calibration.
type SummaryRow struct {
	Concentration float64 `csv:"Concentration (mM)"`
	N             int     `csv:"N"`
	R             float64 `csv:"R"`
	RSD           float64 `csv:"R SD"`
	G             float64 `csv:"G"`
	GSD           float64 `csv:"G SD"`
	B             float64 `csv:"B"`
	BSD           float64 `csv:"B SD"`
	AverageSD     float64 `csv:"Average SD"`
}

// RawRow is one image.
type RawRow struct {
	Concentration float64 `csv:"Concentration (mM)"`
	Image         string  `csv:"Image"`
	R             float64 `csv:"R"`
	G             float64 `csv:"G"`
	B             float64 `csv:"B"`
	Pixels        int     `csv:"Pixels"`
	RPixelSD      float64 `csv:"R pixel SD"`
	GPixelSD      float64 `csv:"G pixel SD"`
	BPixelSD      float64 `csv:"B pixel SD"`
}

// FitRow is the calibration line for one channel.
type FitRow struct {
	Channel   string  `csv:"Channel"`
	Slope     float64 `csv:"Slope"`
	Intercept float64 `csv:"Intercept"`
	R2        float64 `csv:"R2"`
}

func SummaryRows(cal colorimetry.Calibration) ([]SummaryRow, error) {
	out := make([]SummaryRow, 0, len(cal.Points))
	for _, p := range cal.Points {
		avg, err := p.AverageSD()
		if err != nil {
			return nil, err
		}

		out = append(out, SummaryRow{
			Concentration: p.Concentration,
			N:             p.N,
			R:             p.Mean[0],
			RSD:           p.StdDev[0],
			G:             p.Mean[1],
			GSD:           p.StdDev[1],
			B:             p.Mean[2],
			BSD:           p.StdDev[2],
			AverageSD:     avg,
		})
	}

	return out, nil
}

func RawRows(cal colorimetry.Calibration) []RawRow {
	out := make([]RawRow, 0)
	for _, p := range cal.Points {
		for _, r := range p.Readings {
			out = append(out, RawRow{
				Concentration: p.Concentration,
				Image:         r.Image,
				R:             r.R,
				G:             r.G,
				B:             r.B,
				Pixels:        r.Pixels,
				RPixelSD:      r.PixelSD[0],
				GPixelSD:      r.PixelSD[1],
				BPixelSD:      r.PixelSD[2],
			})
		}
	}

	return out
}

func FitRows(fits [3]colorimetry.Fit) []FitRow {
	out := make([]FitRow, 0, len(fits))
	for _, f := range fits {
		out = append(out, FitRow{Channel: f.Channel, Slope: f.Slope, Intercept: f.Intercept, R2: f.R2})
	}

	return out
}

// TablePath is the fixed location of one of an assay's tables, e.g.
// excel/glucose_summary.xlsx.
func TablePath(dir, assayName, table string, format Format) string {
	return filepath.Join(dir, assayName+"_"+table+"."+string(format))
}

type namedTable struct {
	Name string
	Rows interface{}
}

// WriteTables writes the summary, raw and fit tables for cal into dir,
// creating it if needed, and returns the paths written. The fit table is
// skipped, with a log message, when the concentrations cannot support a
// line.
func WriteTables(dir string, format Format, cal colorimetry.Calibration) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, pfx.Err(err)
	}

	summary, err := SummaryRows(cal)
	if err != nil {
		return nil, pfx.Err(err)
	}

	tables := []namedTable{
		{"summary", summary},
		{"raw", RawRows(cal)},
	}

	fits, err := colorimetry.FitChannels(cal)
	if err != nil {
		log.Printf("Not writing a fit table: %v\n", err)
	} else {
		tables = append(tables, namedTable{"fit", FitRows(fits)})
	}

	out := make([]string, 0, len(tables))
	for _, table := range tables {
		path := TablePath(dir, cal.Assay.Name, table.Name, format)
		if err := WriteTable(path, format, table.Name, table.Rows); err != nil {
			return out, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		out = append(out, path)
	}

	return out, nil
}

// WriteTable writes rows, a slice of structs with csv tags, to path. For
// xlsx the sheet is named sheet and numbers are stored as numbers.
func WriteTable(path string, format Format, sheet string, rows interface{}) error {
	if format == XLSX {
		return writeXLSX(path, sheet, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if format == TSV {
		w.Comma = '\t'
	}

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}

func writeXLSX(path, sheet string, rows interface{}) error {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Struct {
		return fmt.Errorf("expected a slice of structs, got %T", rows)
	}

	fields := reflect.VisibleFields(v.Type().Elem())
	header := make([]interface{}, 0, len(fields))
	for _, field := range fields {
		header = append(header, field.Tag.Get("csv"))
	}

	xf := excelize.NewFile()
	defer xf.Close()

	xf.SetSheetName(xf.GetSheetName(0), sheet)

	if err := xf.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < v.Len(); i++ {
		row := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			row = append(row, xlsxValue(v.Index(i).FieldByIndex(field.Index).Interface()))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xf.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return xf.SaveAs(path)
}

// xlsxValue leaves NaN and infinite values as blank cells, which spreadsheet
// readers reject as numbers.
func xlsxValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}

	return v
}
