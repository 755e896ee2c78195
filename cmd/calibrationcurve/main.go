// calibrationcurve reduces photographs of a colorimetric assay, organized in
// one folder per known concentration, to a calibration curve chart and
// summary/raw spreadsheets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/colorimetry/assay"
	_ "github.com/carbocation/colorimetry/compileinfoprint"
	"github.com/carbocation/colorimetry/report"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var opts options
	var format string

	flag.StringVar(&opts.AssayName, "assay", "glucose", fmt.Sprintf("Built-in assay to calibrate. One of: %s", strings.Join(assay.Names(), ", ")))
	flag.StringVar(&opts.ConfigPath, "config", "", "(Optional) Path to a JSON file overriding fields of the chosen assay (concentrations, folders, image_path, axis ranges and labels).")
	flag.StringVar(&opts.ImagePath, "images", "", "(Optional) Folder, or gs:// prefix, holding one subfolder per concentration. Defaults to the assay's image_path.")
	flag.StringVar(&opts.ChartPath, "chart", "", "Path for the calibration curve image (.png or .svg). Defaults to <assay>_calibration_curve.png.")
	flag.StringVar(&opts.SwatchPath, "swatch", "", "(Optional) Path for a PNG swatch sheet of every replicate's mean color.")
	flag.StringVar(&opts.TableDir, "out", report.DefaultTableDir, "Folder where the summary and raw tables are written.")
	flag.StringVar(&format, "format", string(report.XLSX), "Table format: xlsx, csv or tsv.")
	flag.BoolVar(&opts.Tables, "tables", true, "Write the summary, raw and fit tables. If false, only the chart is produced.")
	flag.Parse()

	var err error
	opts.Format, err = report.ParseFormat(format)
	if err != nil {
		log.Println(err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(context.Background(), opts); err != nil {
		log.Fatalln(err)
	}
}
