package main

import (
	"context"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/colorimetry"
	"github.com/carbocation/colorimetry/assay"
	"github.com/carbocation/colorimetry/imageio"
	"github.com/carbocation/colorimetry/report"
	"github.com/carbocation/pfx"
)

type options struct {
	AssayName  string
	ConfigPath string
	ImagePath  string
	ChartPath  string
	SwatchPath string
	TableDir   string
	Format     report.Format
	Tables     bool
}

func loadAssay(opts options) (assay.Assay, error) {
	a, err := assay.Builtin(opts.AssayName)
	if err != nil {
		return a, err
	}

	if opts.ConfigPath != "" {
		if a, err = assay.ParseJSONConfigFromPath(opts.ConfigPath, a); err != nil {
			return a, err
		}
		log.Println("Loaded assay configuration from", opts.ConfigPath)
	}

	if opts.ImagePath != "" {
		a.ImagePath = opts.ImagePath
	}

	return a, nil
}

func run(ctx context.Context, opts options) error {
	a, err := loadAssay(opts)
	if err != nil {
		return err
	}

	loader := imageio.Loader{}

	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	if imageio.IsGoogleStorage(a.ImagePath) {
		loader.Client, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer loader.Client.Close()
	}

	log.Printf("Calibrating %s from %q across %d concentrations\n", a.Name, a.ImagePath, len(a.Concentrations))

	cal, err := colorimetry.Calibrate(ctx, a, loader)
	if err != nil {
		return err
	}

	if fits, err := colorimetry.FitChannels(cal); err == nil {
		for _, f := range fits {
			log.Printf("%s: %.4f + %.4f * concentration (R2 %.4f)\n", f.Channel, f.Intercept, f.Slope, f.R2)
		}
	}

	chartPath := opts.ChartPath
	if chartPath == "" {
		chartPath = a.Name + "_calibration_curve.png"
	}
	if err := report.WriteChart(chartPath, cal); err != nil {
		return err
	}
	log.Println("Wrote", chartPath)

	if opts.SwatchPath != "" {
		if err := report.WriteSwatch(opts.SwatchPath, cal); err != nil {
			return err
		}
		log.Println("Wrote", opts.SwatchPath)
	}

	if !opts.Tables {
		return nil
	}

	paths, err := report.WriteTables(opts.TableDir, opts.Format, cal)
	if err != nil {
		return err
	}
	for _, path := range paths {
		log.Println("Wrote", path)
	}

	return nil
}
