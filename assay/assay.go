// Package assay describes a colorimetric calibration run: which known
// concentrations were photographed, which folder holds each set of replicate
// images, and how the resulting calibration curve should be labelled.
package assay

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var ErrUnknownAssay = errors.New("unknown assay")

// DefaultImagePath is the folder, relative to the working directory, that
// holds one subfolder per concentration.
const DefaultImagePath = "calibration curve"

// DefaultYLabel is shared by every built-in assay.
const DefaultYLabel = "Percentage of RGB color (%)"

type Assay struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`

	// Concentrations are in plotting order. They are usually ascending, but
	// nothing downstream depends on that.
	Concentrations []float64 `json:"concentrations"`

	// Folders maps FormatConcentration(c) to the name of the subfolder that
	// holds the images for concentration c. Concentrations missing from the
	// map use FormatConcentration(c) unchanged.
	Folders map[string]string `json:"folders"`

	XLabel string     `json:"x_label"`
	YLabel string     `json:"y_label"`
	XRange [2]float64 `json:"x_range"`
	YRange [2]float64 `json:"y_range"`
	XTick  float64    `json:"x_tick"`
	YTick  float64    `json:"y_tick"`
}

var builtins = map[string]func() Assay{
	"glucose": func() Assay {
		concs := []float64{0, 0.05, 0.25, 0.5, 1, 1.25, 1.5, 2}
		return Assay{
			Name:           "glucose",
			ImagePath:      DefaultImagePath,
			Concentrations: concs,
			Folders:        LegacyFolders(concs),
			XLabel:         "Glucose concentration (mM)",
			YLabel:         DefaultYLabel,
			XRange:         [2]float64{-0.1, 2.1},
			YRange:         [2]float64{0, 100},
			XTick:          0.5,
			YTick:          10,
		}
	},
	"lactate": func() Assay {
		concs := []float64{0, 1, 2.5, 5, 10, 15, 20}
		return Assay{
			Name:           "lactate",
			ImagePath:      DefaultImagePath,
			Concentrations: concs,
			Folders:        LegacyFolders(concs),
			XLabel:         "Lactate concentration (mM)",
			YLabel:         DefaultYLabel,
			XRange:         [2]float64{-0.5, 20.5},
			YRange:         [2]float64{0, 100},
			XTick:          5,
			YTick:          10,
		}
	},
}

// Builtin returns a fresh copy of the named built-in assay.
func Builtin(name string) (Assay, error) {
	fn, exists := builtins[name]
	if !exists {
		return Assay{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownAssay, name, Names())
	}

	return fn(), nil
}

// Names lists the built-in assays in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for k := range builtins {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// FormatConcentration renders c in its shortest form: 0 => "0", 1.5 => "1.5".
func FormatConcentration(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// LegacyFolderName reproduces the folder naming used by the bench protocol:
// a concentration whose shortest form is exactly three characters long gets
// a trailing zero (1.5 => "1.50"), everything else is left alone (0 => "0",
// 0.05 => "0.05"). It is not a general decimal formatting rule.
func LegacyFolderName(c float64) string {
	name := FormatConcentration(c)
	if len(name) == 3 {
		name += "0"
	}

	return name
}

// LegacyFolders builds an explicit folder table for concs with
// LegacyFolderName. Only entries that differ from FormatConcentration are
// stored.
func LegacyFolders(concs []float64) map[string]string {
	out := make(map[string]string)
	for _, c := range concs {
		if name := LegacyFolderName(c); name != FormatConcentration(c) {
			out[FormatConcentration(c)] = name
		}
	}

	return out
}

// FolderName returns the subfolder holding the images for concentration c.
func (a Assay) FolderName(c float64) string {
	key := FormatConcentration(c)
	if name, exists := a.Folders[key]; exists && name != "" {
		return name
	}

	return key
}

func (a Assay) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("assay has no name")
	}

	if len(a.Concentrations) < 1 {
		return fmt.Errorf("assay %s: no concentrations configured", a.Name)
	}

	seen := make(map[string]struct{})
	for _, c := range a.Concentrations {
		key := FormatConcentration(c)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("assay %s: concentration %s listed more than once", a.Name, key)
		}
		seen[key] = struct{}{}
	}

	if a.XRange[0] >= a.XRange[1] {
		return fmt.Errorf("assay %s: x range %v must have min < max", a.Name, a.XRange)
	}

	if a.YRange[0] >= a.YRange[1] {
		return fmt.Errorf("assay %s: y range %v must have min < max", a.Name, a.YRange)
	}

	if a.XTick < 0 || a.YTick < 0 {
		return fmt.Errorf("assay %s: tick spacing cannot be negative", a.Name)
	}

	return nil
}
