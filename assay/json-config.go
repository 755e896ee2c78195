package assay

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// ParseJSONConfigFromPath overlays the JSON file at path onto base. Fields
// absent from the file keep base's values. If the file replaces the
// concentration list without supplying a folder table, the table is rebuilt
// with LegacyFolders so the on-disk layout convention still holds.
func ParseJSONConfigFromPath(path string, base Assay) (Assay, error) {
	raw, err := os.ReadFile(expandHomeDir(path))
	if err != nil {
		return base, pfx.Err(err)
	}

	return parseJSONConfig(raw, base)
}

func parseJSONConfig(raw []byte, base Assay) (Assay, error) {
	var probe struct {
		Concentrations []float64         `json:"concentrations"`
		Folders        map[string]string `json:"folders"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return base, pfx.Err(err)
	}

	out := base
	out.Concentrations = append([]float64(nil), base.Concentrations...)

	// A provided table replaces the built-in one instead of being merged
	// into it.
	out.Folders = nil
	if probe.Folders == nil {
		out.Folders = make(map[string]string, len(base.Folders))
		for k, v := range base.Folders {
			out.Folders[k] = v
		}
	}

	if err := decodeStrict(raw, &out); err != nil {
		return base, err
	}

	if probe.Concentrations != nil && probe.Folders == nil {
		out.Folders = LegacyFolders(out.Concentrations)
	}

	out.ImagePath = expandHomeDir(out.ImagePath)

	return out, pfx.Err(out.Validate())
}

func decodeStrict(raw []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if e, ok := err.(*json.SyntaxError); ok {
		log.Printf("syntax error at byte offset %d", e.Offset)
	}

	return pfx.Err(err)
}

// expandHomeDir replaces a leading "~" with the current user's home
// directory. Other paths, or any path when the home directory is unknown, are
// returned unchanged.
func expandHomeDir(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}

	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
