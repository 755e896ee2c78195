package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	info := fromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.21.0",
		Path:      "github.com/carbocation/colorimetry/cmd/calibrationcurve",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	if info.Commit != "abc123" || info.CommitTime != "2024-01-02T03:04:05Z" || !info.Modified {
		t.Fatalf("Unexpected %+v", info)
	}

	s := info.String()
	for _, want := range []string{"calibrationcurve", "go1.21.0", "abc123", "modified"} {
		if !strings.Contains(s, want) {
			t.Errorf("%q does not mention %q", s, want)
		}
	}
}

func TestEmptyInfo(t *testing.T) {
	if s := (CompileInfo{}).String(); !strings.Contains(s, "No build information") {
		t.Errorf("got %q", s)
	}
}
