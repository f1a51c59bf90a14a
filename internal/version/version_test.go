package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestInfo(t *testing.T) {
	color.NoColor = true
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3-rc.1"
	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	if got, want := Info(), "vlower 1.2.3-rc.1 (abc123) built 2024-01-15T10:30:00Z"; got != want {
		t.Fatalf("Info() = %q, want %q", got, want)
	}
}

func TestColoredKeepsUnparsable(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "custom-build"
	if Colored() != "custom-build" {
		t.Fatalf("got %q", Colored())
	}
	Version = "0.1.0-dev"
	if !strings.HasSuffix(Colored(), "-dev") {
		t.Fatalf("prerelease lost: %q", Colored())
	}
}
