// Package version holds build information of the vlower CLI.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each component highlighted. Versions that do
// not parse are returned unchanged.
func Colored() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	out := fmt.Sprintf("%s.%s.%s",
		versionMajorColor.Sprint(v.Major()),
		versionMinorColor.Sprint(v.Minor()),
		versionPatchColor.Sprint(v.Patch()))
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	return out
}

// Info is the full version line printed by `vlower version`.
func Info() string {
	out := "vlower " + Colored()
	if GitCommit != "" {
		out += " (" + GitCommit + ")"
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
