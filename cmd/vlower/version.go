package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vlower/internal/elab"
	"vlower/internal/version"
)

var versionFormat string

type versionPayload struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	GitCommit   string `json:"git_commit"`
	BuildDate   string `json:"build_date"`
	PackFormat  string `json:"pack_format"`
	PackVersion string `json:"pack_version"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vlower version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			fmt.Fprintf(cmd.OutOrStdout(), "reads %s %s\n", elab.PackFormat, elab.PackConstraint)
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

func renderVersionJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:        "vlower",
		Version:     version.Version,
		GitCommit:   valueOrUnknown(version.GitCommit),
		BuildDate:   valueOrUnknown(version.BuildDate),
		PackFormat:  elab.PackFormat,
		PackVersion: elab.PackVersion,
	})
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
