package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vlower/internal/driver"
	"vlower/internal/project"
)

// settings is the effective configuration of one invocation: vlower.toml
// values overridden by explicitly set flags.
type settings struct {
	cfg       project.Config
	manifest  string
	quiet     bool
	timings   bool
	useColor  bool
	withNotes bool
}

func loadSettings(cmd *cobra.Command, packs []string) (*settings, error) {
	root := cmd.Root().PersistentFlags()
	s := &settings{cfg: project.Default()}

	cfgPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	switch {
	case cfgPath != "":
		cfg, err := project.LoadConfig(cfgPath)
		if err != nil {
			return nil, err
		}
		s.cfg, s.manifest = cfg, cfgPath
	case len(packs) > 0:
		m, ok, err := project.LoadManifest(filepath.Dir(packs[0]))
		if err != nil {
			return nil, err
		}
		if ok {
			s.cfg, s.manifest = m.Config, m.Path
		}
	}

	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if root.Changed("max-diagnostics") {
		if s.cfg.Lower.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if root.Changed("trace-level") {
		s.cfg.Trace.Level, _ = root.GetString("trace-level") //nolint:errcheck
	}
	if root.Changed("trace-mode") {
		s.cfg.Trace.Mode, _ = root.GetString("trace-mode") //nolint:errcheck
	}
	if root.Changed("trace") {
		s.cfg.Trace.Output, _ = root.GetString("trace") //nolint:errcheck
	}

	colorMode, err := root.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorMode) {
	case "on":
		s.useColor = true
	case "off":
		s.useColor = false
	case "auto":
		s.useColor = isTerminal(os.Stdout)
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	color.NoColor = !s.useColor

	if f := cmd.Flags().Lookup("with-notes"); f != nil {
		s.withNotes = f.Value.String() == "true"
	}
	return s, s.cfg.Validate()
}

// applyLowerFlags overrides [lower] and [output] values with explicitly set
// command flags.
func (s *settings) applyLowerFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("keep-going") {
		if s.cfg.Lower.KeepGoing, err = flags.GetBool("keep-going"); err != nil {
			return err
		}
	}
	if flags.Changed("jobs") {
		if s.cfg.Lower.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	if flags.Changed("top") {
		if s.cfg.Lower.Top, err = flags.GetStringSlice("top"); err != nil {
			return err
		}
	}
	if flags.Lookup("emit") != nil && flags.Changed("emit") {
		if s.cfg.Output.Format, err = flags.GetString("emit"); err != nil {
			return err
		}
	}
	if flags.Lookup("out-dir") != nil && flags.Changed("out-dir") {
		if s.cfg.Output.Dir, err = flags.GetString("out-dir"); err != nil {
			return err
		}
	}
	return s.cfg.Validate()
}

func (s *settings) driverOptions() driver.Options {
	return driver.Options{
		KeepGoing:      s.cfg.Lower.KeepGoing,
		MaxDiagnostics: s.cfg.Lower.MaxDiagnostics,
		Jobs:           s.cfg.Lower.Jobs,
		Top:            s.cfg.Lower.Top,
	}
}
