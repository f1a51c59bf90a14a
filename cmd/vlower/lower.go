package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vlower/internal/driver"
	"vlower/internal/llhd"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <pack.hirpack>...",
	Short: "Lower HIR packs to LLHD",
	Long:  `Lower every design unit of the given HIR packs and emit the resulting LLHD module as text or msgpack`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLower,
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <pack.hirpack>...",
	Short: "Lower and validate HIR packs without emitting output",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func addLowerFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("keep-going", true, "continue with the next design unit after a failure")
	cmd.Flags().Int("jobs", 0, "max packs lowered in parallel (0=auto)")
	cmd.Flags().StringSlice("top", nil, "lower only these entities")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
}

func init() {
	addLowerFlags(lowerCmd)
	addLowerFlags(checkCmd)
	lowerCmd.Flags().String("emit", "text", "output format (text|msgpack)")
	lowerCmd.Flags().StringP("out-dir", "o", "", "write one artifact per pack into this directory")
	lowerCmd.Flags().Bool("watch", false, "re-lower packs whenever they change")
}

func runLower(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	if s.cfg.Output.Format == "msgpack" && s.cfg.Output.Dir == "" && isTerminal(os.Stdout) {
		return errors.New("refusing to write msgpack to a terminal; use --out-dir")
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	if watch {
		return watchPacks(cmd.Context(), args, func(ctx context.Context, packs []string) error {
			return lowerOnce(ctx, cmd, s, packs, true)
		})
	}
	return lowerOnce(cmd.Context(), cmd, s, args, true)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	return lowerOnce(cmd.Context(), cmd, s, args, false)
}

func prepare(cmd *cobra.Command, args []string) (*settings, error) {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return nil, err
	}
	if err := s.applyLowerFlags(cmd); err != nil {
		return nil, err
	}
	return s, nil
}

// lowerOnce lowers packs, prints diagnostics and, when emit is set, writes
// the modules. It fails if any pack failed.
func lowerOnce(ctx context.Context, cmd *cobra.Command, s *settings, packs []string, emit bool) (err error) {
	cleanup, err := setupTracing(cmd, s)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()
	ctx = mergeTracer(ctx, cmd.Context())

	results, err := runPacks(ctx, cmd, s, packs)
	if err != nil {
		return err
	}

	failed := 0
	errOut := cmd.ErrOrStderr()
	for _, r := range results {
		if r.Result != nil {
			printDiagnostics(errOut, r.Path, r.Result.Bag, s.withNotes)
		}
		if r.Err != nil {
			failed++
			continue
		}
		if emit {
			if err := emitModule(cmd.OutOrStdout(), s, r.Path, r.Result.Module); err != nil {
				return err
			}
		}
	}

	if s.timings {
		for _, r := range results {
			if r.Result != nil {
				fmt.Fprintf(errOut, "%s\n%s", r.Path, r.Result.Timing.Summary())
			}
		}
	}
	if !s.quiet && (len(results) > 1 || failed > 0) {
		fmt.Fprint(errOut, renderSummary(results, s.useColor))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d packs failed", failed, len(results))
	}
	return nil
}

func runPacks(ctx context.Context, cmd *cobra.Command, s *settings, packs []string) ([]driver.PackResult, error) {
	opts := s.driverOptions()
	mode, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	ui, err := readUIMode(mode)
	if err != nil {
		return nil, err
	}
	if shouldUseTUI(ui) && !s.quiet {
		return runLowerWithUI(ctx, "lowering", packs, opts)
	}
	return driver.LowerPacks(ctx, packs, opts)
}

// emitModule writes m to stdout or, with an output directory, next to the
// other artifacts as <pack>.llhd / <pack>.llhdpack.
func emitModule(stdout io.Writer, s *settings, pack string, m *llhd.Module) (err error) {
	write := func(w io.Writer) error {
		if s.cfg.Output.Format == "msgpack" {
			return llhd.EncodeModule(w, m)
		}
		return llhd.Dump(w, m)
	}
	if s.cfg.Output.Dir == "" {
		return write(stdout)
	}

	if err := os.MkdirAll(s.cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	ext := ".llhd"
	if s.cfg.Output.Format == "msgpack" {
		ext = ".llhdpack"
	}
	name := strings.TrimSuffix(filepath.Base(pack), filepath.Ext(pack)) + ext
	f, err := os.Create(filepath.Join(s.cfg.Output.Dir, name))
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	return w.Flush()
}
