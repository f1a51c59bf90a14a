package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vlower/internal/diag"
	"vlower/internal/driver"
)

var (
	sevBugColor     = color.New(color.FgMagenta, color.Bold)
	sevErrorColor   = color.New(color.FgRed, color.Bold)
	sevWarningColor = color.New(color.FgYellow, color.Bold)
	sevOtherColor   = color.New(color.FgCyan)
	codeColor       = color.New(color.Faint)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevBug:
		return sevBugColor
	case diag.SevError:
		return sevErrorColor
	case diag.SevWarning:
		return sevWarningColor
	default:
		return sevOtherColor
	}
}

// printDiagnostics writes one line per diagnostic prefixed with the pack path:
//
//	design.hirpack: ERROR CG5001 1:40-49 cannot generate code for physical type `time`
func printDiagnostics(w io.Writer, path string, bag *diag.Bag, withNotes bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s %s %s\n",
			path,
			severityColor(d.Severity).Sprint(d.Severity),
			codeColor.Sprint(d.Code.ID()),
			d.Primary,
			d.Message)
		if !withNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "    note: %s %s\n", n.Span, n.Msg)
		}
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// renderSummary renders one row per pack. Column widths come from runewidth
// so non-ASCII paths line up.
func renderSummary(results []driver.PackResult, useColor bool) string {
	header := []string{"pack", "status", "units", "failed", "errors", "bugs", "ms"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed"
		}
		units, failed, errs, bugs := 0, 0, 0, 0
		ms := 0.0
		if r.Result != nil {
			units = r.Result.Module.Len()
			failed = len(r.Result.Failed)
			errs = r.Result.Bag.Count(diag.SevError)
			bugs = r.Result.Bag.Count(diag.SevBug)
			ms = r.Result.Timing.TotalMS
		}
		rows = append(rows, []string{
			r.Path, status,
			fmt.Sprint(units), fmt.Sprint(failed), fmt.Sprint(errs), fmt.Sprint(bugs),
			fmt.Sprintf("%.2f", ms),
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	line := func(cells []string, style func(col int, cell string) string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			padded := runewidth.FillRight(cell, widths[i])
			if style != nil {
				padded = style(i, padded)
			}
			sb.WriteString(padded)
		}
		sb.WriteByte('\n')
	}
	line(header, func(_ int, cell string) string {
		if !useColor {
			return cell
		}
		return headerStyle.Render(cell)
	})
	for _, row := range rows {
		line(row, func(col int, cell string) string {
			if !useColor || col != 1 {
				return cell
			}
			if strings.TrimSpace(cell) == "ok" {
				return okStyle.Render(cell)
			}
			return failStyle.Render(cell)
		})
	}
	return sb.String()
}
