package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vlower/internal/driver"
	"vlower/internal/ui"
)

type lowerOutcome struct {
	results []driver.PackResult
	err     error
}

// runLowerWithUI lowers packs in the background while a progress view
// renders on stderr, keeping stdout free for the emitted modules. Quitting
// the view cancels the remaining work.
func runLowerWithUI(ctx context.Context, title string, packs []string, opts driver.Options) ([]driver.PackResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.LowerPacks(ctx, packs, o)
		outcomeCh <- lowerOutcome{results: results, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, packs, events), tea.WithOutput(os.Stderr))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Aborted(final) {
		cancel()
	}
	// the view may stop reading early; keep the producer unblocked
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
