package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"stlex/internal/driver"
	"stlex/internal/source"
	"stlex/internal/ui"
)

const uiEventBuffer = 256

var errInterrupted = errors.New("tokenize interrupted")

type tokenizeOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

// runTokenizeDirWithUI runs driver.TokenizeDir while a progress view draws on stderr.
func runTokenizeDirWithUI(ctx context.Context, dir string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	files, err := driver.ListFiles(fsys, dir)
	if err != nil {
		return nil, nil, err
	}

	return tokenizeWithView(ctx, dir, opts, uiEventBuffer, func(events <-chan driver.Event) error {
		model := ui.NewProgressModel("tokenize "+dir, files, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
		return err
	})
}

// tokenizeWithView feeds driver events to view. If view returns while the
// driver is still working (ctrl+c), the driver's context is canceled.
func tokenizeWithView(ctx context.Context, dir string, opts driver.Options, buffer int, view func(<-chan driver.Event) error) (*source.FileSet, []driver.FileResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, buffer)
	outcomeCh := make(chan tokenizeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fileSet, results, err := driver.TokenizeDir(runCtx, dir, optsCopy)
		outcomeCh <- tokenizeOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	viewErr := view(events)
	// the view only returns early when the user quits
	cancel()
	for range events {
	}
	outcome := <-outcomeCh
	if viewErr != nil {
		return outcome.fileSet, outcome.results, viewErr
	}
	if outcome.err != nil && ctx.Err() == nil && errors.Is(outcome.err, context.Canceled) {
		return outcome.fileSet, outcome.results, fmt.Errorf("%w: %w", errInterrupted, outcome.err)
	}
	return outcome.fileSet, outcome.results, outcome.err
}
