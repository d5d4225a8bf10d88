package build

import (
	"context"
	"fmt"
	"time"

	"github.com/pretextbook/pretext/internal/format"
	"github.com/pretextbook/pretext/internal/logging"
	"github.com/pretextbook/pretext/internal/watcher"
)

// DefaultWatchDelay is how long source edits are batched before a rebuild.
const DefaultWatchDelay = 300 * time.Millisecond

// Request is one build invocation: what to build, where, and with which
// stylesheet parameters.
type Request struct {
	Formats    format.Selection
	OutputPath string
	Params     map[string]string
}

// Watcher rebuilds a Request whenever PreTeXt sources under a directory change.
type Watcher struct {
	dispatcher *Dispatcher
	metrics    *BuildMetrics
	logger     logging.Logger
	delay      time.Duration
}

// NewWatcher creates a rebuild loop around dispatcher
func NewWatcher(dispatcher *Dispatcher, logger logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		dispatcher: dispatcher,
		metrics:    NewBuildMetrics(),
		logger:     logger.WithComponent("build-watch"),
		delay:      DefaultWatchDelay,
	}
}

// Metrics returns the metrics collected by this watcher
func (w *Watcher) Metrics() *BuildMetrics {
	return w.metrics
}

// Rebuild dispatches req once and records every result.
func (w *Watcher) Rebuild(ctx context.Context, req Request) error {
	results, err := w.dispatcher.Dispatch(ctx, req.Formats, req.OutputPath, req.Params)
	for _, r := range results {
		w.metrics.RecordBuild(r)
	}
	return err
}

// Run builds req, then rebuilds it on every debounced change to a source
// file under sourceDir until ctx is cancelled. Failed rebuilds are logged
// and do not end the loop.
func (w *Watcher) Run(ctx context.Context, sourceDir string, req Request) error {
	fw, err := watcher.NewFileWatcher(w.delay, w.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.SourceFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	if err := fw.AddRecursive(sourceDir); err != nil {
		return fmt.Errorf("watching %s: %w", sourceDir, err)
	}

	if err := w.Rebuild(ctx, req); err != nil {
		w.logger.Warn(ctx, err, "Initial build failed")
	}

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		w.logger.Info(ctx, "Sources changed, rebuilding", "files", len(events))
		if err := w.Rebuild(ctx, req); err != nil {
			w.logger.Warn(ctx, err, "Rebuild failed")
		}
		snap := w.metrics.GetSnapshot()
		w.logger.Debug(ctx, "Build metrics",
			"total", snap.TotalBuilds,
			"failed", snap.FailedBuilds,
			"avg_ms", snap.AverageDuration.Milliseconds())
		return nil
	})

	fw.Start(ctx)
	<-ctx.Done()
	return nil
}
