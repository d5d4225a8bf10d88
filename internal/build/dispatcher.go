// Package build routes a build request to the pipeline of every selected
// output format and runs those pipelines: XSLT processing of the PreTeXt
// source, plus an optional watch loop that rebuilds on source changes.
package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/format"
	"github.com/pretextbook/pretext/internal/logging"
)

// Builder produces one output format under outputPath.
type Builder interface {
	Build(ctx context.Context, outputPath string, params map[string]string) error
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, outputPath string, params map[string]string) error

// Build calls f
func (f BuilderFunc) Build(ctx context.Context, outputPath string, params map[string]string) error {
	return f(ctx, outputPath, params)
}

// Dispatcher holds one Builder per format
type Dispatcher struct {
	builders map[format.Format]Builder
	logger   logging.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{
		builders: make(map[format.Format]Builder),
		logger:   logger.WithComponent("build"),
	}
}

// Register sets the builder for f, replacing any previous one
func (d *Dispatcher) Register(f format.Format, b Builder) {
	d.builders[f] = b
}

// Options configures the XSLT pipelines registered by NewXSLTDispatcher
type Options struct {
	Processor string
	XSLDir    string
	Source    string
	Runner    Runner
	Logger    logging.Logger
}

// NewXSLTDispatcher registers an XSLT compiler for every concrete format
func NewXSLTDispatcher(opts Options) (*Dispatcher, error) {
	d := NewDispatcher(opts.Logger)
	for _, f := range format.Concrete {
		c, err := NewXSLTCompiler(f, opts.Processor, opts.XSLDir, opts.Source, opts.Runner)
		if err != nil {
			return nil, err
		}
		d.Register(f, c)
	}
	return d, nil
}

// Dispatch runs the builder of every selected format in dispatch order with
// the same output path and parameters. A failure does not stop the
// remaining formats; all failures are returned joined, each wrapping the
// builder's own error.
func (d *Dispatcher) Dispatch(ctx context.Context, sel format.Selection, outputPath string, params map[string]string) ([]BuildResult, error) {
	formats := sel.Ordered()
	results := make([]BuildResult, 0, len(formats))
	var errs []error

	for _, f := range formats {
		b, ok := d.builders[f]
		if !ok {
			err := errors.NewInternalError(errors.ErrCodeNoBuilder, fmt.Sprintf("no builder registered for format %s", f), nil)
			results = append(results, BuildResult{Format: f, Output: outputPath, Error: err})
			errs = append(errs, err)
			continue
		}

		d.logger.Info(ctx, "Building", "format", f.String(), "output", outputPath, "params", len(params))
		start := time.Now()
		err := b.Build(ctx, outputPath, params)
		result := BuildResult{Format: f, Output: outputPath, Duration: time.Since(start)}

		if err != nil {
			result.Error = errors.ErrBuildFailed(f.String(), err)
			errs = append(errs, result.Error)
			d.logger.Error(ctx, err, "Build failed", "format", f.String(), "duration_ms", result.Duration.Milliseconds())
		} else {
			d.logger.Info(ctx, "Build finished", "format", f.String(), "duration_ms", result.Duration.Milliseconds())
		}
		results = append(results, result)
	}

	return results, stderrors.Join(errs...)
}
