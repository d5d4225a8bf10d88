package build

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buildCall struct {
	format     format.Format
	outputPath string
	params     map[string]string
}

type recorder struct {
	calls []buildCall
}

func (r *recorder) builder(f format.Format, err error) Builder {
	return BuilderFunc(func(ctx context.Context, outputPath string, params map[string]string) error {
		r.calls = append(r.calls, buildCall{format: f, outputPath: outputPath, params: params})
		return err
	})
}

func TestDispatchHTMLOnly(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(nil)
	d.Register(format.HTML, rec.builder(format.HTML, nil))
	d.Register(format.LaTeX, rec.builder(format.LaTeX, nil))

	results, err := d.Dispatch(context.Background(), format.Select(format.HTML), "out", map[string]string{})
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, format.HTML, rec.calls[0].format)
	assert.Equal(t, "out", rec.calls[0].outputPath)
	assert.Empty(t, rec.calls[0].params)

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Error)
}

func TestDispatchLaTeXWithParams(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(nil)
	d.Register(format.HTML, rec.builder(format.HTML, nil))
	d.Register(format.LaTeX, rec.builder(format.LaTeX, nil))

	params := map[string]string{"a": "1", "b": "2"}
	_, err := d.Dispatch(context.Background(), format.Select(format.LaTeX), "./output", params)
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, format.LaTeX, rec.calls[0].format)
	assert.Equal(t, params, rec.calls[0].params)
}

func TestDispatchAllRunsEveryFormatInOrder(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(nil)
	d.Register(format.LaTeX, rec.builder(format.LaTeX, nil))
	d.Register(format.HTML, rec.builder(format.HTML, nil))

	_, err := d.Dispatch(context.Background(), format.Select(format.All), "out", nil)
	require.NoError(t, err)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, format.HTML, rec.calls[0].format)
	assert.Equal(t, format.LaTeX, rec.calls[1].format)
}

func TestDispatchContinuesAfterFailure(t *testing.T) {
	rec := &recorder{}
	htmlErr := stderrors.New("xsltproc exploded")
	d := NewDispatcher(nil)
	d.Register(format.HTML, rec.builder(format.HTML, htmlErr))
	d.Register(format.LaTeX, rec.builder(format.LaTeX, nil))

	results, err := d.Dispatch(context.Background(), format.Select(format.All), "out", nil)
	require.Error(t, err)

	assert.Len(t, rec.calls, 2, "latex must still be attempted")
	assert.ErrorIs(t, err, htmlErr)

	var ce *errors.CLIError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, errors.ErrCodeBuildFailed, ce.Code)
	assert.Equal(t, 1, errors.ExitCode(err))

	require.Len(t, results, 2)
	assert.Error(t, results[0].Error)
	assert.NoError(t, results[1].Error)
}

func TestDispatchMissingBuilder(t *testing.T) {
	d := NewDispatcher(nil)

	_, err := d.Dispatch(context.Background(), format.Select(format.HTML), "out", nil)
	require.Error(t, err)

	var ce *errors.CLIError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, errors.ErrCodeNoBuilder, ce.Code)
}

func TestDispatchEmptySelection(t *testing.T) {
	d := NewDispatcher(nil)
	results, err := d.Dispatch(context.Background(), format.Select(), "out", nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestWatcherRebuildRecordsMetrics(t *testing.T) {
	d := NewDispatcher(nil)
	d.Register(format.HTML, BuilderFunc(func(ctx context.Context, outputPath string, params map[string]string) error {
		time.Sleep(time.Millisecond)
		return nil
	}))
	d.Register(format.LaTeX, BuilderFunc(func(ctx context.Context, outputPath string, params map[string]string) error {
		return stderrors.New("no latex today")
	}))

	w := NewWatcher(d, nil)
	err := w.Rebuild(context.Background(), Request{Formats: format.Select(format.All), OutputPath: "out"})
	require.Error(t, err)

	snap := w.Metrics().GetSnapshot()
	assert.Equal(t, int64(2), snap.TotalBuilds)
	assert.Equal(t, int64(1), snap.SuccessfulBuilds)
	assert.Equal(t, int64(1), snap.FailedBuilds)
	assert.InDelta(t, 50.0, w.Metrics().GetSuccessRate(), 0.001)
}
