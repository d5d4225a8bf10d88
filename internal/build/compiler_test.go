package build

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/pretextbook/pretext/internal/format"
	"github.com/pretextbook/pretext/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	dir    string
	name   string
	args   []string
	output []byte
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.dir = dir
	f.name = name
	f.args = args
	return f.output, f.err
}

func writeSource(t *testing.T) string {
	t.Helper()
	return testutils.CreateTestConfig(testutils.CreateTempProject(t)).Build.Source
}

func TestXSLTCompilerHTML(t *testing.T) {
	src := writeSource(t)
	out := filepath.Join(t.TempDir(), "html")
	runner := &fakeRunner{}

	c, err := NewXSLTCompiler(format.HTML, "xsltproc", "/opt/pretext/xsl", src, runner)
	require.NoError(t, err)

	params := map[string]string{"publisher": "pub.xml", "debug.datedfiles": "no"}
	require.NoError(t, c.Build(context.Background(), out, params))

	assert.DirExists(t, out)
	assert.Equal(t, out, runner.dir)
	assert.Equal(t, "xsltproc", runner.name)
	assert.Equal(t, []string{
		"--xinclude",
		"--stringparam", "debug.datedfiles", "no",
		"--stringparam", "publisher", "pub.xml",
		"/opt/pretext/xsl/pretext-html.xsl",
		src,
	}, runner.args)
}

func TestXSLTCompilerLaTeXWritesTexFile(t *testing.T) {
	src := writeSource(t)
	out := t.TempDir()
	runner := &fakeRunner{}

	c, err := NewXSLTCompiler(format.LaTeX, "xsltproc", "/opt/pretext/xsl", src, runner)
	require.NoError(t, err)
	require.NoError(t, c.Build(context.Background(), out, nil))

	assert.Equal(t, []string{
		"--xinclude",
		"--output", filepath.Join(out, "main.tex"),
		"/opt/pretext/xsl/pretext-latex.xsl",
		src,
	}, runner.args)
}

func TestXSLTCompilerMissingSource(t *testing.T) {
	runner := &fakeRunner{}
	c, err := NewXSLTCompiler(format.HTML, "xsltproc", "xsl", filepath.Join(t.TempDir(), "nope.ptx"), runner)
	require.NoError(t, err)

	err = c.Build(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Empty(t, runner.name, "processor must not run without a source")
}

func TestXSLTCompilerRejectsUnknownProcessor(t *testing.T) {
	src := writeSource(t)
	runner := &fakeRunner{}
	c, err := NewXSLTCompiler(format.HTML, "rm", "xsl", src, runner)
	require.NoError(t, err)

	err = c.Build(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command validation failed")
	assert.Empty(t, runner.name)
}

func TestXSLTCompilerReportsProcessorOutput(t *testing.T) {
	src := writeSource(t)
	runner := &fakeRunner{
		output: []byte("runtime error: file pretext-html.xsl line 3\n"),
		err:    stderrors.New("exit status 5"),
	}
	c, err := NewXSLTCompiler(format.HTML, "xsltproc", "xsl", src, runner)
	require.NoError(t, err)

	err = c.Build(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 5")
	assert.Contains(t, err.Error(), "pretext-html.xsl line 3")
}

func TestNewXSLTCompilerUnknownFormat(t *testing.T) {
	_, err := NewXSLTCompiler(format.All, "xsltproc", "xsl", "main.ptx", nil)
	assert.Error(t, err)
}

func TestNewXSLTDispatcherRegistersConcreteFormats(t *testing.T) {
	d, err := NewXSLTDispatcher(Options{Processor: "xsltproc", XSLDir: "xsl", Source: "main.ptx"})
	require.NoError(t, err)
	for _, f := range format.Concrete {
		assert.Contains(t, d.builders, f)
	}
}
