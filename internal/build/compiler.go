package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/format"
	"github.com/pretextbook/pretext/internal/validation"
)

// Runner executes an external command in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args in dir
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Stylesheets maps each format to its PreTeXt stylesheet file name.
var Stylesheets = map[format.Format]string{
	format.HTML:  "pretext-html.xsl",
	format.LaTeX: "pretext-latex.xsl",
}

// XSLTCompiler builds one format by running the PreTeXt stylesheet for that
// format over the document source.
type XSLTCompiler struct {
	format     format.Format
	processor  string
	stylesheet string
	source     string
	runner     Runner
}

// NewXSLTCompiler creates a compiler for f using the stylesheets in xslDir
func NewXSLTCompiler(f format.Format, processor, xslDir, source string, runner Runner) (*XSLTCompiler, error) {
	name, ok := Stylesheets[f]
	if !ok {
		return nil, fmt.Errorf("no stylesheet for format %q", f)
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &XSLTCompiler{
		format:     f,
		processor:  processor,
		stylesheet: filepath.Join(xslDir, name),
		source:     source,
		runner:     runner,
	}, nil
}

// Build implements Builder. HTML output is chunked into the output
// directory, so the processor runs there; LaTeX output is a single .tex file
// named after the source.
func (c *XSLTCompiler) Build(ctx context.Context, outputPath string, params map[string]string) error {
	if err := validation.ValidateCommand(c.processor, config.AllowedProcessors); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	source, err := filepath.Abs(c.source)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("document source: %w", err)
	}

	stylesheet, err := filepath.Abs(c.stylesheet)
	if err != nil {
		return fmt.Errorf("resolving stylesheet: %w", err)
	}

	outDir, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	args := c.args(outDir, stylesheet, source, params)
	output, err := c.runner.Run(ctx, outDir, c.processor, args...)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s cancelled: %w", c.processor, ctx.Err())
		}
		return fmt.Errorf("%s failed: %w\nOutput: %s", c.processor, err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (c *XSLTCompiler) args(outDir, stylesheet, source string, params map[string]string) []string {
	args := []string{"--xinclude"}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--stringparam", k, params[k])
	}

	if c.format == format.LaTeX {
		stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		args = append(args, "--output", filepath.Join(outDir, stem+".tex"))
	}

	return append(args, stylesheet, source)
}
