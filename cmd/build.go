package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pretextbook/pretext/internal/build"
	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/format"
	"github.com/pretextbook/pretext/internal/logging"
	"github.com/pretextbook/pretext/internal/params"
	"github.com/spf13/cobra"
)

var (
	buildHTML   bool
	buildLaTeX  bool
	buildParams []string
	buildWatch  bool

	// newDispatcher is replaced in tests
	newDispatcher = func(cfg *config.Config, logger logging.Logger) (*build.Dispatcher, error) {
		return build.NewXSLTDispatcher(build.Options{
			Processor: cfg.Build.Processor,
			XSLDir:    cfg.Build.XSLDir,
			Source:    cfg.Build.Source,
			Logger:    logger,
		})
	}
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build specified format target",
	Long: `Process PreTeXt files into the specified format, either HTML or LaTeX.

Without --html or --latex, build.format in the manifest decides (html,
latex or all; html when unset).

String parameters for the stylesheets come from build.params in the manifest
and from repeated --param flags; flags win on duplicate keys.

Examples:
  pretext build                                  # HTML into ./output
  pretext build --latex -o print                 # LaTeX into ./print
  pretext build --param publisher=pub.xml        # pass a stringparam
  pretext build --watch                          # rebuild on every source change`,
	Args: maxArgs(0),
	RunE: started(runBuild),
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&buildHTML, "html", false, "Build document to HTML (default)")
	buildCmd.Flags().BoolVar(&buildLaTeX, "latex", false, "Build document to LaTeX")
	buildCmd.MarkFlagsMutuallyExclusive("html", "latex")
	buildCmd.Flags().StringP("output", "o", config.DefaultBuildOutput, "Define output directory path")
	buildCmd.Flags().StringArrayVar(&buildParams, "param", nil, "Define a stringparam to use during processing (KEY=VALUE, repeatable)")
	buildCmd.Flags().String("source", config.DefaultSource, "PreTeXt source file")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild whenever a source file changes")
}

// selectedFormats returns the format chosen by flags, falling back to the
// manifest's build.format
func selectedFormats(cfg *config.Config) (format.Selection, error) {
	switch {
	case buildLaTeX:
		return format.Select(format.LaTeX), nil
	case buildHTML:
		return format.Select(format.HTML), nil
	}

	f, err := format.Parse(cfg.Build.Format)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "build.format", err)
	}
	return format.Select(f), nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manifestParams, err := params.Parse(cfg.Build.Params)
	if err != nil {
		return fmt.Errorf("manifest build.params: %w", err)
	}
	flagParams, err := params.Parse(buildParams)
	if err != nil {
		return err
	}
	stringParams := params.Merge(manifestParams, flagParams)

	formats, err := selectedFormats(cfg)
	if err != nil {
		return err
	}

	dispatcher, err := newDispatcher(cfg, logger)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeNoBuilder, "cannot set up build pipelines", err)
	}

	req := build.Request{
		Formats:    formats,
		OutputPath: cfg.Build.Output,
		Params:     stringParams,
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if buildWatch {
		sourceDir := filepath.Dir(cfg.Build.Source)
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes. Use [Ctrl]+[C] to stop.\n", sourceDir)
		return build.NewWatcher(dispatcher, logger).Run(ctx, sourceDir, req)
	}

	op := logging.StartOperation(logger, "build")
	results, err := dispatcher.Dispatch(ctx, req.Formats, req.OutputPath, req.Params)
	for _, r := range results {
		if r.Error == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Built %s output in %s\n", r.Format, r.Output)
		}
	}
	if err != nil {
		op.EndWithError(ctx, err)
		return errors.NewEnhancedError("Build failed", err, errors.BuildFailureSuggestions(err.Error()))
	}
	op.End(ctx)

	return nil
}
