// Package cmd provides the pretext command-line interface.
//
// Configuration sources, highest priority first:
//
//  1. Command-line flags (--output, --port, ...)
//  2. PRETEXT_<SECTION>_<KEY> environment variables (PRETEXT_PREVIEW_PORT, ...)
//  3. The project manifest: --config, else PRETEXT_CONFIG_FILE, else
//     .pretext.yml in the current directory
//  4. Built-in defaults
package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  logging.Logger = logging.Nop()

	// commandStarted is set once a command's RunE is entered, so that errors
	// raised earlier by cobra itself are reported as usage errors.
	commandStarted bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pretext",
	Short: "Command line tools for PreTeXt documents",
	Long: `Command line tools for quickly creating, authoring, and building
PreTeXt documents.

Quick Start:
  pretext new "My Great Book!"    Provision a new book project
  pretext build                   Build HTML into ./output
  pretext build --latex           Build LaTeX into ./output
  pretext view                    Preview ./output in your browser`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command tree and returns the first error.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a parent context for the commands.
func ExecuteContext(ctx context.Context) error {
	commandStarted = false
	// cobra only hands the parent context to a subcommand whose own context
	// is still unset, which is no longer true after a first execution.
	for _, c := range rootCmd.Commands() {
		c.SetContext(ctx)
	}
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var ce *errors.CLIError
	if !commandStarted && !stderrors.As(err, &ce) {
		return errors.NewUsageError(errors.ErrCodeUsage, err.Error())
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "manifest file (default is .pretext.yml, can also use PRETEXT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError(errors.ErrCodeUsage, fmt.Sprintf("%v\nRun '%s --help' for usage.", err, cmd.CommandPath()))
	})
}

// initConfig points viper at the manifest and enables environment overrides.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pretext")
	}

	config.ConfigureEnv(viper.GetViper())
}

// setup binds the running command's flags, reads the manifest and builds
// the logger. It runs before every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !stderrors.As(err, &notFound) {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid, "cannot read manifest", err)
		}
	}

	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return errors.NewUsageError(errors.ErrCodeUsage, err.Error())
	}
	logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: "text",
		Output: cmd.ErrOrStderr(),
	})

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug(commandContext(cmd), "Using config file", "path", used)
	}
	return nil
}

// bindFlags ties flags to their configuration keys.
func bindFlags(cmd *cobra.Command) error {
	bindings := map[string]string{
		"log-level": "log-level",
	}
	for name, key := range commandBindings[cmd.Name()] {
		bindings[name] = key
	}

	for name, key := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return errors.NewInternalError(errors.ErrCodeFlagBinding, "binding --"+name, err)
			}
		}
	}
	return nil
}

// commandBindings maps flag names to configuration keys per command
var commandBindings = map[string]map[string]string{
	"build": {
		"output": "build.output",
		"source": "build.source",
	},
	"view": {
		"port":        "preview.port",
		"public":      "preview.public",
		"live-reload": "preview.live_reload",
	},
}

// started marks the command as running before calling run
func started(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		commandStarted = true
		return run(cmd, args)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.NewEnhancedError("Invalid configuration",
			errors.NewConfigError(errors.ErrCodeConfigInvalid, "invalid configuration", err),
			errors.ConfigurationError(err.Error(), viper.ConfigFileUsed()))
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
