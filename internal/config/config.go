// Package config provides configuration management for pretext projects
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The project manifest (.pretext.yml) written by `pretext new` is also the
// configuration file. Environment variables with the PRETEXT_ prefix
// override it (PRETEXT_BUILD_XSL_DIR, PRETEXT_PREVIEW_PORT, ...), and flags
// bound by the commands override both.
package config

import (
	"fmt"
	"strings"

	"github.com/pretextbook/pretext/internal/format"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "PRETEXT"

// FileName is the manifest and configuration file looked up in the project root.
const FileName = ".pretext.yml"

// Defaults shared by the commands, the manifest template and Load.
const (
	DefaultSource           = "source/main.ptx"
	DefaultXSLDir           = "xsl"
	DefaultProcessor        = "xsltproc"
	DefaultFormat           = string(format.Default)
	DefaultBuildOutput      = "./output"
	DefaultPreviewDirectory = "output"
	DefaultPreviewPort      = 8000
)

type Config struct {
	Project  ProjectConfig `mapstructure:"project" yaml:"project"`
	Build    BuildConfig   `mapstructure:"build" yaml:"build"`
	Preview  PreviewConfig `mapstructure:"preview" yaml:"preview"`
	LogLevel string        `mapstructure:"log-level" yaml:"log-level,omitempty"`
}

type ProjectConfig struct {
	Title     string `mapstructure:"title" yaml:"title"`
	Archetype string `mapstructure:"archetype" yaml:"archetype"`
}

type BuildConfig struct {
	Source    string `mapstructure:"source" yaml:"source"`
	XSLDir    string `mapstructure:"xsl_dir" yaml:"xsl_dir"`
	Processor string `mapstructure:"processor" yaml:"processor"`
	Output    string `mapstructure:"output" yaml:"output"`
	// Format is built when neither --html nor --latex is given. Besides
	// html and latex it accepts all, which builds every format.
	Format string `mapstructure:"format" yaml:"format"`
	// Params holds project-wide stringparams as KEY=VALUE entries. They are
	// applied before any --param given on the command line.
	Params []string `mapstructure:"params" yaml:"params,omitempty"`
}

type PreviewConfig struct {
	Directory  string `mapstructure:"directory" yaml:"directory"`
	Port       int    `mapstructure:"port" yaml:"port"`
	Public     bool   `mapstructure:"public" yaml:"public"`
	LiveReload bool   `mapstructure:"live_reload" yaml:"live_reload"`
}

// SetDefaults registers every key with its default so that environment
// variables are seen by Unmarshal even when no file sets the key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project.title", "")
	v.SetDefault("project.archetype", "")
	v.SetDefault("build.source", DefaultSource)
	v.SetDefault("build.xsl_dir", DefaultXSLDir)
	v.SetDefault("build.processor", DefaultProcessor)
	v.SetDefault("build.output", DefaultBuildOutput)
	v.SetDefault("build.format", DefaultFormat)
	v.SetDefault("build.params", []string{})
	v.SetDefault("preview.directory", DefaultPreviewDirectory)
	v.SetDefault("preview.port", DefaultPreviewPort)
	v.SetDefault("preview.public", false)
	v.SetDefault("preview.live_reload", false)
	v.SetDefault("log-level", "info")
}

// ConfigureEnv enables PRETEXT_<SECTION>_<KEY> environment overrides on v.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	// Viper hands back a comma-joined string when the list comes from the
	// environment.
	if v.IsSet("build.params") && len(config.Build.Params) == 0 {
		config.Build.Params = v.GetStringSlice("build.params")
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
