package config

import (
	"fmt"
	"strings"

	"github.com/pretextbook/pretext/internal/format"
	"github.com/pretextbook/pretext/internal/validation"
)

// AllowedProcessors lists the XSLT processors a build may invoke.
var AllowedProcessors = map[string]bool{
	"xsltproc": true,
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	if err := validatePreviewConfig(&config.Preview); err != nil {
		return fmt.Errorf("preview config: %w", err)
	}

	// Manifests written by hand may leave the archetype out.
	if config.Project.Archetype != "" {
		if _, err := ParseArchetype(config.Project.Archetype); err != nil {
			return fmt.Errorf("project config: %w", err)
		}
	}

	return nil
}

func validateBuildConfig(config *BuildConfig) error {
	if err := validation.ValidatePath(config.Source); err != nil {
		return fmt.Errorf("invalid source '%s': %w", config.Source, err)
	}

	if err := validation.ValidatePath(config.XSLDir); err != nil {
		return fmt.Errorf("invalid xsl_dir '%s': %w", config.XSLDir, err)
	}

	if _, err := format.Parse(config.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	if err := validation.ValidateCommand(config.Processor, AllowedProcessors); err != nil {
		return fmt.Errorf("invalid processor: %w", err)
	}

	for _, entry := range config.Params {
		if !strings.Contains(entry, "=") {
			return fmt.Errorf("param %q is not KEY=VALUE", entry)
		}
	}

	return nil
}

func validatePreviewConfig(config *PreviewConfig) error {
	// 0 asks the kernel for a free port
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	return nil
}
