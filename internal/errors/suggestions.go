package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// DirectoryMissingSuggestions generates suggestions for previewing a directory that is not there
func DirectoryMissingSuggestions(dir string) []ErrorSuggestion {
	return []ErrorSuggestion{
		{
			Title:       "Build the document first",
			Description: "The preview server serves the output of a build",
			Command:     "pretext build",
		},
		{
			Title:       "Point view at the build output",
			Description: fmt.Sprintf("If you built into another directory, pass it instead of %q", dir),
			Example:     "pretext view ./output",
		},
	}
}

// ServerStartError generates suggestions for server startup failures
func ServerStartError(err error, port int) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{}

	errStr := err.Error()

	if strings.Contains(errStr, "address already in use") || strings.Contains(errStr, "bind") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Port already in use",
			Description: fmt.Sprintf("Port %d is already being used by another process", port),
			Command:     fmt.Sprintf("lsof -i :%d", port),
		})

		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use a different port",
			Description: "Start the preview server on a different port",
			Command:     fmt.Sprintf("pretext view --port %d", port+1),
		})
	}

	if strings.Contains(errStr, "permission denied") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Permission denied",
			Description: "You don't have permission to bind to this port",
		})

		if port < 1024 {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Use unprivileged port",
				Description: "Ports below 1024 require root privileges",
				Command:     "pretext view --port 8000",
			})
		}
	}

	return suggestions
}

// BuildFailureSuggestions generates suggestions from the processor output
func BuildFailureSuggestions(output string) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "Review processor output",
			Description: "The XSLT processor output above names the failing element",
		},
	}

	lower := strings.ToLower(output)

	if strings.Contains(lower, "executable file not found") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Install xsltproc",
			Description: "Builds run the PreTeXt stylesheets through xsltproc",
			Command:     "sudo apt-get install xsltproc",
		})
	}

	if strings.Contains(lower, "failed to load external entity") || strings.Contains(lower, "no such file") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check stylesheet and source paths",
			Description: "Set build.xsl_dir and build.source in .pretext.yml",
			Example:     "build:\n  source: source/main.ptx\n  xsl_dir: ~/pretext/xsl",
		})
	}

	return suggestions
}

// ConfigurationError generates suggestions for configuration issues
func ConfigurationError(configError string, configPath string) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "Check configuration file",
			Description: "Verify your .pretext.yml file exists and has valid syntax",
			Command:     "cat " + configPath,
		},
	}

	if strings.Contains(configError, "yaml") || strings.Contains(configError, "unmarshal") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "There's a syntax error in your YAML configuration",
			Example:     "Use proper indentation and avoid tabs",
		})
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	title := e.Title
	if e.OriginalError != nil {
		title += ": " + e.OriginalError.Error()
	}
	return FormatSuggestions(title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
