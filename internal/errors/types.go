// Package errors defines the error taxonomy shared by the pretext commands:
// usage errors the author can correct, resource errors from the operating
// system, and delegated errors raised by the build and scaffolding
// collaborators. Every error carries a code and an optional cause that stays
// reachable through errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeUsage     ErrorType = "usage"
	ErrorTypeParse     ErrorType = "parse"
	ErrorTypeResource  ErrorType = "resource"
	ErrorTypeDelegated ErrorType = "delegated"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeInternal  ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeUsage            = "ERR_USAGE"
	ErrCodeFlagBinding      = "ERR_FLAG_BINDING"
	ErrCodeDirectoryMissing = "ERR_DIRECTORY_MISSING"
	ErrCodeProjectExists    = "ERR_PROJECT_EXISTS"
	ErrCodeEmptySlug        = "ERR_EMPTY_SLUG"
	ErrCodeMalformedParam   = "ERR_MALFORMED_PARAM"
	ErrCodeBindFailed       = "ERR_BIND_FAILED"
	ErrCodeBuildFailed      = "ERR_BUILD_FAILED"
	ErrCodeScaffoldFailed   = "ERR_SCAFFOLD_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeNoBuilder        = "ERR_NO_BUILDER"
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodePathTraversal    = "ERR_PATH_TRAVERSAL"
)

// CLIError is a structured error type with context.
type CLIError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// Is matches another CLIError with the same type and code.
func (e *CLIError) Is(target error) bool {
	var t *CLIError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *CLIError) WithContext(key string, value interface{}) *CLIError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// NewUsageError creates an error the user can fix by changing the invocation.
func NewUsageError(code, message string) *CLIError {
	return &CLIError{Type: ErrorTypeUsage, Code: code, Message: message}
}

// NewParseError creates an error for malformed command-line input.
func NewParseError(code, message string) *CLIError {
	return &CLIError{Type: ErrorTypeParse, Code: code, Message: message}
}

// NewResourceError creates an error for sockets, files and other OS resources.
func NewResourceError(code, message string, cause error) *CLIError {
	return &CLIError{Type: ErrorTypeResource, Code: code, Message: message, Cause: cause}
}

// NewDelegatedError wraps a failure raised by a build or scaffolding collaborator.
func NewDelegatedError(code, message string, cause error) *CLIError {
	return &CLIError{Type: ErrorTypeDelegated, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *CLIError {
	return &CLIError{Type: ErrorTypeConfig, Code: code, Message: message, Cause: cause}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *CLIError {
	return &CLIError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// IsUsage reports whether err is a usage or parse error anywhere in its chain.
func IsUsage(err error) bool {
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeUsage || ce.Type == ErrorTypeParse
	}

	return false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsUsage(err):
		return 2
	default:
		return 1
	}
}

// Helper functions for common errors

// ErrDirectoryMissing reports a preview directory that does not exist.
func ErrDirectoryMissing(dir string) *CLIError {
	return NewUsageError(
		ErrCodeDirectoryMissing,
		fmt.Sprintf("The directory `%s` does not exist. Maybe try `pretext build` first?", dir),
	).WithContext("directory", dir)
}

// ErrMalformedParam reports a --param token that is not KEY=VALUE.
func ErrMalformedParam(token, reason string) *CLIError {
	return NewParseError(
		ErrCodeMalformedParam,
		fmt.Sprintf("invalid --param %q: %s (expected KEY=VALUE)", token, reason),
	).WithContext("token", token)
}

// ErrProjectExists reports a scaffolding target that is already present.
func ErrProjectExists(dir string) *CLIError {
	return NewUsageError(
		ErrCodeProjectExists,
		fmt.Sprintf("the directory `%s` already exists; choose a different title", dir),
	).WithContext("directory", dir)
}

// ErrBuildFailed wraps a builder failure for the given format.
func ErrBuildFailed(format string, cause error) *CLIError {
	return NewDelegatedError(ErrCodeBuildFailed, "build failed for format "+format, cause).
		WithContext("format", format)
}

// ErrInvalidPath reports a configured path that cannot be used.
func ErrInvalidPath(path, reason string) *CLIError {
	return NewUsageError(ErrCodeInvalidPath, fmt.Sprintf("invalid path %q: %s", path, reason)).
		WithContext("path", path)
}

// ErrPathTraversal reports a value that climbs out of its directory.
func ErrPathTraversal(path string) *CLIError {
	return NewUsageError(ErrCodePathTraversal, "path traversal attempt: "+path).
		WithContext("path", path)
}
