// Package validation rejects shell metacharacters in values that end up as
// processor names or configured paths.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pretextbook/pretext/internal/errors"
)

var shellMetacharacters = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\\", "\"", "'"}

// ValidateArgument validates a command line argument to prevent injection attacks
func ValidateArgument(arg string) error {
	for _, char := range shellMetacharacters {
		if strings.Contains(arg, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if strings.Contains(arg, "..") {
		return errors.ErrPathTraversal(arg)
	}

	return nil
}

// ValidateCommand validates a command name against an allowlist. The name
// may be a bare executable or a path whose base name is allowed.
func ValidateCommand(command string, allowedCommands map[string]bool) error {
	if command == "" {
		return fmt.Errorf("command cannot be empty")
	}

	if !allowedCommands[filepath.Base(command)] {
		return fmt.Errorf("command '%s' is not allowed", command)
	}

	if err := ValidateArgument(command); err != nil {
		return fmt.Errorf("invalid command '%s': %w", command, err)
	}

	return nil
}

// ValidatePath validates a configured file path. Stylesheets commonly live
// outside the project, so absolute and parent-relative paths are allowed.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.ErrInvalidPath(path, "path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return errors.ErrInvalidPath(path, "contains NUL byte")
	}

	for _, char := range []string{";", "&", "|", "$", "`", "<", ">"} {
		if strings.Contains(path, char) {
			return errors.ErrInvalidPath(path, "contains dangerous character "+char)
		}
	}

	return nil
}
