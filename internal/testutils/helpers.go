// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/stretchr/testify/require"
)

// MinimalSource is a PreTeXt document small enough for fixtures
const MinimalSource = `<?xml version="1.0" encoding="UTF-8"?>
<pretext>
  <article xml:id="fixture">
    <title>Fixture</title>
    <p>Hello.</p>
  </article>
</pretext>
`

// CreateTempProject creates a project with a source file and a manifest
// and returns its directory
func CreateTempProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	WriteFile(t, filepath.Join(dir, filepath.FromSlash(config.DefaultSource)), MinimalSource)
	WriteFile(t, filepath.Join(dir, config.FileName), "project:\n  title: Fixture\n  archetype: article\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.DefaultXSLDir), 0755))

	return dir
}

// WriteFile writes content to path, creating parent directories
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// CreateTestConfig returns the default configuration rooted at projectDir
func CreateTestConfig(projectDir string) *config.Config {
	return &config.Config{
		Build: config.BuildConfig{
			Source:    filepath.Join(projectDir, filepath.FromSlash(config.DefaultSource)),
			XSLDir:    filepath.Join(projectDir, config.DefaultXSLDir),
			Processor: config.DefaultProcessor,
			Output:    filepath.Join(projectDir, "output"),
			Format:    config.DefaultFormat,
		},
		Preview: config.PreviewConfig{
			Directory: filepath.Join(projectDir, "output"),
			Port:      config.DefaultPreviewPort,
		},
	}
}
