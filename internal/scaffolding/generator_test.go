package scaffolding

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestGenerator(t *testing.T) (*ProjectGenerator, string) {
	t.Helper()
	root := t.TempDir()
	g := NewProjectGenerator(root)
	g.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	return g, root
}

func TestCreateBook(t *testing.T) {
	g, root := newTestGenerator(t)

	dir, err := g.Create("my-great-book", "My Great Book!", config.ArchetypeBook)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "my-great-book"), dir)

	source, err := os.ReadFile(filepath.Join(dir, "source", "main.ptx"))
	require.NoError(t, err)
	assert.Contains(t, string(source), `<book xml:id="my-great-book">`)
	assert.Contains(t, string(source), "<title>My Great Book!</title>")
	assert.Contains(t, string(source), "<date>2026-10-19</date>")
	assert.NotContains(t, string(source), "<article")

	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))

	raw, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	var manifest config.Config
	require.NoError(t, yaml.Unmarshal(raw, &manifest))
	assert.Equal(t, "My Great Book!", manifest.Project.Title)
	assert.Equal(t, "book", manifest.Project.Archetype)
	assert.Equal(t, config.DefaultSource, manifest.Build.Source)
	assert.Equal(t, "html", manifest.Build.Format)
	assert.Equal(t, config.DefaultPreviewPort, manifest.Preview.Port)
}

func TestCreateArticleEscapesTitle(t *testing.T) {
	g, _ := newTestGenerator(t)

	dir, err := g.Create("graphs-trees", "Graphs & <Trees>", config.ArchetypeArticle)
	require.NoError(t, err)

	source, err := os.ReadFile(filepath.Join(dir, "source", "main.ptx"))
	require.NoError(t, err)
	assert.Contains(t, string(source), `<article xml:id="graphs-trees">`)
	assert.Contains(t, string(source), "<title>Graphs &amp; &lt;Trees&gt;</title>")
	assert.Contains(t, string(source), "<abstract>")
}

func TestCreateDigitLeadingSlug(t *testing.T) {
	g, _ := newTestGenerator(t)

	dir, err := g.Create("2024-notes", "2024 Notes", config.ArchetypeArticle)
	require.NoError(t, err)

	source, err := os.ReadFile(filepath.Join(dir, "source", "main.ptx"))
	require.NoError(t, err)
	assert.Contains(t, string(source), `xml:id="doc-2024-notes"`)
}

func TestCreateRefusesExistingDirectory(t *testing.T) {
	g, root := newTestGenerator(t)

	existing := filepath.Join(root, "taken")
	require.NoError(t, os.Mkdir(existing, 0755))
	marker := filepath.Join(existing, "keep.txt")
	require.NoError(t, os.WriteFile(marker, []byte("mine"), 0644))

	_, err := g.Create("taken", "Taken", config.ArchetypeBook)
	require.Error(t, err)

	var ce *errors.CLIError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, errors.ErrCodeProjectExists, ce.Code)
	assert.Equal(t, 2, errors.ExitCode(err))

	assert.FileExists(t, marker)
	assert.NoFileExists(t, filepath.Join(existing, config.FileName))
}

func TestCreateRejectsEmptySlug(t *testing.T) {
	g, root := newTestGenerator(t)

	_, err := g.Create("", "!!!", config.ArchetypeBook)
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateUnknownArchetype(t *testing.T) {
	g, root := newTestGenerator(t)

	_, err := g.Create("x", "X", config.Archetype("pamphlet"))
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(root, "x"))
}
