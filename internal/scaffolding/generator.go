// Package scaffolding materializes new PreTeXt projects: a directory named
// after the title's slug holding the document source, the project manifest,
// a README and a .gitignore.
package scaffolding

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"
	"unicode"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/errors"
	"gopkg.in/yaml.v3"
)

// Creator materializes a new project directory.
type Creator interface {
	Create(slug, title string, archetype config.Archetype) (string, error)
}

// ProjectGenerator handles project scaffolding
type ProjectGenerator struct {
	templates map[config.Archetype]ProjectTemplate
	root      string
	now       func() time.Time
}

// NewProjectGenerator creates a generator that writes projects under root
func NewProjectGenerator(root string) *ProjectGenerator {
	return &ProjectGenerator{
		templates: GetBuiltinTemplates(),
		root:      root,
		now:       time.Now,
	}
}

// Create writes a new project into <root>/<slug> and returns its path. It
// never writes into an existing directory. A partially written project is
// removed before the error is returned.
func (g *ProjectGenerator) Create(slug, title string, archetype config.Archetype) (projectDir string, err error) {
	if slug == "" {
		return "", errors.NewUsageError(errors.ErrCodeEmptySlug,
			fmt.Sprintf("cannot derive a directory name from title %q; use letters or digits", title))
	}

	tmpl, ok := g.templates[archetype]
	if !ok {
		return "", fmt.Errorf("no template for archetype %q", archetype)
	}

	projectDir = filepath.Join(g.root, slug)
	if err := os.Mkdir(projectDir, 0755); err != nil {
		if os.IsExist(err) {
			return "", errors.ErrProjectExists(projectDir)
		}
		return "", errors.NewResourceError(errors.ErrCodeScaffoldFailed, "failed to create project directory", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(projectDir)
		}
	}()

	ctx := TemplateContext{
		Title:     title,
		Slug:      slug,
		ID:        xmlID(slug),
		Archetype: archetype,
		Date:      g.now().Format("2006-01-02"),
	}

	if err := os.MkdirAll(filepath.Join(projectDir, "source"), 0755); err != nil {
		return "", fmt.Errorf("failed to create source directory: %w", err)
	}

	if err := g.generateFile(filepath.Join(projectDir, filepath.FromSlash(config.DefaultSource)), tmpl.Source, ctx); err != nil {
		return "", fmt.Errorf("failed to generate source file: %w", err)
	}

	if err := g.generateFile(filepath.Join(projectDir, "README.md"), readmeTemplate, ctx); err != nil {
		return "", fmt.Errorf("failed to generate README: %w", err)
	}

	if err := os.WriteFile(filepath.Join(projectDir, ".gitignore"), []byte(gitignoreTemplate), 0644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}

	if err := writeManifest(filepath.Join(projectDir, config.FileName), title, archetype); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return projectDir, nil
}

// generateFile renders a template into filename
func (g *ProjectGenerator) generateFile(filename, content string, ctx TemplateContext) error {
	tmpl, err := template.New(filepath.Base(filename)).
		Funcs(template.FuncMap{"xml": xmlEscape}).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return os.WriteFile(filename, buf.Bytes(), 0644)
}

// Manifest is the .pretext.yml written into a new project.
func Manifest(title string, archetype config.Archetype) config.Config {
	return config.Config{
		Project: config.ProjectConfig{
			Title:     title,
			Archetype: archetype.String(),
		},
		Build: config.BuildConfig{
			Source:    config.DefaultSource,
			XSLDir:    config.DefaultXSLDir,
			Processor: config.DefaultProcessor,
			Output:    config.DefaultBuildOutput,
			Format:    config.DefaultFormat,
		},
		Preview: config.PreviewConfig{
			Directory: config.DefaultPreviewDirectory,
			Port:      config.DefaultPreviewPort,
		},
	}
}

func writeManifest(path, title string, archetype config.Archetype) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Manifest(title, archetype)); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func xmlEscape(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// xmlID turns a slug into a valid xml:id, which may not start with a digit.
func xmlID(slug string) string {
	if slug != "" && unicode.IsDigit(rune(slug[0])) {
		return "doc-" + slug
	}
	return slug
}
