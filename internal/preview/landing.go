package preview

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Entry is one top-level item of the served directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Href is the link target of the entry
func (e Entry) Href() string {
	if e.IsDir {
		return url.PathEscape(e.Name) + "/"
	}
	return url.PathEscape(e.Name)
}

// Label is the displayed name of the entry
func (e Entry) Label() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// LandingData is what the landing page shows.
type LandingData struct {
	Directory string
	Entries   []Entry
	// README is sanitized HTML, empty when the directory has no README.md
	README string
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()
)

// LoadLandingData lists root and renders its README, if any.
func LoadLandingData(root string) (LandingData, error) {
	data := LandingData{Directory: filepath.Base(root)}

	entries, err := os.ReadDir(root)
	if err != nil {
		return data, fmt.Errorf("reading %s: %w", root, err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data.Entries = append(data.Entries, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	sort.SliceStable(data.Entries, func(i, j int) bool {
		if data.Entries[i].IsDir != data.Entries[j].IsDir {
			return data.Entries[i].IsDir
		}
		return data.Entries[i].Name < data.Entries[j].Name
	})

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	switch {
	case err == nil:
		html, err := RenderMarkdown(readme)
		if err != nil {
			return data, err
		}
		data.README = html
	case !os.IsNotExist(err):
		return data, fmt.Errorf("reading README: %w", err)
	}

	return data, nil
}

// RenderMarkdown converts markdown to HTML that is safe to embed.
func RenderMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return string(sanitize.SanitizeBytes(buf.Bytes())), nil
}
