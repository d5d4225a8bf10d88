package preview

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderLanding(t *testing.T, data LandingData) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, LandingPage(data).Render(context.Background(), &sb))
	return sb.String()
}

func TestLandingPageEscapesNames(t *testing.T) {
	body := renderLanding(t, LandingData{
		Directory: "<b>site</b>",
		Entries: []Entry{
			{Name: "a&b", IsDir: true},
			{Name: "<img>.html"},
		},
	})

	assert.Contains(t, body, "<title>&lt;b&gt;site&lt;/b&gt; | PreTeXt preview</title>")
	assert.Contains(t, body, "<h1>&lt;b&gt;site&lt;/b&gt;</h1>")
	assert.Contains(t, body, `<a href="a&amp;b/">a&amp;b/</a>`)
	assert.Contains(t, body, "&lt;img&gt;.html</a>")
	assert.NotContains(t, body, "<img>")
}

func TestLandingPageSanitizesSchemeLikeNames(t *testing.T) {
	body := renderLanding(t, LandingData{
		Directory: "output",
		Entries:   []Entry{{Name: "javascript:alert(1)"}},
	})

	assert.NotContains(t, body, `href="javascript:`)
	assert.Contains(t, body, ">javascript:alert(1)</a>")
}

func TestLandingPageREADMEAndEmptyState(t *testing.T) {
	readme, err := RenderMarkdown([]byte("Some *notes*.\n\n<script>x()</script>"))
	require.NoError(t, err)

	body := renderLanding(t, LandingData{Directory: "output", README: readme})
	assert.Contains(t, body, "pretext build")
	assert.Contains(t, body, `<section class="readme"><p>Some <em>notes</em>.</p>`)
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, `<ul class="entries">`)

	body = renderLanding(t, LandingData{Directory: "output", Entries: []Entry{{Name: "index.tex"}}})
	assert.NotContains(t, body, "<section")
	assert.Contains(t, body, `<ul class="entries"><li><a href="index.tex">index.tex</a></li></ul>`)
}
