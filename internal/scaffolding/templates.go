package scaffolding

import "github.com/pretextbook/pretext/internal/config"

// ProjectTemplate holds the file templates for one archetype
type ProjectTemplate struct {
	Archetype   config.Archetype
	Description string
	Source      string
}

// TemplateContext holds the context for template generation
type TemplateContext struct {
	Title     string
	Slug      string
	ID        string
	Archetype config.Archetype
	Date      string
}

// GetBuiltinTemplates returns the built-in project templates keyed by archetype
func GetBuiltinTemplates() map[config.Archetype]ProjectTemplate {
	return map[config.Archetype]ProjectTemplate{
		config.ArchetypeBook:    getBookTemplate(),
		config.ArchetypeArticle: getArticleTemplate(),
	}
}

func getBookTemplate() ProjectTemplate {
	return ProjectTemplate{
		Archetype:   config.ArchetypeBook,
		Description: "Book with front matter and one chapter",
		Source: `<?xml version="1.0" encoding="UTF-8"?>
<pretext xml:lang="en-US" xmlns:xi="http://www.w3.org/2001/XInclude">
  <docinfo>
    <document-id>{{.Slug}}</document-id>
  </docinfo>

  <book xml:id="{{.ID}}">
    <title>{{xml .Title}}</title>

    <frontmatter>
      <titlepage>
        <author>
          <personname>Your Name</personname>
        </author>
        <date>{{.Date}}</date>
      </titlepage>
    </frontmatter>

    <chapter xml:id="ch-introduction">
      <title>Introduction</title>
      <p>
        This is the first chapter of <em>{{xml .Title}}</em>.
      </p>
    </chapter>
  </book>
</pretext>
`,
	}
}

func getArticleTemplate() ProjectTemplate {
	return ProjectTemplate{
		Archetype:   config.ArchetypeArticle,
		Description: "Article with an abstract and one section",
		Source: `<?xml version="1.0" encoding="UTF-8"?>
<pretext xml:lang="en-US" xmlns:xi="http://www.w3.org/2001/XInclude">
  <docinfo>
    <document-id>{{.Slug}}</document-id>
  </docinfo>

  <article xml:id="{{.ID}}">
    <title>{{xml .Title}}</title>

    <frontmatter>
      <titlepage>
        <author>
          <personname>Your Name</personname>
        </author>
        <date>{{.Date}}</date>
      </titlepage>
      <abstract>
        <p>
          A short summary of <em>{{xml .Title}}</em>.
        </p>
      </abstract>
    </frontmatter>

    <section xml:id="sec-introduction">
      <title>Introduction</title>
      <p>
        Start writing here.
      </p>
    </section>
  </article>
</pretext>
`,
	}
}

const readmeTemplate = `# {{.Title}}

A PreTeXt {{.Archetype}} created on {{.Date}}.

## Authoring

The document source lives in ` + "`source/main.ptx`" + `.

## Building and previewing

    pretext build --html
    pretext build --latex
    pretext view
`

const gitignoreTemplate = `output/
*.aux
*.log
*.out
*.toc
`
