package config

import (
	"fmt"
	"strings"
)

// Archetype is the structural template a project starts from, recorded as
// project.archetype in the manifest.
type Archetype string

const (
	ArchetypeBook    Archetype = "book"
	ArchetypeArticle Archetype = "article"
)

// String returns the archetype name
func (a Archetype) String() string {
	return string(a)
}

// ParseArchetype converts a name into an Archetype.
func ParseArchetype(name string) (Archetype, error) {
	switch a := Archetype(strings.ToLower(strings.TrimSpace(name))); a {
	case ArchetypeBook, ArchetypeArticle:
		return a, nil
	default:
		return "", fmt.Errorf("unknown archetype %q (book, article)", name)
	}
}
