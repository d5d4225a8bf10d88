// Package format models the output formats a build can target and the
// ordered set of formats selected for one invocation.
package format

import (
	"fmt"
	"strings"
)

// Format is a build target.
type Format string

const (
	HTML  Format = "html"
	LaTeX Format = "latex"
	// All is reserved. It expands to every concrete format but no command
	// line flag selects it.
	All Format = "all"
)

// Concrete lists the formats that have a pipeline, in dispatch order.
var Concrete = []Format{HTML, LaTeX}

// Default is the format built when no flag is given.
const Default = HTML

// String returns the format name
func (f Format) String() string {
	return string(f)
}

// Parse converts a name into a Format.
func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case HTML, LaTeX, All:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (html, latex)", name)
	}
}

// Selection is the set of formats to build.
type Selection map[Format]struct{}

// Select builds a selection from formats, expanding All.
func Select(formats ...Format) Selection {
	s := make(Selection, len(formats))
	for _, f := range formats {
		if f == All {
			for _, c := range Concrete {
				s[c] = struct{}{}
			}
			continue
		}
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is selected.
func (s Selection) Has(f Format) bool {
	_, ok := s[f]
	return ok
}

// Ordered returns the selected concrete formats in dispatch order.
func (s Selection) Ordered() []Format {
	out := make([]Format, 0, len(s))
	for _, f := range Concrete {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
