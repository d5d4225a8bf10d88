// Package params turns repeated --param KEY=VALUE tokens into the string
// parameter mapping handed to the build pipelines.
package params

import (
	"strings"

	"github.com/pretextbook/pretext/internal/errors"
)

// Separator splits a token into key and value. Only the first occurrence counts.
const Separator = "="

// Parse builds a mapping from tokens of the form KEY=VALUE. The value keeps
// everything after the first separator, further separators included. Later
// duplicates overwrite earlier ones. A token without a separator or with an
// empty key is rejected before any mapping is returned.
func Parse(tokens []string) (map[string]string, error) {
	out := make(map[string]string, len(tokens))
	for _, token := range tokens {
		key, value, found := strings.Cut(token, Separator)
		if !found {
			return nil, errors.ErrMalformedParam(token, "missing '"+Separator+"'")
		}
		if key == "" {
			return nil, errors.ErrMalformedParam(token, "empty key")
		}
		out[key] = value
	}
	return out, nil
}

// Merge returns a new mapping holding base overlaid with override.
func Merge(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
