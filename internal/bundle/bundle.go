// Package bundle models a project's translation payload: the raw Fluent
// source of every locale plus the designation of the main locale the
// parameter schema is derived from.
package bundle

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// ErrMainLocaleMissing reports a bundle whose declared main locale has no
// entry in its locale map. The schema cannot be derived without it.
var ErrMainLocaleMissing = errors.New("main locale missing from bundle")

// Bundle holds one project's full translation payload. Immutable once
// constructed; New enforces the invariants.
type Bundle struct {
	// Main is the locale whose resource defines the parameter schema.
	Main string
	// Langs maps locale id to that locale's raw Fluent source.
	Langs map[string]string
}

// New validates and constructs a bundle: every locale id must parse as a
// BCP 47 tag and Main must be present in Langs.
func New(main string, langs map[string]string) (*Bundle, error) {
	for _, locale := range sortedKeys(langs) {
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("invalid locale id %q: %w", locale, err)
		}
	}
	if _, ok := langs[main]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMainLocaleMissing, main)
	}
	return &Bundle{Main: main, Langs: langs}, nil
}

// MainSource returns the raw Fluent source of the main locale.
func (b *Bundle) MainSource() string {
	return b.Langs[b.Main]
}

// Locales returns all locale ids in lexicographic order.
func (b *Bundle) Locales() []string {
	return sortedKeys(b.Langs)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
