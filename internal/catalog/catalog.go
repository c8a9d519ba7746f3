// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog provides the ordered, immutable table of theme names the
// rotation cycles through. The catalog can be loaded from a YAML file or
// fall back to the built-in default list. Rotation position is never kept
// here — it is derived from store state alone.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultThemes is the built-in catalog, used when no file is configured.
var defaultThemes = []string{
	"vulnerability", "curiosity", "loneliness", "hope", "regret",
	"gratitude", "fear", "joy", "disappointment", "resilience",
	"empathy", "identity", "change", "loss", "connection",
	"self-doubt", "growth", "memory", "forgiveness", "dreams",
	"patience", "belonging", "anger", "acceptance", "creativity",
	"silence", "trust", "confusion", "love", "wonder",
}

// Catalog is the fixed, ordered list of theme names. It is built once at
// startup and must not be mutated afterwards.
type Catalog struct {
	themes []string
	index  map[string]int
}

// catalogFile is the YAML shape of an external catalog file.
type catalogFile struct {
	Themes []string `yaml:"themes"`
}

// Default returns a catalog with the built-in theme list.
func Default() *Catalog {
	c, _ := New(defaultThemes)
	return c
}

// New builds a catalog from an explicit ordered list of names.
// Returns an error on an empty list or duplicate names.
func New(themes []string) (*Catalog, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("catalog: theme list is empty")
	}
	index := make(map[string]int, len(themes))
	ordered := make([]string, 0, len(themes))
	for i, name := range themes {
		if name == "" {
			return nil, fmt.Errorf("catalog: empty theme name at position %d", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("catalog: duplicate theme %q", name)
		}
		index[name] = i
		ordered = append(ordered, name)
	}
	return &Catalog{themes: ordered, index: index}, nil
}

// LoadFile reads a YAML catalog file with a top-level "themes" list.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	c, err := New(f.Themes)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Themes returns a copy of the ordered theme names.
func (c *Catalog) Themes() []string {
	out := make([]string, len(c.themes))
	copy(out, c.themes)
	return out
}

// Len returns the number of themes in the catalog.
func (c *Catalog) Len() int {
	return len(c.themes)
}

// Position returns the catalog position of a theme name, or -1 if absent.
func (c *Catalog) Position(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// Contains reports whether the catalog includes the given theme name.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}
