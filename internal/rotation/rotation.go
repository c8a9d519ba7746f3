// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package rotation decides which theme is active for a given day. Themes are
// consumed in catalog order; a theme stays active across days until its pool
// is published out, and once every catalog theme is exhausted the flags are
// reset and the cycle starts over from the first entry.
package rotation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"murmur/internal/catalog"
	"murmur/internal/models"
)

// ThemeStore is the slice of the store the engine needs.
type ThemeStore interface {
	FindActiveOn(day time.Time) (*models.Theme, error)
	List() ([]models.Theme, error)
	Activate(name string, day time.Time) (*models.Theme, error)
	MarkExhausted(id uuid.UUID) error
	ResetAllExhausted() error
}

// Engine resolves the active theme from catalog order and store state.
// It holds no rotation position of its own — everything is derived from
// the exhausted flags, so re-running after a partial failure is safe.
type Engine struct {
	store   ThemeStore
	catalog *catalog.Catalog
}

// New creates a rotation engine over the given store and catalog.
func New(store ThemeStore, cat *catalog.Catalog) *Engine {
	return &Engine{store: store, catalog: cat}
}

// ResolveActiveTheme returns the theme that should be active for the given
// day, materializing it in the store when needed. Calling it again on the
// same day returns the same theme unchanged.
func (e *Engine) ResolveActiveTheme(today time.Time) (*models.Theme, error) {
	// A theme already stamped for today wins outright.
	active, err := e.store.FindActiveOn(today)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return active, nil
	}

	name, err := e.nextCatalogName()
	if err != nil {
		return nil, err
	}

	theme, err := e.store.Activate(name, today)
	if err != nil {
		return nil, err
	}

	slog.Info("theme activated", "theme", theme.Name, "day", today.UTC().Format("2006-01-02"))
	return theme, nil
}

// nextCatalogName walks the catalog in order and returns the first theme name
// whose quota is not exhausted. When the whole catalog is exhausted it resets
// every flag and returns the first catalog entry.
func (e *Engine) nextCatalogName() (string, error) {
	existing, err := e.store.List()
	if err != nil {
		return "", err
	}

	byName := make(map[string]models.Theme, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	for _, name := range e.catalog.Themes() {
		t, materialized := byName[name]
		if !materialized || !t.Exhausted {
			return name, nil
		}
	}

	// Full sweep: every catalog theme is materialized and exhausted.
	// Reset all flags in one statement and restart from the top.
	if err := e.store.ResetAllExhausted(); err != nil {
		return "", err
	}
	slog.Info("rotation cycle complete, exhausted flags reset", "themes", e.catalog.Len())

	return e.catalog.Themes()[0], nil
}

// MarkExhausted flips a theme's exhausted flag. Called once the last post of
// its pool has been published.
func (e *Engine) MarkExhausted(theme *models.Theme) error {
	if theme == nil {
		return fmt.Errorf("rotation: cannot exhaust nil theme")
	}
	if err := e.store.MarkExhausted(theme.ID); err != nil {
		return err
	}
	theme.Exhausted = true
	slog.Info("theme exhausted", "theme", theme.Name)
	return nil
}
