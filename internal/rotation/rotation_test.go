// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rotation

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"murmur/internal/catalog"
	"murmur/internal/models"
)

// fakeThemeStore is an in-memory ThemeStore for engine tests.
type fakeThemeStore struct {
	themes   map[string]*models.Theme
	failNext error
	resets   int
}

func newFakeThemeStore() *fakeThemeStore {
	return &fakeThemeStore{themes: make(map[string]*models.Theme)}
}

func (s *fakeThemeStore) FindActiveOn(day time.Time) (*models.Theme, error) {
	if s.failNext != nil {
		return nil, s.failNext
	}
	for _, t := range s.themes {
		if t.ActiveFor(day) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeThemeStore) List() ([]models.Theme, error) {
	if s.failNext != nil {
		return nil, s.failNext
	}
	var out []models.Theme
	for _, t := range s.themes {
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeThemeStore) Activate(name string, day time.Time) (*models.Theme, error) {
	if s.failNext != nil {
		return nil, s.failNext
	}
	d := day.UTC()
	if t, ok := s.themes[name]; ok {
		t.ActiveOn = &d
		cp := *t
		return &cp, nil
	}
	t := &models.Theme{ID: uuid.New(), Name: name, ActiveOn: &d, CreatedAt: time.Now()}
	s.themes[name] = t
	cp := *t
	return &cp, nil
}

func (s *fakeThemeStore) MarkExhausted(id uuid.UUID) error {
	for _, t := range s.themes {
		if t.ID == id {
			t.Exhausted = true
			return nil
		}
	}
	return fmt.Errorf("theme %s not found", id)
}

func (s *fakeThemeStore) ResetAllExhausted() error {
	s.resets++
	for _, t := range s.themes {
		t.Exhausted = false
	}
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCatalog(t *testing.T, names ...string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(names)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestResolveActiveThemeIdempotentSameDay(t *testing.T) {
	store := newFakeThemeStore()
	e := New(store, testCatalog(t, "hope", "fear"))

	first, err := e.ResolveActiveTheme(day("2026-09-01"))
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := e.ResolveActiveTheme(day("2026-09-01"))
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("same-day resolution returned different themes: %s vs %s", first.Name, second.Name)
	}
	if len(store.themes) != 1 {
		t.Errorf("expected 1 materialized theme, got %d", len(store.themes))
	}
}

func TestResolveActiveThemeCatalogOrder(t *testing.T) {
	store := newFakeThemeStore()
	e := New(store, testCatalog(t, "hope", "fear", "joy"))

	theme, err := e.ResolveActiveTheme(day("2026-09-01"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if theme.Name != "hope" {
		t.Errorf("first selection: got %q, want %q", theme.Name, "hope")
	}

	// Exhaust hope; the next day must move to fear, skipping nothing.
	if err := e.MarkExhausted(theme); err != nil {
		t.Fatalf("mark exhausted: %v", err)
	}
	theme, err = e.ResolveActiveTheme(day("2026-09-02"))
	if err != nil {
		t.Fatalf("resolve day 2: %v", err)
	}
	if theme.Name != "fear" {
		t.Errorf("second selection: got %q, want %q", theme.Name, "fear")
	}
}

func TestResolveActiveThemeStaysUntilExhausted(t *testing.T) {
	store := newFakeThemeStore()
	e := New(store, testCatalog(t, "hope", "fear"))

	first, _ := e.ResolveActiveTheme(day("2026-09-01"))

	// Next day, hope is not exhausted — it remains the active pick.
	second, err := e.ResolveActiveTheme(day("2026-09-02"))
	if err != nil {
		t.Fatalf("resolve day 2: %v", err)
	}
	if second.Name != first.Name {
		t.Errorf("non-exhausted theme replaced: got %q, want %q", second.Name, first.Name)
	}
	if len(store.themes) != 1 {
		t.Errorf("expected no new theme rows, got %d", len(store.themes))
	}
}

func TestResolveActiveThemeFullCycleReset(t *testing.T) {
	store := newFakeThemeStore()
	cat := testCatalog(t, "hope", "fear", "joy")
	e := New(store, cat)

	// Materialize and exhaust the whole catalog.
	for i, name := range cat.Themes() {
		theme, err := e.ResolveActiveTheme(day(fmt.Sprintf("2026-09-0%d", i+1)))
		if err != nil {
			t.Fatalf("resolve %q: %v", name, err)
		}
		if theme.Name != name {
			t.Fatalf("selection %d: got %q, want %q", i, theme.Name, name)
		}
		if err := e.MarkExhausted(theme); err != nil {
			t.Fatalf("exhaust %q: %v", name, err)
		}
	}

	// One more resolution: flags reset, cycle restarts at the first entry.
	theme, err := e.ResolveActiveTheme(day("2026-09-04"))
	if err != nil {
		t.Fatalf("resolve after sweep: %v", err)
	}
	if theme.Name != "hope" {
		t.Errorf("cycle restart: got %q, want %q", theme.Name, "hope")
	}
	if store.resets != 1 {
		t.Errorf("resets: got %d, want 1", store.resets)
	}
	for name, th := range store.themes {
		if th.Exhausted {
			t.Errorf("theme %q still exhausted after reset", name)
		}
	}
}

func TestResolveActiveThemeNoDuplicateRows(t *testing.T) {
	store := newFakeThemeStore()
	e := New(store, testCatalog(t, "hope"))

	for i := 1; i <= 5; i++ {
		if _, err := e.ResolveActiveTheme(day(fmt.Sprintf("2026-09-0%d", i))); err != nil {
			t.Fatalf("resolve day %d: %v", i, err)
		}
	}

	if len(store.themes) != 1 {
		t.Errorf("expected a single row for theme hope, got %d", len(store.themes))
	}
}

func TestResolveActiveThemePropagatesStoreError(t *testing.T) {
	store := newFakeThemeStore()
	store.failNext = fmt.Errorf("connection refused")
	e := New(store, testCatalog(t, "hope"))

	if _, err := e.ResolveActiveTheme(day("2026-09-01")); err == nil {
		t.Error("expected store error to propagate")
	}
}

func TestMarkExhaustedNilTheme(t *testing.T) {
	e := New(newFakeThemeStore(), testCatalog(t, "hope"))
	if err := e.MarkExhausted(nil); err == nil {
		t.Error("expected error for nil theme")
	}
}
