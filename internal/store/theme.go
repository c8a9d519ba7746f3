// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"murmur/internal/models"
)

// ThemeStore handles all theme-related database operations.
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore with the given database connection.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

// FindActiveOn retrieves the theme last activated on the given day.
// Returns nil if no theme was activated that day.
func (s *ThemeStore) FindActiveOn(day time.Time) (*models.Theme, error) {
	t := &models.Theme{}
	err := s.db.QueryRow(`
		SELECT id, name, exhausted, active_on, created_at
		FROM themes WHERE active_on = $1
	`, day.UTC().Format("2006-01-02")).Scan(
		&t.ID, &t.Name, &t.Exhausted, &t.ActiveOn, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find theme active on %s: %w", day.Format("2006-01-02"), err)
	}
	return t, nil
}

// FindByName retrieves a theme by its catalog name. Returns nil if not found.
func (s *ThemeStore) FindByName(name string) (*models.Theme, error) {
	t := &models.Theme{}
	err := s.db.QueryRow(`
		SELECT id, name, exhausted, active_on, created_at
		FROM themes WHERE name = $1
	`, name).Scan(
		&t.ID, &t.Name, &t.Exhausted, &t.ActiveOn, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find theme by name: %w", err)
	}
	return t, nil
}

// List returns every materialized theme, ordered by creation date.
func (s *ThemeStore) List() ([]models.Theme, error) {
	rows, err := s.db.Query(`
		SELECT id, name, exhausted, active_on, created_at
		FROM themes
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var items []models.Theme
	for rows.Next() {
		var t models.Theme
		if err := rows.Scan(&t.ID, &t.Name, &t.Exhausted, &t.ActiveOn, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Activate materializes a catalog theme by name and stamps it active for the
// given day. Keyed by the unique name constraint: selecting a theme that
// already exists only bumps its active date, never creates a duplicate row.
func (s *ThemeStore) Activate(name string, day time.Time) (*models.Theme, error) {
	t := &models.Theme{}
	err := s.db.QueryRow(`
		INSERT INTO themes (name, active_on)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET active_on = EXCLUDED.active_on
		RETURNING id, name, exhausted, active_on, created_at
	`, name, day.UTC().Format("2006-01-02")).Scan(
		&t.ID, &t.Name, &t.Exhausted, &t.ActiveOn, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("activate theme %q: %w", name, err)
	}
	return t, nil
}

// MarkExhausted flips the exhausted flag once a theme's pool has been
// fully published.
func (s *ThemeStore) MarkExhausted(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE themes SET exhausted = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark theme exhausted: %w", err)
	}
	return nil
}

// ResetAllExhausted clears the exhausted flag on every theme in a single
// statement, starting a fresh rotation cycle. The reset is all-or-nothing.
func (s *ThemeStore) ResetAllExhausted() error {
	_, err := s.db.Exec(`UPDATE themes SET exhausted = FALSE WHERE exhausted = TRUE`)
	if err != nil {
		return fmt.Errorf("reset exhausted themes: %w", err)
	}
	return nil
}
