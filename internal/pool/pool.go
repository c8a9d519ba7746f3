// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pool manages the fixed-size batch of candidate posts generated
// once per theme. Pools are created exactly once: if any posts exist for a
// theme they are returned verbatim and the generator is never called again.
package pool

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"murmur/internal/models"
	"murmur/internal/store"
)

// PostStore is the slice of the store the manager needs.
type PostStore interface {
	ListByTheme(themeID uuid.UUID) ([]models.Post, error)
	CreatePool(themeID uuid.UUID, drafts []store.Draft) ([]models.Post, error)
}

// Generator produces candidate texts for a theme. Implemented by the AI
// layer; it may return fewer drafts than asked for, never more.
type Generator interface {
	GeneratePool(ctx context.Context, themeName string, size int) ([]store.Draft, error)
}

// Manager ensures each theme has its pool and selects the next post from it.
type Manager struct {
	posts     PostStore
	generator Generator
	size      int
}

// New creates a pool manager. size is the target pool size per theme.
func New(posts PostStore, generator Generator, size int) *Manager {
	return &Manager{posts: posts, generator: generator, size: size}
}

// EnsurePool returns the theme's pool, generating and persisting it only if
// no posts exist yet. An existing pool is returned untouched regardless of
// its size or published state, so repeated invocations never append to or
// replace it.
func (m *Manager) EnsurePool(ctx context.Context, theme *models.Theme) ([]models.Post, error) {
	existing, err := m.posts.ListByTheme(theme.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		slog.Debug("pool exists", "theme", theme.Name, "posts", len(existing))
		return existing, nil
	}

	drafts, err := m.generator.GeneratePool(ctx, theme.Name, m.size)
	if err != nil {
		return nil, fmt.Errorf("generate pool for %q: %w", theme.Name, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("generate pool for %q: no usable texts produced", theme.Name)
	}
	if len(drafts) < m.size {
		// Degraded but workable — persist what came back rather than block.
		slog.Warn("pool underflow", "theme", theme.Name, "want", m.size, "got", len(drafts))
	}
	if len(drafts) > m.size {
		drafts = drafts[:m.size]
	}

	created, err := m.posts.CreatePool(theme.ID, drafts)
	if err != nil {
		return nil, err
	}

	slog.Info("pool generated", "theme", theme.Name, "posts", len(created))
	return created, nil
}

// NextUnpublished returns the first pool post in creation order that has not
// been published, or nil when every post has gone out — the signal for the
// rotation engine to mark the theme exhausted.
func NextUnpublished(posts []models.Post) *models.Post {
	for i := range posts {
		if !posts[i].IsPublished() {
			return &posts[i]
		}
	}
	return nil
}
