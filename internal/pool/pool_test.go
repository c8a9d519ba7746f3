// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pool

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"murmur/internal/models"
	"murmur/internal/store"
)

// fakePostStore is an in-memory PostStore for manager tests.
type fakePostStore struct {
	pools map[uuid.UUID][]models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{pools: make(map[uuid.UUID][]models.Post)}
}

func (s *fakePostStore) ListByTheme(themeID uuid.UUID) ([]models.Post, error) {
	return s.pools[themeID], nil
}

func (s *fakePostStore) CreatePool(themeID uuid.UUID, drafts []store.Draft) ([]models.Post, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("no drafts")
	}
	var created []models.Post
	for i, d := range drafts {
		seq := i
		created = append(created, models.Post{
			ID:         uuid.New(),
			ThemeID:    &themeID,
			Text:       d.Text,
			Tag:        models.PostTagRegular,
			PoolSeq:    &seq,
			IsTakeaway: d.IsTakeaway,
			CreatedAt:  time.Now(),
		})
	}
	s.pools[themeID] = created
	return created, nil
}

// fakeGenerator returns canned drafts and records invocations.
type fakeGenerator struct {
	drafts []store.Draft
	err    error
	calls  int
}

func (g *fakeGenerator) GeneratePool(ctx context.Context, themeName string, size int) ([]store.Draft, error) {
	g.calls++
	return g.drafts, g.err
}

func testTheme(name string) *models.Theme {
	return &models.Theme{ID: uuid.New(), Name: name}
}

func drafts(texts ...string) []store.Draft {
	out := make([]store.Draft, len(texts))
	for i, t := range texts {
		out[i] = store.Draft{Text: t}
	}
	return out
}

func TestEnsurePoolGeneratesOnce(t *testing.T) {
	posts := newFakePostStore()
	gen := &fakeGenerator{drafts: drafts("one", "two", "three")}
	m := New(posts, gen, 3)
	theme := testTheme("hope")

	first, err := m.EnsurePool(context.Background(), theme)
	if err != nil {
		t.Fatalf("first EnsurePool: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("pool size: got %d, want 3", len(first))
	}

	second, err := m.EnsurePool(context.Background(), theme)
	if err != nil {
		t.Fatalf("second EnsurePool: %v", err)
	}

	if gen.calls != 1 {
		t.Errorf("generator calls: got %d, want 1", gen.calls)
	}
	if len(second) != len(first) {
		t.Fatalf("second pool size: got %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("post %d differs between calls: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestEnsurePoolExistingPoolSkipsGenerator(t *testing.T) {
	posts := newFakePostStore()
	theme := testTheme("hope")
	posts.CreatePool(theme.ID, drafts("a", "b", "c"))

	gen := &fakeGenerator{drafts: drafts("x", "y", "z")}
	m := New(posts, gen, 3)

	got, err := m.EnsurePool(context.Background(), theme)
	if err != nil {
		t.Fatalf("EnsurePool: %v", err)
	}

	if gen.calls != 0 {
		t.Errorf("generator invoked despite existing pool: %d calls", gen.calls)
	}
	if len(got) != 3 || got[0].Text != "a" {
		t.Errorf("existing pool not returned verbatim: %+v", got)
	}
}

func TestEnsurePoolUnderflowPersistsPartial(t *testing.T) {
	posts := newFakePostStore()
	gen := &fakeGenerator{drafts: drafts("only one")}
	m := New(posts, gen, 3)

	got, err := m.EnsurePool(context.Background(), testTheme("hope"))
	if err != nil {
		t.Fatalf("EnsurePool: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("pool size: got %d, want 1 (degraded)", len(got))
	}
}

func TestEnsurePoolZeroDraftsFails(t *testing.T) {
	m := New(newFakePostStore(), &fakeGenerator{}, 3)

	if _, err := m.EnsurePool(context.Background(), testTheme("hope")); err == nil {
		t.Error("expected error when generator produces nothing")
	}
}

func TestEnsurePoolGeneratorErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("model unavailable")}
	m := New(newFakePostStore(), gen, 3)

	if _, err := m.EnsurePool(context.Background(), testTheme("hope")); err == nil {
		t.Error("expected generator error to propagate")
	}
}

func TestEnsurePoolTruncatesOverflow(t *testing.T) {
	gen := &fakeGenerator{drafts: drafts("a", "b", "c", "d", "e")}
	m := New(newFakePostStore(), gen, 3)

	got, err := m.EnsurePool(context.Background(), testTheme("hope"))
	if err != nil {
		t.Fatalf("EnsurePool: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("pool size: got %d, want 3 (overflow trimmed)", len(got))
	}
}

func TestNextUnpublished(t *testing.T) {
	now := time.Now()

	t.Run("returns first unpublished in order", func(t *testing.T) {
		posts := []models.Post{
			{ID: uuid.New(), Text: "first", PublishedAt: &now},
			{ID: uuid.New(), Text: "second"},
			{ID: uuid.New(), Text: "third"},
		}
		next := NextUnpublished(posts)
		if next == nil || next.Text != "second" {
			t.Errorf("got %+v, want the second post", next)
		}
	})

	t.Run("never returns a published post", func(t *testing.T) {
		posts := []models.Post{
			{ID: uuid.New(), PublishedAt: &now},
			{ID: uuid.New(), PublishedAt: &now},
			{ID: uuid.New(), Text: "last one standing"},
		}
		next := NextUnpublished(posts)
		if next == nil || next.IsPublished() {
			t.Errorf("got %+v, want the only unpublished post", next)
		}
	})

	t.Run("nil when all published", func(t *testing.T) {
		posts := []models.Post{
			{ID: uuid.New(), PublishedAt: &now},
			{ID: uuid.New(), PublishedAt: &now},
		}
		if next := NextUnpublished(posts); next != nil {
			t.Errorf("got %+v, want nil", next)
		}
	})

	t.Run("nil for empty pool", func(t *testing.T) {
		if next := NextUnpublished(nil); next != nil {
			t.Errorf("got %+v, want nil", next)
		}
	})
}
