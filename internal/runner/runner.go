// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package runner sequences one publication run: read the published count,
// resolve the active theme, pick the pool post or substitute a trending one
// on the cadence, publish, and only then mutate post and theme state.
// "Nothing to publish today" is a clean outcome, not an error.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"murmur/internal/ai"
	"murmur/internal/cadence"
	"murmur/internal/models"
	"murmur/internal/pool"
	"murmur/internal/publisher"
)

// Outcome says how a run ended when it did not fail outright.
type Outcome string

const (
	// OutcomePublished means a post went out and was marked published.
	OutcomePublished Outcome = "published"
	// OutcomeNothingToPublish means the active theme's pool is fully
	// published and no trending substitution was due.
	OutcomeNothingToPublish Outcome = "nothing_to_publish"
	// OutcomeDuplicateTrending means the generated trending text already
	// exists among persisted posts; the run aborted before publishing.
	OutcomeDuplicateTrending Outcome = "duplicate_trending"
	// OutcomeFlagged means moderation rejected the trending text; the run
	// aborted before persisting or publishing it.
	OutcomeFlagged Outcome = "moderation_flagged"
)

// Result describes what a completed run did.
type Result struct {
	Outcome Outcome
	Theme   *models.Theme
	Post    *models.Post
}

// ThemeResolver is the rotation engine surface the runner uses.
type ThemeResolver interface {
	ResolveActiveTheme(today time.Time) (*models.Theme, error)
	MarkExhausted(theme *models.Theme) error
}

// PoolManager ensures and returns a theme's candidate posts.
type PoolManager interface {
	EnsurePool(ctx context.Context, theme *models.Theme) ([]models.Post, error)
}

// PostStore is the slice of the store the runner needs directly.
type PostStore interface {
	CountPublished() (int, error)
	ExistsByText(text string) (bool, error)
	CreateTrending(text string) (*models.Post, error)
	MarkPublished(id uuid.UUID, externalID string) error
}

// TrendingGenerator produces the one-off trending text.
type TrendingGenerator interface {
	GenerateTrending(ctx context.Context, topics []string) (string, error)
}

// TopicsFetcher supplies current trending topic names. Failures degrade to
// a generic trending prompt.
type TopicsFetcher interface {
	Topics(ctx context.Context) ([]string, error)
}

// Moderator safety-checks trending text before it is persisted.
type Moderator interface {
	CheckText(ctx context.Context, text string) (*ai.ModerationResult, error)
}

// SentimentAnalyzer records post-publication sentiment. Its errors are
// logged, never propagated.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, postID uuid.UUID, text string) error
}

// Runner wires the core components into one invocation.
type Runner struct {
	themes    ThemeResolver
	pools     PoolManager
	posts     PostStore
	decider   *cadence.Decider
	trending  TrendingGenerator
	topics    TopicsFetcher
	moderator Moderator
	publisher publisher.Publisher
	sentiment SentimentAnalyzer
}

// New creates a runner. topics, moderator and sentiment may be nil; those
// steps are then skipped.
func New(
	themes ThemeResolver,
	pools PoolManager,
	posts PostStore,
	decider *cadence.Decider,
	trending TrendingGenerator,
	topics TopicsFetcher,
	moderator Moderator,
	pub publisher.Publisher,
	sent SentimentAnalyzer,
) *Runner {
	return &Runner{
		themes:    themes,
		pools:     pools,
		posts:     posts,
		decider:   decider,
		trending:  trending,
		topics:    topics,
		moderator: moderator,
		publisher: pub,
		sentiment: sent,
	}
}

// Run performs one publication run for the given day.
func (r *Runner) Run(ctx context.Context, today time.Time) (*Result, error) {
	// The cadence base is read fresh every invocation: published posts
	// only, across all themes and tags.
	total, err := r.posts.CountPublished()
	if err != nil {
		return nil, err
	}

	theme, err := r.themes.ResolveActiveTheme(today)
	if err != nil {
		return nil, err
	}
	slog.Info("run started", "theme", theme.Name, "published_total", total)

	if r.decider.ShouldSubstituteTrending(total) {
		return r.runTrending(ctx, theme, total)
	}
	return r.runPool(ctx, theme)
}

// runPool publishes the next unpublished post from the active theme's pool.
func (r *Runner) runPool(ctx context.Context, theme *models.Theme) (*Result, error) {
	posts, err := r.pools.EnsurePool(ctx, theme)
	if err != nil {
		return nil, err
	}

	next := pool.NextUnpublished(posts)
	if next == nil {
		// The pool has drained; flag the theme so the next run rotates.
		if err := r.themes.MarkExhausted(theme); err != nil {
			return nil, err
		}
		slog.Info("nothing to publish, pool drained", "theme", theme.Name)
		return &Result{Outcome: OutcomeNothingToPublish, Theme: theme}, nil
	}

	if err := r.publishAndMark(ctx, next); err != nil {
		return nil, err
	}

	// If that was the pool's last unpublished post, the theme is done.
	if remaining := countUnpublished(posts, next.ID); remaining == 0 {
		if err := r.themes.MarkExhausted(theme); err != nil {
			return nil, err
		}
	}

	return &Result{Outcome: OutcomePublished, Theme: theme, Post: next}, nil
}

// runTrending substitutes a one-off trending post for this publication.
func (r *Runner) runTrending(ctx context.Context, theme *models.Theme, total int) (*Result, error) {
	slog.Info("substituting trending post", "publication_index", total+1, "cadence", r.decider.Every())

	var topics []string
	if r.topics != nil {
		var err error
		topics, err = r.topics.Topics(ctx)
		if err != nil {
			slog.Warn("trending topics unavailable, using generic prompt", "error", err)
			topics = nil
		}
	}

	text, err := r.trending.GenerateTrending(ctx, topics)
	if err != nil {
		return nil, err
	}

	if r.moderator != nil {
		check, err := r.moderator.CheckText(ctx, text)
		if err != nil {
			slog.Warn("moderation check failed, continuing", "error", err)
		} else if !check.Safe {
			slog.Warn("trending text flagged by moderation, aborting run", "categories", check.Categories)
			return &Result{Outcome: OutcomeFlagged, Theme: theme}, nil
		}
	}

	// Exact-match duplicate guard: the platform rejects duplicate content,
	// so a collision aborts the run rather than risking a publish failure.
	exists, err := r.posts.ExistsByText(text)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.Warn("trending text already persisted, aborting run", "text", text)
		return &Result{Outcome: OutcomeDuplicateTrending, Theme: theme}, nil
	}

	// Persist before publishing so a crash in between still leaves an
	// auditable, duplicate-checkable record.
	post, err := r.posts.CreateTrending(text)
	if err != nil {
		return nil, err
	}

	if err := r.publishAndMark(ctx, post); err != nil {
		return nil, err
	}

	return &Result{Outcome: OutcomePublished, Theme: theme, Post: post}, nil
}

// publishAndMark sends the post and, only on confirmed success, marks it
// published and records sentiment.
func (r *Runner) publishAndMark(ctx context.Context, post *models.Post) error {
	res, err := r.publisher.Publish(ctx, post.Text)
	if err != nil {
		return err
	}

	if err := r.posts.MarkPublished(post.ID, res.ExternalID); err != nil {
		return err
	}
	now := time.Now().UTC()
	post.PublishedAt = &now
	post.ExternalID = &res.ExternalID

	slog.Info("post published", "post", post.ID, "external_id", res.ExternalID, "tag", post.Tag)

	if r.sentiment != nil {
		if err := r.sentiment.Analyze(ctx, post.ID, post.Text); err != nil {
			slog.Warn("sentiment analysis failed", "post", post.ID, "error", err)
		}
	}
	return nil
}

// countUnpublished counts pool posts still unpublished, excluding the one
// just sent.
func countUnpublished(posts []models.Post, justPublished uuid.UUID) int {
	n := 0
	for i := range posts {
		if posts[i].ID == justPublished {
			continue
		}
		if !posts[i].IsPublished() {
			n++
		}
	}
	return n
}
