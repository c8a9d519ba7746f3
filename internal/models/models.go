// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the persisted entities of the posting bot:
// themes drawn from a fixed catalog and the posts generated for them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PostTag classifies how a post entered the system.
type PostTag string

const (
	// PostTagRegular marks a post generated as part of a theme's pool.
	PostTagRegular PostTag = "regular"
	// PostTagTrending marks a one-off post substituted on the publication cadence.
	PostTagTrending PostTag = "trending"
)

// Sentiment labels assigned after publication.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Theme is a topic label around which a pool of posts is generated.
// A theme is created lazily the first time the rotation selects it and is
// never deleted; Exhausted flips once its entire pool has been published.
type Theme struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Exhausted bool       `json:"exhausted"`
	ActiveOn  *time.Time `json:"active_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ActiveFor reports whether the theme was last activated on the given day.
func (t *Theme) ActiveFor(day time.Time) bool {
	if t.ActiveOn == nil {
		return false
	}
	y1, m1, d1 := t.ActiveOn.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Post is a single short text, either belonging to a theme's pool or a
// one-off trending substitution (ThemeID nil). A post transitions from
// unpublished to published exactly once and is never deleted.
type Post struct {
	ID             uuid.UUID  `json:"id"`
	ThemeID        *uuid.UUID `json:"theme_id,omitempty"`
	Text           string     `json:"text"`
	Tag            PostTag    `json:"tag"`
	PoolSeq        *int       `json:"pool_seq,omitempty"`
	IsTakeaway     bool       `json:"is_takeaway"`
	ExternalID     *string    `json:"external_id,omitempty"`
	SentimentScore *int       `json:"sentiment_score,omitempty"`
	SentimentLabel *string    `json:"sentiment_label,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsPublished returns true once the post has been confirmed sent.
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil
}
