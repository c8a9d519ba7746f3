// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"murmur/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Draft is a generated candidate text not yet persisted.
type Draft struct {
	Text       string
	IsTakeaway bool
}

// ListByTheme returns a theme's pool posts in creation order.
func (s *PostStore) ListByTheme(themeID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT id, theme_id, text, tag, pool_seq, is_takeaway,
		       external_id, sentiment_score, sentiment_label,
		       published_at, created_at
		FROM posts
		WHERE theme_id = $1
		ORDER BY pool_seq, created_at
	`, themeID)
	if err != nil {
		return nil, fmt.Errorf("list posts by theme: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// CreatePool inserts a theme's candidate posts as a single batch inside one
// transaction. Pool sequence numbers follow draft order; the unique
// (theme_id, pool_seq) constraint rejects a concurrent duplicate pool.
func (s *PostStore) CreatePool(themeID uuid.UUID, drafts []Draft) ([]models.Post, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("create pool: no drafts to insert")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create pool begin: %w", err)
	}
	defer tx.Rollback()

	created := make([]models.Post, 0, len(drafts))
	for i, d := range drafts {
		var p models.Post
		err := tx.QueryRow(`
			INSERT INTO posts (theme_id, text, tag, pool_seq, is_takeaway)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, theme_id, text, tag, pool_seq, is_takeaway,
			          external_id, sentiment_score, sentiment_label,
			          published_at, created_at
		`, themeID, d.Text, models.PostTagRegular, i, d.IsTakeaway).Scan(
			&p.ID, &p.ThemeID, &p.Text, &p.Tag, &p.PoolSeq, &p.IsTakeaway,
			&p.ExternalID, &p.SentimentScore, &p.SentimentLabel,
			&p.PublishedAt, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("create pool insert %d: %w", i, err)
		}
		created = append(created, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create pool commit: %w", err)
	}
	return created, nil
}

// CreateTrending inserts a one-off trending post. It belongs to no theme and
// never counts against a pool quota; the row exists so later runs can
// duplicate-check against it.
func (s *PostStore) CreateTrending(text string) (*models.Post, error) {
	p := &models.Post{}
	err := s.db.QueryRow(`
		INSERT INTO posts (theme_id, text, tag)
		VALUES (NULL, $1, $2)
		RETURNING id, theme_id, text, tag, pool_seq, is_takeaway,
		          external_id, sentiment_score, sentiment_label,
		          published_at, created_at
	`, text, models.PostTagTrending).Scan(
		&p.ID, &p.ThemeID, &p.Text, &p.Tag, &p.PoolSeq, &p.IsTakeaway,
		&p.ExternalID, &p.SentimentScore, &p.SentimentLabel,
		&p.PublishedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create trending post: %w", err)
	}
	return p, nil
}

// CountPublished returns the number of posts that have actually been sent,
// across all themes and tags. Unpublished drafts are not counted.
func (s *PostStore) CountPublished() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE published_at IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// ExistsByText reports whether any persisted post carries exactly this text.
func (s *PostStore) ExistsByText(text string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE text = $1)`, text).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post text exists: %w", err)
	}
	return exists, nil
}

// MarkPublished stamps a post as sent and records the platform's ID for it.
// Called strictly after the publisher confirms success.
func (s *PostStore) MarkPublished(id uuid.UUID, externalID string) error {
	res, err := s.db.Exec(`
		UPDATE posts SET published_at = NOW(), external_id = $1
		WHERE id = $2 AND published_at IS NULL
	`, externalID, id)
	if err != nil {
		return fmt.Errorf("mark post published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark post published rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark post published: post %s missing or already published", id)
	}
	return nil
}

// SetSentiment records the post-publication sentiment classification.
func (s *PostStore) SetSentiment(id uuid.UUID, score int, label string) error {
	_, err := s.db.Exec(`
		UPDATE posts SET sentiment_score = $1, sentiment_label = $2
		WHERE id = $3
	`, score, label, id)
	if err != nil {
		return fmt.Errorf("set post sentiment: %w", err)
	}
	return nil
}

// scanPosts reads all rows from a posts query into a slice.
func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var items []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.ThemeID, &p.Text, &p.Tag, &p.PoolSeq, &p.IsTakeaway,
			&p.ExternalID, &p.SentimentScore, &p.SentimentLabel,
			&p.PublishedAt, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
