// Package publisher defines the boundary to the social platform and its
// X (Twitter) API v2 implementation. Any non-success response aborts the
// current run; no retry happens at this layer.
package publisher

import "context"

// Result carries the platform's identifier for a successfully sent post.
type Result struct {
	ExternalID string
}

// Publisher sends a finished text to the social platform.
type Publisher interface {
	Publish(ctx context.Context, text string) (*Result, error)
}
