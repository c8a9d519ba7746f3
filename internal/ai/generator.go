// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"murmur/internal/store"
)

// Generator produces the bot's post texts through the provider registry:
// the fixed-size pool of journal-style posts for a theme, and the one-off
// trending observation substituted on the publication cadence.
type Generator struct {
	registry *Registry
}

// NewGenerator creates a generator backed by the given provider registry.
func NewGenerator(registry *Registry) *Generator {
	return &Generator{registry: registry}
}

const poolSystemPrompt = `You are an introspective AI who writes short journal-like posts. ` +
	`Each post is 1-2 sentences, lowercase, and reads like an authentic human reflection. ` +
	`You reply with raw JSON only.`

// poolDraft mirrors the JSON shape the model is asked to return.
type poolDraft struct {
	Text       string `json:"text"`
	IsTakeaway bool   `json:"isTakeaway"`
}

// GeneratePool asks the model for size candidate posts on the theme and
// parses them into drafts. Exactly one post should carry a subtle takeaway.
// The model may return fewer drafts than asked for; blank entries are
// dropped. Never returns more than size drafts.
func (g *Generator) GeneratePool(ctx context.Context, themeName string, size int) ([]store.Draft, error) {
	userPrompt := fmt.Sprintf(`Write %d journal-like posts on the theme %q.
- Each post is 1-2 sentences, lowercase.
- One post subtly includes a takeaway or insight (not advice).
- The posts should feel like authentic human reflections.
- Return a JSON array of objects with "text" and "isTakeaway" boolean, nothing else.
Example output:
[
  { "text": "the quiet moments speak louder than the noise.", "isTakeaway": false },
  { "text": "sometimes the hardest journeys teach the softest lessons.", "isTakeaway": true }
]`, size, themeName)

	raw, err := g.registry.Generate(ctx, poolSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate pool: %w", err)
	}

	var parsed []poolDraft
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("generate pool: parse model output: %w", err)
	}

	drafts := make([]store.Draft, 0, len(parsed))
	for _, d := range parsed {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		drafts = append(drafts, store.Draft{Text: text, IsTakeaway: d.IsTakeaway})
	}
	if len(drafts) > size {
		drafts = drafts[:size]
	}
	return drafts, nil
}

const trendingSystemPrompt = `You are an AI designed to make concise, clever observations about trends. ` +
	`All output must be lowercase and hashtag-free.`

var hashtagRe = regexp.MustCompile(`#\w+`)

// GenerateTrending produces a single short observational post about what is
// currently trending. topics, when non-empty, come from the trends feed and
// steer the observation; without them the prompt stays generic. The result
// is normalized: lowercase, hashtags stripped.
func (g *Generator) GenerateTrending(ctx context.Context, topics []string) (string, error) {
	userPrompt := `Write a single, short (1-2 sentences), lowercase post about what's currently trending. ` +
		`Make it slightly observational and a little witty, without using hashtags.`
	if len(topics) > 0 {
		userPrompt += fmt.Sprintf(" Current trending topics for context: %s.", strings.Join(topics, ", "))
	}

	raw, err := g.registry.Generate(ctx, trendingSystemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("generate trending: %w", err)
	}

	text := strings.TrimSpace(hashtagRe.ReplaceAllString(strings.ToLower(raw), ""))
	if text == "" {
		return "", fmt.Errorf("generate trending: model returned empty text")
	}
	return text, nil
}

// stripCodeFence removes a surrounding markdown code block, which some
// models wrap around JSON output despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
