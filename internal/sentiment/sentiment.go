// Package sentiment classifies published post text via the LLM and records
// the result on the post row. It runs strictly after a successful publish;
// its failures are reported to the caller but must never unwind the
// publish-success state.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TextGenerator is the slice of the AI registry the analyzer needs.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Store persists the classification on the post row.
type Store interface {
	SetSentiment(id uuid.UUID, score int, label string) error
}

// Analyzer classifies text as positive, neutral or negative.
type Analyzer struct {
	gen   TextGenerator
	store Store
}

// New creates a sentiment analyzer.
func New(gen TextGenerator, store Store) *Analyzer {
	return &Analyzer{gen: gen, store: store}
}

const systemPrompt = "You are a sentiment analysis assistant. Reply with a single word."

// Analyze classifies the text and stores score and label for the post.
// Score is +1 for positive, -1 for negative, 0 for neutral.
func (a *Analyzer) Analyze(ctx context.Context, postID uuid.UUID, text string) error {
	prompt := fmt.Sprintf("Classify the sentiment of this text as positive, neutral, or negative.\nText: %q", text)

	reply, err := a.gen.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("sentiment classify: %w", err)
	}

	score, label := interpret(reply)
	if err := a.store.SetSentiment(postID, score, label); err != nil {
		return err
	}
	return nil
}

// interpret maps a free-form model reply onto the score/label pair.
// Anything that names neither polarity counts as neutral.
func interpret(reply string) (int, string) {
	r := strings.ToLower(reply)
	switch {
	case strings.Contains(r, "positive"):
		return 1, "positive"
	case strings.Contains(r, "negative"):
		return -1, "negative"
	default:
		return 0, "neutral"
	}
}
