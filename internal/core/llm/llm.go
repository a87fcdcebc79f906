// Package llm scores video items for editorial suitability via a
// text-generation API.
//
// The scorer is a soft dependency: every failure mode (transport error,
// timeout, empty completion, undecodable payload) degrades to an absent
// verdict and never propagates an error into the pipeline.
package llm

import (
	"context"
	"strings"

	"github.com/bansungju/youtube/internal/core/domain"
)

// Scorer produces a suitability verdict for a video item. A nil result means
// "undetermined" and is always a valid outcome.
type Scorer interface {
	Score(ctx context.Context, item domain.VideoItem) *domain.Verdict
}

// extractJSON locates the structured payload inside a free-form completion by
// taking the span between the first "{" and the last "}". Models wrap JSON in
// prose and markdown fences; this strips both.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
