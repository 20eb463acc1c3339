// Package llm - content moderation surface
package llm

import "context"

// ModerationRequest submits text for classification.
type ModerationRequest struct {
	Input []string
	// Model overrides the provider's default moderation model.
	Model string
}

// ModerationResult is the classification for one input.
type ModerationResult struct {
	Flagged bool `json:"flagged"`
	// Categories maps category name to whether it was flagged.
	Categories map[string]bool `json:"categories"`
	// CategoryScores maps category name to the vendor confidence score.
	CategoryScores map[string]float64 `json:"category_scores"`
}

// ModerationResponse is the per-input classification batch.
type ModerationResponse struct {
	ID      string
	Model   string
	Results []ModerationResult
}

// Moderator is the moderation surface, discovered by type assertion.
type Moderator interface {
	Moderate(ctx context.Context, req ModerationRequest) (*ModerationResponse, error)
}
