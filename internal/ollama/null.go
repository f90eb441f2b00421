package ollama

import (
	"context"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
)

// Compile-time check for interface adherence.
var _ contract.Augmenter = (*NullAugmenter)(nil)

// NullAugmenter skips model augmentation entirely. Analyses run with it when
// the model is disabled, so heuristic scores carry through unchanged.
type NullAugmenter struct{}

// Available always reports false.
func (NullAugmenter) Available(context.Context) bool {
	return false
}

// Augment returns the neutral defaults without calling anything.
func (NullAugmenter) Augment(_ context.Context, commit schema.CommitRecord) (schema.QualityScores, bool) {
	scores := schema.DefaultQualityScores()
	scores.SHA = commit.SHA
	return scores, false
}
