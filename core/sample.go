package core

import (
	"math/rand"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
)

// AugmentThrottle is the pause between successive model calls within one
// run, keeping request rate bounded against the local endpoint.
const AugmentThrottle = 100 * time.Millisecond

// SelectForAugmentation picks the commits worth the model-call budget and
// returns their SHAs. Heuristic scoring always covers every commit; this
// bounds only the expensive augmentation pass.
//
// When the stream fits the budget, everything is selected. Otherwise the
// first half of the budget goes to the most recent commits (the head of the
// stream) and the rest is a random draw from the older remainder, so the
// sample keeps some historical spread. Pass a seeded rng for reproducible
// membership; nil falls back to a time-seeded source.
func SelectForAugmentation(commits []schema.CommitRecord, sampleSize int, rng *rand.Rand) map[string]struct{} {
	selected := make(map[string]struct{}, min(len(commits), max(sampleSize, 0)))
	if sampleSize <= 0 {
		return selected
	}

	if len(commits) <= sampleSize {
		for _, c := range commits {
			selected[c.SHA] = struct{}{}
		}
		return selected
	}

	// --- 1. Recent half: the head of the stream ---
	recent := sampleSize / 2
	for _, c := range commits[:recent] {
		selected[c.SHA] = struct{}{}
	}

	// --- 2. Random fill from the older remainder ---
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	older := commits[recent:]
	fill := sampleSize - recent
	for i, idx := range rng.Perm(len(older)) {
		if i >= fill {
			break
		}
		selected[older[idx].SHA] = struct{}{}
	}

	return selected
}
