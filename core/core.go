// Package core has core logic for ingestion, quality scoring, contributor
// aggregation, identity resolution and repository scoring.
package core

import (
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/internal/ollama"
)

// NewAugmenter selects the augmentation capability for a run: the live
// model client when augmentation is enabled, the deterministic null client
// otherwise. Downstream code never branches on network state directly; the
// availability probe inside the live client decides the rest.
func NewAugmenter(cfg *contract.Config) contract.Augmenter {
	if !cfg.UseLLM {
		return ollama.NullAugmenter{}
	}
	return ollama.New(cfg.OllamaHost, cfg.OllamaModel, cfg.OllamaTimeout)
}
