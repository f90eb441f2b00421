package core

import "github.com/nikolareljin/git-pulse/schema"

// Blend weights: the model's judgment outweighs the heuristics, but never
// replaces them outright.
const (
	heuristicWeight = 0.4
	llmWeight       = 0.6
)

// BlendScores folds a successful model result into the heuristic scores.
// Each numeric field becomes heuristic*0.4 + llm*0.6; the summary is
// replaced by the model's when it said anything. Callers must only blend
// results the augmenter reported as ok — failed calls keep the heuristic
// scores untouched.
func BlendScores(heuristic, llm schema.QualityScores) schema.QualityScores {
	blended := heuristic
	for _, key := range schema.SubScoreKeys {
		blended.SetSub(key, round1(heuristicWeight*heuristic.Sub(key)+llmWeight*llm.Sub(key)))
	}
	blended.Overall = round1(heuristicWeight*heuristic.Overall + llmWeight*llm.Overall)
	if llm.Summary != "" {
		blended.Summary = llm.Summary
	}
	blended.ByLLM = true
	return blended
}
