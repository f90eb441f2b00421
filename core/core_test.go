package core

import (
	"context"
	"testing"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/stretchr/testify/assert"
)

// TestNewAugmenter tests augmenter selection from configuration.
func TestNewAugmenter(t *testing.T) {
	t.Run("disabled picks the null client", func(t *testing.T) {
		aug := NewAugmenter(&contract.Config{UseLLM: false})
		assert.False(t, aug.Available(context.Background()))
	})

	t.Run("enabled picks the live client", func(t *testing.T) {
		cfg := &contract.Config{
			UseLLM:        true,
			OllamaHost:    "http://localhost:1", // nothing listens here
			OllamaModel:   "codellama:7b",
			OllamaTimeout: contract.DefaultOllamaTimeout,
		}
		aug := NewAugmenter(cfg)
		assert.NotNil(t, aug)
	})
}
