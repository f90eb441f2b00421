package core

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/nikolareljin/git-pulse/schema"
	"github.com/stretchr/testify/assert"
)

// makeCommits builds a stream of n commits with predictable SHAs, newest first.
func makeCommits(n int) []schema.CommitRecord {
	commits := make([]schema.CommitRecord, n)
	for i := range n {
		commits[i] = schema.CommitRecord{SHA: fmt.Sprintf("sha%03d", i)}
	}
	return commits
}

// TestSelectForAugmentation tests sampling selection for the model pass.
func TestSelectForAugmentation(t *testing.T) {
	t.Run("stream within budget selects everything", func(t *testing.T) {
		commits := makeCommits(10)
		selected := SelectForAugmentation(commits, 20, nil)
		assert.Len(t, selected, 10)
		for _, c := range commits {
			assert.Contains(t, selected, c.SHA)
		}
	})

	t.Run("zero budget selects nothing", func(t *testing.T) {
		assert.Empty(t, SelectForAugmentation(makeCommits(10), 0, nil))
	})

	t.Run("over budget fills exactly the budget", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		selected := SelectForAugmentation(makeCommits(100), 20, rng)
		assert.Len(t, selected, 20)
	})

	t.Run("recent half always included", func(t *testing.T) {
		commits := makeCommits(100)
		rng := rand.New(rand.NewSource(7))
		selected := SelectForAugmentation(commits, 20, rng)
		for _, c := range commits[:10] {
			assert.Contains(t, selected, c.SHA)
		}
	})

	t.Run("seeded rng is reproducible", func(t *testing.T) {
		commits := makeCommits(100)
		first := SelectForAugmentation(commits, 20, rand.New(rand.NewSource(42)))
		second := SelectForAugmentation(commits, 20, rand.New(rand.NewSource(42)))
		assert.Equal(t, first, second)
	})
}
