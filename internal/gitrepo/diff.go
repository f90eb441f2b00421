package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// commitStats carries the numbers and excerpt derived from one commit's diff.
type commitStats struct {
	added        int
	removed      int
	filesChanged int
	excerpt      string
}

// firstParentStats diffs a commit against its first parent. Root commits have
// no parent and report zero stats. Line counts cover the full diff; the
// excerpt shares maxDiffBytes evenly across files and is truncated again as a
// whole, so one huge file cannot crowd out the rest.
func firstParentStats(ctx context.Context, c *object.Commit, maxDiffBytes int) (commitStats, error) {
	var stats commitStats
	if c.NumParents() == 0 {
		return stats, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return stats, fmt.Errorf("failed to load parent of %s: %w", c.Hash, err)
	}

	patch, err := parent.PatchContext(ctx, c)
	if err != nil {
		return stats, fmt.Errorf("failed to diff %s: %w", c.Hash, err)
	}

	filePatches := patch.FilePatches()
	stats.filesChanged = len(filePatches)

	perFileBudget := 0
	if maxDiffBytes > 0 && stats.filesChanged > 0 {
		perFileBudget = maxDiffBytes / stats.filesChanged
	}

	var excerpt strings.Builder
	for _, fp := range filePatches {
		if fp.IsBinary() {
			continue
		}

		text := filePatchText(fp, &stats)
		if perFileBudget > 0 && len(text) > perFileBudget {
			text = text[:perFileBudget]
		}
		excerpt.WriteString(text)
	}

	stats.excerpt = excerpt.String()
	if maxDiffBytes > 0 && len(stats.excerpt) > maxDiffBytes {
		stats.excerpt = stats.excerpt[:maxDiffBytes]
	}
	return stats, nil
}

// filePatchText renders one file's changes as unified-diff style text and
// accumulates the commit's line counts. Unchanged regions are left out so the
// excerpt spends its budget on the lines the commit actually touched.
func filePatchText(fp diff.FilePatch, stats *commitStats) string {
	var b strings.Builder

	from, to := fp.Files()
	switch {
	case from != nil && to != nil:
		fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", from.Path(), to.Path())
	case to != nil:
		fmt.Fprintf(&b, "--- /dev/null\n+++ b/%s\n", to.Path())
	case from != nil:
		fmt.Fprintf(&b, "--- a/%s\n+++ /dev/null\n", from.Path())
	}

	for _, chunk := range fp.Chunks() {
		var prefix string
		switch chunk.Type() {
		case diff.Add:
			prefix = "+"
			stats.added += countLines(chunk.Content())
		case diff.Delete:
			prefix = "-"
			stats.removed += countLines(chunk.Content())
		default:
			continue
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(chunk.Content(), "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// countLines counts newline-delimited lines, including a trailing partial line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
