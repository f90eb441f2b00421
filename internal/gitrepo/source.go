// Package gitrepo reads commit history from local repositories with go-git.
package gitrepo

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
)

// Compile-time check for interface adherence.
var _ contract.GitSource = (*Source)(nil)

// prPhrases mark merge commits that came through a pull request.
var prPhrases = []string{"merge pull request", "merged pr", "pull request #"}

// Source reads repositories from the local filesystem.
type Source struct{}

// New creates a filesystem-backed commit source.
func New() *Source {
	return &Source{}
}

// Summary returns repository metadata, including every local branch and the
// detected default branch. An empty repository yields a summary with no branches.
func (s *Source) Summary(_ context.Context, path string) (schema.RepoSummary, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return schema.RepoSummary{}, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	summary := schema.RepoSummary{
		Name: filepath.Base(path),
		Path: path,
	}

	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		summary.URL = remote.Config().URLs[0]
	}

	summary.DefaultBranch = detectDefaultBranch(repo)

	refs, err := repo.Branches()
	if err != nil {
		return schema.RepoSummary{}, fmt.Errorf("failed to list branches for %s: %w", path, err)
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		branch := schema.BranchSummary{
			Name:      ref.Name().Short(),
			IsDefault: ref.Name().Short() == summary.DefaultBranch,
		}
		if tip, err := repo.CommitObject(ref.Hash()); err == nil {
			branch.LastCommit = tip.Committer.When.UTC()
		}
		summary.Branches = append(summary.Branches, branch)
		return nil
	})
	if err != nil {
		return schema.RepoSummary{}, fmt.Errorf("failed to walk branches for %s: %w", path, err)
	}

	sortBranches(summary.Branches, summary.DefaultBranch)
	return summary, nil
}

// StreamCommits walks every branch newest-first by committer time and emits
// each unique commit exactly once. The default branch is walked first, so
// mainline commits are attributed to it; the remaining branches follow in
// name order and contribute only the commits unique to them.
//
// The walk stops once opts.MaxCommits records have been charged against the
// budget or once emit returns false. Commits that fail to parse are skipped
// with a warning but still consume budget.
func (s *Source) StreamCommits(ctx context.Context, path string, opts schema.StreamOptions, emit func(schema.CommitRecord) bool) error {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	branches, err := branchRefs(repo)
	if err != nil {
		return fmt.Errorf("failed to list branches for %s: %w", path, err)
	}

	seen := make(map[plumbing.Hash]struct{})
	charged := 0

	for _, ref := range branches {
		branchName := ref.Name().Short()

		iter, err := repo.Log(&gogit.LogOptions{
			From:  ref.Hash(),
			Order: gogit.LogOrderCommitterTime,
		})
		if err != nil {
			contract.LogWarn(fmt.Sprintf("skipping branch %s", branchName), err)
			continue
		}

		stopped := false
		err = iter.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Dedup before the budget check so shared history costs nothing
			// on later branches.
			if _, ok := seen[c.Hash]; ok {
				return nil
			}
			seen[c.Hash] = struct{}{}

			if opts.MaxCommits > 0 && charged >= opts.MaxCommits {
				stopped = true
				return storer.ErrStop
			}
			charged++

			record, err := recordFromCommit(ctx, c, branchName, opts.MaxDiffBytes)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("skipping commit %s", c.Hash), err)
				return nil
			}

			if !emit(record) {
				stopped = true
				return storer.ErrStop
			}
			return nil
		})
		iter.Close()
		if err != nil {
			return fmt.Errorf("failed to walk branch %s: %w", branchName, err)
		}
		if stopped {
			return nil
		}
	}

	return nil
}

// recordFromCommit converts a single commit into the normalized record shape.
func recordFromCommit(ctx context.Context, c *object.Commit, branch string, maxDiffBytes int) (schema.CommitRecord, error) {
	record := schema.CommitRecord{
		SHA:         c.Hash.String(),
		AuthorName:  strings.TrimSpace(c.Author.Name),
		AuthorEmail: strings.ToLower(strings.TrimSpace(c.Author.Email)),
		Message:     strings.TrimSpace(c.Message),
		CommittedAt: c.Committer.When.UTC(),
		Branch:      branch,
		IsMerge:     c.NumParents() > 1,
	}
	record.IsPR = isPullRequest(record.Message, record.IsMerge)

	stats, err := firstParentStats(ctx, c, maxDiffBytes)
	if err != nil {
		return schema.CommitRecord{}, err
	}
	record.LinesAdded = stats.added
	record.LinesRemoved = stats.removed
	record.FilesChanged = stats.filesChanged
	record.DiffExcerpt = stats.excerpt

	return record, nil
}

// isPullRequest reports whether a merge commit message references a pull request.
func isPullRequest(message string, isMerge bool) bool {
	if !isMerge {
		return false
	}
	lower := strings.ToLower(message)
	for _, phrase := range prPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// detectDefaultBranch resolves the branch HEAD points at, falling back to
// main/master when HEAD is detached or unborn.
func detectDefaultBranch(repo *gogit.Repository) string {
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		return head.Name().Short()
	}
	for _, candidate := range []string{"main", "master"} {
		if _, err := repo.Reference(plumbing.NewBranchReferenceName(candidate), true); err == nil {
			return candidate
		}
	}
	return ""
}

// branchRefs collects local branch references, default branch first and the
// rest in name order, so walk attribution stays deterministic.
func branchRefs(repo *gogit.Repository) ([]*plumbing.Reference, error) {
	refs, err := repo.Branches()
	if err != nil {
		return nil, err
	}

	var branches []*plumbing.Reference
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref)
		return nil
	})
	if err != nil {
		return nil, err
	}

	defaultBranch := detectDefaultBranch(repo)
	sort.Slice(branches, func(i, j int) bool {
		iname, jname := branches[i].Name().Short(), branches[j].Name().Short()
		if iname == defaultBranch {
			return jname != defaultBranch
		}
		if jname == defaultBranch {
			return false
		}
		return iname < jname
	})
	return branches, nil
}

// sortBranches orders branch summaries the same way the walk does.
func sortBranches(branches []schema.BranchSummary, defaultBranch string) {
	sort.Slice(branches, func(i, j int) bool {
		if branches[i].Name == defaultBranch {
			return branches[j].Name != defaultBranch
		}
		if branches[j].Name == defaultBranch {
			return false
		}
		return branches[i].Name < branches[j].Name
	})
}
