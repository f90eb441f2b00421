package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolareljin/git-pulse/schema"
)

var fixtureBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type repoFixture struct {
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
}

func initFixture(t *testing.T) *repoFixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &repoFixture{dir: dir, repo: repo, wt: wt}
}

func signature(when time.Time) *object.Signature {
	return &object.Signature{Name: "Ada Lovelace", Email: "Ada@Example.com", When: when}
}

// commitFile writes a file, stages it and commits it with a fixed author.
func (f *repoFixture) commitFile(t *testing.T, name, content, message string, when time.Time) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
	_, err := f.wt.Add(name)
	require.NoError(t, err)
	hash, err := f.wt.Commit(message, &gogit.CommitOptions{
		Author:    signature(when),
		Committer: signature(when),
	})
	require.NoError(t, err)
	return hash
}

// mergeCommit crafts a two-parent commit without touching the tree.
func (f *repoFixture) mergeCommit(t *testing.T, message string, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	hash, err := f.wt.Commit(message, &gogit.CommitOptions{
		Author:            signature(when),
		Committer:         signature(when),
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(t, err)
	return hash
}

func (f *repoFixture) checkout(t *testing.T, branch string, create bool) {
	t.Helper()
	err := f.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	require.NoError(t, err)
}

// collect runs StreamCommits and gathers every emitted record.
func collect(t *testing.T, dir string, opts schema.StreamOptions) []schema.CommitRecord {
	t.Helper()
	var records []schema.CommitRecord
	err := New().StreamCommits(context.Background(), dir, opts, func(record schema.CommitRecord) bool {
		records = append(records, record)
		return true
	})
	require.NoError(t, err)
	return records
}

func TestSummary(t *testing.T) {
	f := initFixture(t)
	f.commitFile(t, "app.go", "package main\n", "initial commit", fixtureBase)
	f.checkout(t, "feature", true)
	featureTime := fixtureBase.Add(2 * time.Hour)
	f.commitFile(t, "feature.go", "package main\n", "add feature", featureTime)
	f.checkout(t, "master", false)

	_, err := f.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/payments.git"},
	})
	require.NoError(t, err)

	summary, err := New().Summary(context.Background(), f.dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(f.dir), summary.Name)
	assert.Equal(t, f.dir, summary.Path)
	assert.Equal(t, "https://example.com/payments.git", summary.URL)
	assert.Equal(t, "master", summary.DefaultBranch)

	require.Len(t, summary.Branches, 2)
	// Default branch sorts first
	assert.Equal(t, "master", summary.Branches[0].Name)
	assert.True(t, summary.Branches[0].IsDefault)
	assert.Equal(t, "feature", summary.Branches[1].Name)
	assert.False(t, summary.Branches[1].IsDefault)
	assert.True(t, summary.Branches[1].LastCommit.Equal(featureTime), "branch tip should carry its committer time")
}

func TestSummaryEmptyRepository(t *testing.T) {
	f := initFixture(t)

	summary, err := New().Summary(context.Background(), f.dir)
	require.NoError(t, err)

	assert.Empty(t, summary.Branches)
	assert.Empty(t, summary.DefaultBranch)
}

func TestSummaryNotARepository(t *testing.T) {
	_, err := New().Summary(context.Background(), t.TempDir())
	assert.Error(t, err, "a plain directory should not open as a repository")
}

func TestStreamCommitsDedupAcrossBranches(t *testing.T) {
	f := initFixture(t)
	c1 := f.commitFile(t, "a.txt", "one\n", "first", fixtureBase)
	c2 := f.commitFile(t, "b.txt", "two\n", "second", fixtureBase.Add(time.Hour))
	f.checkout(t, "feature", true)
	c3 := f.commitFile(t, "c.txt", "three\n", "third", fixtureBase.Add(2*time.Hour))
	f.checkout(t, "master", false)

	records := collect(t, f.dir, schema.StreamOptions{})
	require.Len(t, records, 3, "shared history should be emitted once")

	// Default branch walks first, newest first; the feature branch then
	// contributes only its unique commit.
	assert.Equal(t, c2.String(), records[0].SHA)
	assert.Equal(t, "master", records[0].Branch)
	assert.Equal(t, c1.String(), records[1].SHA)
	assert.Equal(t, "master", records[1].Branch)
	assert.Equal(t, c3.String(), records[2].SHA)
	assert.Equal(t, "feature", records[2].Branch)
}

func TestStreamCommitsBudget(t *testing.T) {
	f := initFixture(t)
	var hashes []plumbing.Hash
	for i := 0; i < 5; i++ {
		h := f.commitFile(t, "counter.txt", string(rune('a'+i))+"\n", "update counter", fixtureBase.Add(time.Duration(i)*time.Hour))
		hashes = append(hashes, h)
	}

	records := collect(t, f.dir, schema.StreamOptions{MaxCommits: 3})
	require.Len(t, records, 3)

	// Newest commits win the budget
	assert.Equal(t, hashes[4].String(), records[0].SHA)
	assert.Equal(t, hashes[3].String(), records[1].SHA)
	assert.Equal(t, hashes[2].String(), records[2].SHA)
}

func TestStreamCommitsEarlyStop(t *testing.T) {
	f := initFixture(t)
	f.commitFile(t, "a.txt", "one\n", "first", fixtureBase)
	f.commitFile(t, "b.txt", "two\n", "second", fixtureBase.Add(time.Hour))

	var count int
	err := New().StreamCommits(context.Background(), f.dir, schema.StreamOptions{}, func(schema.CommitRecord) bool {
		count++
		return false
	})
	require.NoError(t, err, "an emit-driven stop is not an error")
	assert.Equal(t, 1, count)
}

func TestStreamCommitsRecordFields(t *testing.T) {
	f := initFixture(t)
	f.commitFile(t, "app.go", "package main\n", "initial commit", fixtureBase)
	when := fixtureBase.Add(time.Hour)
	f.commitFile(t, "util.go", "package main\n\nfunc helper() {}\n", "  feat: add util\n\n", when)

	records := collect(t, f.dir, schema.StreamOptions{MaxDiffBytes: 10000})
	require.Len(t, records, 2)

	latest := records[0]
	assert.Equal(t, "Ada Lovelace", latest.AuthorName)
	assert.Equal(t, "ada@example.com", latest.AuthorEmail, "author email should be lowercased")
	assert.Equal(t, "feat: add util", latest.Message, "message should be stripped of surrounding whitespace")
	assert.True(t, latest.CommittedAt.Equal(when))
	assert.False(t, latest.IsMerge)
	assert.False(t, latest.IsPR)

	// The new file contributes three added lines in one file
	assert.Equal(t, 3, latest.LinesAdded)
	assert.Equal(t, 0, latest.LinesRemoved)
	assert.Equal(t, 1, latest.FilesChanged)
	assert.Contains(t, latest.DiffExcerpt, "+++ b/util.go")
	assert.Contains(t, latest.DiffExcerpt, "+func helper() {}")

	// The root commit has no parent to diff against
	root := records[1]
	assert.Zero(t, root.LinesAdded)
	assert.Zero(t, root.LinesRemoved)
	assert.Zero(t, root.FilesChanged)
	assert.Empty(t, root.DiffExcerpt)
}

func TestStreamCommitsExcerptTruncation(t *testing.T) {
	f := initFixture(t)
	f.commitFile(t, "seed.txt", "seed\n", "seed", fixtureBase)

	var big []byte
	for i := 0; i < 500; i++ {
		big = append(big, []byte("a line of considerable length for the excerpt budget\n")...)
	}
	f.commitFile(t, "big.txt", string(big), "add big file", fixtureBase.Add(time.Hour))

	records := collect(t, f.dir, schema.StreamOptions{MaxDiffBytes: 2000})
	require.Len(t, records, 2)

	latest := records[0]
	assert.Equal(t, 500, latest.LinesAdded, "line counts should cover the full diff, not the excerpt")
	assert.LessOrEqual(t, len(latest.DiffExcerpt), 2000)
}

func TestStreamCommitsMergeAndPR(t *testing.T) {
	f := initFixture(t)
	c1 := f.commitFile(t, "a.txt", "one\n", "first", fixtureBase)
	f.checkout(t, "feature", true)
	c2 := f.commitFile(t, "b.txt", "two\n", "second", fixtureBase.Add(time.Hour))
	f.checkout(t, "master", false)
	merge := f.mergeCommit(t, "Merge pull request #7 from feature", fixtureBase.Add(2*time.Hour), c1, c2)

	records := collect(t, f.dir, schema.StreamOptions{})

	bySHA := make(map[string]schema.CommitRecord)
	for _, record := range records {
		bySHA[record.SHA] = record
	}

	mergeRecord, ok := bySHA[merge.String()]
	require.True(t, ok, "merge commit should be emitted")
	assert.True(t, mergeRecord.IsMerge)
	assert.True(t, mergeRecord.IsPR)

	plain, ok := bySHA[c2.String()]
	require.True(t, ok)
	assert.False(t, plain.IsMerge)
	assert.False(t, plain.IsPR)
}

func TestStreamCommitsEmptyRepository(t *testing.T) {
	f := initFixture(t)

	records := collect(t, f.dir, schema.StreamOptions{})
	assert.Empty(t, records, "an empty repository is valid and yields no commits")
}

func TestIsPullRequest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		isMerge bool
		want    bool
	}{
		{"github style", "Merge pull request #42 from org/feature", true, true},
		{"azure style", "Merged PR 1234: fix login", true, true},
		{"reference style", "merge branch with pull request #9", true, true},
		{"plain merge", "Merge branch 'develop'", true, false},
		{"pr phrase without merge", "Merge pull request #42 from org/feature", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPullRequest(tt.message, tt.isMerge))
		})
	}
}

func TestDiscoverRepositories(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"alpha", "beta"} {
		_, err := gogit.PlainInit(filepath.Join(root, name), false)
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-repo"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("hello"), 0o644))

	repos, err := DiscoverRepositories(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "beta"),
	}, repos)
}

func TestDiscoverRepositoriesMissingRoot(t *testing.T) {
	_, err := DiscoverRepositories(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"single line with newline", "a\n", 1},
		{"single line without newline", "a", 1},
		{"multiple lines", "a\nb\nc\n", 3},
		{"trailing partial line", "a\nb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countLines(tt.input))
		})
	}
}
