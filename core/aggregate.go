package core

import (
	"math"
	"sort"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
)

// Impact score factor weights. They trade raw volume against quality and
// steadiness so a flood of trivial commits cannot dominate the leaderboard.
const (
	impactWeightCommits     = 0.25
	impactWeightLines       = 0.20
	impactWeightQuality     = 0.25
	impactWeightConsistency = 0.15
	impactWeightPRs         = 0.15
)

// ContributorMetrics accumulates everything observed for one identity
// during an aggregation pass. Only the aggregator mutates it.
type ContributorMetrics struct {
	Email string // Lower-cased author email, the identity key
	Name  string // Display name from the first commit seen

	Commits      int
	LinesAdded   int
	LinesRemoved int
	FilesChanged int
	PRs          int

	Branches    map[string]struct{} // Branch labels touched
	FirstCommit time.Time
	LastCommit  time.Time

	QualityScores []float64 // Overall quality per scored commit
}

// NetLines returns added minus removed lines.
func (m *ContributorMetrics) NetLines() int {
	return m.LinesAdded - m.LinesRemoved
}

// AverageQuality returns the mean overall quality across scored commits,
// or the neutral midpoint when nothing was scored.
func (m *ContributorMetrics) AverageQuality() float64 {
	if len(m.QualityScores) == 0 {
		return schema.NeutralScore
	}
	var sum float64
	for _, s := range m.QualityScores {
		sum += s
	}
	return sum / float64(len(m.QualityScores))
}

// activeDays returns the span between first and last commit in days.
func (m *ContributorMetrics) activeDays() float64 {
	if m.FirstCommit.IsZero() || m.LastCommit.IsZero() {
		return 0
	}
	return m.LastCommit.Sub(m.FirstCommit).Hours() / 24
}

// CommitFrequency returns commits per week across the active span. A span
// shorter than a day has no meaningful rate, so the raw commit count stands
// in for it.
func (m *ContributorMetrics) CommitFrequency() float64 {
	days := m.activeDays()
	if days < 1 {
		return float64(m.Commits)
	}
	return float64(m.Commits) / (days / 7)
}

// ImpactScore derives a single 0-100 number for the contributor. Commit and
// line counts enter log-scaled so volume saturates; quality enters directly;
// the consistency term combines active span and frequency; PR count is
// scaled and capped.
func (m *ContributorMetrics) ImpactScore() float64 {
	commitScore := math.Min(100, math.Log10(math.Max(1, float64(m.Commits)))*33)
	lineScore := math.Min(100, math.Log10(math.Max(1, float64(m.LinesAdded+m.LinesRemoved)))*20)
	qualityScore := m.AverageQuality()

	var consistency float64
	if !m.FirstCommit.IsZero() && !m.LastCommit.IsZero() {
		consistency = math.Min(100, m.activeDays()/30*10+m.CommitFrequency()*5)
	}

	prScore := math.Min(100, float64(m.PRs)*10)

	impact := impactWeightCommits*commitScore +
		impactWeightLines*lineScore +
		impactWeightQuality*qualityScore +
		impactWeightConsistency*consistency +
		impactWeightPRs*prScore
	return round2(clampScore(impact))
}

// ContributorAggregator folds a scored commit stream into per-identity
// metrics. The identity table is owned by the aggregator instance, one per
// run, so parallel runs never share state.
type ContributorAggregator struct {
	byEmail map[string]*ContributorMetrics
	order   []string // insertion order, the ranking tie-breaker
}

// NewContributorAggregator creates an empty aggregator.
func NewContributorAggregator() *ContributorAggregator {
	return &ContributorAggregator{
		byEmail: make(map[string]*ContributorMetrics),
	}
}

// Process folds one commit into its contributor's metrics, creating the
// identity on first sight. A nil quality means the commit was not scored;
// all counters still accumulate.
func (a *ContributorAggregator) Process(commit schema.CommitRecord, quality *schema.QualityScores) {
	m, ok := a.byEmail[commit.AuthorEmail]
	if !ok {
		m = &ContributorMetrics{
			Email:    commit.AuthorEmail,
			Name:     commit.AuthorName,
			Branches: make(map[string]struct{}),
		}
		a.byEmail[commit.AuthorEmail] = m
		a.order = append(a.order, commit.AuthorEmail)
	}

	m.Commits++
	m.LinesAdded += commit.LinesAdded
	m.LinesRemoved += commit.LinesRemoved
	m.FilesChanged += commit.FilesChanged
	if commit.IsPR {
		m.PRs++
	}
	if commit.Branch != "" {
		m.Branches[commit.Branch] = struct{}{}
	}

	if m.FirstCommit.IsZero() || commit.CommittedAt.Before(m.FirstCommit) {
		m.FirstCommit = commit.CommittedAt
	}
	if commit.CommittedAt.After(m.LastCommit) {
		m.LastCommit = commit.CommittedAt
	}

	if quality != nil {
		m.QualityScores = append(m.QualityScores, quality.Overall)
	}
}

// Size returns the number of distinct identities seen.
func (a *ContributorAggregator) Size() int {
	return len(a.byEmail)
}

// Rankings returns contributors by descending impact score, ties broken by
// insertion order. A non-positive limit returns everyone.
func (a *ContributorAggregator) Rankings(limit int) []*ContributorMetrics {
	ranked := make([]*ContributorMetrics, 0, len(a.order))
	for _, email := range a.order {
		ranked = append(ranked, a.byEmail[email])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ImpactScore() > ranked[j].ImpactScore()
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// StatsRows converts the full ranking into persistence rows for one
// repository, with ranks assigned from 1.
func (a *ContributorAggregator) StatsRows(repository string) []schema.ContributorStatsRow {
	ranked := a.Rankings(0)
	rows := make([]schema.ContributorStatsRow, 0, len(ranked))
	for i, m := range ranked {
		row := schema.ContributorStatsRow{
			Email:           m.Email,
			Name:            m.Name,
			Repository:      repository,
			Commits:         m.Commits,
			LinesAdded:      m.LinesAdded,
			LinesRemoved:    m.LinesRemoved,
			FilesChanged:    m.FilesChanged,
			PRs:             m.PRs,
			BranchesTouched: len(m.Branches),
			QualityScore:    round2(m.AverageQuality()),
			ImpactScore:     m.ImpactScore(),
			CommitFrequency: round2(m.CommitFrequency()),
			Rank:            i + 1,
		}
		if !m.FirstCommit.IsZero() {
			first, last := m.FirstCommit, m.LastCommit
			row.FirstCommit = &first
			row.LastCommit = &last
		}
		rows = append(rows, row)
	}
	return rows
}
