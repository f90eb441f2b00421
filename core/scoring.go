package core

import (
	"math"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
)

// Recency windows for activity and health scoring.
const (
	recentWindow   = 30 * 24 * time.Hour
	extendedWindow = 90 * 24 * time.Hour
)

// ComputeRepositoryScore derives the full score card for one repository from
// its stored commit facts and contributor rollups. It is a pure function of
// its inputs: recomputed on every call, never patched incrementally.
func ComputeRepositoryScore(name string, branches int, commits []schema.CommitFacts, stats []schema.ContributorStatsRow, now time.Time) schema.RepositoryScore {
	score := schema.RepositoryScore{
		Name:              name,
		TotalCommits:      len(commits),
		TotalContributors: len(stats),
		TotalBranches:     branches,
	}

	// --- 1. Raw counters from the commit facts ---
	activeEmails := make(map[string]struct{})
	var msgScoreSum float64
	msgScored := 0
	for _, c := range commits {
		score.TotalLinesAdded += c.LinesAdded
		score.TotalLinesRemoved += c.LinesRemoved
		if c.IsPR {
			score.TotalPRs++
		}
		if score.FirstCommit == nil || c.CommittedAt.Before(*score.FirstCommit) {
			t := c.CommittedAt
			score.FirstCommit = &t
		}
		if score.LastCommit == nil || c.CommittedAt.After(*score.LastCommit) {
			t := c.CommittedAt
			score.LastCommit = &t
		}
		age := now.Sub(c.CommittedAt)
		if age <= recentWindow {
			score.CommitsLast30Days++
			if c.AuthorEmail != "" {
				activeEmails[c.AuthorEmail] = struct{}{}
			}
		}
		if age <= extendedWindow {
			score.CommitsLast90Days++
		}
		if c.MessageScore > 0 {
			msgScoreSum += c.MessageScore
			msgScored++
		}
	}
	score.ActiveLast30Days = len(activeEmails)
	if msgScored > 0 {
		score.AvgMessageScore = round2(msgScoreSum / float64(msgScored))
	}

	// --- 2. Average contributor quality ---
	if len(stats) > 0 {
		var qualitySum float64
		for _, row := range stats {
			qualitySum += row.QualityScore
		}
		score.AvgQuality = round2(qualitySum / float64(len(stats)))
	}

	// --- 3. Sub-scores ---
	score.Activity = scoreActivity(score.CommitsLast30Days, score.CommitsLast90Days, score.TotalCommits)
	score.Health = scoreHealth(score.LastCommit, score.TotalBranches, score.TotalPRs, score.TotalCommits, now)
	score.Quality = scoreQuality(score.AvgQuality, score.AvgMessageScore)
	score.Collaboration = scoreCollaboration(score.TotalContributors, score.ActiveLast30Days, score.TotalPRs)

	// --- 4. Weighted overall and grade ---
	score.Overall = round1(schema.WeightActivity*score.Activity +
		schema.WeightHealth*score.Health +
		schema.WeightQuality*score.Quality +
		schema.WeightCollaboration*score.Collaboration)
	score.Grade = schema.GradeForScore(score.Overall)

	return score
}

// scoreActivity rewards recent commit volume with log-scaled credit for the
// total history. Each term has its own cap, the sum caps at 100.
func scoreActivity(commits30, commits90, total int) float64 {
	var score float64
	score += math.Min(40, float64(commits30)*2)
	score += math.Min(30, float64(commits90)*0.5)
	if total > 0 {
		score += math.Min(30, math.Log10(float64(total))*15)
	}
	return round1(math.Min(100, score))
}

// scoreHealth rates how alive the repository is: recency of the last commit,
// branch spread and the share of commits landing through pull requests.
func scoreHealth(lastCommit *time.Time, branches, prs, commits int, now time.Time) float64 {
	score := 50.0

	if lastCommit != nil {
		switch age := now.Sub(*lastCommit); {
		case age <= 7*24*time.Hour:
			score += 25
		case age <= 30*24*time.Hour:
			score += 15
		case age <= 90*24*time.Hour:
			score += 5
		default:
			score -= 15
		}
	}

	if branches > 1 {
		score += math.Min(15, float64(branches)*3)
	}

	if commits > 0 {
		ratio := float64(prs) / float64(commits)
		score += math.Min(10, ratio*100)
	}

	return round1(clampScore(score))
}

// scoreQuality prefers the direct contributor quality average; without one
// it blends the neutral midpoint with the average message score, and with
// neither it stays neutral.
func scoreQuality(avgQuality, avgMessageScore float64) float64 {
	switch {
	case avgQuality > 0:
		return round1(avgQuality)
	case avgMessageScore > 0:
		return round1((schema.NeutralScore + avgMessageScore) / 2)
	default:
		return schema.NeutralScore
	}
}

// scoreCollaboration rates how many people share the work: a contributor
// count tier plus credit for recently active contributors and PR volume.
func scoreCollaboration(contributors, active30, prs int) float64 {
	var score float64
	switch {
	case contributors >= 10:
		score += 40
	case contributors >= 5:
		score += 30
	case contributors >= 2:
		score += 20
	default:
		score += 10
	}
	score += math.Min(30, float64(active30)*10)
	score += math.Min(30, float64(prs)*2)
	return round1(math.Min(100, score))
}

// ComputeGlobalScore aggregates repository score cards into one portfolio
// view. Activity, health and quality are plain averages of the per-repo
// sub-scores; diversity replaces collaboration in the weighting.
func ComputeGlobalScore(repos []schema.RepositoryScore) schema.GlobalScore {
	global := schema.GlobalScore{
		TotalRepositories: len(repos),
		Repositories:      repos,
	}
	if len(repos) == 0 {
		global.Grade = schema.GradeForScore(0)
		return global
	}

	// --- 1. Portfolio counters and sub-score averages ---
	var activitySum, healthSum, qualitySum, avgQualitySum float64
	for _, r := range repos {
		global.TotalCommits += r.TotalCommits
		global.TotalContributors += r.TotalContributors
		global.TotalPRs += r.TotalPRs
		global.TotalLinesAdded += r.TotalLinesAdded
		global.TotalLinesRemoved += r.TotalLinesRemoved
		global.Commits30Days += r.CommitsLast30Days
		if r.CommitsLast30Days > 0 {
			global.ActiveRepos30Days++
		}
		activitySum += r.Activity
		healthSum += r.Health
		qualitySum += r.Quality
		avgQualitySum += r.AvgQuality
	}

	repoCount := float64(len(repos))
	global.AvgCommitsPerRepo = round2(float64(global.TotalCommits) / repoCount)
	global.AvgContributorsPerRepo = round2(float64(global.TotalContributors) / repoCount)
	global.AvgQuality = round2(avgQualitySum / repoCount)

	global.Activity = round1(activitySum / repoCount)
	global.Health = round1(healthSum / repoCount)
	global.Quality = round1(qualitySum / repoCount)

	// --- 2. Diversity: repo count tier + active ratio + contributor spread ---
	global.Diversity = scoreDiversity(len(repos), global.ActiveRepos30Days, global.AvgContributorsPerRepo)

	// --- 3. Weighted overall with diversity in the collaboration slot ---
	global.Overall = round1(schema.WeightActivity*global.Activity +
		schema.WeightHealth*global.Health +
		schema.WeightQuality*global.Quality +
		schema.WeightCollaboration*global.Diversity)
	global.Grade = schema.GradeForScore(global.Overall)

	return global
}

// scoreDiversity rates the spread of the portfolio: how many repositories,
// what share of them saw commits in the last 30 days, and how many people
// each repository attracts on average.
func scoreDiversity(repos, activeRepos int, avgContributors float64) float64 {
	var score float64
	switch {
	case repos >= 10:
		score += 40
	case repos >= 5:
		score += 30
	case repos >= 2:
		score += 20
	default:
		score += 10
	}

	if repos > 0 {
		score += float64(activeRepos) / float64(repos) * 40
	}

	switch {
	case avgContributors >= 5:
		score += 20
	case avgContributors >= 2:
		score += 10
	}

	return round1(math.Min(100, score))
}
