package core

import (
	"sort"

	"github.com/nikolareljin/git-pulse/schema"
)

// BuildLeaderboard groups contributor stats rows by their resolved canonical
// identity and ranks the groups by impact score. Counters sum across a
// group's rows; quality and impact are commit-count-weighted averages with a
// minimum weight of 1, so a zero-commit alias cannot erase a root's score.
// A non-positive limit returns every entry.
func BuildLeaderboard(rows []schema.ContributorStatsRow, edges map[string]string, limit int) []schema.LeaderboardEntry {
	type group struct {
		entry       schema.LeaderboardEntry
		emails      map[string]struct{}
		qualitySum  float64
		impactSum   float64
		totalWeight float64
	}

	grouped := make(map[string]*group)
	var order []string

	for _, row := range rows {
		root := resolvePrimary(edges, normalizeEmail(row.Email))
		g, ok := grouped[root]
		if !ok {
			g = &group{
				entry:  schema.LeaderboardEntry{Email: root, Name: row.Name},
				emails: make(map[string]struct{}),
			}
			grouped[root] = g
			order = append(order, root)
		}

		// The root's own row names the group.
		if normalizeEmail(row.Email) == root {
			g.entry.Name = row.Name
		}
		g.emails[normalizeEmail(row.Email)] = struct{}{}

		g.entry.Commits += row.Commits
		g.entry.LinesChanged += row.LinesAdded + row.LinesRemoved
		g.entry.PRs += row.PRs

		weight := float64(max(row.Commits, 1))
		g.qualitySum += row.QualityScore * weight
		g.impactSum += row.ImpactScore * weight
		g.totalWeight += weight
	}

	entries := make([]schema.LeaderboardEntry, 0, len(order))
	for _, root := range order {
		g := grouped[root]
		g.entry.QualityScore = round2(g.qualitySum / g.totalWeight)
		g.entry.ImpactScore = round2(g.impactSum / g.totalWeight)
		g.entry.MergedCount = len(g.emails) - 1
		entries = append(entries, g.entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ImpactScore > entries[j].ImpactScore
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
