package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/internal/gitrepo"
	"github.com/nikolareljin/git-pulse/schema"
)

// progressCheckpoint is how often run progress is persisted during ingestion.
const progressCheckpoint = 100

// AnalyzeRepository runs the full pipeline for one repository: ingest,
// heuristic scoring, sampled augmentation, contributor aggregation and
// persistence. The run's lifecycle row transitions pending -> running ->
// completed, or failed with the captured cause; data persisted before a
// failure is preserved.
func AnalyzeRepository(ctx context.Context, cfg *contract.Config, source contract.GitSource, augmenter contract.Augmenter, store contract.AnalysisStore) (*schema.AnalysisOutput, error) {
	start := time.Now()

	// --- 1. Open the repository. Failure here is fatal to the run. ---
	summary, err := source.Summary(ctx, cfg.RepoPath)
	if err != nil {
		return nil, err
	}

	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, summary)
	}

	// --- 2. Begin run tracking ---
	runID, err := store.BeginRun(summary.Name)
	if err != nil {
		contract.LogWarn("run tracking initialization failed", err)
	}
	if err := store.MarkRunRunning(runID, start); err != nil {
		contract.LogWarn("run tracking update failed", err)
	}

	output, err := analyzeRepositoryCore(ctx, cfg, source, augmenter, store, summary, runID)
	if err != nil {
		if failErr := store.FailRun(runID, time.Now(), err.Error()); failErr != nil {
			contract.LogWarn("run tracking failure update failed", failErr)
		}
		return nil, err
	}

	// --- 7. Complete run tracking ---
	if err := store.CompleteRun(runID, time.Now(), output.CommitsAnalyzed); err != nil {
		contract.LogWarn("run tracking completion failed", err)
	}

	output.RunID = runID
	output.Duration = time.Since(start)
	return output, nil
}

// analyzeRepositoryCore performs the ingest-score-aggregate-persist steps.
// Split out so AnalyzeRepository can fail the run row on any error.
func analyzeRepositoryCore(ctx context.Context, cfg *contract.Config, source contract.GitSource, augmenter contract.Augmenter, store contract.AnalysisStore, summary schema.RepoSummary, runID int64) (*schema.AnalysisOutput, error) {
	quality := NewQualityAnalyzer(cfg.QualityWeights)

	// --- 3. Ingest every branch with heuristic scoring for every commit ---
	var commits []schema.CommitRecord
	scores := make(map[string]schema.QualityScores)
	opts := schema.StreamOptions{MaxCommits: cfg.MaxCommits, MaxDiffBytes: cfg.MaxDiffBytes}
	err := source.StreamCommits(ctx, cfg.RepoPath, opts, func(commit schema.CommitRecord) bool {
		commits = append(commits, commit)
		scores[commit.SHA] = quality.Score(commit)
		if len(commits)%progressCheckpoint == 0 {
			// Best-effort checkpoint; a failed write never stops ingestion.
			_ = store.UpdateRunProgress(runID, len(commits))
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	// --- 4. Augment the sampled subset ---
	sampled, augmented := augmentSample(ctx, cfg, augmenter, commits, scores)

	// --- 5. Aggregate per-contributor metrics ---
	aggregator := NewContributorAggregator()
	for _, commit := range commits {
		s := scores[commit.SHA]
		aggregator.Process(commit, &s)
	}
	rows := aggregator.StatsRows(summary.Name)

	// --- 6. Persist repository, commits and contributor rollups ---
	repoRecord := schema.RepositoryRecord{
		Name:              summary.Name,
		Path:              summary.Path,
		URL:               summary.URL,
		DefaultBranch:     summary.DefaultBranch,
		TotalCommits:      len(commits),
		TotalContributors: aggregator.Size(),
		TotalBranches:     len(summary.Branches),
	}
	now := time.Now()
	repoRecord.LastAnalyzed = &now
	if err := store.UpsertRepository(repoRecord); err != nil {
		return nil, fmt.Errorf("failed to persist repository %s: %w", summary.Name, err)
	}
	if err := store.SaveCommits(summary.Name, commits, scores); err != nil {
		return nil, fmt.Errorf("failed to persist commits for %s: %w", summary.Name, err)
	}
	if err := store.ReplaceContributorStats(summary.Name, rows); err != nil {
		return nil, fmt.Errorf("failed to persist contributor stats for %s: %w", summary.Name, err)
	}

	return &schema.AnalysisOutput{
		Repository:      summary,
		CommitsAnalyzed: len(commits),
		CommitsSampled:  sampled,
		Augmented:       augmented,
		Contributors:    rows,
	}, nil
}

// augmentSample runs the model over the sampled subset of commits, blending
// successful results into the heuristic scores in place. Calls are strictly
// sequential with a throttle delay between them. Returns how many commits
// were sampled and how many the model actually scored.
func augmentSample(ctx context.Context, cfg *contract.Config, augmenter contract.Augmenter, commits []schema.CommitRecord, scores map[string]schema.QualityScores) (sampled, augmented int) {
	if !cfg.UseLLM || !augmenter.Available(ctx) {
		return 0, 0
	}

	selected := SelectForAugmentation(commits, cfg.SampleSize, cfg.SampleRand)
	first := true
	for _, commit := range commits {
		if _, ok := selected[commit.SHA]; !ok {
			continue
		}
		sampled++

		if !first {
			select {
			case <-ctx.Done():
				return sampled, augmented
			case <-time.After(AugmentThrottle):
			}
		}
		first = false

		llmScores, ok := augmenter.Augment(ctx, commit)
		if !ok {
			continue
		}
		scores[commit.SHA] = BlendScores(scores[commit.SHA], llmScores)
		augmented++
	}
	return sampled, augmented
}

// AnalyzeAll discovers repositories under the configured directory and
// analyzes them sequentially. A repository that fails is logged and skipped;
// the remaining repositories still run.
func AnalyzeAll(ctx context.Context, cfg *contract.Config, source contract.GitSource, augmenter contract.Augmenter, store contract.AnalysisStore) ([]*schema.AnalysisOutput, error) {
	paths, err := gitrepo.DiscoverRepositories(cfg.ReposDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no git repositories found under %s", cfg.ReposDir)
	}

	var outputs []*schema.AnalysisOutput
	for _, path := range paths {
		repoCfg := cfg.Clone()
		repoCfg.RepoPath = path

		output, err := AnalyzeRepository(ctx, repoCfg, source, augmenter, store)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("skipping repository %s", filepath.Base(path)), err)
			continue
		}
		outputs = append(outputs, output)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("all %d repositories failed to analyze", len(paths))
	}
	return outputs, nil
}

// DiscoverRepositories scans the configured directory and registers a
// summary row for every repository found, without analyzing any history.
func DiscoverRepositories(ctx context.Context, cfg *contract.Config, source contract.GitSource, store contract.AnalysisStore) ([]schema.RepoSummary, error) {
	paths, err := gitrepo.DiscoverRepositories(cfg.ReposDir)
	if err != nil {
		return nil, err
	}

	var summaries []schema.RepoSummary
	for _, path := range paths {
		summary, err := source.Summary(ctx, path)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("skipping %s", filepath.Base(path)), err)
			continue
		}
		record := schema.RepositoryRecord{
			Name:          summary.Name,
			Path:          summary.Path,
			URL:           summary.URL,
			DefaultBranch: summary.DefaultBranch,
			TotalBranches: len(summary.Branches),
		}
		if err := store.UpsertRepository(record); err != nil {
			return nil, fmt.Errorf("failed to register repository %s: %w", summary.Name, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetLeaderboard builds the contributor leaderboard from stored rollups,
// grouped by resolved canonical identity. An empty repository name spans
// every analyzed repository.
func GetLeaderboard(store contract.AnalysisStore, resolver *IdentityResolver, repository string, limit int) ([]schema.LeaderboardEntry, error) {
	var rows []schema.ContributorStatsRow
	var err error
	if repository == "" {
		rows, err = store.AllStats()
	} else {
		rows, err = store.StatsForRepository(repository)
	}
	if err != nil {
		return nil, err
	}

	edges, err := resolver.Edges()
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(rows, edges, limit), nil
}

// GetRepositoryScore recomputes the score card for one stored repository.
func GetRepositoryScore(store contract.AnalysisStore, name string, now time.Time) (schema.RepositoryScore, error) {
	repo, err := store.RepositoryByName(name)
	if err != nil {
		return schema.RepositoryScore{}, err
	}
	facts, err := store.CommitFacts(name)
	if err != nil {
		return schema.RepositoryScore{}, err
	}
	stats, err := store.StatsForRepository(name)
	if err != nil {
		return schema.RepositoryScore{}, err
	}
	return ComputeRepositoryScore(repo.Name, repo.TotalBranches, facts, stats, now), nil
}

// GetGlobalScore recomputes the portfolio score card across every stored
// repository.
func GetGlobalScore(store contract.AnalysisStore, now time.Time) (schema.GlobalScore, error) {
	repos, err := store.Repositories()
	if err != nil {
		return schema.GlobalScore{}, err
	}

	scores := make([]schema.RepositoryScore, 0, len(repos))
	for _, repo := range repos {
		score, err := GetRepositoryScore(store, repo.Name, now)
		if err != nil {
			return schema.GlobalScore{}, err
		}
		scores = append(scores, score)
	}
	return ComputeGlobalScore(scores), nil
}

// logAnalysisHeader prints the run banner before analysis starts.
func logAnalysisHeader(cfg *contract.Config, summary schema.RepoSummary) {
	fmt.Printf("Analyzing %s (%d branches, default %s)\n", summary.Name, len(summary.Branches), summary.DefaultBranch)
	if cfg.UseLLM {
		fmt.Printf("Model augmentation: %s at %s (sample size %d)\n", cfg.OllamaModel, cfg.OllamaHost, cfg.SampleSize)
	} else {
		fmt.Println("Model augmentation: disabled, heuristics only")
	}
}
