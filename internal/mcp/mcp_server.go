// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
)

// NewMCPServer initializes and configures the GitPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, source contract.GitSource, store contract.AnalysisStore) *server.MCPServer {
	s := server.NewMCPServer(
		"GitPulse Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		source:   source,
		store:    store,
		resolver: core.NewIdentityResolver(store),
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Analyze the commit history of a git repository and persist contributor quality scores."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository."), mcp.Required()),
		mcp.WithBoolean("use_llm", mcp.Description("Augment heuristic scores with the local model. Defaults to false for MCP calls.")),
		mcp.WithNumber("sample_size", mcp.Description("Number of commits to sample for model augmentation.")),
		mcp.WithNumber("max_commits", mcp.Description("Commit ingestion budget.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: contributor_leaderboard ---
	s.AddTool(mcp.NewTool("contributor_leaderboard",
		mcp.WithDescription("Rank stored contributors by impact score, grouped by merged identity."),
		mcp.WithString("repository", mcp.Description("Repository name. Omit to span every analyzed repository.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleContributorLeaderboard)

	// --- 3. Tool: repository_scores ---
	s.AddTool(mcp.NewTool("repository_scores",
		mcp.WithDescription("Compute the score card (activity, health, quality, collaboration, grade) for one analyzed repository."),
		mcp.WithString("name", mcp.Description("Repository name as stored by a previous analysis."), mcp.Required()),
	), h.handleRepositoryScores)

	// --- 4. Tool: portfolio_scores ---
	s.AddTool(mcp.NewTool("portfolio_scores",
		mcp.WithDescription("Compute the portfolio score card across every analyzed repository."),
	), h.handlePortfolioScores)

	// --- 5. Tool: merge_contributors ---
	s.AddTool(mcp.NewTool("merge_contributors",
		mcp.WithDescription("Merge contributor identities so their contributions count as one person."),
		mcp.WithString("primary", mcp.Description("Canonical email that survives the merge."), mcp.Required()),
		mcp.WithString("aliases", mcp.Description("Comma-separated emails to fold into the primary."), mcp.Required()),
	), h.handleMergeContributors)

	// --- 6. Tool: unmerge_contributors ---
	s.AddTool(mcp.NewTool("unmerge_contributors",
		mcp.WithDescription("Make previously merged contributor identities independent again."),
		mcp.WithString("emails", mcp.Description("Comma-separated emails to unmerge."), mcp.Required()),
	), h.handleUnmergeContributors)

	// --- 7. Tool: analysis_status ---
	s.AddTool(mcp.NewTool("analysis_status",
		mcp.WithDescription("Inspect analysis run history, or one run by ID."),
		mcp.WithNumber("run_id", mcp.Description("Run ID to inspect. Omit for the most recent runs.")),
		mcp.WithNumber("limit", mcp.Description("Number of recent runs to return.")),
	), h.handleAnalysisStatus)

	return s
}

// StartMCPServer starts the GitPulse MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, source contract.GitSource, store contract.AnalysisStore) error {
	s := NewMCPServer(baseCfg, source, store)
	return server.ServeStdio(s)
}
