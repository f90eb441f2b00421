package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nikolareljin/git-pulse/internal/contract"
	mcp_internal "github.com/nikolareljin/git-pulse/internal/mcp"
	"github.com/nikolareljin/git-pulse/internal/store"
	"github.com/nikolareljin/git-pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPServerHandlers(t *testing.T) {
	baseCfg := &contract.Config{ResultLimit: contract.DefaultResultLimit}
	mock := store.NewMockStore()
	require.NoError(t, mock.ReplaceContributorStats("api", []schema.ContributorStatsRow{
		{Email: "alice@example.com", Name: "Alice", Repository: "api", Commits: 10, ImpactScore: 70, Rank: 1},
		{Email: "bob@example.com", Name: "Bob", Repository: "api", Commits: 3, ImpactScore: 40, Rank: 2},
	}))

	s := mcp_internal.NewMCPServer(baseCfg, nil, mock)
	ctx := context.Background()

	t.Run("all tools registered", func(t *testing.T) {
		for _, name := range []string{
			"analyze_repository", "contributor_leaderboard", "repository_scores",
			"portfolio_scores", "merge_contributors", "unmerge_contributors", "analysis_status",
		} {
			assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
		}
	})

	t.Run("contributor_leaderboard returns entries", func(t *testing.T) {
		tool := s.GetTool("contributor_leaderboard")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callRequest("contributor_leaderboard", map[string]any{
			"repository": "api",
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "alice@example.com")
	})

	t.Run("analyze_repository missing path", func(t *testing.T) {
		tool := s.GetTool("analyze_repository")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callRequest("analyze_repository", map[string]any{}))
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repo_path is required")
	})

	t.Run("merge then unmerge contributors", func(t *testing.T) {
		merge := s.GetTool("merge_contributors")
		require.NotNil(t, merge)

		res, err := merge.Handler(ctx, callRequest("merge_contributors", map[string]any{
			"primary": "alice@example.com",
			"aliases": "bob@example.com",
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"merged": 1`)

		unmerge := s.GetTool("unmerge_contributors")
		require.NotNil(t, unmerge)

		res, err = unmerge.Handler(ctx, callRequest("unmerge_contributors", map[string]any{
			"emails": "bob@example.com",
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"unmerged": 1`)
	})

	t.Run("merge_contributors unknown email", func(t *testing.T) {
		tool := s.GetTool("merge_contributors")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callRequest("merge_contributors", map[string]any{
			"primary": "alice@example.com",
			"aliases": "ghost@example.com",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "identity not found")
	})

	t.Run("repository_scores missing repository", func(t *testing.T) {
		tool := s.GetTool("repository_scores")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callRequest("repository_scores", map[string]any{
			"name": "unknown-repo",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("portfolio_scores over empty store", func(t *testing.T) {
		tool := s.GetTool("portfolio_scores")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callRequest("portfolio_scores", nil))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"total_repositories": 0`)
	})

	t.Run("analysis_status run history", func(t *testing.T) {
		runID, err := mock.BeginRun("api")
		require.NoError(t, err)

		tool := s.GetTool("analysis_status")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callRequest("analysis_status", map[string]any{
			"run_id": float64(runID),
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, `"pending"`)
	})
}
