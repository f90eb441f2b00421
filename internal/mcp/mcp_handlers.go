package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	source   contract.GitSource
	store    contract.AnalysisStore
	resolver *core.IdentityResolver
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.RepoPath = request.GetString("repo_path", "")
	if cfg.RepoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}

	// Model augmentation is opt-in per call; an MCP client usually wants
	// the fast heuristic pass.
	cfg.UseLLM = request.GetBool("use_llm", false)
	if s := request.GetInt("sample_size", 0); s > 0 {
		cfg.SampleSize = s
	}
	if m := request.GetInt("max_commits", 0); m > 0 {
		cfg.MaxCommits = m
	}

	augmenter := core.NewAugmenter(cfg)
	output, err := core.AnalyzeRepository(core.WithSuppressHeader(ctx), cfg, h.source, augmenter, h.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleContributorLeaderboard(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repository := request.GetString("repository", "")
	limit := request.GetInt("limit", h.baseCfg.ResultLimit)

	entries, err := core.GetLeaderboard(h.store, h.resolver, repository, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaderboard failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRepositoryScores(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	score, err := core.GetRepositoryScore(h.store, name, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("score computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(score, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePortfolioScores(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score, err := core.GetGlobalScore(h.store, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("portfolio computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(score, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleMergeContributors(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	primary := request.GetString("primary", "")
	aliases := splitEmails(request.GetString("aliases", ""))
	if primary == "" || len(aliases) == 0 {
		return mcp.NewToolResultError("primary and aliases are required"), nil
	}

	changed, err := h.resolver.Merge(primary, aliases)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("merge failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"primary": primary,
		"merged":  changed,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleUnmergeContributors(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	emails := splitEmails(request.GetString("emails", ""))
	if len(emails) == 0 {
		return mcp.NewToolResultError("emails is required"), nil
	}

	removed, err := h.resolver.Unmerge(emails)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unmerge failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"unmerged": removed,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalysisStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if runID := request.GetInt("run_id", 0); runID > 0 {
		run, err := h.store.RunByID(int64(runID))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("run lookup failed: %v", err)), nil
		}
		jsonData, _ := json.MarshalIndent(run, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}

	limit := request.GetInt("limit", h.baseCfg.ResultLimit)
	runs, err := h.store.RecentRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run history failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// splitEmails splits a comma-separated email list, dropping empty parts.
func splitEmails(raw string) []string {
	var emails []string
	for part := range strings.SplitSeq(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}
