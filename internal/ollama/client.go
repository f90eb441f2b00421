// Package ollama augments heuristic quality scores with a local model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
)

const (
	probeTimeout  = 10 * time.Second
	minDiffLength = 10
)

// Compile-time check for interface adherence.
var _ contract.Augmenter = (*Client)(nil)

// Client calls an Ollama-compatible endpoint over HTTP.
type Client struct {
	host  string
	model string

	client *http.Client
	probe  *http.Client

	once      sync.Once
	available bool
}

// generateRequest is the body of a single completion call.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

// generateResponse carries the model's raw text back.
type generateResponse struct {
	Response string `json:"response"`
}

// New creates a client for the given endpoint. The timeout bounds one
// generate call; the availability probe uses its own short timeout.
func New(host, model string, timeout time.Duration) *Client {
	return &Client{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
		probe:  &http.Client{Timeout: probeTimeout},
	}
}

// Available reports whether the endpoint answers its liveness check.
// The result is probed once and cached for the lifetime of the client.
func (c *Client) Available(ctx context.Context) bool {
	c.once.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/liveness", nil)
		if err != nil {
			return
		}
		resp, err := c.probe.Do(req)
		if err != nil {
			contract.LogWarn("model endpoint not reachable", err)
			return
		}
		defer func() { _ = resp.Body.Close() }()
		c.available = resp.StatusCode == http.StatusOK
	})
	return c.available
}

// Status describes the endpoint for status output.
func (c *Client) Status(ctx context.Context) schema.LLMStatus {
	return schema.LLMStatus{
		Available: c.Available(ctx),
		Host:      c.host,
		Model:     c.model,
	}
}

// Augment scores one commit with the model. It returns the neutral defaults
// and false when the diff is too small to judge, the endpoint is down, or
// the response cannot be used; heuristic scores stay authoritative then.
func (c *Client) Augment(ctx context.Context, commit schema.CommitRecord) (schema.QualityScores, bool) {
	scores := schema.DefaultQualityScores()
	scores.SHA = commit.SHA

	if len(commit.DiffExcerpt) < minDiffLength {
		return scores, false
	}
	if !c.Available(ctx) {
		return scores, false
	}

	response, err := c.generate(ctx, userPrompt(commit.Message, commit.DiffExcerpt), systemPrompt)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("model call failed for %s", commit.SHA), err)
		return scores, false
	}

	parsed, err := parseScores(response)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("unusable model response for %s", commit.SHA), err)
		return scores, false
	}
	parsed.SHA = commit.SHA
	parsed.ByLLM = true
	return parsed, true
}

// generate posts one completion request and returns the raw response text.
func (c *Client) generate(ctx context.Context, prompt, system string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate error (status %d): %s", resp.StatusCode, errBody)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return decoded.Response, nil
}

// parseScores extracts the JSON object from a model response, which often
// arrives wrapped in prose, and normalizes every score. Missing or
// non-numeric fields fall back to their neutral defaults.
func parseScores(response string) (schema.QualityScores, error) {
	scores := schema.DefaultQualityScores()

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return scores, fmt.Errorf("no JSON object in response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return scores, fmt.Errorf("parsing response JSON: %w", err)
	}

	for _, key := range schema.SubScoreKeys {
		scores.SetSub(key, numericScore(raw[string(key)+"_score"], schema.NeutralScore))
	}
	scores.Overall = numericScore(raw["overall_score"], schema.NeutralScore)
	if summary, ok := raw["summary"].(string); ok {
		scores.Summary = summary
	}
	return scores, nil
}

// numericScore coerces a decoded JSON value into a whole 0-100 score,
// truncating decimals and falling back to def for anything non-numeric.
func numericScore(value any, def float64) float64 {
	switch v := value.(type) {
	case float64:
		return clampScore(math.Trunc(v))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return clampScore(float64(n))
		}
	}
	return def
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
