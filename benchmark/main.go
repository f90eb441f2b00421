// Package main provides a performance benchmarking tool for the GitPulse CLI.
// It measures execution times across different repository sizes and command types,
// treating the first analyze run against a fresh store as cold and averaging the
// rest as warm, generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - gitpulse binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run plus warm averages).
type BenchmarkResult struct {
	Repository string
	Command    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase   string
	Timeout    time.Duration
	Runs       int
	MaxCommits int
	TestRepos  []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:   repoBase,
		Timeout:    5 * time.Minute,
		Runs:       4,
		MaxCommits: 5000,
		TestRepos:  []string{"csv-parser", "fd", "git", "kubernetes"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that gitpulse binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if gitpulse is available
	if _, err := exec.LookPath("gitpulse"); err != nil {
		return fmt.Errorf("gitpulse binary not found in PATH")
	}

	// Check if repositories exist
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d runs each, max %d commits\n",
		len(config.TestRepos), config.Timeout, config.Runs, config.MaxCommits)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)

		repoPath := filepath.Join(config.RepoBase, repo)
		dbPath := filepath.Join(os.TempDir(), fmt.Sprintf("gitpulse_bench_%s.db", repo))
		_ = os.Remove(dbPath)

		// Analyze: first run against a fresh store is cold, the rest are warm
		analyzeArgs := []string{
			"analyze", ".", "--no-llm",
			"--max-commits", fmt.Sprintf("%d", config.MaxCommits),
			"--store-db-connect", dbPath,
		}
		results = append(results, runBenchmarkSuite(config, repo, repoPath, "analyze", analyzeArgs))

		// Query commands run against the store the analyze runs populated
		leaderboardArgs := []string{"leaderboard", repo, "--store-db-connect", dbPath}
		results = append(results, runBenchmarkSuite(config, repo, repoPath, "leaderboard", leaderboardArgs))

		scoresArgs := []string{"scores", "repo", repo, "--store-db-connect", dbPath}
		results = append(results, runBenchmarkSuite(config, repo, repoPath, "scores", scoresArgs))

		_ = os.Remove(dbPath)
	}

	return results
}

// runBenchmarkSuite runs one command repeatedly and splits cold/warm timings
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, command string, args []string) BenchmarkResult {
	fmt.Printf("  Running %s (%d runs)\n", command, config.Runs)

	cold, warmTimes := runBenchmark(config, repoPath, args)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}

	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository: repo,
		Command:    command,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a gitpulse command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, repoPath string, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("gitpulse", args...)
		cmd.Dir = repoPath

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gitpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"repo", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "leaderboard", "Leaderboard:")
	printCommandSummary(results, "scores", "Repository Scores:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: Cold: %s, Warm: %s\n", result.Repository, result.ColdTime, result.WarmTime)
		}
	}
}
