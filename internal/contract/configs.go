package contract

import (
	"fmt"
	"maps"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
)

// Default values for configuration.
const (
	DefaultMaxCommits   = 10000
	DefaultMaxDiffBytes = 10000
	DefaultSampleSize   = 50
	DefaultResultLimit  = 20
	MaxResultLimit      = 1000
	DefaultReposDir     = "./repositories"
	DefaultOllamaHost   = "http://localhost:11434"
	DefaultOllamaModel  = "codellama:7b"
)

// DefaultOllamaTimeout bounds a single model request.
const DefaultOllamaTimeout = 120 * time.Second

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds quality weight overrides from the YAML config file.
// Use float64 pointers so absent fields fall back to defaults.
type WeightsRawInput struct {
	Message       *float64 `mapstructure:"message"`
	Complexity    *float64 `mapstructure:"complexity"`
	Documentation *float64 `mapstructure:"documentation"`
	TestCoverage  *float64 `mapstructure:"test_coverage"`
	Consistency   *float64 `mapstructure:"consistency"`
	BestPractices *float64 `mapstructure:"best_practices"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string
	ReposDir string
	AllRepos bool

	MaxCommits   int
	MaxDiffBytes int
	SampleSize   int

	// SampleRand seeds the random half of augmentation sampling. Nil means
	// a time-seeded source; tests inject a fixed seed to pin membership.
	SampleRand *rand.Rand

	UseLLM        bool
	OllamaHost    string
	OllamaModel   string
	OllamaTimeout time.Duration

	ResultLimit int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// QualityWeights is the final per-factor weight map, computed from
	// defaults + config file overrides
	QualityWeights map[schema.SubScoreKey]float64

	UseColors bool // Enable colored grades in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	ReposDir       string `mapstructure:"repos-dir"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`
	OllamaHost     string `mapstructure:"ollama-host"`
	OllamaModel    string `mapstructure:"ollama-model"`
	OllamaTimeout  string `mapstructure:"ollama-timeout"`

	// --- Fields from analyzeCmd.Flags() ---
	MaxCommits   int  `mapstructure:"max-commits"`
	MaxDiffBytes int  `mapstructure:"max-diff-bytes"`
	SampleSize   int  `mapstructure:"sample-size"`
	NoLLM        bool `mapstructure:"no-llm"`
	All          bool `mapstructure:"all"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.QualityWeights != nil {
		clone.QualityWeights = make(map[schema.SubScoreKey]float64)
		maps.Copy(clone.QualityWeights, c.QualityWeights)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisBudgets(cfg, input); err != nil {
		return err
	}
	if err := processOllamaSettings(cfg, input); err != nil {
		return err
	}
	if err := processQualityWeights(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ReposDir = input.ReposDir
	cfg.OutputFile = input.OutputFile
	cfg.AllRepos = input.All
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- 3. Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	return nil
}

// processAnalysisBudgets validates the ingestion and sampling budgets.
func processAnalysisBudgets(cfg *Config, input *ConfigRawInput) error {
	if input.MaxCommits <= 0 {
		return fmt.Errorf("max-commits must be greater than 0 (received %d)", input.MaxCommits)
	}
	cfg.MaxCommits = input.MaxCommits

	if input.MaxDiffBytes <= 0 {
		return fmt.Errorf("max-diff-bytes must be greater than 0 (received %d)", input.MaxDiffBytes)
	}
	cfg.MaxDiffBytes = input.MaxDiffBytes

	if input.SampleSize <= 0 {
		return fmt.Errorf("sample-size must be greater than 0 (received %d)", input.SampleSize)
	}
	cfg.SampleSize = input.SampleSize

	return nil
}

// processOllamaSettings validates model endpoint settings and the request timeout.
func processOllamaSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.UseLLM = !input.NoLLM

	cfg.OllamaHost = strings.TrimRight(strings.TrimSpace(input.OllamaHost), "/")
	if cfg.OllamaHost == "" {
		return fmt.Errorf("ollama-host cannot be empty")
	}

	cfg.OllamaModel = strings.TrimSpace(input.OllamaModel)
	if cfg.OllamaModel == "" {
		return fmt.Errorf("ollama-model cannot be empty")
	}

	timeout, err := time.ParseDuration(input.OllamaTimeout)
	if err != nil {
		return fmt.Errorf("invalid ollama-timeout '%s': %w", input.OllamaTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("ollama-timeout must be positive (received %s)", timeout)
	}
	cfg.OllamaTimeout = timeout

	return nil
}

// processQualityWeights converts the raw input into the final cfg.QualityWeights map
// and validates that the resulting weights sum up to 1.0.
func processQualityWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultQualityWeights()

	overrides := map[schema.SubScoreKey]*float64{
		schema.SubScoreMessage:       input.Weights.Message,
		schema.SubScoreComplexity:    input.Weights.Complexity,
		schema.SubScoreDocumentation: input.Weights.Documentation,
		schema.SubScoreTestCoverage:  input.Weights.TestCoverage,
		schema.SubScoreConsistency:   input.Weights.Consistency,
		schema.SubScoreBestPractices: input.Weights.BestPractices,
	}
	for key, value := range overrides {
		if value == nil {
			continue
		}
		if *value < 0 {
			return fmt.Errorf("quality weight for %s cannot be negative (received %.3f)", key, *value)
		}
		weights[key] = *value
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("quality weights must sum to 1.0, got %.3f", sum)
	}

	cfg.QualityWeights = weights
	return nil
}

// resolveRepoPath resolves the target repository path for single-repo commands.
func resolveRepoPath(cfg *Config, input *ConfigRawInput) error {
	if input.RepoPathStr == "" {
		cfg.RepoPath = ""
		return nil
	}

	absPath, err := filepath.Abs(input.RepoPathStr)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("repository path %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository path %s is not a directory", absPath)
	}

	cfg.RepoPath = absPath
	return nil
}
