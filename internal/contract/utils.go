package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // excellentColor marks scores in the A range.
	GoodColor      = color.New(color.FgCyan)              // goodColor marks scores in the B range.
	FairColor      = color.New(color.FgYellow)            // fairColor marks scores in the C range.
	PoorColor      = color.New(color.FgRed, color.Bold)   // poorColor marks scores in the D and F range.
)

// GetColorGrade returns a colored letter grade for console output (table).
func GetColorGrade(grade string) string {
	switch grade {
	case "A+", "A":
		return ExcellentColor.Sprint(grade)
	case "B+", "B":
		return GoodColor.Sprint(grade)
	case "C+", "C":
		return FairColor.Sprint(grade)
	default: // "D" and "F"
		return PoorColor.Sprint(grade)
	}
}

// GetColorScore returns a colored score string for console output (table).
// It reuses the grade palette so tables stay visually consistent.
func GetColorScore(score float64) string {
	text := fmt.Sprintf("%.1f", score)

	switch {
	case score >= 80:
		return ExcellentColor.Sprint(text)
	case score >= 60:
		return GoodColor.Sprint(text)
	case score >= 40:
		return FairColor.Sprint(text)
	default:
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitpulse.db"
	}
	return filepath.Join(homeDir, ".gitpulse.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
// Without this check, small maxWidth values could cause slice bounds errors in the truncation calculation.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
