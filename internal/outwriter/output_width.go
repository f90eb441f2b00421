package outwriter

import (
	"os"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for contributor names
// and emails in table output based on terminal width.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns with borders and padding:
	// Rank + Commits + Lines + PRs + Quality + Impact + Merged.
	baseWidth := 60

	// Name and email split the remaining space.
	available := (termWidth - baseWidth) / 2
	if available < 12 {
		// Minimum reasonable identity width
		return 12
	}
	if available > 40 {
		// Maximum width to prevent sprawling identity columns
		return 40
	}
	return available
}
