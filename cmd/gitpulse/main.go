// Command gitpulse analyzes Git history to score contributors and repositories.
package main

import (
	"fmt"
	"os"

	"github.com/nikolareljin/git-pulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
