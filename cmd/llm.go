package cmd

import (
	"fmt"

	"github.com/nikolareljin/git-pulse/internal/ollama"
	"github.com/spf13/cobra"
)

// llmCmd groups model endpoint subcommands.
var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model endpoint used for commit augmentation",
	Long: `Inspect the Ollama endpoint that augments heuristic commit scores.

Subcommands:
  status - Probe the endpoint and report availability

Examples:
  # Check the default endpoint
  gitpulse llm status

  # Check a remote endpoint
  gitpulse llm status --ollama-host http://gpu-box:11434`,
}

// llmStatusCmd probes the model endpoint.
var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the Ollama endpoint and report availability",
	Long: `Probe the configured Ollama endpoint and print its status.

An unavailable endpoint is not an error: analyze runs simply keep their
heuristic scores when the model cannot be reached.

Examples:
  # Probe the configured endpoint
  gitpulse llm status`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := ollama.New(cfg.OllamaHost, cfg.OllamaModel, cfg.OllamaTimeout)
		status := client.Status(rootCtx)

		fmt.Printf("Host:  %s\n", status.Host)
		fmt.Printf("Model: %s\n", status.Model)
		if status.Available {
			fmt.Println("Status: available ✅")
		} else {
			fmt.Println("Status: unreachable ❌")
		}
	},
}
