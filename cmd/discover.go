package cmd

import (
	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/spf13/cobra"
)

// discoverCmd registers repositories found under the repos directory.
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Register Git repositories found under the repos directory.",
	Long: `Scan the repos directory for Git repositories and register them in the
analysis store without analyzing their history.

Only direct children containing a .git entry are considered; hidden
directories are skipped. Registered repositories show up in listings with
zero counters until an analyze run fills them in.

Examples:
  # Register everything under the default repos directory
  gitpulse discover

  # Scan a custom directory
  gitpulse discover --repos-dir ~/src`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := core.DiscoverRepositories(rootCtx, cfg, gitSource, analysisStore); err != nil {
			contract.LogFatal("Cannot discover repositories", err)
		}

		repos, err := analysisStore.Repositories()
		if err != nil {
			contract.LogFatal("Cannot list repositories", err)
		}
		if err := writer.WriteRepositories(repos, cfg); err != nil {
			contract.LogFatal("Cannot write repositories", err)
		}
	},
}
