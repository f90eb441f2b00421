package cmd

import (
	"fmt"
	"sort"

	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/spf13/cobra"
)

// identityCmd groups contributor identity management subcommands.
var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Merge and unmerge contributor identities",
	Long: `Manage the alias mapping between contributor email addresses.

Contributors often commit under several addresses (work, personal, CI).
Merging folds those aliases into one primary identity so leaderboards and
scores credit a single person. Merges are reversible with unmerge.

Subcommands:
  merge   - Fold alias identities into a primary identity
  unmerge - Make identities independent again
  list    - Show the current alias mapping

Examples:
  # Credit both addresses to the work identity
  gitpulse identity merge alice@corp.com alice@gmail.com

  # Undo a merge
  gitpulse identity unmerge alice@gmail.com`,
}

// identityMergeCmd folds alias identities into a primary identity.
var identityMergeCmd = &cobra.Command{
	Use:   "merge <primary> <alias>...",
	Short: "Fold alias identities into a primary identity",
	Long: `Point one or more alias emails at a primary identity.

Each alias brings its whole existing group along, so merging a contributor
who already has aliases moves everyone in one step. All emails must be known
to the store from a previous analysis.

Examples:
  # One alias
  gitpulse identity merge alice@corp.com alice@gmail.com

  # Several aliases at once
  gitpulse identity merge alice@corp.com alice@gmail.com a.smith@old-corp.com`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		resolver := core.NewIdentityResolver(analysisStore)
		merged, err := resolver.Merge(args[0], args[1:])
		if err != nil {
			contract.LogFatal("Cannot merge identities", err)
		}
		fmt.Printf("Merged %d identities into %s.\n", merged, args[0])
	},
}

// identityUnmergeCmd makes identities independent again.
var identityUnmergeCmd = &cobra.Command{
	Use:   "unmerge <email>...",
	Short: "Make merged identities independent again",
	Long: `Remove merge edges for the given emails.

An alias loses just its own edge. A primary identity dissolves its whole
group, releasing every alias that pointed at it.

Examples:
  # Release one alias
  gitpulse identity unmerge alice@gmail.com

  # Dissolve a whole group by naming its primary
  gitpulse identity unmerge alice@corp.com`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		resolver := core.NewIdentityResolver(analysisStore)
		removed, err := resolver.Unmerge(args)
		if err != nil {
			contract.LogFatal("Cannot unmerge identities", err)
		}
		fmt.Printf("Unmerged %d identities.\n", removed)
	},
}

// identityListCmd shows the current alias mapping.
var identityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current alias mapping",
	Long: `Print every alias with the primary identity it resolves to.

Examples:
  # Inspect the mapping before unmerging
  gitpulse identity list`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		resolver := core.NewIdentityResolver(analysisStore)
		edges, err := resolver.Edges()
		if err != nil {
			contract.LogFatal("Cannot list identities", err)
		}
		if len(edges) == 0 {
			fmt.Println("No merged identities.")
			return
		}

		aliases := make([]string, 0, len(edges))
		for alias := range edges {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		for _, alias := range aliases {
			primary, err := resolver.ResolvePrimary(alias)
			if err != nil {
				contract.LogFatal("Cannot resolve identity", err)
			}
			fmt.Printf("%s -> %s\n", alias, primary)
		}
		fmt.Printf("%d merged identities.\n", len(aliases))
	},
}
