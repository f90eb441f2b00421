package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverRepositories returns the git repositories directly under root,
// sorted by path. A directory counts as a repository when it holds a .git
// entry; hidden directories are skipped.
func DiscoverRepositories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories dir %s: %w", root, err)
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidate := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(candidate, ".git")); err != nil {
			continue
		}
		repos = append(repos, candidate)
	}

	sort.Strings(repos)
	return repos, nil
}
