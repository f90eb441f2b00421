package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nikolareljin/git-pulse/internal/contract"
)

// ErrIdentityNotFound reports a merge or unmerge that referenced an email
// no analysis has ever seen.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrNoMergeChange reports a merge that would not alter the edge set.
var ErrNoMergeChange = errors.New("identities are already merged")

// IdentityResolver maintains the alias -> primary mapping between
// contributor identities. The edge set is a forest: an alias has at most one
// primary, and resolution walks edges to the canonical root. Edges persist
// in the store; writers serialize through a single lock while reads may run
// concurrently.
type IdentityResolver struct {
	mu    sync.RWMutex
	store contract.AnalysisStore
}

// NewIdentityResolver creates a resolver over the given store.
func NewIdentityResolver(store contract.AnalysisStore) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// Edges returns the current alias -> primary mapping.
func (r *IdentityResolver) Edges() (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.MergeEdges()
}

// ResolvePrimary follows merge edges from email to its canonical root.
func (r *IdentityResolver) ResolvePrimary(email string) (string, error) {
	edges, err := r.Edges()
	if err != nil {
		return "", err
	}
	return resolvePrimary(edges, normalizeEmail(email)), nil
}

// resolvePrimary walks the edge map until it reaches a node without an
// outgoing edge. A visited set guards against corrupted (cyclic) data: on
// the first repeat, traversal stops and the current node is the answer.
func resolvePrimary(edges map[string]string, email string) string {
	current := email
	visited := map[string]struct{}{current: {}}
	for {
		next, ok := edges[current]
		if !ok {
			return current
		}
		if _, seen := visited[next]; seen {
			return current
		}
		visited[next] = struct{}{}
		current = next
	}
}

// Merge folds the groups of the given emails into the primary's group. Each
// email's entire existing group (its root plus every alias of that root) is
// re-pointed at the primary's root, clearing pre-existing edges among the
// affected nodes first so no node ends up with two parents.
//
// It returns the number of identities that changed group, ErrNoMergeChange
// when everything was already merged, and ErrIdentityNotFound when any email
// is unknown to the store.
func (r *IdentityResolver) Merge(primary string, emails []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	edges, err := r.store.MergeEdges()
	if err != nil {
		return 0, err
	}

	known, err := r.knownEmails(edges)
	if err != nil {
		return 0, err
	}

	primary = normalizeEmail(primary)
	if err := checkKnown(known, primary); err != nil {
		return 0, err
	}

	targetRoot := resolvePrimary(edges, primary)

	changed := 0
	for _, email := range emails {
		email = normalizeEmail(email)
		if err := checkKnown(known, email); err != nil {
			return 0, err
		}

		root := resolvePrimary(edges, email)
		if root == targetRoot {
			continue
		}

		// The whole group moves: the root itself plus every identity that
		// currently resolves to it.
		group := []string{root}
		for alias := range edges {
			if alias != root && resolvePrimary(edges, alias) == root {
				group = append(group, alias)
			}
		}

		for _, member := range group {
			delete(edges, member)
			if member != targetRoot {
				edges[member] = targetRoot
				changed++
			}
		}
	}

	if changed == 0 {
		return 0, ErrNoMergeChange
	}

	if err := r.store.ReplaceMergeEdges(edges); err != nil {
		return 0, err
	}
	return changed, nil
}

// Unmerge makes the given emails independent again. An alias loses just its
// own edge; a root dissolves its whole group. Referencing an email with no
// edge in either direction is an error.
func (r *IdentityResolver) Unmerge(emails []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	edges, err := r.store.MergeEdges()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, email := range emails {
		email = normalizeEmail(email)

		if _, isAlias := edges[email]; isAlias {
			delete(edges, email)
			removed++
			continue
		}

		dissolved := 0
		for alias, root := range edges {
			if root == email {
				delete(edges, alias)
				dissolved++
			}
		}
		if dissolved == 0 {
			return removed, fmt.Errorf("unmerge %s: %w", email, ErrIdentityNotFound)
		}
		removed += dissolved
	}

	if removed > 0 {
		if err := r.store.ReplaceMergeEdges(edges); err != nil {
			return 0, err
		}
	}
	return removed, nil
}

// knownEmails collects every identity the store has seen: contributor stats
// rows plus both endpoints of existing merge edges.
func (r *IdentityResolver) knownEmails(edges map[string]string) (map[string]struct{}, error) {
	rows, err := r.store.AllStats()
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(rows)+len(edges))
	for _, row := range rows {
		known[normalizeEmail(row.Email)] = struct{}{}
	}
	for alias, root := range edges {
		known[alias] = struct{}{}
		known[root] = struct{}{}
	}
	return known, nil
}

func checkKnown(known map[string]struct{}, email string) error {
	if _, ok := known[email]; !ok {
		return fmt.Errorf("%s: %w", email, ErrIdentityNotFound)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
