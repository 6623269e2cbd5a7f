package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GanizaniSitara/monikerd/internal/logging"
)

// Registry is the in-memory catalog tree: a flat map of path to node plus a
// parent-to-children index, both replaced atomically on reload so readers
// never observe a half-built tree.
type Registry struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	children map[string][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

// ParentPath returns the parent of path under either "/" or "." separators,
// using whichever separator occurs last in the string. A top-level path
// (no separator) has no parent.
func ParentPath(path string) (string, bool) {
	slashIdx := strings.LastIndex(path, "/")
	dotIdx := strings.LastIndex(path, ".")
	cut := -1
	if slashIdx > cut {
		cut = slashIdx
	}
	if dotIdx > cut {
		cut = dotIdx
	}
	if cut < 0 {
		return "", false
	}
	return path[:cut], true
}

// AtomicReplace rebuilds the node and children indexes from scratch and
// swaps them in under a single write lock, so concurrent readers always see
// either the old snapshot or the new one, never a partial rebuild. It
// rejects the whole snapshot if two nodes share a path, leaving the
// previous snapshot (if any) intact.
func (r *Registry) AtomicReplace(nodes []*Node) error {
	newNodes := make(map[string]*Node, len(nodes))
	newChildren := make(map[string][]string)

	for _, n := range nodes {
		if _, dup := newNodes[n.Path]; dup {
			return fmt.Errorf("%w: duplicate path %q", ErrAlreadyExists, n.Path)
		}
		newNodes[n.Path] = n
	}
	for path := range newNodes {
		parent, ok := ParentPath(path)
		if !ok {
			continue
		}
		newChildren[parent] = append(newChildren[parent], path)
	}
	for parent := range newChildren {
		sort.Strings(newChildren[parent])
	}

	r.mu.Lock()
	r.nodes = newNodes
	r.children = newChildren
	r.mu.Unlock()

	logging.Get(logging.CategoryCatalog).Infow("registry snapshot replaced", "nodes", len(newNodes))
	return nil
}

// Upsert inserts or replaces a single node, rebuilding only the affected
// parent's child list. Used by the administrative status-update endpoint;
// the change is lost on the next AtomicReplace (full reload).
func (r *Registry) Upsert(n *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.nodes[n.Path]
	r.nodes[n.Path] = n
	if existed {
		return
	}
	if parent, ok := ParentPath(n.Path); ok {
		siblings := append(r.children[parent], n.Path)
		sort.Strings(siblings)
		r.children[parent] = siblings
	}
}

// Lookup returns the node registered at path. If no node is registered, a
// synthesized, non-leaf, otherwise-empty virtual node is returned instead so
// describe/list/lineage always have something to walk, unconditionally of
// whether any related path happens to be registered.
func (r *Registry) Lookup(path string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(path)
}

func (r *Registry) lookupLocked(path string) (*Node, bool) {
	if n, ok := r.nodes[path]; ok {
		return n, true
	}
	return &Node{Path: path, Status: StatusActive, Virtual: true}, true
}

// Children returns the direct children of path in sorted order.
func (r *Registry) Children(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kids := r.children[path]
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// AncestorChain returns the chain of registered nodes from the root-most
// registered ancestor down to and including path itself (if registered).
// Unregistered intermediate path segments are skipped rather than
// synthesized, since only real nodes contribute ownership/binding data.
func (r *Registry) AncestorChain(path string) []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pathsDesc []string
	for p, ok := path, true; ok; p, ok = ParentPath(p) {
		pathsDesc = append(pathsDesc, p)
	}

	chain := make([]*Node, 0, len(pathsDesc))
	for i := len(pathsDesc) - 1; i >= 0; i-- {
		if n, ok := r.nodes[pathsDesc[i]]; ok {
			chain = append(chain, n)
		}
	}
	return chain
}

// ResolveOwnership composes the ownership inheritance walk for path.
func (r *Registry) ResolveOwnership(path string) ResolvedOwnership {
	return ResolveOwnership(r.AncestorChain(path))
}

// FindBinding walks from path up to the root and returns the nearest
// ancestor (self included) carrying a servable binding.
func (r *Registry) FindBinding(path string) (*Node, *SourceBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for p, ok := path, true; ok; p, ok = ParentPath(p) {
		n, exists := r.nodes[p]
		if !exists {
			continue
		}
		if n.Binding != nil && n.Servable() {
			return n, n.Binding, true
		}
	}
	return nil, nil, false
}

// FindPolicy walks from path up to the root and returns the nearest
// ancestor (self included) carrying an access policy.
func (r *Registry) FindPolicy(path string) *AccessPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for p, ok := path, true; ok; p, ok = ParentPath(p) {
		if n, exists := r.nodes[p]; exists && n.Policy != nil {
			return n.Policy
		}
	}
	return nil
}

// Stats summarizes the registry's current snapshot.
type Stats struct {
	TotalNodes      int            `json:"total_nodes"`
	NodesByStatus   map[string]int `json:"nodes_by_status"`
	NodesWithBinding int           `json:"nodes_with_binding"`
}

// Stats returns aggregate counters over the current snapshot.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{NodesByStatus: make(map[string]int)}
	for _, n := range r.nodes {
		s.TotalNodes++
		s.NodesByStatus[string(n.Status)]++
		if n.Binding != nil {
			s.NodesWithBinding++
		}
	}
	return s
}

// SearchResult is one match from Search.
type SearchResult struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Search does a case-insensitive substring match over path, display name,
// description, and tags, returning results sorted by path and capped at
// limit (0 means unlimited).
func (r *Registry) Search(query string, limit int) []SearchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []SearchResult
	for path, n := range r.nodes {
		if matchesSearch(n, path, q) {
			matches = append(matches, SearchResult{Path: path, DisplayName: n.DisplayName, Description: n.Description})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func matchesSearch(n *Node, path, q string) bool {
	if strings.Contains(strings.ToLower(path), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.DisplayName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Description), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// List returns all registered (non-virtual) paths under prefix, sorted,
// paginated by offset/limit. An empty prefix lists everything.
func (r *Registry) List(prefix string, offset, limit int) ([]string, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []string
	for path := range r.nodes {
		if prefix == "" || strings.HasPrefix(path, prefix) {
			all = append(all, path)
		}
	}
	sort.Strings(all)
	total := len(all)

	if offset >= total {
		return nil, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total
}
