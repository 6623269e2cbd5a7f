// Package resolver implements the moniker resolution algorithm: binding
// discovery, deprecation successor chase, access policy evaluation, query
// template rendering, and ownership composition.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GanizaniSitara/monikerd/internal/catalog"
	"github.com/GanizaniSitara/monikerd/internal/logging"
	"github.com/GanizaniSitara/monikerd/internal/moniker"
)

// Caller identifies the party making a resolution request, propagated from
// the HTTP layer's X-User-ID header for logging and future authorization
// hooks; it is not yet enforced against any policy.
type Caller struct {
	UserID string
}

// maxSuccessorHops bounds the deprecation chase; exceeding it aborts the
// chase and returns the original deprecated binding rather than looping
// forever over a cyclic or very long successor chain.
const maxSuccessorHops = 5

// Resolver wraps a catalog registry with the moniker-resolution algorithm.
type Resolver struct {
	registry *catalog.Registry
}

// New returns a Resolver backed by registry.
func New(registry *catalog.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Source is the rendered connection/query descriptor for a resolved node.
type Source struct {
	SourceType catalog.SourceType     `json:"source_type"`
	Connection map[string]interface{} `json:"connection"`
	Query      string                 `json:"query,omitempty"`
	Params     map[string]string      `json:"params,omitempty"`
	Schema     map[string]interface{} `json:"schema,omitempty"`
	ReadOnly   bool                   `json:"read_only"`
}

// ResolveResult is the full output of Resolve.
type ResolveResult struct {
	Moniker        string                    `json:"moniker"`
	Path           string                    `json:"path"`
	Source         Source                    `json:"source"`
	Ownership      map[string]interface{}    `json:"ownership"`
	Node           *catalog.Node             `json:"node"`
	BindingPath    string                    `json:"binding_path"`
	SubPath        string                    `json:"sub_path,omitempty"`
	RedirectedFrom string                    `json:"redirected_from,omitempty"`
	Warning        bool                      `json:"warning,omitempty"`
	EstimatedRows  int64                     `json:"estimated_rows,omitempty"`
}

// DescribeResult is the output of Describe.
type DescribeResult struct {
	Node             *catalog.Node          `json:"node"`
	Ownership        map[string]interface{} `json:"ownership"`
	Moniker          string                 `json:"moniker"`
	Path             string                 `json:"path"`
	HasSourceBinding bool                   `json:"has_source_binding"`
	SourceType       catalog.SourceType     `json:"source_type,omitempty"`
}

// ListResult is the output of List.
type ListResult struct {
	Children  []string               `json:"children"`
	Moniker   string                 `json:"moniker"`
	Path      string                 `json:"path"`
	Ownership map[string]interface{} `json:"ownership"`
}

// LineageResult is the output of Lineage.
type LineageResult struct {
	Path      string          `json:"path"`
	Ancestors []*catalog.Node `json:"ancestors"`
	Ownership map[string]interface{} `json:"ownership"`
}

// Resolve runs the full resolution algorithm for a moniker string. It
// abandons work promptly if ctx is canceled before the result is assembled.
func (r *Resolver) Resolve(ctx context.Context, caller Caller, monikerStr string) (*ResolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := moniker.Parse(monikerStr, true)
	if err != nil {
		return nil, &ResolutionError{Moniker: monikerStr, Reason: err.Error()}
	}
	path := m.Path.String()

	node, binding, ok := r.registry.FindBinding(path)
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	bindingPath := node.Path

	redirectedFrom := ""
	finalPath := path
	finalNode := node
	finalBinding := binding

	if node.Status == catalog.StatusDeprecated && node.Successor != "" {
		chasedNode, chasedBinding, chasedPath, chased := r.chaseSuccessor(node)
		if chased {
			redirectedFrom = path
			finalPath = chasedPath
			finalNode = chasedNode
			finalBinding = chasedBinding
			bindingPath = chasedNode.Path
		}
	}

	policy := r.registry.FindPolicy(bindingPath)
	decision := policy.Validate(m.Path)
	if !decision.Allowed {
		return nil, &AccessDeniedError{Path: finalPath, Message: decision.Message, EstimatedRows: decision.EstimatedRows}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rendered, params := renderQuery(finalBinding, m)
	ownership := r.registry.ResolveOwnership(finalPath)

	var subPath string
	if bindingPath != finalPath {
		subPath = strings.TrimPrefix(finalPath, bindingPath+"/")
	}

	logging.Get(logging.CategoryResolver).Infow("resolved",
		"moniker", monikerStr, "path", finalPath, "binding_path", bindingPath, "caller", caller.UserID)

	return &ResolveResult{
		Moniker: monikerStr,
		Path:    finalPath,
		Source: Source{
			SourceType: finalBinding.SourceType,
			Connection: finalBinding.ConfigWithoutQuery(),
			Query:      rendered,
			Params:     params,
			Schema:     finalBinding.Schema,
			ReadOnly:   finalBinding.ReadOnly,
		},
		Ownership:      ownership.Flat(),
		Node:           finalNode,
		BindingPath:    bindingPath,
		SubPath:        subPath,
		RedirectedFrom: redirectedFrom,
		Warning:        decision.Warning,
		EstimatedRows:  decision.EstimatedRows,
	}, nil
}

// chaseSuccessor follows node.Successor while the current node is
// deprecated, bounded at maxSuccessorHops. It returns the first ancestor
// (by successor chain) with a usable binding discoverable at the new path,
// or ok=false if the bound is exceeded or no binding is ever found.
func (r *Resolver) chaseSuccessor(node *catalog.Node) (*catalog.Node, *catalog.SourceBinding, string, bool) {
	current := node
	for hop := 0; hop < maxSuccessorHops; hop++ {
		if current.Successor == "" {
			return nil, nil, "", false
		}
		nextPath := current.Successor
		nextNode, ok := r.registry.Lookup(nextPath)
		if !ok {
			return nil, nil, "", false
		}
		if nextNode.Status != catalog.StatusDeprecated || nextNode.Successor == "" {
			if n, b, ok := r.registry.FindBinding(nextPath); ok {
				return n, b, nextPath, true
			}
			return nil, nil, "", false
		}
		current = nextNode
	}
	return nil, nil, "", false
}

var segmentPlaceholder = regexp.MustCompile(`\{segments\[(\d+)\]\}`)

// renderQuery substitutes the core placeholders in the binding's "query"
// config value. Dialect-specific placeholders ({segments[N]:date},
// {filter[N]:column}, {lookback_start_sql}, {date_filter:column}) are
// reserved for a downstream renderer and left untouched.
func renderQuery(b *catalog.SourceBinding, m *moniker.Moniker) (string, map[string]string) {
	query, ok := b.Query()
	if !ok {
		return "", m.Params
	}

	query = segmentPlaceholder.ReplaceAllStringFunc(query, func(match string) string {
		sub := segmentPlaceholder.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(m.Path) {
			return match
		}
		return m.Path[idx]
	})

	if m.VersionType == moniker.VersionDate {
		query = strings.ReplaceAll(query, "{version_date}", m.Version)
	}
	isLatest := "false"
	if m.VersionType == moniker.VersionLatest {
		isLatest = "true"
	}
	query = strings.ReplaceAll(query, "{is_latest}", isLatest)

	return query, m.Params
}

// Describe returns node metadata without rendering a query or applying
// access policy; it never walks the successor chain.
func (r *Resolver) Describe(ctx context.Context, caller Caller, path string) (*DescribeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node, ok := r.registry.Lookup(path)
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	ownership := r.registry.ResolveOwnership(path)

	result := &DescribeResult{
		Node:             node,
		Ownership:        ownership.Flat(),
		Moniker:          fmt.Sprintf("moniker://%s", path),
		Path:             path,
		HasSourceBinding: node.Binding != nil,
	}
	if node.Binding != nil {
		result.SourceType = node.Binding.SourceType
	}
	return result, nil
}

// List returns the direct children of path.
func (r *Resolver) List(ctx context.Context, caller Caller, path string) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	children := r.registry.Children(path)
	ownership := r.registry.ResolveOwnership(path)
	return &ListResult{
		Children:  children,
		Moniker:   fmt.Sprintf("moniker://%s", path),
		Path:      path,
		Ownership: ownership.Flat(),
	}, nil
}

// Lineage returns the ancestor chain (root to self) and resolved ownership.
func (r *Resolver) Lineage(ctx context.Context, caller Caller, path string) (*LineageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chain := r.registry.AncestorChain(path)
	ownership := catalog.ResolveOwnership(chain)
	return &LineageResult{
		Path:      path,
		Ancestors: chain,
		Ownership: ownership.Flat(),
	}, nil
}
