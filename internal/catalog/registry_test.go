package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentPath(t *testing.T) {
	p, ok := ParentPath("indices.sov/dev/EUR")
	require.True(t, ok)
	assert.Equal(t, "indices.sov/dev", p)

	p, ok = ParentPath("indices.sov.dev.EUR")
	require.True(t, ok)
	assert.Equal(t, "indices.sov.dev", p)

	_, ok = ParentPath("indices")
	assert.False(t, ok)
}

func TestRegistry_AtomicReplaceRejectsDuplicatePaths(t *testing.T) {
	r := NewRegistry()
	err := r.AtomicReplace([]*Node{
		{Path: "indices.sov", Status: StatusActive},
		{Path: "indices.sov", Status: StatusActive},
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegistry_AtomicReplaceAndLookup(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{
		{Path: "indices.sov", Status: StatusActive},
		{Path: "indices.sov/dev", Status: StatusActive},
	})

	n, ok := r.Lookup("indices.sov/dev")
	require.True(t, ok)
	assert.False(t, n.Virtual)

	kids := r.Children("indices.sov")
	assert.Equal(t, []string{"indices.sov/dev"}, kids)
}

func TestRegistry_LookupSynthesizesVirtualNode(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{
		{Path: "indices.sov/dev/EUR", Status: StatusActive},
	})

	n, ok := r.Lookup("indices.sov/dev")
	require.True(t, ok)
	assert.True(t, n.Virtual)

	// A path with no registered ancestor or descendant still synthesizes a
	// virtual node: lookup never reports a bare miss.
	n, ok = r.Lookup("unrelated.branch")
	require.True(t, ok)
	assert.True(t, n.Virtual)
	assert.Equal(t, "unrelated.branch", n.Path)
}

func TestRegistry_AncestorChain(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{
		{Path: "indices.sov", Status: StatusActive},
		{Path: "indices.sov/dev", Status: StatusActive},
		{Path: "indices.sov/dev/EUR", Status: StatusActive},
	})

	chain := r.AncestorChain("indices.sov/dev/EUR")
	require.Len(t, chain, 3)
	assert.Equal(t, "indices.sov", chain[0].Path)
	assert.Equal(t, "indices.sov/dev/EUR", chain[2].Path)
}

func TestRegistry_FindBindingWalksToNearestAncestor(t *testing.T) {
	r := NewRegistry()
	binding := &SourceBinding{SourceType: SourceSnowflake}
	r.AtomicReplace([]*Node{
		{Path: "indices.sov", Status: StatusActive, Binding: binding},
		{Path: "indices.sov/dev", Status: StatusActive},
	})

	n, b, ok := r.FindBinding("indices.sov/dev/EUR")
	require.True(t, ok)
	assert.Equal(t, "indices.sov", n.Path)
	assert.Same(t, binding, b)
}

func TestRegistry_FindBindingSkipsUnservableNode(t *testing.T) {
	r := NewRegistry()
	binding := &SourceBinding{SourceType: SourceSnowflake}
	r.AtomicReplace([]*Node{
		{Path: "indices.sov", Status: StatusActive, Binding: binding},
		{Path: "indices.sov/dev", Status: StatusArchived, Binding: &SourceBinding{SourceType: SourceStatic}},
	})

	n, b, ok := r.FindBinding("indices.sov/dev")
	require.True(t, ok)
	assert.Equal(t, "indices.sov", n.Path)
	assert.Same(t, binding, b)
}

func TestRegistry_UpsertAddsToParentChildren(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{{Path: "indices.sov", Status: StatusActive}})
	r.Upsert(&Node{Path: "indices.sov/new", Status: StatusActive})

	kids := r.Children("indices.sov")
	assert.Contains(t, kids, "indices.sov/new")
}

func TestRegistry_SearchMatchesTagsAndDisplayName(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{
		{Path: "indices.sov", Status: StatusActive, DisplayName: "Sovereign Indices", Tags: []string{"macro"}},
		{Path: "prices.eq", Status: StatusActive, DisplayName: "Equity Prices"},
	})

	results := r.Search("macro", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "indices.sov", results[0].Path)
}

func TestRegistry_ListPagination(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{
		{Path: "a", Status: StatusActive},
		{Path: "b", Status: StatusActive},
		{Path: "c", Status: StatusActive},
	})

	page, total := r.List("", 1, 1)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"b"}, page)
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry()
	r.AtomicReplace([]*Node{
		{Path: "a", Status: StatusActive, Binding: &SourceBinding{}},
		{Path: "b", Status: StatusDeprecated},
	})

	stats := r.Stats()
	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 1, stats.NodesWithBinding)
	assert.Equal(t, 1, stats.NodesByStatus["active"])
}
