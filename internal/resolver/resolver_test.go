package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GanizaniSitara/monikerd/internal/catalog"
)

var anon = Caller{UserID: "anonymous"}

func newTestRegistry(nodes ...*catalog.Node) *catalog.Registry {
	r := catalog.NewRegistry()
	_ = r.AtomicReplace(nodes)
	return r
}

func TestResolver_Resolve_Basic(t *testing.T) {
	reg := newTestRegistry(&catalog.Node{
		Path:   "prices.eq",
		Status: catalog.StatusActive,
		Binding: &catalog.SourceBinding{
			SourceType: catalog.SourceSnowflake,
			Config:     map[string]interface{}{"query": "select * from eq where ticker = '{segments[1]}'"},
			ReadOnly:   true,
		},
	})
	res := New(reg)

	out, err := res.Resolve(context.Background(), anon, "moniker://prices.eq/AAPL")
	require.NoError(t, err)
	assert.Equal(t, "select * from eq where ticker = 'AAPL'", out.Source.Query)
	assert.Equal(t, "prices.eq", out.BindingPath)
	assert.Equal(t, "AAPL", out.SubPath)
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	reg := newTestRegistry()
	res := New(reg)
	_, err := res.Resolve(context.Background(), anon, "moniker://nowhere/AAPL")
	require.Error(t, err)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestResolver_Resolve_InheritedBindingSetsSubPath(t *testing.T) {
	reg := newTestRegistry(&catalog.Node{
		Path:   "prices.eq",
		Status: catalog.StatusActive,
		Binding: &catalog.SourceBinding{
			SourceType: catalog.SourceSnowflake,
			Config:     map[string]interface{}{"query": "select 1"},
		},
	})
	res := New(reg)

	out, err := res.Resolve(context.Background(), anon, "moniker://prices.eq/AAPL/details")
	require.NoError(t, err)
	assert.Equal(t, "prices.eq", out.BindingPath)
	assert.Equal(t, "AAPL/details", out.SubPath)
}

func TestResolver_Resolve_SuccessorChase(t *testing.T) {
	reg := newTestRegistry(
		&catalog.Node{
			Path:   "old.feed",
			Status: catalog.StatusDeprecated,
			Successor: "new.feed",
			Binding: &catalog.SourceBinding{
				SourceType: catalog.SourceREST,
				Config:     map[string]interface{}{"query": "GET /old-feed"},
			},
		},
		&catalog.Node{
			Path:   "new.feed",
			Status: catalog.StatusActive,
			Binding: &catalog.SourceBinding{
				SourceType: catalog.SourceREST,
				Config:     map[string]interface{}{"query": "GET /feed"},
			},
		},
	)
	res := New(reg)

	out, err := res.Resolve(context.Background(), anon, "moniker://old.feed")
	require.NoError(t, err)
	assert.Equal(t, "old.feed", out.RedirectedFrom)
	assert.Equal(t, "new.feed", out.Path)
}

func TestResolver_Resolve_SuccessorChaseViaInheritedBinding(t *testing.T) {
	reg := newTestRegistry(
		&catalog.Node{
			Path:      "old.feed",
			Status:    catalog.StatusDeprecated,
			Successor: "new.feed",
			Binding: &catalog.SourceBinding{
				SourceType: catalog.SourceREST,
				Config:     map[string]interface{}{"query": "GET /old-feed"},
			},
		},
		&catalog.Node{
			Path:   "new.feed",
			Status: catalog.StatusActive,
			Binding: &catalog.SourceBinding{
				SourceType: catalog.SourceREST,
				Config:     map[string]interface{}{"query": "GET /feed"},
			},
		},
	)
	res := New(reg)

	out, err := res.Resolve(context.Background(), anon, "moniker://old.feed/sub")
	require.NoError(t, err)
	assert.Equal(t, "old.feed/sub", out.RedirectedFrom)
	assert.Equal(t, "new.feed", out.Path)
}

func TestResolver_Resolve_AccessDenied(t *testing.T) {
	reg := newTestRegistry(&catalog.Node{
		Path:   "restricted.data",
		Status: catalog.StatusActive,
		Binding: &catalog.SourceBinding{
			SourceType: catalog.SourceSnowflake,
			Config:     map[string]interface{}{"query": "select 1"},
		},
		Policy: &catalog.AccessPolicy{MinFilters: 2, DenialMessage: "need more filters"},
	})
	res := New(reg)

	_, err := res.Resolve(context.Background(), anon, "moniker://restricted.data/ALL")
	require.Error(t, err)
	var ade *AccessDeniedError
	require.ErrorAs(t, err, &ade)
	assert.Equal(t, "need more filters", ade.Message)
}

func TestResolver_Resolve_IsLatestPlaceholder(t *testing.T) {
	reg := newTestRegistry(&catalog.Node{
		Path:   "reports.eod",
		Status: catalog.StatusActive,
		Binding: &catalog.SourceBinding{
			SourceType: catalog.SourceSnowflake,
			Config:     map[string]interface{}{"query": "select * where latest = {is_latest}"},
		},
	})
	res := New(reg)

	out, err := res.Resolve(context.Background(), anon, "moniker://reports.eod/positions@latest")
	require.NoError(t, err)
	assert.Contains(t, out.Source.Query, "latest = true")
}

func TestResolver_Describe_NeverAppliesPolicy(t *testing.T) {
	reg := newTestRegistry(&catalog.Node{
		Path:   "restricted.data",
		Status: catalog.StatusActive,
		Policy: &catalog.AccessPolicy{MinFilters: 5},
	})
	res := New(reg)

	out, err := res.Describe(context.Background(), anon, "restricted.data")
	require.NoError(t, err)
	assert.Equal(t, "restricted.data", out.Path)
}

func TestResolver_List(t *testing.T) {
	reg := newTestRegistry(
		&catalog.Node{Path: "indices.sov", Status: catalog.StatusActive},
		&catalog.Node{Path: "indices.sov/dev", Status: catalog.StatusActive},
	)
	res := New(reg)

	out, err := res.List(context.Background(), anon, "indices.sov")
	require.NoError(t, err)
	assert.Equal(t, []string{"indices.sov/dev"}, out.Children)
}

func TestResolver_Lineage(t *testing.T) {
	reg := newTestRegistry(
		&catalog.Node{Path: "indices.sov", Status: catalog.StatusActive},
		&catalog.Node{Path: "indices.sov/dev", Status: catalog.StatusActive},
	)
	res := New(reg)

	out, err := res.Lineage(context.Background(), anon, "indices.sov/dev")
	require.NoError(t, err)
	require.Len(t, out.Ancestors, 2)
}
