package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestResolveOwnership_ChildOverridesParent(t *testing.T) {
	root := &Node{Path: "indices.sov", Ownership: Ownership{AccountableOwner: strPtr("team-root")}}
	child := &Node{Path: "indices.sov/dev", Ownership: Ownership{AccountableOwner: strPtr("team-dev")}}

	resolved := ResolveOwnership([]*Node{root, child})
	assert.Equal(t, "team-dev", *resolved.AccountableOwner.Value)
	assert.Equal(t, "indices.sov/dev", *resolved.AccountableOwner.Source)
}

func TestResolveOwnership_InheritsUndefinedFieldsFromAncestor(t *testing.T) {
	root := &Node{Path: "indices.sov", Ownership: Ownership{DataSpecialist: strPtr("specialist-1")}}
	child := &Node{Path: "indices.sov/dev", Ownership: Ownership{}}

	resolved := ResolveOwnership([]*Node{root, child})
	assert.Equal(t, "specialist-1", *resolved.DataSpecialist.Value)
	assert.Equal(t, "indices.sov", *resolved.DataSpecialist.Source)
}

func TestResolveOwnership_UndefinedFieldStaysNil(t *testing.T) {
	root := &Node{Path: "indices.sov"}
	resolved := ResolveOwnership([]*Node{root})
	assert.Nil(t, resolved.SupportChannel.Value)
	assert.Nil(t, resolved.SupportChannel.Source)
}

func TestResolvedOwnership_Flat(t *testing.T) {
	root := &Node{Path: "indices.sov", Ownership: Ownership{AccountableOwner: strPtr("team-root")}}
	resolved := ResolveOwnership([]*Node{root})
	flat := resolved.Flat()
	assert.Equal(t, "team-root", flat["accountable_owner"])
	assert.Equal(t, "indices.sov", flat["accountable_owner_source"])
	assert.Nil(t, flat["support_channel"])
}
