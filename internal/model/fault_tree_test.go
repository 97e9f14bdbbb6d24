// File: internal/model/fault_tree_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Builds the small shared tree used across registry tests:
//
//	top = AND(g1, pump)
//	g1  = OR(valve, pump)
//
// pump is shared between both gates.
func buildSmallTree(t *testing.T) (*FaultTree, *Gate, *Gate) {
	t.Helper()
	pump := NewBasicEvent("pump", "Pump")
	valve := NewBasicEvent("valve", "Valve")

	g1 := NewGate("g1", "or")
	g1.AddChild(valve)
	g1.AddChild(pump)

	top := NewGate("top", "and")
	top.AddChild(g1)
	top.AddChild(pump)

	tree := NewFaultTree("small")
	require.NoError(t, tree.AddGate(top))
	require.NoError(t, tree.AddGate(g1))
	return tree, top, g1
}

func TestAddGate_FirstGateBecomesTop(t *testing.T) {
	tree := NewFaultTree("t")
	top := NewGate("anything", "or")
	require.NoError(t, tree.AddGate(top))
	assert.Same(t, top, tree.Top())

	// Subsequent distinct identifiers land in the intermediate map.
	g2 := NewGate("g2", "and")
	require.NoError(t, tree.AddGate(g2))
	assert.Same(t, g2, tree.Gate("g2"))
	assert.Equal(t, 2, tree.NumGates())
}

func TestAddGate_DuplicateIdentifierFails(t *testing.T) {
	tree := NewFaultTree("t")
	require.NoError(t, tree.AddGate(NewGate("top", "or")))
	require.NoError(t, tree.AddGate(NewGate("g1", "or")))

	var structural *StructuralError

	err := tree.AddGate(NewGate("g1", "and"))
	require.Error(t, err)
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "g1", structural.ID)

	// Reusing the top gate's identifier is just as fatal, even with an
	// identical definition.
	err = tree.AddGate(NewGate("top", "or"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &structural)
}

func TestAddGate_AfterFinalizeFails(t *testing.T) {
	tree, _, _ := buildSmallTree(t)
	require.NoError(t, tree.Finalize())

	err := tree.AddGate(NewGate("fresh", "or"))
	require.Error(t, err)
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Reason, "finalized")
}

func TestFinalize_GathersExactlyTheLeaves(t *testing.T) {
	tree, _, _ := buildSmallTree(t)
	require.NoError(t, tree.Finalize())
	assert.True(t, tree.Finalized())

	events := tree.PrimaryEvents()
	require.Len(t, events, 2)
	assert.NotNil(t, events["pump"])
	assert.NotNil(t, events["valve"])
	// Gate identifiers never end up in the primary map.
	assert.Nil(t, tree.PrimaryEvent("g1"))
	assert.Nil(t, tree.PrimaryEvent("top"))
}

func TestFinalize_UnresolvableLeafIsInvariantViolation(t *testing.T) {
	// dangling is referenced by the top gate but registered nowhere: not
	// an intermediate gate and not a primary event.
	dangling := NewGate("dangling", "or")
	top := NewGate("top", "and")
	top.AddChild(dangling)

	tree := NewFaultTree("broken")
	require.NoError(t, tree.AddGate(top))

	err := tree.Finalize()
	require.Error(t, err)
	var invariant *InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, "dangling", invariant.ID)
	// The latch engages even when gathering fails.
	assert.True(t, tree.Finalized())
}

func TestFinalize_EmptyTreeIsInvariantViolation(t *testing.T) {
	tree := NewFaultTree("empty")
	err := tree.Finalize()
	require.Error(t, err)
	var invariant *InvariantError
	assert.ErrorAs(t, err, &invariant)
}

func TestFaultTree_WarningsAccumulate(t *testing.T) {
	tree := NewFaultTree("t")
	assert.Empty(t, tree.Warnings())
	tree.AddWarning("first. ")
	tree.AddWarning("second.")
	assert.Equal(t, "first. second.", tree.Warnings())
}

func TestGate_SharedChildrenAndOrder(t *testing.T) {
	shared := NewBasicEvent("shared", "")
	g1 := NewGate("g1", "or")
	g2 := NewGate("g2", "and")
	g1.AddChild(shared)
	g2.AddChild(shared)

	assert.Same(t, shared, g1.Child("shared").(*BasicEvent))
	assert.Same(t, shared, g2.Child("shared").(*BasicEvent))

	g1.AddChild(NewBasicEvent("z", ""))
	g1.AddChild(NewBasicEvent("a", ""))
	// Insertion order, not lexical order.
	assert.Equal(t, []string{"shared", "z", "a"}, g1.ChildIDs())

	// Re-adding an identifier neither duplicates nor reorders.
	g1.AddChild(NewBasicEvent("z", "Z display"))
	assert.Equal(t, []string{"shared", "z", "a"}, g1.ChildIDs())
	assert.Equal(t, 3, g1.NumChildren())
	assert.Equal(t, "Z display", g1.Child("z").OrigID())
}

func TestPrimaryEventVariants(t *testing.T) {
	basic := NewBasicEvent("b1", "")
	assert.Equal(t, "b1", basic.OrigID(), "display falls back to the identifier")

	withDisplay := NewBasicEvent("b2", "Pump B2")
	assert.Equal(t, "Pump B2", withDisplay.OrigID())

	house := NewHouseEvent("h1", "", true)
	assert.True(t, house.State())

	ccf := NewCCFEvent("p1.p2", "pumps", []string{"p1", "p2"}, 3)
	assert.Equal(t, "pumps", ccf.GroupName())
	assert.Equal(t, []string{"p1", "p2"}, ccf.Members())
	assert.Equal(t, 3, ccf.GroupSize())

	// All three variants satisfy PrimaryEvent.
	for _, e := range []PrimaryEvent{basic, house, ccf} {
		assert.NotEmpty(t, e.ID())
	}
}
