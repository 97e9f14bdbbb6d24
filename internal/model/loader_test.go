// File: internal/model/loader_test.go
package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTrainsModel = `{
  "name": "two-trains",
  "fault-trees": [
    {
      "name": "CoolingFailure",
      "gates": [
        {"id": "top", "type": "and", "children": ["train-a", "train-b"]},
        {"id": "train-a", "type": "or", "children": ["pump-a", "valves"]},
        {"id": "train-b", "type": "or", "children": ["pump-b", "maintenance"]}
      ]
    }
  ],
  "basic-events": [
    {"id": "pump-a", "label": "Pump A fails to run", "expression": "0.013"},
    {"id": "pump-b", "label": "Pump B fails to run", "expression": "0.013"},
    {"id": "spare-pump", "label": "Spare pump unavailable"}
  ],
  "house-events": [
    {"id": "maintenance", "state": false}
  ],
  "ccf-groups": [
    {
      "name": "valves",
      "size": 2,
      "events": [{"id": "valves", "members": ["valve-a", "valve-b"]}]
    }
  ]
}`

func TestLoad_TwoTrains(t *testing.T) {
	m, err := Load(strings.NewReader(twoTrainsModel))
	require.NoError(t, err)

	require.Len(t, m.Trees, 1)
	tree := m.Tree("CoolingFailure")
	require.NotNil(t, tree)
	assert.True(t, tree.Finalized())
	assert.Equal(t, "top", tree.Top().ID())
	assert.Equal(t, "and", tree.Top().Op())
	assert.Equal(t, 3, tree.NumGates())

	// Gathered leaves: both pumps, the CCF composite, and the house event.
	events := tree.PrimaryEvents()
	require.Len(t, events, 4)
	assert.IsType(t, &CCFEvent{}, events["valves"])
	assert.IsType(t, &HouseEvent{}, events["maintenance"])

	// 5 declared primaries, one of them a house event.
	assert.Equal(t, Summary{
		Gates:         3,
		BasicEvents:   4,
		PrimaryEvents: 5,
		CCFGroups:     1,
		FaultTrees:    1,
	}, m.Summary)

	require.Len(t, m.Orphans, 1)
	assert.Equal(t, "spare-pump", m.Orphans[0].ID())
	assert.Equal(t, "Spare pump unavailable", m.Orphans[0].OrigID())
}

func TestLoad_UndefinedChildFails(t *testing.T) {
	const input = `{
      "fault-trees": [
        {"name": "t", "gates": [{"id": "top", "type": "or", "children": ["ghost"]}]}
      ]
    }`
	_, err := Load(strings.NewReader(input))
	require.Error(t, err)
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "ghost", structural.ID)
}

func TestLoad_DuplicatePrimaryEventFails(t *testing.T) {
	const input = `{
      "basic-events": [{"id": "dup"}],
      "house-events": [{"id": "dup", "state": true}]
    }`
	_, err := Load(strings.NewReader(input))
	require.Error(t, err)
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "dup", structural.ID)
}

func TestLoad_DuplicateGateFails(t *testing.T) {
	const input = `{
      "basic-events": [{"id": "b"}],
      "fault-trees": [
        {"name": "t", "gates": [
          {"id": "top", "type": "or", "children": ["b"]},
          {"id": "top", "type": "and", "children": ["b"]}
        ]}
      ]
    }`
	_, err := Load(strings.NewReader(input))
	require.Error(t, err)
	var structural *StructuralError
	assert.ErrorAs(t, err, &structural)
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`{"fault-trees": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
