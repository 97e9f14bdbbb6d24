// File: internal/model/loader.go
package model

import (
	"fmt"
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Summary carries the model-size counters reported in the document's
// model-features section. House events are derived downstream as
// PrimaryEvents - BasicEvents.
type Summary struct {
	Gates         int
	BasicEvents   int
	PrimaryEvents int
	CCFGroups     int
	FaultTrees    int
}

// Model is a loaded and finalized collection of fault trees sharing one
// primary-event namespace.
type Model struct {
	Name    string
	Trees   []*FaultTree
	Summary Summary
	// Orphans are declared primary events never referenced by any gate,
	// sorted by identifier. Feeds the report's orphan warning.
	Orphans []PrimaryEvent
}

// Tree returns the loaded tree with the given name, or nil.
func (m *Model) Tree(name string) *FaultTree {
	for _, t := range m.Trees {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// rawModel mirrors the JSON model definition file.
type rawModel struct {
	Name        string         `json:"name"`
	FaultTrees  []rawFaultTree `json:"fault-trees"`
	BasicEvents []rawBasic     `json:"basic-events"`
	HouseEvents []rawHouse     `json:"house-events"`
	CCFGroups   []rawCCFGroup  `json:"ccf-groups"`
}

type rawFaultTree struct {
	Name  string    `json:"name"`
	Gates []rawGate `json:"gates"`
}

type rawGate struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Children []string `json:"children"`
}

type rawBasic struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Expression string `json:"expression"`
}

type rawHouse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	State bool   `json:"state"`
}

type rawCCFGroup struct {
	Name   string        `json:"name"`
	Size   int           `json:"size"`
	Events []rawCCFEvent `json:"events"`
}

type rawCCFEvent struct {
	ID      string   `json:"id"`
	Members []string `json:"members"`
}

// LoadFile reads a JSON model definition from disk. See Load.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	return m, nil
}

// Load decodes a JSON model definition, registers every fault tree's gates
// in declaration order (the first gate is the top event), wires gate
// children to gates or primary events, and finalizes each tree. Primary
// events declared but never referenced are collected as orphans.
func Load(r io.Reader) (*Model, error) {
	var raw rawModel
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode model definition: %w", err)
	}

	m := &Model{Name: raw.Name}
	primary := make(map[string]PrimaryEvent)

	addPrimary := func(e PrimaryEvent) error {
		if _, dup := primary[e.ID()]; dup {
			return &StructuralError{Op: "declare primary event", ID: e.ID(), Reason: "event is doubly defined"}
		}
		primary[e.ID()] = e
		return nil
	}
	for _, b := range raw.BasicEvents {
		if err := addPrimary(NewBasicEventWithExpr(b.ID, b.Label, b.Expression)); err != nil {
			return nil, err
		}
	}
	for _, h := range raw.HouseEvents {
		if err := addPrimary(NewHouseEvent(h.ID, h.Label, h.State)); err != nil {
			return nil, err
		}
	}
	for _, grp := range raw.CCFGroups {
		for _, ev := range grp.Events {
			if err := addPrimary(NewCCFEvent(ev.ID, grp.Name, ev.Members, grp.Size)); err != nil {
				return nil, err
			}
		}
	}

	referenced := make(map[string]bool)
	for _, rt := range raw.FaultTrees {
		tree, err := buildTree(rt, primary, referenced)
		if err != nil {
			return nil, err
		}
		m.Trees = append(m.Trees, tree)
		m.Summary.Gates += tree.NumGates()
	}

	for id, e := range primary {
		if !referenced[id] {
			m.Orphans = append(m.Orphans, e)
		}
	}
	sort.Slice(m.Orphans, func(i, j int) bool { return m.Orphans[i].ID() < m.Orphans[j].ID() })

	m.Summary.PrimaryEvents = len(primary)
	m.Summary.BasicEvents = m.Summary.PrimaryEvents - len(raw.HouseEvents)
	m.Summary.CCFGroups = len(raw.CCFGroups)
	m.Summary.FaultTrees = len(m.Trees)
	return m, nil
}

func buildTree(rt rawFaultTree, primary map[string]PrimaryEvent, referenced map[string]bool) (*FaultTree, error) {
	tree := NewFaultTree(rt.Name)

	gates := make(map[string]*Gate, len(rt.Gates))
	for _, rg := range rt.Gates {
		g := NewGate(rg.ID, rg.Type)
		if err := tree.AddGate(g); err != nil {
			return nil, err
		}
		gates[rg.ID] = g
	}

	// Children resolve against this tree's gates first, then the shared
	// primary-event namespace.
	for _, rg := range rt.Gates {
		g := gates[rg.ID]
		for _, childID := range rg.Children {
			if child, ok := gates[childID]; ok {
				g.AddChild(child)
				continue
			}
			child, ok := primary[childID]
			if !ok {
				return nil, &StructuralError{Op: "resolve gate child", ID: childID, Reason: "event is not defined"}
			}
			g.AddChild(child)
			referenced[childID] = true
		}
	}

	if err := tree.Finalize(); err != nil {
		return nil, err
	}
	return tree, nil
}
