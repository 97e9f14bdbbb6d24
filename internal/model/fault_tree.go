// File: internal/model/fault_tree.go
package model

// treeState is the registry's lifecycle. The transition is one-way:
// building -> finalized.
type treeState int

const (
	stateBuilding treeState = iota
	stateFinalized
)

// FaultTree aggregates gates under one top event and, after finalization,
// the flat set of primary events those gates reference. Gates and primary
// events are keyed by identifier; parent-to-child edges are references
// into that shared arena, so subtrees and leaves may be claimed by several
// parents without ownership ambiguity.
type FaultTree struct {
	name     string
	top      *Gate
	inter    map[string]*Gate
	primary  map[string]PrimaryEvent
	state    treeState
	warnings string
}

// NewFaultTree creates an empty tree in the building state.
func NewFaultTree(name string) *FaultTree {
	return &FaultTree{
		name:    name,
		inter:   make(map[string]*Gate),
		primary: make(map[string]PrimaryEvent),
	}
}

// Name returns the tree's name.
func (t *FaultTree) Name() string { return t.name }

// AddGate registers a gate. The first gate added becomes the top event
// unconditionally; every later gate lands in the intermediate map. Reusing
// an identifier, including the top gate's, is a StructuralError, as is any
// add after Finalize.
func (t *FaultTree) AddGate(g *Gate) error {
	if t.state == stateFinalized {
		return &StructuralError{Op: "add gate", ID: g.ID(), Reason: "the tree is finalized, no change is allowed"}
	}
	if t.top == nil {
		t.top = g
		return nil
	}
	if _, dup := t.inter[g.ID()]; dup || g.ID() == t.top.ID() {
		return &StructuralError{Op: "add gate", ID: g.ID(), Reason: "gate is doubly defined"}
	}
	t.inter[g.ID()] = g
	return nil
}

// Finalize locks the tree and gathers its primary events: a one-level scan
// over the children of the top gate and of every intermediate gate. Any
// child identifier that is not a registered gate must already be a primary
// event; anything else means the tree is not fully defined and yields an
// InvariantError naming the offender. Cyclic gate graphs are excluded
// upstream; the scan never recurses.
func (t *FaultTree) Finalize() error {
	t.state = stateFinalized

	if t.top == nil {
		return &InvariantError{Op: "finalize tree", ID: t.name}
	}
	if err := t.gatherPrimaryEvents(t.top); err != nil {
		return err
	}
	for _, g := range t.inter {
		if err := t.gatherPrimaryEvents(g); err != nil {
			return err
		}
	}
	return nil
}

func (t *FaultTree) gatherPrimaryEvents(g *Gate) error {
	for _, id := range g.ChildIDs() {
		if _, ok := t.inter[id]; ok {
			continue
		}
		pe, ok := g.Child(id).(PrimaryEvent)
		if !ok {
			return &InvariantError{Op: "gather primary events", ID: id}
		}
		t.primary[id] = pe
	}
	return nil
}

// Finalized reports whether the one-way lock has been engaged.
func (t *FaultTree) Finalized() bool { return t.state == stateFinalized }

// Top returns the top gate, or nil before the first AddGate.
func (t *FaultTree) Top() *Gate { return t.top }

// Gate returns the registered gate with the given identifier, top included,
// or nil.
func (t *FaultTree) Gate(id string) *Gate {
	if t.top != nil && t.top.ID() == id {
		return t.top
	}
	return t.inter[id]
}

// NumGates counts the top gate plus all intermediate gates.
func (t *FaultTree) NumGates() int {
	n := len(t.inter)
	if t.top != nil {
		n++
	}
	return n
}

// PrimaryEvent returns the gathered primary event with the given
// identifier, or nil. Populated only after Finalize.
func (t *FaultTree) PrimaryEvent(id string) PrimaryEvent { return t.primary[id] }

// PrimaryEvents returns the gathered identifier-to-event map. Callers must
// treat it as read-only.
func (t *FaultTree) PrimaryEvents() map[string]PrimaryEvent { return t.primary }

// AddWarning accumulates construction-time warning text on the tree.
func (t *FaultTree) AddWarning(msg string) { t.warnings += msg }

// Warnings returns the accumulated warning text, possibly empty.
func (t *FaultTree) Warnings() string { return t.warnings }
