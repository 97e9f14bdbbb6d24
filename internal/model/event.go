// File: internal/model/event.go
package model

// Event is any node of a fault tree: a gate or a primary (leaf) event.
// Identity is by ID; OrigID preserves the identifier as the user wrote it,
// for display in reports and warnings.
type Event interface {
	ID() string
	OrigID() string
}

// PrimaryEvent marks the leaf variants of the event model. Report rendering
// discriminates the concrete types (*BasicEvent, *HouseEvent, *CCFEvent)
// with a type switch.
type PrimaryEvent interface {
	Event
	primaryEvent()
}

// BasicEvent is an ordinary leaf with an opaque probability description.
// The description is carried through for display only; this package never
// interprets it.
type BasicEvent struct {
	id     string
	origID string
	expr   string
}

// NewBasicEvent creates a basic event. origID may be empty, in which case
// the event displays under its canonical identifier.
func NewBasicEvent(id, origID string) *BasicEvent {
	return &BasicEvent{id: id, origID: origID}
}

// NewBasicEventWithExpr creates a basic event carrying an opaque
// probability expression string.
func NewBasicEventWithExpr(id, origID, expr string) *BasicEvent {
	return &BasicEvent{id: id, origID: origID, expr: expr}
}

func (e *BasicEvent) ID() string { return e.id }

func (e *BasicEvent) OrigID() string {
	if e.origID == "" {
		return e.id
	}
	return e.origID
}

// Expr returns the opaque probability description, possibly empty.
func (e *BasicEvent) Expr() string { return e.expr }

func (e *BasicEvent) primaryEvent() {}

// HouseEvent is a basic event pinned to a constant boolean state.
type HouseEvent struct {
	BasicEvent
	state bool
}

// NewHouseEvent creates a house event fixed to the given state.
func NewHouseEvent(id, origID string, state bool) *HouseEvent {
	return &HouseEvent{BasicEvent: BasicEvent{id: id, origID: origID}, state: state}
}

// State reports the constant truth value of the house event.
func (e *HouseEvent) State() bool { return e.state }

// CCFEvent is a synthetic basic event standing in for the simultaneous
// failure of members of a common-cause group. It behaves as a basic event
// everywhere except report rendering, which expands the group metadata.
type CCFEvent struct {
	BasicEvent
	groupName string
	members   []string
	groupSize int
}

// NewCCFEvent creates a common-cause event for the named group. members is
// the ordered list of member identifiers this synthetic event represents;
// groupSize is the total size of the owning group.
func NewCCFEvent(id string, groupName string, members []string, groupSize int) *CCFEvent {
	return &CCFEvent{
		BasicEvent: BasicEvent{id: id},
		groupName:  groupName,
		members:    members,
		groupSize:  groupSize,
	}
}

// GroupName returns the owning common-cause group's name.
func (e *CCFEvent) GroupName() string { return e.groupName }

// Members returns the ordered member identifiers represented by this event.
// The returned slice must not be modified.
func (e *CCFEvent) Members() []string { return e.members }

// GroupSize returns the total size of the owning group, which may exceed
// the number of represented members.
func (e *CCFEvent) GroupSize() int { return e.groupSize }

// Gate is an internal node combining child events through a logical
// operator. The operator is opaque to model registration and reporting;
// it is carried for the external analysis engines.
type Gate struct {
	id       string
	op       string
	children map[string]Event
	order    []string
}

// NewGate creates an empty gate with the given identifier and operator.
func NewGate(id, op string) *Gate {
	return &Gate{id: id, op: op, children: make(map[string]Event)}
}

func (g *Gate) ID() string     { return g.id }
func (g *Gate) OrigID() string { return g.id }

// Op returns the gate's logical operator (e.g. "and", "or").
func (g *Gate) Op() string { return g.op }

// AddChild registers a child under its identifier. Children may be gates or
// primary events and may be shared with other gates; the gate holds a
// reference, not exclusive ownership. Re-adding an identifier replaces the
// reference without disturbing child order.
func (g *Gate) AddChild(e Event) {
	if _, ok := g.children[e.ID()]; !ok {
		g.order = append(g.order, e.ID())
	}
	g.children[e.ID()] = e
}

// ChildIDs returns child identifiers in insertion order.
func (g *Gate) ChildIDs() []string { return g.order }

// Child returns the child registered under id, or nil.
func (g *Gate) Child(id string) Event { return g.children[id] }

// NumChildren returns the number of distinct children.
func (g *Gate) NumChildren() int { return len(g.children) }
