package statechart

import "fmt"

// StateID is the stable index of a state inside its Definition.
type StateID int

const (
	// NoState marks the absence of a state
	NoState StateID = -1

	// RootID is the index of the chart root in every Definition
	RootID StateID = 0
)

// Kind enumerates the closed set of state variants
type Kind int

const (
	// KindRoot is the chart itself, the outermost context
	KindRoot Kind = iota
	// KindSimple is a leaf state with no internal structure
	KindSimple
	// KindHierarchical is a composite state with one active child at a time
	KindHierarchical
	// KindConcurrent is a composite state whose regions are all active together
	KindConcurrent
	// KindStart is the pseudostate that selects a context's default child
	KindStart
	// KindEnd is the terminal pseudostate
	KindEnd
	// KindHistory is the pseudostate that restores a context's last active child
	KindHistory
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSimple:
		return "simple"
	case KindHierarchical:
		return "hierarchical"
	case KindConcurrent:
		return "concurrent"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindHistory:
		return "history"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsContext reports whether states of this kind can contain children
func (k Kind) IsContext() bool {
	return k == KindRoot || k == KindHierarchical || k == KindConcurrent
}

// IsPseudostate reports whether this kind is a start, end or history pseudostate
func (k Kind) IsPseudostate() bool {
	return k == KindStart || k == KindEnd || k == KindHistory
}

// Action is executed on state entry, do, exit and on transitions. The parameter is
// the value the chart instance was created with, passed through unchanged.
type Action interface {
	Execute(param any)
}

// ActionFunc adapts a plain function to the Action interface
type ActionFunc func(param any)

// Execute calls f(param)
func (f ActionFunc) Execute(param any) {
	f(param)
}

// Guard decides whether a transition may fire. Guards must not mutate the runtime.
type Guard interface {
	Check(rt *Runtime, param any) bool
}

// GuardFunc adapts a plain function to the Guard interface
type GuardFunc func(rt *Runtime, param any) bool

// Check calls f(rt, param)
func (f GuardFunc) Check(rt *Runtime, param any) bool {
	return f(rt, param)
}

// node is one entry of the static state arena. Cross references are indices.
type node struct {
	id      StateID
	name    string
	kind    Kind
	parent  StateID
	entry   Action
	do      Action
	exit    Action
	start   StateID
	history StateID

	children    []StateID
	regions     []StateID
	transitions []*Transition
}

func newNode(id StateID, name string, kind Kind, parent StateID) *node {
	return &node{
		id:      id,
		name:    name,
		kind:    kind,
		parent:  parent,
		start:   NoState,
		history: NoState,
	}
}

// addTransition keeps guarded transitions ahead of unguarded ones so they are checked first
func (n *node) addTransition(t *Transition) {
	if t.guard != nil {
		n.transitions = append([]*Transition{t}, n.transitions...)
		return
	}
	n.transitions = append(n.transitions, t)
}

// StateOption configures the actions of a state at construction
type StateOption func(*node)

// WithEntry sets the action run when the state is activated
func WithEntry(action Action) StateOption {
	return func(n *node) {
		n.entry = action
	}
}

// WithDo sets the action run right after the entry action
func WithDo(action Action) StateOption {
	return func(n *node) {
		n.do = action
	}
}

// WithExit sets the action run when the state is deactivated
func WithExit(action Action) StateOption {
	return func(n *node) {
		n.exit = action
	}
}
