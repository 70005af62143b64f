package statechart

import "strings"

// Definition is the frozen topology produced by a Builder. It holds no run state
// and can back any number of chart instances.
type Definition struct {
	name   string
	states []*node
	index  map[string]StateID
}

// Name returns the chart name
func (d *Definition) Name() string {
	return d.name
}

// Len returns the number of states, pseudostates and the root included
func (d *Definition) Len() int {
	return len(d.states)
}

// Has reports whether id refers to a state of this definition
func (d *Definition) Has(id StateID) bool {
	return id >= 0 && int(id) < len(d.states)
}

// StateName returns the name of a state. Pseudostates are named "<kind>_<context>".
func (d *Definition) StateName(id StateID) string {
	if !d.Has(id) {
		return ""
	}
	return d.states[id].name
}

// StateKind returns the kind of a state
func (d *Definition) StateKind(id StateID) Kind {
	return d.states[id].kind
}

// Parent returns the containing context, NoState for the root
func (d *Definition) Parent(id StateID) StateID {
	return d.states[id].parent
}

// Children returns the direct children of a context in construction order
func (d *Definition) Children(id StateID) []StateID {
	return append([]StateID(nil), d.states[id].children...)
}

// Regions returns the regions of a concurrent state in registration order
func (d *Definition) Regions(id StateID) []StateID {
	return append([]StateID(nil), d.states[id].regions...)
}

// StartOf returns the start pseudostate of a context, NoState if it has none
func (d *Definition) StartOf(id StateID) StateID {
	return d.states[id].start
}

// HistoryOf returns the history pseudostate of a hierarchical state, NoState if it has none
func (d *Definition) HistoryOf(id StateID) StateID {
	return d.states[id].history
}

// Transitions returns the outgoing transitions of a state in dispatch order
func (d *Definition) Transitions(id StateID) []*Transition {
	return append([]*Transition(nil), d.states[id].transitions...)
}

// Lookup finds a state by name. With duplicate names the first one built wins.
func (d *Definition) Lookup(name string) (StateID, bool) {
	id, ok := d.index[name]
	return id, ok
}

// Path returns the dotted chain of names from the outermost state below the root
// down to id, e.g. "Player.Playing.Track".
func (d *Definition) Path(id StateID) string {
	if !d.Has(id) {
		return ""
	}
	if id == RootID {
		return d.name
	}
	chain := ancestry(d.states, id)
	names := make([]string, len(chain))
	for i, s := range chain {
		names[i] = d.states[s].name
	}
	return strings.Join(names, ".")
}

// NewInstance creates a chart instance over this definition. The instance must be
// started before events are dispatched to it.
func (d *Definition) NewInstance(param any, opts ...Option) *Statechart {
	return newStatechart(d, param, opts...)
}
