package statechart

import "fmt"

// Transition is an immutable edge between two states. Its exit and enter sets are
// computed once from the containment tree when the transition is created.
type Transition struct {
	name     string
	source   StateID
	target   StateID
	event    *EventID
	guard    Guard
	action   Action
	exitSet  []StateID
	enterSet []StateID
}

// TransitionOption configures a transition at construction
type TransitionOption func(*Transition)

// OnEvent restricts the transition to events with the given ID
func OnEvent(id EventID) TransitionOption {
	return func(t *Transition) {
		t.event = &id
	}
}

// WithGuard adds a guard condition to the transition
func WithGuard(guard Guard) TransitionOption {
	return func(t *Transition) {
		t.guard = guard
	}
}

// WithAction adds an action run between the exit and enter sequences
func WithAction(action Action) TransitionOption {
	return func(t *Transition) {
		t.action = action
	}
}

// Named overrides the default "<source>-><target>" name used in diagnostics
func Named(name string) TransitionOption {
	return func(t *Transition) {
		t.name = name
	}
}

// Source returns the state the transition leaves
func (t *Transition) Source() StateID {
	return t.source
}

// Target returns the state the transition enters
func (t *Transition) Target() StateID {
	return t.target
}

// Event returns the event filter, if any
func (t *Transition) Event() (EventID, bool) {
	if t.event == nil {
		return "", false
	}
	return *t.event, true
}

// Guarded reports whether the transition carries a guard
func (t *Transition) Guarded() bool {
	return t.guard != nil
}

// HasAction reports whether the transition carries an action
func (t *Transition) HasAction() bool {
	return t.action != nil
}

// ExitSet returns the states deactivated when the transition fires, innermost first
func (t *Transition) ExitSet() []StateID {
	return append([]StateID(nil), t.exitSet...)
}

// EnterSet returns the states activated when the transition fires, outermost first
func (t *Transition) EnterSet() []StateID {
	return append([]StateID(nil), t.enterSet...)
}

// Name returns the transition's diagnostic name
func (t *Transition) Name() string {
	return t.name
}

func (t *Transition) String() string {
	if t.event == nil {
		return t.name
	}
	return fmt.Sprintf("%s on %s", t.name, *t.event)
}

// accepts checks the event filter and the guard
func (t *Transition) accepts(rt *Runtime, ev *Event, param any) bool {
	if t.event != nil && (ev == nil || ev.ID != *t.event) {
		return false
	}
	if t.guard != nil && !t.guard.Check(rt, param) {
		return false
	}
	return true
}

// ancestry returns the chain of states from the outermost context below the root
// down to id itself.
func ancestry(states []*node, id StateID) []StateID {
	var chain []StateID
	for s := id; s != NoState && s != RootID; s = states[s].parent {
		chain = append(chain, s)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// computeChangedStates fills the exit and enter sets. States above the divergence
// point of the two ancestor chains are shared and never touched. A self transition
// diverges at the state itself so it is exited and entered again.
func (t *Transition) computeChangedStates(states []*node) {
	from := ancestry(states, t.source)
	to := ancestry(states, t.target)

	shortest := min(len(from), len(to))
	lca := shortest - 1
	if t.source != t.target {
		lca = 0
		for lca < shortest && from[lca] == to[lca] {
			lca++
		}
	}

	t.exitSet = make([]StateID, 0, len(from)-lca)
	for i := len(from) - 1; i >= lca; i-- {
		t.exitSet = append(t.exitSet, from[i])
	}

	t.enterSet = make([]StateID, 0, len(to)-lca)
	t.enterSet = append(t.enterSet, to[lca:]...)
}
