package statechart

// Runtime is the mutable bookkeeping of one running chart instance: which states are
// active, the current child of every active context and the history records. It is
// indexed by StateID and never shared between instances.
type Runtime struct {
	def     *Definition
	active  []bool
	current []StateID
	history []StateID
	event   *Event
}

func newRuntime(def *Definition) *Runtime {
	rt := &Runtime{
		def:     def,
		active:  make([]bool, def.Len()),
		current: make([]StateID, def.Len()),
		history: make([]StateID, def.Len()),
	}
	rt.reset()
	return rt
}

// IsActive reports whether a state currently has a live runtime record
func (rt *Runtime) IsActive(id StateID) bool {
	return rt.def.Has(id) && rt.active[id]
}

// CurrentChild returns the most recently activated child that is still active
// under id, or NoState
func (rt *Runtime) CurrentChild(id StateID) StateID {
	if !rt.def.Has(id) {
		return NoState
	}
	return rt.current[id]
}

// HistoryOf returns the child recorded for a history pseudostate
func (rt *Runtime) HistoryOf(history StateID) (StateID, bool) {
	if !rt.def.Has(history) || rt.history[history] == NoState {
		return NoState, false
	}
	return rt.history[history], true
}

// Event returns the event being dispatched. It is nil outside of Dispatch, and
// while a fired transition enters its targets: guards of start and history
// default transitions never see the triggering event.
func (rt *Runtime) Event() *Event {
	return rt.event
}

// ActiveStates returns every active state in arena order, the root included
func (rt *Runtime) ActiveStates() []StateID {
	var ids []StateID
	for id, on := range rt.active {
		if on {
			ids = append(ids, StateID(id))
		}
	}
	return ids
}

// activate creates the runtime record of id and makes it the current child of its
// context. The context must already be active.
func (rt *Runtime) activate(id StateID) error {
	parent := rt.def.states[id].parent
	if parent != NoState && !rt.active[parent] {
		return NewInvariantViolation(ErrCodeInactiveState, rt.def.StateName(id),
			"activate record not present for parent "+rt.def.StateName(parent))
	}

	rt.active[id] = true
	rt.current[id] = NoState
	if parent != NoState {
		rt.current[parent] = id
	}
	return nil
}

// deactivate drops the runtime record of id and unlinks it from its context
func (rt *Runtime) deactivate(id StateID) {
	if !rt.active[id] {
		return
	}
	rt.active[id] = false
	rt.current[id] = NoState

	parent := rt.def.states[id].parent
	if parent != NoState && rt.current[parent] == id {
		rt.current[parent] = NoState
	}
}

func (rt *Runtime) storeHistory(history, state StateID) {
	rt.history[history] = state
}

func (rt *Runtime) reset() {
	for i := range rt.active {
		rt.active[i] = false
		rt.current[i] = NoState
		rt.history[i] = NoState
	}
	rt.event = nil
}
