package statechart

import "fmt"

// activate gives id a runtime record and runs its entry and do actions. next is the
// state following id on the enter path of the firing transition, NoState when id
// is the last one. target is set only for the transition's declared target; a
// composite target then descends through its start pseudostate. It reports whether
// a new record was created.
func (sc *Statechart) activate(id, next StateID, target bool) (bool, error) {
	n := sc.def.states[id]

	switch n.kind {
	case KindStart:
		return false, sc.takeStart(id)

	case KindHistory:
		return false, sc.restoreHistory(n)

	case KindHierarchical:
		activated, err := sc.enter(n)
		if err != nil {
			return false, err
		}
		if target {
			if err := sc.takeStart(n.start); err != nil {
				return activated, err
			}
		}
		return activated, nil

	case KindConcurrent:
		activated, err := sc.enter(n)
		if err != nil || !activated {
			return activated, err
		}
		for _, region := range n.regions {
			if _, err := sc.activate(region, NoState, false); err != nil {
				return true, err
			}
			// the enter path continues into this region
			if region == next {
				continue
			}
			if err := sc.takeStart(sc.def.states[region].start); err != nil {
				return true, err
			}
		}
		return true, nil

	default:
		return sc.enter(n)
	}
}

// enter is the activation shared by every persistent kind. It is idempotent.
func (sc *Statechart) enter(n *node) (bool, error) {
	if sc.rt.active[n.id] {
		return false, nil
	}
	if err := sc.rt.activate(n.id); err != nil {
		return false, err
	}
	sc.observers.NotifyStateEnter(sc, n.id)

	sc.run(n.entry)
	sc.run(n.do)
	return true, nil
}

// deactivate tears down id and every active state beneath it, innermost first.
// Inactive states are left alone.
func (sc *Statechart) deactivate(id StateID) {
	if !sc.rt.active[id] {
		return
	}
	n := sc.def.states[id]

	switch n.kind {
	case KindRoot, KindHierarchical:
		if child := sc.rt.current[id]; child != NoState {
			sc.deactivate(child)
		}
	case KindConcurrent:
		for _, region := range n.regions {
			sc.deactivate(region)
		}
	}

	sc.run(n.exit)
	sc.rt.deactivate(id)

	// The context's history follows the last child that left it.
	if n.parent != NoState {
		if h := sc.def.states[n.parent].history; h != NoState {
			sc.rt.storeHistory(h, id)
		}
	}
	sc.observers.NotifyStateExit(sc, id)
}

// dispatch offers ev to id and the active states beneath it. Inner states get the
// first chance; a context only tries its own transitions when nothing inside fired.
func (sc *Statechart) dispatch(id StateID, ev *Event) (bool, error) {
	n := sc.def.states[id]

	switch n.kind {
	case KindEnd:
		return false, NewInvariantViolation(ErrCodeDispatchToEnd, n.name, "cannot dispatch an event to the end state")
	case KindStart, KindHistory:
		return sc.try(n, ev)
	}

	if !sc.rt.active[id] {
		return false, NewInvariantViolation(ErrCodeInactiveState, n.name, "dispatch record not present")
	}

	switch n.kind {
	case KindRoot, KindHierarchical:
		child := sc.rt.current[id]
		if child == NoState {
			if err := sc.takeStart(n.start); err != nil {
				return false, err
			}
			child = sc.rt.current[id]
		}
		if child != NoState && sc.def.states[child].kind != KindEnd {
			handled, err := sc.dispatch(child, ev)
			if err != nil || handled {
				return handled, err
			}
		}
		if n.kind == KindRoot {
			return false, nil
		}
		return sc.try(n, ev)

	case KindConcurrent:
		handled := false
		for _, region := range n.regions {
			// an earlier region may have left this state altogether
			if !sc.rt.active[id] {
				break
			}
			if !sc.rt.active[region] {
				continue
			}
			ok, err := sc.dispatch(region, ev)
			handled = handled || ok
			if err != nil {
				return handled, err
			}
		}
		if handled {
			return true, nil
		}
		return sc.try(n, ev)

	default:
		return sc.try(n, ev)
	}
}

// try fires the first outgoing transition of n that accepts ev
func (sc *Statechart) try(n *node, ev *Event) (bool, error) {
	for _, t := range n.transitions {
		fired, err := sc.fire(t, ev)
		if err != nil || fired {
			return fired, err
		}
	}
	return false, nil
}

// fire runs t if it accepts ev: exit set, then the action, then the enter set.
func (sc *Statechart) fire(t *Transition, ev *Event) (bool, error) {
	if !t.accepts(sc.rt, ev, sc.param) {
		return false, nil
	}
	sc.observers.NotifyTransition(sc, t, ev)

	for _, s := range t.exitSet {
		sc.deactivate(s)
	}

	sc.run(t.action)

	// default transitions taken while entering do not see the triggering event
	defer func(dispatched *Event) { sc.rt.event = dispatched }(sc.rt.event)
	sc.rt.event = nil

	last := len(t.enterSet) - 1
	for i, s := range t.enterSet {
		next := NoState
		if i < last {
			next = t.enterSet[i+1]
		}
		sc.displace(s)
		if _, err := sc.activate(s, next, i == last); err != nil {
			return true, err
		}
	}

	if last < 0 {
		if err := sc.settle(t.target); err != nil {
			return true, err
		}
	}
	// a region left by the transition starts over while its concurrent state stays
	for s := sc.def.states[t.target].parent; s != NoState; s = sc.def.states[s].parent {
		if sc.def.states[s].kind != KindConcurrent {
			continue
		}
		if err := sc.settle(s); err != nil {
			return true, err
		}
	}
	return true, nil
}

// displace exits the sibling that s replaces inside a context that stays active.
// Regions of a concurrent state are never displaced.
func (sc *Statechart) displace(s StateID) {
	parent := sc.def.states[s].parent
	if parent == NoState || !sc.rt.active[parent] || sc.def.states[parent].kind == KindConcurrent {
		return
	}
	if child := sc.rt.current[parent]; child != NoState && child != s {
		sc.deactivate(child)
	}
}

// settle completes a context that a transition reached from inside without
// entering it again, so the configuration is stable when dispatch returns.
func (sc *Statechart) settle(id StateID) error {
	n := sc.def.states[id]
	if !sc.rt.active[id] {
		return nil
	}

	switch n.kind {
	case KindHierarchical:
		if sc.rt.current[id] == NoState {
			return sc.takeStart(n.start)
		}
	case KindConcurrent:
		for _, region := range n.regions {
			if sc.rt.active[region] {
				continue
			}
			if _, err := sc.activate(region, NoState, false); err != nil {
				return err
			}
			if err := sc.takeStart(sc.def.states[region].start); err != nil {
				return err
			}
		}
	}
	return nil
}

// takeStart fires the single default transition of a start pseudostate
func (sc *Statechart) takeStart(start StateID) error {
	if start == NoState {
		return NewInvariantViolation(ErrCodeMissingStart, "", "context has no start state")
	}
	n := sc.def.states[start]
	fired, err := sc.try(n, nil)
	if err != nil {
		return err
	}
	if !fired {
		return NewInvariantViolation(ErrCodeInvalidStart, n.name, "start transition did not fire")
	}
	return nil
}

// restoreHistory re-activates the child recorded for history state n, or takes its
// default transition when nothing was recorded yet. The restored state descends
// through its own start, histories are shallow.
func (sc *Statechart) restoreHistory(n *node) error {
	if err := checkHistory(n); err != nil {
		return NewInvariantViolation(ErrCodeInvalidHistory, n.name, err.Error())
	}

	if recorded, ok := sc.rt.HistoryOf(n.id); ok {
		sc.observers.NotifyHistoryRestored(sc, n.id, recorded)
		_, err := sc.activate(recorded, NoState, true)
		return err
	}

	fired, err := sc.try(n, nil)
	if err != nil {
		return err
	}
	if !fired {
		return NewInvariantViolation(ErrCodeInvalidHistory, n.name,
			fmt.Sprintf("default transition %s did not fire", n.transitions[0]))
	}
	return nil
}

func (sc *Statechart) run(action Action) {
	if action != nil {
		action.Execute(sc.param)
	}
}
