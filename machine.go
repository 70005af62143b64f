package statechart

import (
	"github.com/google/uuid"
)

// Statechart is one running instance of a Definition. It owns the runtime record
// and the parameter passed to every action and guard.
//
// A Statechart is not safe for concurrent use: events must be dispatched from a
// single goroutine, and never from inside an action or guard of the same chart.
type Statechart struct {
	id        string
	def       *Definition
	rt        *Runtime
	param     any
	observers *ObserverManager

	started     bool
	stopped     bool
	dispatching bool
}

// Option configures a chart instance at creation
type Option func(*Statechart)

// WithObserver registers an observer on the new instance
func WithObserver(observer Observer) Option {
	return func(sc *Statechart) {
		sc.observers.AddObserver(observer)
	}
}

// WithID replaces the generated instance ID
func WithID(id string) Option {
	return func(sc *Statechart) {
		sc.id = id
	}
}

func newStatechart(def *Definition, param any, opts ...Option) *Statechart {
	sc := &Statechart{
		id:        uuid.New().String(),
		def:       def,
		rt:        newRuntime(def),
		param:     param,
		observers: NewObserverManager(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// ID returns the instance identifier
func (sc *Statechart) ID() string {
	return sc.id
}

// Definition returns the topology this instance runs
func (sc *Statechart) Definition() *Definition {
	return sc.def
}

// Runtime returns the live runtime record. It is meant for reading; guards receive
// the same value.
func (sc *Statechart) Runtime() *Runtime {
	return sc.rt
}

// Param returns the value passed to every action and guard
func (sc *Statechart) Param() any {
	return sc.param
}

// AddObserver adds an observer to the chart
func (sc *Statechart) AddObserver(observer Observer) {
	sc.observers.AddObserver(observer)
}

// RemoveObserver removes an observer from the chart
func (sc *Statechart) RemoveObserver(observer Observer) {
	sc.observers.RemoveObserver(observer)
}

// Start activates the chart and follows start pseudostates down to a stable
// configuration. Starting again discards the previous run, history included.
func (sc *Statechart) Start() error {
	if sc.dispatching {
		return sc.fail(NewInvariantViolation(ErrCodeReentrantDispatch, sc.def.name, "Start called from inside an action or guard"))
	}
	sc.dispatching = true
	defer func() { sc.dispatching = false }()

	sc.rt.reset()
	sc.started = false
	sc.stopped = false

	if _, err := sc.activate(RootID, NoState, false); err != nil {
		return sc.fail(err)
	}
	if err := sc.takeStart(sc.def.states[RootID].start); err != nil {
		return sc.fail(err)
	}

	sc.started = true
	sc.observers.NotifyChartStarted(sc)
	return nil
}

// Dispatch offers ev to the active configuration and reports whether a transition
// fired. A nil event only fires transitions without an event filter. Once the chart
// has reached a top-level end state every dispatch fails.
func (sc *Statechart) Dispatch(ev *Event) (bool, error) {
	if !sc.started || sc.stopped {
		return false, NewNotStartedError("Dispatch")
	}
	if sc.dispatching {
		return false, sc.fail(NewInvariantViolation(ErrCodeReentrantDispatch, sc.def.name,
			"Dispatch called from inside an action or guard"))
	}
	if sc.Done() {
		return false, sc.fail(NewInvariantViolation(ErrCodeDispatchToEnd, sc.def.StateName(sc.rt.current[RootID]),
			"cannot dispatch an event to the end state"))
	}

	sc.dispatching = true
	sc.rt.event = ev
	defer func() {
		sc.rt.event = nil
		sc.dispatching = false
	}()

	handled, err := sc.dispatch(RootID, ev)
	if err != nil {
		return handled, sc.fail(err)
	}
	if !handled {
		sc.observers.NotifyEventUnhandled(sc, ev)
	}
	return handled, nil
}

// DispatchID is Dispatch for an event without payload
func (sc *Statechart) DispatchID(id EventID) (bool, error) {
	return sc.Dispatch(NewEvent(id))
}

// Shutdown stops the instance. No exit actions run; the configuration stays readable.
func (sc *Statechart) Shutdown() error {
	if !sc.started || sc.stopped {
		return NewNotStartedError("Shutdown")
	}
	sc.stopped = true
	sc.observers.NotifyChartShutdown(sc)
	return nil
}

// IsStarted reports whether Start succeeded and Shutdown was not called since
func (sc *Statechart) IsStarted() bool {
	return sc.started && !sc.stopped
}

// IsActive reports whether a state is part of the current configuration
func (sc *Statechart) IsActive(id StateID) bool {
	return sc.rt.IsActive(id)
}

// IsActiveName is IsActive for a state looked up by name
func (sc *Statechart) IsActiveName(name string) bool {
	id, ok := sc.def.Lookup(name)
	return ok && sc.rt.IsActive(id)
}

// ActiveStates returns the active states below the root in arena order
func (sc *Statechart) ActiveStates() []StateID {
	ids := sc.rt.ActiveStates()
	if len(ids) > 0 && ids[0] == RootID {
		ids = ids[1:]
	}
	return ids
}

// Done reports whether the chart's current top-level state is an end state
func (sc *Statechart) Done() bool {
	if !sc.rt.active[RootID] {
		return false
	}
	child := sc.rt.current[RootID]
	return child != NoState && sc.def.states[child].kind == KindEnd
}

func (sc *Statechart) fail(err error) error {
	sc.observers.NotifyError(sc, err)
	return err
}
