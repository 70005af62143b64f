package statechart

import "fmt"

// Observer represents an entity that observes chart execution
type Observer interface {
	// Required methods

	// OnTransition is called when a transition fires, before any state is exited
	OnTransition(chart *Statechart, t *Transition, event *Event)

	// OnStateEnter is called when a state gets a runtime record, before its entry action
	OnStateEnter(chart *Statechart, state StateID)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnStateExit is called after a state's exit action has run
	OnStateExit(chart *Statechart, state StateID)

	// OnHistoryRestored is called when a history pseudostate re-activates a recorded state
	OnHistoryRestored(chart *Statechart, history StateID, restored StateID)

	// OnEventUnhandled is called when a dispatched event fired no transition
	OnEventUnhandled(chart *Statechart, event *Event)

	// OnError is called when the engine reports an invariant violation
	OnError(chart *Statechart, err error)

	// OnChartStarted is called when Start has reached a stable configuration
	OnChartStarted(chart *Statechart)

	// OnChartShutdown is called when the chart is shut down
	OnChartShutdown(chart *Statechart)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(chart *Statechart, t *Transition, event *Event) {}

// OnStateEnter implements the required Observer method
func (o *BaseObserver) OnStateEnter(chart *Statechart, state StateID) {}

// OnStateExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnStateExit(chart *Statechart, state StateID) {}

// OnHistoryRestored implements the optional ExtendedObserver method
func (o *BaseObserver) OnHistoryRestored(chart *Statechart, history StateID, restored StateID) {}

// OnEventUnhandled implements the optional ExtendedObserver method
func (o *BaseObserver) OnEventUnhandled(chart *Statechart, event *Event) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(chart *Statechart, err error) {}

// OnChartStarted implements the optional ExtendedObserver method
func (o *BaseObserver) OnChartStarted(chart *Statechart) {}

// OnChartShutdown implements the optional ExtendedObserver method
func (o *BaseObserver) OnChartShutdown(chart *Statechart) {}

// ObserverManager manages a collection of observers. A panicking observer is
// reported to the ExtendedObservers' OnError and never reaches the engine.
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

// each calls fn for every observer, recovering panics
func (om *ObserverManager) each(chart *Statechart, hook string, fn func(Observer)) {
	if len(om.observers) == 0 {
		return
	}
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					om.reportPanic(chart, observer, fmt.Errorf("observer panic in %s: %v", hook, r))
				}
			}()
			fn(observer)
		}()
	}
}

func (om *ObserverManager) reportPanic(chart *Statechart, culprit Observer, err error) {
	for _, observer := range om.observers {
		if observer == culprit {
			continue
		}
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { recover() }()
				extObs.OnError(chart, err)
			}()
		}
	}
}

// eachExtended is each restricted to ExtendedObservers
func (om *ObserverManager) eachExtended(chart *Statechart, hook string, fn func(ExtendedObserver)) {
	om.each(chart, hook, func(observer Observer) {
		if extObs, ok := observer.(ExtendedObserver); ok {
			fn(extObs)
		}
	})
}

// NotifyTransition notifies all observers of a firing transition
func (om *ObserverManager) NotifyTransition(chart *Statechart, t *Transition, event *Event) {
	om.each(chart, "OnTransition", func(o Observer) { o.OnTransition(chart, t, event) })
}

// NotifyStateEnter notifies all observers of state entry
func (om *ObserverManager) NotifyStateEnter(chart *Statechart, state StateID) {
	om.each(chart, "OnStateEnter", func(o Observer) { o.OnStateEnter(chart, state) })
}

// NotifyStateExit notifies all observers of state exit
func (om *ObserverManager) NotifyStateExit(chart *Statechart, state StateID) {
	om.eachExtended(chart, "OnStateExit", func(o ExtendedObserver) { o.OnStateExit(chart, state) })
}

// NotifyHistoryRestored notifies all observers of a history restoration
func (om *ObserverManager) NotifyHistoryRestored(chart *Statechart, history StateID, restored StateID) {
	om.eachExtended(chart, "OnHistoryRestored", func(o ExtendedObserver) { o.OnHistoryRestored(chart, history, restored) })
}

// NotifyEventUnhandled notifies all observers of an event that fired nothing
func (om *ObserverManager) NotifyEventUnhandled(chart *Statechart, event *Event) {
	om.eachExtended(chart, "OnEventUnhandled", func(o ExtendedObserver) { o.OnEventUnhandled(chart, event) })
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(chart *Statechart, err error) {
	om.eachExtended(chart, "OnError", func(o ExtendedObserver) { o.OnError(chart, err) })
}

// NotifyChartStarted notifies all observers that the chart has started
func (om *ObserverManager) NotifyChartStarted(chart *Statechart) {
	om.eachExtended(chart, "OnChartStarted", func(o ExtendedObserver) { o.OnChartStarted(chart) })
}

// NotifyChartShutdown notifies all observers that the chart has shut down
func (om *ObserverManager) NotifyChartShutdown(chart *Statechart) {
	om.eachExtended(chart, "OnChartShutdown", func(o ExtendedObserver) { o.OnChartShutdown(chart) })
}
