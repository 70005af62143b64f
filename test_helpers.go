package statechart

import (
	"strings"
	"sync"
	"testing"
)

// TestObserver is an observer for tests that captures every notification by state name
type TestObserver struct {
	mutex       sync.RWMutex
	Transitions []TransitionEvent
	StateEnters []string
	StateExits  []string
	Restores    []HistoryEvent
	Unhandled   []*Event
	Errors      []error
	Started     int
	Shutdowns   int
}

// TransitionEvent is one recorded firing
type TransitionEvent struct {
	From  string
	To    string
	Event *Event
}

// HistoryEvent is one recorded history restoration
type HistoryEvent struct {
	Context  string
	Restored string
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnTransition(chart *Statechart, t *Transition, event *Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	def := chart.Definition()
	o.Transitions = append(o.Transitions, TransitionEvent{
		From:  def.StateName(t.Source()),
		To:    def.StateName(t.Target()),
		Event: event,
	})
}

func (o *TestObserver) OnStateEnter(chart *Statechart, state StateID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateEnters = append(o.StateEnters, chart.Definition().StateName(state))
}

func (o *TestObserver) OnStateExit(chart *Statechart, state StateID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateExits = append(o.StateExits, chart.Definition().StateName(state))
}

func (o *TestObserver) OnHistoryRestored(chart *Statechart, history StateID, restored StateID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	def := chart.Definition()
	o.Restores = append(o.Restores, HistoryEvent{
		Context:  def.StateName(def.Parent(history)),
		Restored: def.StateName(restored),
	})
}

func (o *TestObserver) OnEventUnhandled(chart *Statechart, event *Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Unhandled = append(o.Unhandled, event)
}

func (o *TestObserver) OnError(chart *Statechart, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

func (o *TestObserver) OnChartStarted(chart *Statechart) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started++
}

func (o *TestObserver) OnChartShutdown(chart *Statechart) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Shutdowns++
}

// Reset clears everything recorded so far
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = nil
	o.StateEnters = nil
	o.StateExits = nil
	o.Restores = nil
	o.Unhandled = nil
	o.Errors = nil
	o.Started = 0
	o.Shutdowns = 0
}

func (o *TestObserver) TransitionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Transitions)
}

func (o *TestObserver) StateEnterCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.StateEnters)
}

func (o *TestObserver) StateExitCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.StateExits)
}

func (o *TestObserver) LastTransition() *TransitionEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Transitions) == 0 {
		return nil
	}
	return &o.Transitions[len(o.Transitions)-1]
}

func (o *TestObserver) LastStateEnter() string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.StateEnters) == 0 {
		return ""
	}
	return o.StateEnters[len(o.StateEnters)-1]
}

// TraceRecorder collects labels from the actions it hands out, in call order
type TraceRecorder struct {
	entries []string
}

// NewTraceRecorder creates an empty recorder
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

// Action returns an action that appends label to the trace
func (r *TraceRecorder) Action(label string) Action {
	return ActionFunc(func(param any) {
		r.entries = append(r.entries, label)
	})
}

// StateActions returns entry, do and exit actions recording "<name>:entry",
// "<name>:do" and "<name>:exit"
func (r *TraceRecorder) StateActions(name string) []StateOption {
	return []StateOption{
		WithEntry(r.Action(name + ":entry")),
		WithDo(r.Action(name + ":do")),
		WithExit(r.Action(name + ":exit")),
	}
}

// Entries returns a copy of the trace
func (r *TraceRecorder) Entries() []string {
	return append([]string(nil), r.entries...)
}

// String joins the trace with single spaces
func (r *TraceRecorder) String() string {
	return strings.Join(r.entries, " ")
}

// Reset clears the trace
func (r *TraceRecorder) Reset() {
	r.entries = nil
}

// Test chart builders - common chart topologies for testing

// CreateSimpleChart creates a flat idle/running/stopped chart
func CreateSimpleChart() *Definition {
	b := NewBuilder("simple")
	start := b.Start(b.Root())
	idle := b.State(b.Root(), "idle")
	running := b.State(b.Root(), "running")
	stopped := b.State(b.Root(), "stopped")

	b.Transition(start, idle)
	b.Transition(idle, running, OnEvent("start"))
	b.Transition(running, stopped, OnEvent("stop"))
	b.Transition(stopped, idle, OnEvent("reset"))

	return mustBuild(b)
}

// CreateHierarchicalChart creates an offline/online chart where online holds
// idle and processing and remembers which one was active
func CreateHierarchicalChart() *Definition {
	b := NewBuilder("hierarchical")
	start := b.Start(b.Root())
	offline := b.State(b.Root(), "offline")
	online := b.Hierarchical(b.Root(), "online")

	onlineStart := b.Start(online)
	onlineHistory := b.History(online)
	idle := b.State(online, "idle")
	processing := b.State(online, "processing")

	b.Transition(start, offline)
	b.Transition(onlineStart, onlineHistory)
	b.Transition(onlineHistory, idle)
	b.Transition(offline, online, OnEvent("connect"))
	b.Transition(online, offline, OnEvent("disconnect"))
	b.Transition(idle, processing, OnEvent("process"))
	b.Transition(processing, idle, OnEvent("complete"))

	return mustBuild(b)
}

// CreateConcurrentChart creates an inactive/active chart where active runs
// independent motor and lights regions
func CreateConcurrentChart() *Definition {
	b := NewBuilder("concurrent")
	start := b.Start(b.Root())
	inactive := b.State(b.Root(), "inactive")
	active := b.Concurrent(b.Root(), "active")

	motor := b.Hierarchical(active, "motor")
	motorStart := b.Start(motor)
	motorStopped := b.State(motor, "motor_stopped")
	motorRunning := b.State(motor, "motor_running")

	lights := b.Hierarchical(active, "lights")
	lightsStart := b.Start(lights)
	lightsOff := b.State(lights, "lights_off")
	lightsOn := b.State(lights, "lights_on")

	b.Transition(start, inactive)
	b.Transition(inactive, active, OnEvent("activate"))
	b.Transition(active, inactive, OnEvent("deactivate"))
	b.Transition(motorStart, motorStopped)
	b.Transition(motorStopped, motorRunning, OnEvent("start_motor"))
	b.Transition(motorRunning, motorStopped, OnEvent("stop_motor"))
	b.Transition(lightsStart, lightsOff)
	b.Transition(lightsOff, lightsOn, OnEvent("turn_on_lights"))
	b.Transition(lightsOn, lightsOff, OnEvent("turn_off_lights"))

	return mustBuild(b)
}

func mustBuild(b *Builder) *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// Test assertions and utilities

// AssertActive checks that every named state is active
func AssertActive(t *testing.T, chart *Statechart, names ...string) {
	t.Helper()
	for _, name := range names {
		if !chart.IsActiveName(name) {
			t.Errorf("Expected state %s to be active, active states: %v", name, activeNames(chart))
		}
	}
}

// AssertInactive checks that no named state is active
func AssertInactive(t *testing.T, chart *Statechart, names ...string) {
	t.Helper()
	for _, name := range names {
		if chart.IsActiveName(name) {
			t.Errorf("Expected state %s to be inactive", name)
		}
	}
}

// AssertDispatched dispatches ev and checks the outcome
func AssertDispatched(t *testing.T, chart *Statechart, ev EventID, shouldFire bool) {
	t.Helper()
	fired, err := chart.DispatchID(ev)
	if err != nil {
		t.Fatalf("Dispatch %s failed: %v", ev, err)
	}
	if fired != shouldFire {
		if shouldFire {
			t.Errorf("Expected event %s to fire a transition", ev)
		} else {
			t.Errorf("Expected event %s to be unhandled", ev)
		}
	}
}

// AssertObserverCalled checks if observer methods were called expected number of times
func AssertObserverCalled(t *testing.T, observer *TestObserver, transitions, enters, exits int) {
	t.Helper()
	if observer.TransitionCount() != transitions {
		t.Errorf("Expected %d transitions, got %d", transitions, observer.TransitionCount())
	}
	if observer.StateEnterCount() != enters {
		t.Errorf("Expected %d state enters, got %d", enters, observer.StateEnterCount())
	}
	if observer.StateExitCount() != exits {
		t.Errorf("Expected %d state exits, got %d", exits, observer.StateExitCount())
	}
}

func activeNames(chart *Statechart) []string {
	var names []string
	for _, id := range chart.ActiveStates() {
		names = append(names, chart.Definition().StateName(id))
	}
	return names
}
