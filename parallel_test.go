package statechart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallel_AllRegionsStart(t *testing.T) {
	chart := CreateConcurrentChart().NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertActive(t, chart, "inactive")
	AssertDispatched(t, chart, "activate", true)
	AssertActive(t, chart, "active", "motor", "motor_stopped", "lights", "lights_off")
}

func TestParallel_RegionsReactIndependently(t *testing.T) {
	chart := CreateConcurrentChart().NewInstance(nil)
	require.NoError(t, chart.Start())
	AssertDispatched(t, chart, "activate", true)

	AssertDispatched(t, chart, "start_motor", true)
	AssertActive(t, chart, "motor_running", "lights_off")

	AssertDispatched(t, chart, "turn_on_lights", true)
	AssertActive(t, chart, "motor_running", "lights_on")

	AssertDispatched(t, chart, "stop_motor", true)
	AssertActive(t, chart, "motor_stopped", "lights_on")
}

func TestParallel_OneEventFansOut(t *testing.T) {
	observer := NewTestObserver()

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	both := b.Concurrent(b.Root(), "both")
	left := b.Hierarchical(both, "left")
	leftStart := b.Start(left)
	l1 := b.State(left, "l1")
	l2 := b.State(left, "l2")
	right := b.Hierarchical(both, "right")
	rightStart := b.Start(right)
	r1 := b.State(right, "r1")
	r2 := b.State(right, "r2")
	b.Transition(start, both)
	b.Transition(leftStart, l1)
	b.Transition(rightStart, r1)
	b.Transition(l1, l2, OnEvent("tick"))
	b.Transition(r1, r2, OnEvent("tick"))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil, WithObserver(observer))
	require.NoError(t, chart.Start())
	observer.Reset()

	AssertDispatched(t, chart, "tick", true)
	AssertActive(t, chart, "l2", "r2")
	require.Len(t, observer.Transitions, 2)
	assert.Equal(t, "l1", observer.Transitions[0].From)
	assert.Equal(t, "r1", observer.Transitions[1].From)
}

func TestParallel_OwnTransitionOnlyWhenNoRegionHandles(t *testing.T) {
	b := NewBuilder("chart")
	start := b.Start(b.Root())
	both := b.Concurrent(b.Root(), "both")
	other := b.State(b.Root(), "other")
	left := b.Hierarchical(both, "left")
	leftStart := b.Start(left)
	l1 := b.State(left, "l1")
	l2 := b.State(left, "l2")
	right := b.Hierarchical(both, "right")
	rightStart := b.Start(right)
	r1 := b.State(right, "r1")
	b.Transition(start, both)
	b.Transition(leftStart, l1)
	b.Transition(rightStart, r1)
	b.Transition(l1, l2, OnEvent("e"))
	b.Transition(both, other, OnEvent("e"))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "e", true)
	AssertActive(t, chart, "both", "l2", "r1")

	AssertDispatched(t, chart, "e", true)
	AssertActive(t, chart, "other")
	AssertInactive(t, chart, "both", "left", "right", "l2", "r1")
}

func TestParallel_DeepTargetSkipsStartOfEnteredRegion(t *testing.T) {
	rec := NewTraceRecorder()

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	idle := b.State(b.Root(), "idle")
	both := b.Concurrent(b.Root(), "both")
	left := b.Hierarchical(both, "left")
	leftStart := b.Start(left)
	l1 := b.State(left, "l1", rec.StateActions("l1")...)
	l2 := b.State(left, "l2", rec.StateActions("l2")...)
	right := b.Hierarchical(both, "right")
	rightStart := b.Start(right)
	r1 := b.State(right, "r1", rec.StateActions("r1")...)
	b.Transition(start, idle)
	b.Transition(leftStart, l1)
	b.Transition(rightStart, r1)
	b.Transition(idle, l2, OnEvent("jump"))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "jump", true)
	AssertActive(t, chart, "both", "left", "l2", "right", "r1")
	AssertInactive(t, chart, "l1")
	assert.Equal(t, "r1:entry r1:do l2:entry l2:do", rec.String())
}

func TestParallel_ReturningToConcurrentStateRestartsRegions(t *testing.T) {
	chart := CreateConcurrentChart().NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "activate", true)
	AssertDispatched(t, chart, "start_motor", true)
	AssertDispatched(t, chart, "deactivate", true)
	AssertActive(t, chart, "inactive")
	AssertInactive(t, chart, "active", "motor", "lights", "motor_running")

	AssertDispatched(t, chart, "activate", true)
	AssertActive(t, chart, "motor_stopped", "lights_off")
}

func TestParallel_TransitionToConcurrentParentRestoresRegions(t *testing.T) {
	b := NewBuilder("chart")
	start := b.Start(b.Root())
	both := b.Concurrent(b.Root(), "both")
	left := b.Hierarchical(both, "left")
	leftStart := b.Start(left)
	l1 := b.State(left, "l1")
	l2 := b.State(left, "l2")
	right := b.Hierarchical(both, "right")
	rightStart := b.Start(right)
	r1 := b.State(right, "r1")
	r2 := b.State(right, "r2")
	b.Transition(start, both)
	b.Transition(leftStart, l1)
	b.Transition(rightStart, r1)
	b.Transition(l1, l2, OnEvent("step"))
	b.Transition(r1, r2, OnEvent("step"))
	b.Transition(l2, both, OnEvent("up"))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "step", true)
	AssertDispatched(t, chart, "up", true)

	// left is entered again from its start, right was never left
	AssertActive(t, chart, "both", "left", "l1", "right", "r2")
	AssertInactive(t, chart, "l2")
}
