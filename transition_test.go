package statechart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAction is a testify mock for Action
type MockAction struct {
	mock.Mock
}

func (m *MockAction) Execute(param any) {
	m.Called(param)
}

// MockGuard is a testify mock for Guard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Check(rt *Runtime, param any) bool {
	args := m.Called(rt, param)
	return args.Bool(0)
}

// nestedTopology is root{ A{ B{ C, D }, E{ F } }, G }
type nestedTopology struct {
	b                    *Builder
	a, bb, c, d, e, f, g StateID
}

func newNestedTopology() *nestedTopology {
	n := &nestedTopology{b: NewBuilder("nested")}
	root := n.b.Root()
	n.a = n.b.Hierarchical(root, "A")
	n.bb = n.b.Hierarchical(n.a, "B")
	n.c = n.b.State(n.bb, "C")
	n.d = n.b.State(n.bb, "D")
	n.e = n.b.Hierarchical(n.a, "E")
	n.f = n.b.State(n.e, "F")
	n.g = n.b.State(root, "G")
	return n
}

func TestTransition_ChangedStates(t *testing.T) {
	n := newNestedTopology()

	tests := []struct {
		name     string
		from, to StateID
		exit     []StateID
		enter    []StateID
	}{
		{name: "siblings", from: n.c, to: n.d, exit: []StateID{n.c}, enter: []StateID{n.d}},
		{name: "self", from: n.c, to: n.c, exit: []StateID{n.c}, enter: []StateID{n.c}},
		{name: "composite self", from: n.bb, to: n.bb, exit: []StateID{n.bb}, enter: []StateID{n.bb}},
		{name: "cousins", from: n.c, to: n.f, exit: []StateID{n.c, n.bb}, enter: []StateID{n.e, n.f}},
		{name: "out to top level", from: n.d, to: n.g, exit: []StateID{n.d, n.bb, n.a}, enter: []StateID{n.g}},
		{name: "in from top level", from: n.g, to: n.c, exit: []StateID{n.g}, enter: []StateID{n.a, n.bb, n.c}},
		{name: "to own ancestor", from: n.c, to: n.a, exit: []StateID{n.c, n.bb}, enter: nil},
		{name: "into own descendant", from: n.a, to: n.c, exit: nil, enter: []StateID{n.bb, n.c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transition{source: tt.from, target: tt.to}
			tr.computeChangedStates(n.b.states)

			assert.Equal(t, tt.exit, tr.ExitSet())
			assert.Equal(t, tt.enter, tr.EnterSet())
		})
	}
}

func TestTransition_Accessors(t *testing.T) {
	b := NewBuilder("chart")
	start := b.Start(b.Root())
	idle := b.State(b.Root(), "idle")
	busy := b.State(b.Root(), "busy")

	def := b.Transition(start, idle)
	work := b.Transition(idle, busy,
		OnEvent("work"),
		WithGuard(GuardFunc(func(rt *Runtime, param any) bool { return true })),
		WithAction(ActionFunc(func(param any) {})))
	named := b.Transition(busy, idle, OnEvent("done"), Named("finish"))

	_, hasEvent := def.Event()
	assert.False(t, hasEvent)
	assert.False(t, def.Guarded())
	assert.False(t, def.HasAction())
	assert.Equal(t, "start_chart->idle", def.String())

	ev, hasEvent := work.Event()
	assert.True(t, hasEvent)
	assert.Equal(t, EventID("work"), ev)
	assert.True(t, work.Guarded())
	assert.True(t, work.HasAction())
	assert.Equal(t, idle, work.Source())
	assert.Equal(t, busy, work.Target())
	assert.Equal(t, "idle->busy on work", work.String())

	assert.Equal(t, "finish", named.Name())
}

func TestTransition_SetsAreCopies(t *testing.T) {
	n := newNestedTopology()
	tr := &Transition{source: n.c, target: n.f}
	tr.computeChangedStates(n.b.states)

	exit := tr.ExitSet()
	exit[0] = NoState
	assert.Equal(t, n.c, tr.ExitSet()[0])
}

func TestTransition_NoneEventOnlyFiresUnfiltered(t *testing.T) {
	filtered := &Transition{}
	OnEvent("go")(filtered)
	unfiltered := &Transition{}

	assert.False(t, filtered.accepts(nil, nil, nil))
	assert.True(t, filtered.accepts(nil, NewEvent("go"), nil))
	assert.False(t, filtered.accepts(nil, NewEvent("stop"), nil))
	assert.True(t, unfiltered.accepts(nil, nil, nil))
	assert.True(t, unfiltered.accepts(nil, NewEvent("anything"), nil))
}

func TestTransition_GuardAndActionReceiveParam(t *testing.T) {
	param := &struct{ count int }{}

	guard := new(MockGuard)
	action := new(MockAction)

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	a := b.State(b.Root(), "a")
	c := b.State(b.Root(), "c")
	b.Transition(start, a)
	b.Transition(a, c, OnEvent("go"), WithGuard(guard), WithAction(action))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(param)
	require.NoError(t, chart.Start())

	guard.On("Check", chart.Runtime(), param).Return(false).Once()
	AssertDispatched(t, chart, "go", false)
	AssertActive(t, chart, "a")

	guard.On("Check", chart.Runtime(), param).Return(true).Once()
	action.On("Execute", param).Once()
	AssertDispatched(t, chart, "go", true)
	AssertActive(t, chart, "c")

	guard.AssertExpectations(t)
	action.AssertExpectations(t)
}

func TestTransition_GuardSeesDispatchedEvent(t *testing.T) {
	b := NewBuilder("chart")
	start := b.Start(b.Root())
	a := b.State(b.Root(), "a")
	big := b.State(b.Root(), "big")
	small := b.State(b.Root(), "small")
	b.Transition(start, a)
	b.Transition(a, big, OnEvent("n"), WithGuard(GuardFunc(func(rt *Runtime, param any) bool {
		return rt.Event().Data.(int) > 10
	})))
	b.Transition(a, small, OnEvent("n"))

	def, err := b.Build()
	require.NoError(t, err)

	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())
	fired, err := chart.Dispatch(NewEventWithData("n", 42))
	require.NoError(t, err)
	assert.True(t, fired)
	AssertActive(t, chart, "big")
	assert.Nil(t, chart.Runtime().Event())

	chart = def.NewInstance(nil)
	require.NoError(t, chart.Start())
	fired, err = chart.Dispatch(NewEventWithData("n", 3))
	require.NoError(t, err)
	assert.True(t, fired)
	AssertActive(t, chart, "small")
}

func TestTransition_FirstMatchWins(t *testing.T) {
	rec := NewTraceRecorder()

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	a := b.State(b.Root(), "a")
	x := b.State(b.Root(), "x")
	y := b.State(b.Root(), "y")
	b.Transition(start, a)
	b.Transition(a, x, OnEvent("go"), WithAction(rec.Action("a:x")))
	b.Transition(a, y, OnEvent("go"), WithAction(rec.Action("a:y")))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "go", true)
	AssertActive(t, chart, "x")
	AssertInactive(t, chart, "y")
	assert.Equal(t, []string{"a:x"}, rec.Entries())
}

func TestTransition_ToAncestorRestartsIt(t *testing.T) {
	rec := NewTraceRecorder()

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	outer := b.Hierarchical(b.Root(), "outer", rec.StateActions("outer")...)
	outerStart := b.Start(outer)
	first := b.State(outer, "first", rec.StateActions("first")...)
	second := b.State(outer, "second", rec.StateActions("second")...)
	b.Transition(start, outer)
	b.Transition(outerStart, first)
	b.Transition(first, second, OnEvent("next"))
	b.Transition(second, outer, OnEvent("reset"))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "next", true)
	rec.Reset()

	AssertDispatched(t, chart, "reset", true)
	AssertActive(t, chart, "outer", "first")
	AssertInactive(t, chart, "second")
	assert.Equal(t, "second:exit first:entry first:do", rec.String())
}

func TestTransition_CompositeSelfLoopReentersStart(t *testing.T) {
	rec := NewTraceRecorder()

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	outer := b.Hierarchical(b.Root(), "outer", rec.StateActions("outer")...)
	outerStart := b.Start(outer)
	first := b.State(outer, "first", rec.StateActions("first")...)
	second := b.State(outer, "second", rec.StateActions("second")...)
	b.Transition(start, outer)
	b.Transition(outerStart, first)
	b.Transition(first, second, OnEvent("next"))
	b.Transition(outer, outer, OnEvent("restart"))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())
	AssertDispatched(t, chart, "next", true)
	rec.Reset()

	AssertDispatched(t, chart, "restart", true)
	AssertActive(t, chart, "outer", "first")
	assert.Equal(t, "second:exit outer:exit outer:entry outer:do first:entry first:do", rec.String())
}

func TestTransition_InnermostStateWins(t *testing.T) {
	rec := NewTraceRecorder()
	guard := new(MockGuard)

	b := NewBuilder("chart")
	start := b.Start(b.Root())
	outer := b.Hierarchical(b.Root(), "outer")
	outerStart := b.Start(outer)
	leaf := b.State(outer, "leaf")
	near := b.State(b.Root(), "near")
	far := b.State(b.Root(), "far")
	b.Transition(start, outer)
	b.Transition(outerStart, leaf)
	b.Transition(leaf, near, OnEvent("e"), WithAction(rec.Action("leaf")))
	b.Transition(outer, far, OnEvent("e"), WithGuard(guard), WithAction(rec.Action("outer")))

	def, err := b.Build()
	require.NoError(t, err)
	chart := def.NewInstance(nil)
	require.NoError(t, chart.Start())

	AssertDispatched(t, chart, "e", true)
	AssertActive(t, chart, "near")
	AssertInactive(t, chart, "outer", "far")
	assert.Equal(t, "leaf", rec.String())
	guard.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}
