package statechart

import "fmt"

// Builder assembles the static topology of a chart. The first structural violation
// is kept; later calls are ignored and return NoState. Build reports it.
type Builder struct {
	name   string
	states []*node
	err    error
	built  bool
}

// NewBuilder creates a builder whose root context is already in place
func NewBuilder(name string) *Builder {
	return &Builder{
		name:   name,
		states: []*node{newNode(RootID, name, KindRoot, NoState)},
	}
}

// Root returns the chart root, the context for top-level states
func (b *Builder) Root() StateID {
	return RootID
}

// Err returns the first structural violation recorded so far
func (b *Builder) Err() error {
	return b.err
}

// State adds a simple state under ctx
func (b *Builder) State(ctx StateID, name string, opts ...StateOption) StateID {
	return b.addState(ctx, name, KindSimple, opts)
}

// Hierarchical adds a composite state under ctx. Under a concurrent state it
// becomes one of that state's regions.
func (b *Builder) Hierarchical(ctx StateID, name string, opts ...StateOption) StateID {
	return b.addState(ctx, name, KindHierarchical, opts)
}

// Concurrent adds a state whose hierarchical children are orthogonal regions.
// It takes no start pseudostate of its own: entering it starts every region
// through the region's start.
func (b *Builder) Concurrent(ctx StateID, name string, opts ...StateOption) StateID {
	return b.addState(ctx, name, KindConcurrent, opts)
}

// Start adds the start pseudostate of ctx
func (b *Builder) Start(ctx StateID) StateID {
	return b.addState(ctx, "", KindStart, nil)
}

// End adds a terminal pseudostate under ctx
func (b *Builder) End(ctx StateID) StateID {
	return b.addState(ctx, "", KindEnd, nil)
}

// History adds the history pseudostate of the hierarchical state ctx
func (b *Builder) History(ctx StateID) StateID {
	return b.addState(ctx, "", KindHistory, nil)
}

func (b *Builder) fail(err error) StateID {
	if b.err == nil {
		b.err = err
	}
	return NoState
}

func (b *Builder) valid(id StateID) bool {
	return id >= 0 && int(id) < len(b.states)
}

func (b *Builder) label(id StateID) string {
	if !b.valid(id) {
		return fmt.Sprintf("#%d", int(id))
	}
	return b.states[id].name
}

func (b *Builder) addState(ctx StateID, name string, kind Kind, opts []StateOption) StateID {
	if b.err != nil {
		return NoState
	}
	if b.built {
		return b.fail(NewStructuralViolation(ErrCodeInvalidContext, name, "chart topology is frozen after Build"))
	}
	if !b.valid(ctx) {
		return b.fail(NewStructuralViolation(ErrCodeUnknownState, b.label(ctx), "context does not exist"))
	}

	parent := b.states[ctx]
	if !parent.kind.IsContext() {
		return b.fail(NewStructuralViolation(ErrCodeInvalidContext, parent.name,
			fmt.Sprintf("a %s state cannot contain other states", parent.kind)))
	}

	switch kind {
	case KindStart:
		if parent.start != NoState {
			return b.fail(NewStructuralViolation(ErrCodeDuplicateStart, parent.name, "start state already present"))
		}
	case KindHistory:
		if parent.kind != KindHierarchical {
			return b.fail(NewStructuralViolation(ErrCodeInvalidHistory, parent.name, "history requires a hierarchical parent"))
		}
		if parent.history != NoState {
			return b.fail(NewStructuralViolation(ErrCodeDuplicateHistory, parent.name, "history state already present"))
		}
	}
	if parent.kind == KindConcurrent && kind != KindHierarchical {
		return b.fail(NewStructuralViolation(ErrCodeInvalidContext, parent.name,
			fmt.Sprintf("concurrent state accepts only hierarchical regions, got %s", kind)))
	}

	id := StateID(len(b.states))
	if kind.IsPseudostate() {
		name = fmt.Sprintf("%s_%s", kind, parent.name)
	}
	n := newNode(id, name, kind, ctx)
	for _, opt := range opts {
		opt(n)
	}
	b.states = append(b.states, n)

	parent.children = append(parent.children, id)
	switch kind {
	case KindStart:
		parent.start = id
	case KindHistory:
		parent.history = id
	case KindHierarchical:
		if parent.kind == KindConcurrent {
			parent.regions = append(parent.regions, id)
		}
	}

	return id
}

// Transition adds a transition from one state to another and registers it on the
// source. Guarded transitions are placed ahead of unguarded ones.
func (b *Builder) Transition(from, to StateID, opts ...TransitionOption) *Transition {
	if b.err != nil {
		return nil
	}
	if b.built {
		b.fail(NewStructuralViolation(ErrCodeTransitionNotAllowed, b.label(from), "chart topology is frozen after Build"))
		return nil
	}
	if !b.valid(from) {
		b.fail(NewStructuralViolation(ErrCodeUnknownState, b.label(from), "transition source does not exist"))
		return nil
	}
	if !b.valid(to) {
		b.fail(NewStructuralViolation(ErrCodeUnknownState, b.label(to), "transition target does not exist"))
		return nil
	}

	source := b.states[from]
	switch source.kind {
	case KindRoot:
		b.fail(NewStructuralViolation(ErrCodeTransitionNotAllowed, source.name, "cannot add transition to a statechart"))
		return nil
	case KindEnd:
		b.fail(NewStructuralViolation(ErrCodeTransitionNotAllowed, source.name, "cannot add transition to the end state"))
		return nil
	}
	if to == RootID {
		b.fail(NewStructuralViolation(ErrCodeTransitionNotAllowed, source.name, "the statechart cannot be a transition target"))
		return nil
	}

	t := &Transition{
		name:   fmt.Sprintf("%s->%s", source.name, b.states[to].name),
		source: from,
		target: to,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.computeChangedStates(b.states)
	source.addTransition(t)

	return t
}

// Build validates the remaining structural invariants and freezes the topology
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.validate(); err != nil {
		b.err = err
		return nil, err
	}
	b.built = true

	index := make(map[string]StateID, len(b.states))
	for _, n := range b.states {
		if _, taken := index[n.name]; !taken {
			index[n.name] = n.id
		}
	}

	return &Definition{
		name:   b.name,
		states: b.states,
		index:  index,
	}, nil
}

func (b *Builder) validate() error {
	for _, n := range b.states {
		switch n.kind {
		case KindRoot, KindHierarchical:
			if n.start == NoState {
				return NewStructuralViolation(ErrCodeMissingStart, n.name, "context has no start state")
			}
		case KindStart:
			if len(n.transitions) != 1 {
				return NewStructuralViolation(ErrCodeInvalidStart, n.name,
					fmt.Sprintf("start state needs exactly one transition, has %d", len(n.transitions)))
			}
			if n.transitions[0].event != nil {
				return NewStructuralViolation(ErrCodeInvalidStart, n.name, "start transition cannot wait for an event")
			}
			if n.transitions[0].target == n.id {
				return NewStructuralViolation(ErrCodeInvalidStart, n.name, "start transition cannot loop back to itself")
			}
		case KindHistory:
			if err := checkHistory(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkHistory verifies the single default transition of a history pseudostate.
// It only leaves the history state itself, so it stays inside the owning context.
func checkHistory(n *node) error {
	if len(n.transitions) != 1 {
		return NewStructuralViolation(ErrCodeInvalidHistory, n.name,
			fmt.Sprintf("history state needs exactly one transition, has %d", len(n.transitions)))
	}
	t := n.transitions[0]
	if t.target == n.id {
		return NewStructuralViolation(ErrCodeInvalidHistory, n.name, "default transition cannot loop back to itself")
	}
	if len(t.exitSet) != 1 || t.exitSet[0] != n.id {
		return NewStructuralViolation(ErrCodeInvalidHistory, n.name, "default transition must stay inside the history's context")
	}
	if t.event != nil {
		return NewStructuralViolation(ErrCodeInvalidHistory, n.name, "default transition cannot wait for an event")
	}
	return nil
}
