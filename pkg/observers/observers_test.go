package observers

import (
	"github.com/anggasct/statechart"
)

// turnstileChart is locked/unlocked with a coin counter guard
func turnstileChart() *statechart.Definition {
	b := statechart.NewBuilder("turnstile")
	start := b.Start(b.Root())
	locked := b.State(b.Root(), "locked")
	unlocked := b.State(b.Root(), "unlocked")

	b.Transition(start, locked)
	b.Transition(locked, unlocked, statechart.OnEvent("coin"))
	b.Transition(unlocked, locked, statechart.OnEvent("push"))

	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// playerChart is off/on where on remembers playing or paused
func playerChart() *statechart.Definition {
	b := statechart.NewBuilder("player")
	start := b.Start(b.Root())
	off := b.State(b.Root(), "off")
	on := b.Hierarchical(b.Root(), "on")
	onStart := b.Start(on)
	onHistory := b.History(on)
	playing := b.State(on, "playing")
	paused := b.State(on, "paused")

	b.Transition(start, off)
	b.Transition(onStart, onHistory)
	b.Transition(onHistory, playing)
	b.Transition(off, on, statechart.OnEvent("power"))
	b.Transition(on, off, statechart.OnEvent("power"))
	b.Transition(playing, paused, statechart.OnEvent("pause"))
	b.Transition(paused, playing, statechart.OnEvent("play"))

	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
