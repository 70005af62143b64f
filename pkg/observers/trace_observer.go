package observers

import (
	"sync"

	"github.com/anggasct/statechart"
)

// TraceObserver records engine notifications in order as short strings:
// "enter:<path>", "exit:<path>", "fire:<transition>", "history:<path>",
// "unhandled:<event>" and "error:<code>".
type TraceObserver struct {
	statechart.BaseObserver

	entries []string
	mutex   sync.Mutex
}

// NewTraceObserver creates an empty trace
func NewTraceObserver() *TraceObserver {
	return &TraceObserver{}
}

func (o *TraceObserver) record(entry string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.entries = append(o.entries, entry)
}

// OnTransition records a firing transition
func (o *TraceObserver) OnTransition(chart *statechart.Statechart, t *statechart.Transition, event *statechart.Event) {
	o.record("fire:" + t.Name())
}

// OnStateEnter records state entry
func (o *TraceObserver) OnStateEnter(chart *statechart.Statechart, state statechart.StateID) {
	o.record("enter:" + chart.Definition().Path(state))
}

// OnStateExit records state exit
func (o *TraceObserver) OnStateExit(chart *statechart.Statechart, state statechart.StateID) {
	o.record("exit:" + chart.Definition().Path(state))
}

// OnHistoryRestored records the restored state
func (o *TraceObserver) OnHistoryRestored(chart *statechart.Statechart, history, restored statechart.StateID) {
	o.record("history:" + chart.Definition().Path(restored))
}

// OnEventUnhandled records an unhandled event
func (o *TraceObserver) OnEventUnhandled(chart *statechart.Statechart, event *statechart.Event) {
	if event == nil {
		o.record("unhandled:")
		return
	}
	o.record("unhandled:" + string(event.ID))
}

// OnError records the error code
func (o *TraceObserver) OnError(chart *statechart.Statechart, err error) {
	o.record("error:" + statechart.GetErrorCode(err).String())
}

// Entries returns a copy of the trace
func (o *TraceObserver) Entries() []string {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return append([]string(nil), o.entries...)
}

// Reset clears the trace
func (o *TraceObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.entries = nil
}
