package observers

import (
	"sync"
	"time"

	"github.com/uber-go/tally/v4"

	"github.com/anggasct/statechart"
)

// Metric names reported by MetricsObserver
const (
	MetricTransitions     = "transitions"
	MetricStateEntries    = "state_entries"
	MetricStateExits      = "state_exits"
	MetricStateDuration   = "state_duration"
	MetricEventsUnhandled = "events_unhandled"
	MetricHistoryRestores = "history_restores"
	MetricErrors          = "errors"
)

// MetricsObserver reports chart execution to a tally scope. Every metric is
// tagged with the chart name; state metrics also carry the state path.
type MetricsObserver struct {
	statechart.BaseObserver

	scope          tally.Scope
	lastStateEntry map[string]time.Time
	mutex          sync.Mutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver(scope tally.Scope) *MetricsObserver {
	return &MetricsObserver{
		scope:          scope,
		lastStateEntry: make(map[string]time.Time),
	}
}

func (o *MetricsObserver) chartScope(chart *statechart.Statechart) tally.Scope {
	return o.scope.Tagged(map[string]string{"chart": chart.Definition().Name()})
}

func (o *MetricsObserver) stateScope(chart *statechart.Statechart, state statechart.StateID) (tally.Scope, string) {
	path := chart.Definition().Path(state)
	return o.chartScope(chart).Tagged(map[string]string{"state": path}), path
}

// OnTransition counts transitions
func (o *MetricsObserver) OnTransition(chart *statechart.Statechart, t *statechart.Transition, event *statechart.Event) {
	o.chartScope(chart).Counter(MetricTransitions).Inc(1)
}

// OnStateEnter counts state entries
func (o *MetricsObserver) OnStateEnter(chart *statechart.Statechart, state statechart.StateID) {
	scope, path := o.stateScope(chart, state)
	scope.Counter(MetricStateEntries).Inc(1)

	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.lastStateEntry[chart.ID()+"/"+path] = time.Now()
}

// OnStateExit counts state exits and records the time spent in the state
func (o *MetricsObserver) OnStateExit(chart *statechart.Statechart, state statechart.StateID) {
	scope, path := o.stateScope(chart, state)
	scope.Counter(MetricStateExits).Inc(1)

	key := chart.ID() + "/" + path
	o.mutex.Lock()
	entryTime, ok := o.lastStateEntry[key]
	delete(o.lastStateEntry, key)
	o.mutex.Unlock()

	if ok {
		scope.Timer(MetricStateDuration).Record(time.Since(entryTime))
	}
}

// OnHistoryRestored counts history restorations
func (o *MetricsObserver) OnHistoryRestored(chart *statechart.Statechart, history, restored statechart.StateID) {
	o.chartScope(chart).Counter(MetricHistoryRestores).Inc(1)
}

// OnEventUnhandled counts events that fired nothing
func (o *MetricsObserver) OnEventUnhandled(chart *statechart.Statechart, event *statechart.Event) {
	o.chartScope(chart).Counter(MetricEventsUnhandled).Inc(1)
}

// OnError counts errors
func (o *MetricsObserver) OnError(chart *statechart.Statechart, err error) {
	o.chartScope(chart).Tagged(map[string]string{"code": statechart.GetErrorCode(err).String()}).
		Counter(MetricErrors).Inc(1)
}
