// Package observers provides observers for monitoring chart execution
package observers

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/anggasct/statechart"
)

// LoggingOptions configures a LoggingObserver
type LoggingOptions struct {
	// Writer receives the log lines, os.Stderr when nil
	Writer io.Writer
	// Level is the minimum level written
	Level log.Level
	// Prefix is printed in front of every line
	Prefix string
	// Formatter selects text, logfmt or JSON output
	Formatter log.Formatter
	// ReportTimestamp adds a timestamp to every line
	ReportTimestamp bool
}

// LoggingObserver logs chart execution with structured key-value fields.
// Transitions are logged at info level, state changes at debug level.
type LoggingObserver struct {
	statechart.BaseObserver
	logger *log.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(opts LoggingOptions) *LoggingObserver {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return &LoggingObserver{
		logger: log.NewWithOptions(w, log.Options{
			Level:           opts.Level,
			Prefix:          opts.Prefix,
			Formatter:       opts.Formatter,
			ReportTimestamp: opts.ReportTimestamp,
		}),
	}
}

// NewLoggingObserverWithLogger wraps an existing logger
func NewLoggingObserverWithLogger(logger *log.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// Logger returns the underlying logger
func (o *LoggingObserver) Logger() *log.Logger {
	return o.logger
}

// OnTransition logs transitions
func (o *LoggingObserver) OnTransition(chart *statechart.Statechart, t *statechart.Transition, event *statechart.Event) {
	def := chart.Definition()
	keyvals := []any{
		"chart", def.Name(),
		"from", def.StateName(t.Source()),
		"to", def.StateName(t.Target()),
	}
	if event != nil {
		keyvals = append(keyvals, "event", string(event.ID))
	}
	o.logger.Info("transition", keyvals...)
}

// OnStateEnter logs state entry
func (o *LoggingObserver) OnStateEnter(chart *statechart.Statechart, state statechart.StateID) {
	o.logger.Debug("enter", "chart", chart.Definition().Name(), "state", chart.Definition().Path(state))
}

// OnStateExit logs state exit
func (o *LoggingObserver) OnStateExit(chart *statechart.Statechart, state statechart.StateID) {
	o.logger.Debug("exit", "chart", chart.Definition().Name(), "state", chart.Definition().Path(state))
}

// OnHistoryRestored logs history restoration
func (o *LoggingObserver) OnHistoryRestored(chart *statechart.Statechart, history, restored statechart.StateID) {
	def := chart.Definition()
	o.logger.Debug("history restored",
		"chart", def.Name(),
		"context", def.Path(def.Parent(history)),
		"state", def.Path(restored))
}

// OnEventUnhandled logs events that fired no transition
func (o *LoggingObserver) OnEventUnhandled(chart *statechart.Statechart, event *statechart.Event) {
	o.logger.Warn("event unhandled", "chart", chart.Definition().Name(), "event", event.String())
}

// OnError logs errors
func (o *LoggingObserver) OnError(chart *statechart.Statechart, err error) {
	o.logger.Error("chart error", "chart", chart.Definition().Name(), "code", statechart.GetErrorCode(err).String(), "err", err)
}

// OnChartStarted logs chart start
func (o *LoggingObserver) OnChartStarted(chart *statechart.Statechart) {
	o.logger.Info("started", "chart", chart.Definition().Name(), "id", chart.ID())
}

// OnChartShutdown logs chart shutdown
func (o *LoggingObserver) OnChartShutdown(chart *statechart.Statechart) {
	o.logger.Info("shutdown", "chart", chart.Definition().Name(), "id", chart.ID())
}
