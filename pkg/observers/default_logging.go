package observers

import "github.com/charmbracelet/log"

// NewDefaultLoggingObserver creates a logging observer writing text to stderr at info level
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(LoggingOptions{
		Level:  log.InfoLevel,
		Prefix: "statechart",
	})
}
