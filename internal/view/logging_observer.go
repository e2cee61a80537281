package view

import "log/slog"

// LoggingObserver logs every view lifecycle event using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer; a nil logger means slog.Default()
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Debug("view_lifecycle",
		"event", event.Type,
		"request_id", event.RequestID,
		"table", event.Table,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
