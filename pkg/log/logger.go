package log

// Logger receives translation events.
// Pass NoopLogger to disable event logging.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent use.
	Log(event Event)
}

// NoopLogger discards all events. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
