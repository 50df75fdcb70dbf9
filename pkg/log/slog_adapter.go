package log

import (
	"context"
	"log/slog"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
)

// SlogAdapter writes translation events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event. Stage events log at Debug, diagnostics at Warn or
// Error by severity, and stage failures at Error.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("direction", event.Direction.String()),
		slog.String("stage", event.Stage.String()),
	}
	if event.Source != "" {
		attrs = append(attrs, slog.String("source", event.Source))
	}

	level := slog.LevelDebug
	msg := "stage"
	switch {
	case event.StageChange != nil:
		attrs = append(attrs, slog.String("status", event.StageChange.Status.String()))
		if event.StageChange.Status == StatusFinished {
			attrs = append(attrs,
				slog.Int("objects", event.StageChange.Objects),
				slog.Int("diagnostics", event.StageChange.Diagnostics),
			)
		}
		if event.StageChange.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *event.StageChange.Duration))
		}
	case event.Diagnostic != nil:
		msg = event.Diagnostic.Message
		level = slog.LevelWarn
		if event.Diagnostic.Severity == diag.SeverityError {
			level = slog.LevelError
		}
		attrs = append(attrs, slog.String("kind", event.Diagnostic.Kind.String()))
		if event.Diagnostic.Path != "" {
			attrs = append(attrs, slog.String("path", event.Diagnostic.Path))
		}
	case event.Error != nil:
		msg = event.Error.Message
		level = slog.LevelError
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
