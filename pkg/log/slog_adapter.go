package log

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see session events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("category", event.Category.String()),
		slog.String("source", event.Source.String()),
	}

	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}

	switch {
	case event.Lifecycle != nil:
		attrs = append(attrs, slog.String("action", event.Lifecycle.Action.String()))
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Binding != nil:
		attrs = append(attrs,
			slog.String("config_id", event.Binding.ConfigID),
			slog.Bool("bound", event.Binding.Bound()),
		)
		if event.Binding.Bound() {
			attrs = append(attrs, slog.String("processor_id", event.Binding.ProcessorID))
		}
	case event.UseCase != nil:
		attrs = append(attrs,
			slog.String("action", event.UseCase.Action.String()),
			slog.String("use_cases", strings.Join(event.UseCase.UseCases, ",")),
		)
	case event.Error != nil:
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "session", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
