// Package commands implements the mash-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/mash-protocol/mash-session/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	SessionID string
	Source    *log.Source
	Category  *log.Category
}

// filter converts the view criteria to a reader filter.
func (f ViewFilter) filter() log.Filter {
	return log.Filter{
		SessionID: f.SessionID,
		Source:    f.Source,
		Category:  f.Category,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] SOURCE Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	sessionID := shortenID(event.SessionID)

	fmt.Fprintf(w, "%s [session:%s] %-7s %s\n", ts, sessionID, event.Source.String(), eventLabel(event))
	if event.DeviceID != "" {
		fmt.Fprintf(w, "  Device: %s\n", event.DeviceID)
	}

	// Type-specific details
	switch {
	case event.Lifecycle != nil:
		// Lifecycle calls are fully described by the header
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Binding != nil:
		formatBindingDetails(w, event.Binding)
	case event.UseCase != nil:
		formatUseCaseDetails(w, event.UseCase)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// eventLabel returns the type label for the event header.
func eventLabel(event log.Event) string {
	switch {
	case event.Lifecycle != nil:
		return event.Lifecycle.Action.String()
	case event.StateChange != nil:
		return "State"
	case event.Binding != nil:
		return "Binding"
	case event.UseCase != nil:
		return "UseCase " + event.UseCase.Action.String()
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatBindingDetails writes processor binding details.
func formatBindingDetails(w io.Writer, b *log.BindingEvent) {
	fmt.Fprintf(w, "  Config: %s\n", b.ConfigID)
	if b.Bound() {
		fmt.Fprintf(w, "  Processor: %s\n", b.ProcessorID)
	} else {
		fmt.Fprintln(w, "  Processor: (none)")
	}
}

// formatUseCaseDetails writes use case details.
func formatUseCaseDetails(w io.Writer, uc *log.UseCaseEvent) {
	if len(uc.UseCases) > 0 {
		fmt.Fprintf(w, "  UseCases: %s\n", strings.Join(uc.UseCases, ", "))
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseSourceFlag parses a source string from command-line flag (case-insensitive).
func ParseSourceFlag(s string) (log.Source, error) {
	return parseSource(s)
}

// parseSource parses a source string (case-insensitive).
func parseSource(s string) (log.Source, error) {
	switch strings.ToLower(s) {
	case "session":
		return log.SourceSession, nil
	case "adapter":
		return log.SourceAdapter, nil
	default:
		return 0, fmt.Errorf("invalid source: %s (must be session or adapter)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "lifecycle":
		return log.CategoryLifecycle, nil
	case "state":
		return log.CategoryState, nil
	case "binding":
		return log.CategoryBinding, nil
	case "usecase":
		return log.CategoryUseCase, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be lifecycle, state, binding, usecase, or error)", s)
	}
}

// RunView prints the events of the trace at path that pass filter.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	src, err := log.NewFilteredReader(path, filter.filter())
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer src.Close()

	err = src.Each(func(event log.Event) error {
		formatEvent(output, event)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}
	return nil
}
