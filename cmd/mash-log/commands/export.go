package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mash-protocol/mash-session/pkg/log"
)

// csvColumns is the header row of the csv export.
var csvColumns = []string{"timestamp", "session_id", "device_id", "source", "category", "type", "detail"}

// eventWriter receives decoded events one at a time.
type eventWriter interface {
	write(event log.Event) error
	flush() error
}

// RunExport converts the trace at path to format ("jsonl" or "csv") and
// writes it to output, or to stdout when output is empty.
func RunExport(path, format, output string) error {
	src, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer src.Close()

	var out io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		out = f
	}

	var w eventWriter
	switch format {
	case "jsonl":
		w = jsonlWriter{enc: json.NewEncoder(out)}
	case "csv":
		cw := csv.NewWriter(out)
		if err := cw.Write(csvColumns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		w = csvWriter{w: cw}
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	if err := src.Each(w.write); err != nil {
		return err
	}
	return w.flush()
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (w jsonlWriter) write(event log.Event) error {
	if err := w.enc.Encode(event); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

func (jsonlWriter) flush() error { return nil }

type csvWriter struct {
	w *csv.Writer
}

func (w csvWriter) write(event log.Event) error {
	kind, detail := summarize(event)
	row := []string{
		event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		event.SessionID,
		event.DeviceID,
		event.Source.String(),
		event.Category.String(),
		kind,
		detail,
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

func (w csvWriter) flush() error {
	w.w.Flush()
	return w.w.Error()
}

// summarize returns the payload kind of event and a one-field description.
func summarize(event log.Event) (kind, detail string) {
	switch {
	case event.Lifecycle != nil:
		return "lifecycle", event.Lifecycle.Action.String()
	case event.StateChange != nil:
		return "state", event.StateChange.NewState
	case event.Binding != nil:
		return "binding", event.Binding.ProcessorID
	case event.UseCase != nil:
		return "usecase", event.UseCase.Action.String() + " " + strings.Join(event.UseCase.UseCases, "|")
	case event.Error != nil:
		return "error", event.Error.Message
	}
	return "unknown", ""
}
