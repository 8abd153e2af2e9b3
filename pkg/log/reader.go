package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects trace events. A zero field places no constraint.
type Filter struct {
	SessionID string
	DeviceID  string
	Category  *Category
	Source    *Source

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// Matches reports whether event satisfies every set field of f.
func (f *Filter) Matches(event Event) bool {
	switch {
	case f.SessionID != "" && f.SessionID != event.SessionID,
		f.DeviceID != "" && f.DeviceID != event.DeviceID,
		f.Category != nil && *f.Category != event.Category,
		f.Source != nil && *f.Source != event.Source,
		f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}

// Reader decodes events from a trace file written by FileLogger, one at a
// time.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens the trace at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the trace at path and skips events that do not
// match filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.decoder.Decode(&event)
		switch {
		case errors.Is(err, io.EOF):
			return Event{}, io.EOF
		case err != nil:
			return Event{}, err
		case r.filter.Matches(event):
			return event, nil
		}
	}
}

// Each calls fn for every remaining matching event. It stops at the end of
// the file, on a decode error or on the first error fn returns.
func (r *Reader) Each(fn func(Event) error) error {
	for {
		event, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// ReadAll collects every remaining matching event.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	err := r.Each(func(event Event) error {
		events = append(events, event)
		return nil
	})
	return events, err
}

// Close closes the trace file.
func (r *Reader) Close() error {
	return r.file.Close()
}
