package commands

import (
	"fmt"
	"time"

	"github.com/mash-protocol/mash-session/pkg/log"
)

// FilterOptions selects the events RunFilter copies. Empty fields match
// everything.
type FilterOptions struct {
	Output    string
	SessionID string
	DeviceID  string
	TimeStart string // RFC3339, inclusive
	TimeEnd   string // RFC3339, exclusive
	Source    string
	Category  string
}

// readerFilter translates the textual options into a log.Filter.
func (o FilterOptions) readerFilter() (log.Filter, error) {
	f := log.Filter{SessionID: o.SessionID, DeviceID: o.DeviceID}

	var err error
	if f.TimeStart, err = parseBound("time-start", o.TimeStart); err != nil {
		return log.Filter{}, err
	}
	if f.TimeEnd, err = parseBound("time-end", o.TimeEnd); err != nil {
		return log.Filter{}, err
	}

	if o.Source != "" {
		src, err := parseSource(o.Source)
		if err != nil {
			return log.Filter{}, err
		}
		f.Source = &src
	}
	if o.Category != "" {
		cat, err := parseCategory(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		f.Category = &cat
	}
	return f, nil
}

func parseBound(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

// RunFilter copies the events of the trace at path that match opts into
// opts.Output and reports how many were copied.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.readerFilter()
	if err != nil {
		return 0, err
	}

	src, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("open trace: %w", err)
	}
	defer src.Close()

	dst, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", opts.Output, err)
	}
	defer dst.Close()

	var copied int
	err = src.Each(func(event log.Event) error {
		dst.Log(event)
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("read trace: %w", err)
	}
	return copied, nil
}
