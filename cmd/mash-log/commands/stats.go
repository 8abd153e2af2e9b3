package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/mash-session/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsBySource   map[log.Source]int
	EventsByCategory map[log.Category]int
	Sessions         map[string]*SessionStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single session.
type SessionStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	DeviceID    string
	ProcessorID string
	FinalState  string
	Errors      int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsBySource:   make(map[log.Source]int),
		EventsByCategory: make(map[log.Category]int),
		Sessions:         make(map[string]*SessionStats),
	}

	err = reader.Each(func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	printStats(w, stats)
	return nil
}

func (stats *Stats) add(event log.Event) {
	stats.TotalEvents++
	stats.EventsBySource[event.Source]++
	stats.EventsByCategory[event.Category]++

	// Track time range
	if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
		stats.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(stats.TimeRange.End) {
		stats.TimeRange.End = event.Timestamp
	}

	// Track session stats
	ss, ok := stats.Sessions[event.SessionID]
	if !ok {
		ss = &SessionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		stats.Sessions[event.SessionID] = ss
	}
	ss.Events++
	if event.Timestamp.After(ss.LastSeen) {
		ss.LastSeen = event.Timestamp
	}
	if event.DeviceID != "" && ss.DeviceID == "" {
		ss.DeviceID = event.DeviceID
	}
	if event.Binding != nil {
		ss.ProcessorID = event.Binding.ProcessorID
	}
	if event.StateChange != nil {
		ss.FinalState = event.StateChange.NewState
	}

	// Count errors
	if event.Error != nil {
		stats.Errors++
		ss.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== MASH Session Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by source
	fmt.Fprintln(w, "Events by Source:")
	for _, src := range []log.Source{log.SourceSession, log.SourceAdapter} {
		if count := stats.EventsBySource[src]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", src.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryLifecycle, log.CategoryState, log.CategoryBinding, log.CategoryUseCase, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Sessions
	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		// Sort by first seen time
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)
			if s.stats.DeviceID != "" {
				fmt.Fprintf(w, "           Device: %s\n", s.stats.DeviceID)
			}
			if s.stats.ProcessorID != "" {
				fmt.Fprintf(w, "           Processor: %s\n", s.stats.ProcessorID)
			}
			if s.stats.FinalState != "" {
				fmt.Fprintf(w, "           State: %s\n", s.stats.FinalState)
			}
			if s.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", s.stats.Errors)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
