package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/openclaw-protocol/clawpen-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Connections       map[string]*ConnectionStats
	Errors            int
	DroppedFrames     int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection attempt.
type ConnectionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	DeviceID   string
	GatewayURL string
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Connections:       make(map[string]*ConnectionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	stats.print(w)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	if event.Category == log.CategoryFrame {
		s.EventsByDirection[event.Direction]++
	}

	if event.Category == log.CategoryError {
		s.Errors++
	}
	if event.Frame != nil && event.Frame.Dropped {
		s.DroppedFrames++
	}

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{FirstSeen: event.Timestamp}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.DeviceID != "" {
		conn.DeviceID = event.DeviceID
	}
	if event.GatewayURL != "" {
		conn.GatewayURL = event.GatewayURL
	}
}

func (s *Stats) print(w io.Writer) {
	fmt.Fprintf(w, "Total events: %d\n", s.TotalEvents)
	if !s.TimeRange.Start.IsZero() {
		fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
			s.TimeRange.Start.UTC().Format(time.RFC3339),
			s.TimeRange.End.UTC().Format(time.RFC3339),
			s.TimeRange.End.Sub(s.TimeRange.Start).Round(time.Millisecond))
	}

	fmt.Fprintln(w, "\nBy category:")
	for _, c := range []log.Category{log.CategoryFrame, log.CategoryState, log.CategoryError} {
		if n := s.EventsByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %-6s %d\n", c, n)
		}
	}

	if len(s.EventsByDirection) > 0 {
		fmt.Fprintln(w, "\nFrames by direction:")
		for _, d := range []log.Direction{log.DirectionIn, log.DirectionOut} {
			if n := s.EventsByDirection[d]; n > 0 {
				fmt.Fprintf(w, "  %-4s %d\n", d, n)
			}
		}
	}

	if s.DroppedFrames > 0 {
		fmt.Fprintf(w, "\nDropped frames: %d\n", s.DroppedFrames)
	}
	if s.Errors > 0 {
		fmt.Fprintf(w, "Errors:         %d\n", s.Errors)
	}

	fmt.Fprintf(w, "\nConnections: %d\n", len(s.Connections))
	ids := make([]string, 0, len(s.Connections))
	for id := range s.Connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.Connections[ids[i]].FirstSeen.Before(s.Connections[ids[j]].FirstSeen)
	})
	for _, id := range ids {
		conn := s.Connections[id]
		fmt.Fprintf(w, "  %s  events=%d  duration=%s\n",
			shortenConnID(id), conn.Events,
			conn.LastSeen.Sub(conn.FirstSeen).Round(time.Millisecond))
		if conn.GatewayURL != "" {
			fmt.Fprintf(w, "           gateway=%s\n", conn.GatewayURL)
		}
	}
}
