package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openclaw-protocol/clawpen-go/pkg/log"
)

// writeTestLog creates a log file with a small scripted connection.
func writeTestLog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.cbor")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:    base,
			ConnectionID: "conn-aaaa-1111",
			Category:     log.CategoryState,
			GatewayURL:   "ws://gw:18789/",
			StateChange:  &log.StateChangeEvent{OldState: "DISCONNECTED", NewState: "CONNECTING"},
		},
		{
			Timestamp:    base.Add(time.Second),
			ConnectionID: "conn-aaaa-1111",
			Direction:    log.DirectionIn,
			Category:     log.CategoryFrame,
			Frame:        &log.FrameEvent{Size: 120, Kind: "CHALLENGE"},
		},
		{
			Timestamp:    base.Add(2 * time.Second),
			ConnectionID: "conn-aaaa-1111",
			Direction:    log.DirectionOut,
			Category:     log.CategoryFrame,
			Frame:        &log.FrameEvent{Size: 640, Kind: "connect"},
		},
		{
			Timestamp:    base.Add(3 * time.Second),
			ConnectionID: "conn-bbbb-2222",
			Category:     log.CategoryError,
			Error:        &log.ErrorEventData{Message: "dial refused", Context: "dial"},
		},
		{
			Timestamp:    base.Add(4 * time.Second),
			ConnectionID: "conn-bbbb-2222",
			Direction:    log.DirectionOut,
			Category:     log.CategoryFrame,
			Frame:        &log.FrameEvent{Size: 80, Dropped: true},
		},
	}
	for _, e := range events {
		logger.Log(e)
	}
	return path
}

func TestRunView(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"conn-aaa",
		"DISCONNECTED -> CONNECTING",
		"Kind: CHALLENGE",
		"Error: dial refused",
		"Dropped: true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view output missing %q:\n%s", want, out)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTestLog(t)

	category := log.CategoryError
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Category: &category}, &buf); err != nil {
		t.Fatalf("RunView() failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "dial refused") {
		t.Errorf("filtered view missing error event:\n%s", out)
	}
	if strings.Contains(out, "CHALLENGE") {
		t.Errorf("filtered view contains frame events:\n%s", out)
	}
}

func TestRunStats(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Total events: 5",
		"Connections: 2",
		"Dropped frames: 1",
		"Errors:         1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestRunExport(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	if err := RunExport(path, &buf); err != nil {
		t.Fatalf("RunExport() failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		lines++
		var e exportEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if e.ConnectionID == "" {
			t.Errorf("line %d has no connectionId", lines)
		}
	}
	if lines != 5 {
		t.Errorf("exported %d lines, want 5", lines)
	}
}

func TestRunFilter(t *testing.T) {
	path := writeTestLog(t)
	outPath := filepath.Join(t.TempDir(), "filtered.cbor")

	if err := RunFilter(path, outPath, log.Filter{ConnectionID: "conn-bbbb-2222"}); err != nil {
		t.Fatalf("RunFilter() failed: %v", err)
	}

	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	events, err := reader.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("filtered file has %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.ConnectionID != "conn-bbbb-2222" {
			t.Errorf("filtered event has connection %q", e.ConnectionID)
		}
	}
}
