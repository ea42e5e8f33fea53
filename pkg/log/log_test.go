package log

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func sampleEvent(connID string, cat Category) Event {
	ev := Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Category:     cat,
		DeviceID:     "dev-1",
	}
	switch cat {
	case CategoryFrame:
		ev.Direction = DirectionIn
		ev.Frame = &FrameEvent{Size: 42, Kind: "CHALLENGE"}
	case CategoryState:
		ev.StateChange = &StateChangeEvent{OldState: "CONNECTING", NewState: "AWAITING_CHALLENGE"}
	case CategoryError:
		ev.Error = &ErrorEventData{Message: "read failed", Context: "read"}
	}
	return ev
}

func TestEncodeDecodeEvent(t *testing.T) {
	ev := sampleEvent("conn-1", CategoryState)

	data, err := EncodeEvent(ev)
	if err != nil {
		t.Fatalf("EncodeEvent() failed: %v", err)
	}

	back, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() failed: %v", err)
	}

	if back.ConnectionID != ev.ConnectionID || back.Category != ev.Category {
		t.Errorf("round-trip mismatch: %+v", back)
	}
	if back.StateChange == nil || back.StateChange.NewState != "AWAITING_CHALLENGE" {
		t.Errorf("state change did not round-trip: %+v", back.StateChange)
	}
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() failed: %v", err)
	}

	logger.Log(sampleEvent("conn-1", CategoryState))
	logger.Log(sampleEvent("conn-1", CategoryFrame))
	logger.Log(sampleEvent("conn-2", CategoryError))

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Log after close is a no-op, not a panic.
	logger.Log(sampleEvent("conn-3", CategoryError))

	t.Run("ReadAll", func(t *testing.T) {
		r, err := NewReader(path)
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()

		events, err := r.All()
		if err != nil {
			t.Fatalf("All() failed: %v", err)
		}
		if len(events) != 3 {
			t.Errorf("read %d events, want 3", len(events))
		}
	})

	t.Run("Filtered", func(t *testing.T) {
		cat := CategoryFrame
		r, err := NewFilteredReader(path, Filter{ConnectionID: "conn-1", Category: &cat})
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()

		events, err := r.All()
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 1 {
			t.Fatalf("filtered read returned %d events, want 1", len(events))
		}
		if events[0].Frame == nil || events[0].Frame.Kind != "CHALLENGE" {
			t.Errorf("unexpected event: %+v", events[0])
		}

		if _, err := r.Next(); err != io.EOF {
			t.Errorf("Next() after end = %v, want io.EOF", err)
		}
	})
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.clog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(sampleEvent("conn-c", CategoryFrame))
			}
		}()
	}
	wg.Wait()
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	events, err := r.All()
	if err != nil {
		t.Fatalf("concurrent writes corrupted the log: %v", err)
	}
	if len(events) != 100 {
		t.Errorf("read %d events, want 100", len(events))
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	sl := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewSlogAdapter(sl).Log(sampleEvent("conn-1", CategoryError))

	out := buf.String()
	for _, want := range []string{"conn-1", "ERROR", "read failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("slog output missing %q: %s", want, out)
		}
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b recorder
	m := NewMultiLogger(&a, nil, &b)

	m.Log(sampleEvent("conn-1", CategoryState))

	if a.count != 1 || b.count != 1 {
		t.Errorf("counts = %d/%d, want 1/1", a.count, b.count)
	}
}

type recorder struct {
	mu    sync.Mutex
	count int
}

func (r *recorder) Log(Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}
