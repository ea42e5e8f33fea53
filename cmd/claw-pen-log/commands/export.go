package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/openclaw-protocol/clawpen-go/pkg/log"
)

// exportEvent is the JSON export schema for one event.
type exportEvent struct {
	Timestamp    string `json:"timestamp"`
	ConnectionID string `json:"connectionId"`
	Direction    string `json:"direction,omitempty"`
	Category     string `json:"category"`
	DeviceID     string `json:"deviceId,omitempty"`
	GatewayURL   string `json:"gatewayUrl,omitempty"`

	Frame       *log.FrameEvent       `json:"frame,omitempty"`
	StateChange *log.StateChangeEvent `json:"stateChange,omitempty"`
	Error       *log.ErrorEventData   `json:"error,omitempty"`
}

// RunExport writes the log file as JSON Lines, one event per line.
func RunExport(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		out := exportEvent{
			Timestamp:    event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			ConnectionID: event.ConnectionID,
			Category:     event.Category.String(),
			DeviceID:     event.DeviceID,
			GatewayURL:   event.GatewayURL,
			Frame:        event.Frame,
			StateChange:  event.StateChange,
			Error:        event.Error,
		}
		if event.Category == log.CategoryFrame {
			out.Direction = event.Direction.String()
		}

		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}
