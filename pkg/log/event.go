package log

import "time"

// Event represents a protocol log event. CBOR encoding uses integer
// keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection attempt (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow. Meaningful for frame events.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// DeviceID is the local device identifier.
	DeviceID string `cbor:"5,keyasint,omitempty"`

	// GatewayURL is the remote endpoint for this connection attempt.
	GatewayURL string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"7,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"9,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming frame.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing frame.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates a wire frame (sent, received or dropped).
	CategoryFrame Category = 0
	// CategoryState indicates a session state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a wire frame.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Kind is the classification result for inbound frames
	// (CHALLENGE, ACK, ERROR, EVENT, IGNORE) or the method for
	// outbound requests.
	Kind string `cbor:"2,keyasint,omitempty"`

	// Dropped is true when the frame was discarded without processing
	// (pre-authentication frames, discarded outbound messages).
	Dropped bool `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures a session state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`

	// Reason is a short human-readable cause ("challenge received",
	// "read error", ...).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	Message string `cbor:"1,keyasint"`

	// Context describes where the error occurred ("dial", "read",
	// "handshake", ...).
	Context string `cbor:"2,keyasint,omitempty"`
}
