package wire

import "encoding/json"

// ProtocolVersion is the gateway protocol version this client speaks.
// Sent as both minProtocol and maxProtocol during connect.
const ProtocolVersion = 3

// Frame types.
const (
	FrameTypeRequest  = "req"
	FrameTypeResponse = "res"
	FrameTypeEvent    = "event"
)

// Request methods used by this client.
const (
	MethodConnect  = "connect"
	MethodChatSend = "chat.send"
)

// Event names with protocol-level meaning.
const (
	// EventConnectChallenge carries the nonce the client must sign.
	EventConnectChallenge = "connect.challenge"

	// EventError is a server-pushed error event.
	EventError = "error"
)

// Frame is the generic gateway envelope. Fields are populated depending
// on Type; unused fields stay empty and are omitted on encode.
type Frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	OK      *bool           `json:"ok,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Event   string          `json:"event,omitempty"`
	Error   *ErrorShape     `json:"error,omitempty"`
	Seq     int64           `json:"seq,omitempty"`
}

// ErrorShape describes a protocol error carried in a response or event.
type ErrorShape struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// IsAck reports whether the frame is a successful response.
func (f *Frame) IsAck() bool {
	return f.Type == FrameTypeResponse && f.OK != nil && *f.OK
}

// ErrorDetail returns a human-readable error description for frames that
// carry one, or "" if the frame carries no error.
func (f *Frame) ErrorDetail() string {
	if f.Error != nil {
		if f.Error.Code != "" {
			return f.Error.Code + ": " + f.Error.Message
		}
		return f.Error.Message
	}
	if f.Type == FrameTypeResponse && f.OK != nil && !*f.OK {
		return "request failed"
	}
	if f.Type == FrameTypeEvent && f.Event == EventError {
		return "server error event"
	}
	return ""
}

// ChallengePayload is the connect.challenge event payload.
type ChallengePayload struct {
	Nonce string `json:"nonce"`
	TS    int64  `json:"ts,omitempty"`
}
