package wire

import "encoding/json"

// Kind identifies the classification of an inbound frame.
type Kind uint8

const (
	// KindIgnore means the frame carries nothing actionable and is dropped.
	KindIgnore Kind = iota

	// KindChallenge is a connect.challenge event with a nonce.
	KindChallenge

	// KindAck is the successful response to the outstanding connect request.
	KindAck

	// KindError is a server-reported error (failed response or error event).
	KindError

	// KindEvent is an opaque post-authentication event for observers.
	KindEvent
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIgnore:
		return "IGNORE"
	case KindChallenge:
		return "CHALLENGE"
	case KindAck:
		return "ACK"
	case KindError:
		return "ERROR"
	case KindEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// Classification is the result of classifying one inbound frame.
// Fields beyond Kind are populated per kind.
type Classification struct {
	Kind Kind

	// Nonce is set for KindChallenge.
	Nonce string

	// RequestID is set for KindAck and for correlated KindError.
	RequestID string

	// Detail is set for KindError.
	Detail string

	// Frame and Raw are set for KindEvent.
	Frame *Frame
	Raw   []byte
}

// Classify inspects one inbound text frame. Classification is
// first-match in a fixed priority order:
//
//  1. A connect.challenge event with a nonce. A challenge without a
//     nonce is malformed and ignored, not surfaced.
//  2. The response matching connectID (the one outstanding connect
//     request): ok=true is an acknowledgement, ok=false an error.
//  3. Any other frame carrying an error.
//  4. Anything else: an opaque event when authenticated, otherwise
//     dropped (pre-authentication frames carry no meaning here).
//
// Undecodable input is ignored; classification never fails.
func Classify(data []byte, authenticated bool, connectID string) Classification {
	f, err := DecodeFrame(data)
	if err != nil {
		return Classification{Kind: KindIgnore}
	}

	if f.Type == FrameTypeEvent && f.Event == EventConnectChallenge {
		var p ChallengePayload
		if err := json.Unmarshal(f.Payload, &p); err != nil || p.Nonce == "" {
			return Classification{Kind: KindIgnore}
		}
		return Classification{Kind: KindChallenge, Nonce: p.Nonce}
	}

	// Exact requestId correlation against the single outstanding connect
	// request, not a prefix heuristic.
	if f.Type == FrameTypeResponse && connectID != "" && f.ID == connectID {
		if f.IsAck() {
			return Classification{Kind: KindAck, RequestID: f.ID}
		}
		return Classification{Kind: KindError, RequestID: f.ID, Detail: f.ErrorDetail()}
	}

	if detail := f.ErrorDetail(); detail != "" {
		return Classification{Kind: KindError, RequestID: f.ID, Detail: detail}
	}

	if authenticated {
		return Classification{Kind: KindEvent, Frame: f, Raw: data}
	}

	return Classification{Kind: KindIgnore}
}
