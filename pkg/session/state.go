package session

// State represents the session connection state.
type State uint8

const (
	// StateDisconnected means no transport connection exists.
	StateDisconnected State = iota

	// StateConnecting means the WebSocket dial is in progress.
	StateConnecting

	// StateAwaitingChallenge means the transport is established and the
	// session is waiting for the server's connect.challenge event.
	StateAwaitingChallenge

	// StateAuthenticating means the signed connect request was sent and
	// the session is waiting for its acknowledgement.
	StateAuthenticating

	// StateAuthenticated means the handshake completed and outbound
	// messages are delivered.
	StateAuthenticated

	// StateClosing means a shutdown was requested and the connection is
	// being torn down.
	StateClosing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateAwaitingChallenge:
		return "AWAITING_CHALLENGE"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}
