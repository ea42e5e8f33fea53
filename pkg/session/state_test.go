package session

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "DISCONNECTED"},
		{StateConnecting, "CONNECTING"},
		{StateAwaitingChallenge, "AWAITING_CHALLENGE"},
		{StateAuthenticating, "AUTHENTICATING"},
		{StateAuthenticated, "AUTHENTICATED"},
		{StateClosing, "CLOSING"},
		{State(99), "UNKNOWN"},
	}

	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestNotificationKindString(t *testing.T) {
	tests := []struct {
		kind NotificationKind
		want string
	}{
		{NotifyConnected, "CONNECTED"},
		{NotifyAuthenticated, "AUTHENTICATED"},
		{NotifyDisconnected, "DISCONNECTED"},
		{NotifyError, "ERROR"},
		{NotifyEvent, "EVENT"},
		{NotificationKind(99), "UNKNOWN"},
	}

	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("NotificationKind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
