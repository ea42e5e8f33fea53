package session

// NotificationKind identifies a lifecycle or protocol notification.
type NotificationKind uint8

const (
	// NotifyConnected means the transport was established.
	NotifyConnected NotificationKind = iota

	// NotifyAuthenticated means the handshake completed.
	NotifyAuthenticated

	// NotifyDisconnected means the connection was lost or closed.
	NotifyDisconnected

	// NotifyError means the gateway or transport reported an error.
	NotifyError

	// NotifyEvent carries an opaque post-authentication gateway frame.
	NotifyEvent
)

// String returns the notification kind name.
func (k NotificationKind) String() string {
	switch k {
	case NotifyConnected:
		return "CONNECTED"
	case NotifyAuthenticated:
		return "AUTHENTICATED"
	case NotifyDisconnected:
		return "DISCONNECTED"
	case NotifyError:
		return "ERROR"
	case NotifyEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// Notification is an asynchronous message from the session to its
// observer.
type Notification struct {
	Kind NotificationKind

	// Detail is a short human-readable cause, set for Disconnected and
	// Error notifications.
	Detail string

	// Frame is the raw gateway frame, set for Event notifications.
	Frame []byte
}
