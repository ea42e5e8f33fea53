package transport

import (
	"context"
	"errors"
)

// ErrConnectionClosed is returned for operations on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Conn is one established text-frame connection to the gateway.
// Implemented by WSConn.
type Conn interface {
	// ReadFrame blocks until the next inbound text frame is available.
	// Frames are returned in wire order. A transport close or read
	// failure is reported as an error; the connection is unusable
	// afterwards.
	ReadFrame() ([]byte, error)

	// WriteFrame sends one text frame. Safe for use by a single writer;
	// the session loop is the only writer.
	WriteFrame(data []byte) error

	// RemoteAddr returns the remote endpoint description.
	RemoteAddr() string

	// Close closes the connection. Safe to call multiple times.
	Close() error
}

// Dialer establishes gateway connections.
// Implemented by WSDialer.
type Dialer interface {
	// Dial connects to the gateway at the given WebSocket URL.
	Dial(ctx context.Context, url string) (Conn, error)
}

// Compile-time interface satisfaction checks.
var (
	_ Conn   = (*WSConn)(nil)
	_ Dialer = (*WSDialer)(nil)
)
