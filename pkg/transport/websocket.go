package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket timing constants.
const (
	// DefaultHandshakeTimeout bounds the WebSocket upgrade.
	DefaultHandshakeTimeout = 10 * time.Second

	// DefaultWriteWait is the time allowed to write a frame to the peer.
	DefaultWriteWait = 10 * time.Second

	// DefaultPongWait is the time allowed between pongs from the peer
	// before the connection is considered dead.
	DefaultPongWait = 60 * time.Second

	// DefaultMaxMessageSize is the maximum inbound frame size.
	DefaultMaxMessageSize = 512 * 1024
)

// pingPeriod derives the ping interval from the pong wait.
// Must be less than the pong wait.
func pingPeriod(pongWait time.Duration) time.Duration {
	return pongWait * 9 / 10
}

// WSDialerConfig configures the WebSocket dialer.
type WSDialerConfig struct {
	// HandshakeTimeout bounds the WebSocket upgrade (default: 10s).
	HandshakeTimeout time.Duration

	// Origin is sent as the Origin header when non-empty.
	Origin string

	// WriteWait is the per-frame write deadline (default: 10s).
	WriteWait time.Duration

	// PongWait is the liveness window; a ping is sent every
	// PongWait*9/10 and the peer must answer within PongWait
	// (default: 60s). Zero disables keep-alive.
	PongWait time.Duration

	// MaxMessageSize limits inbound frames (default: 512KiB).
	MaxMessageSize int64
}

// WSDialer dials gateway WebSocket endpoints.
type WSDialer struct {
	config WSDialerConfig
}

// NewWSDialer creates a WebSocket dialer with the given configuration.
// Zero config fields fall back to defaults.
func NewWSDialer(config WSDialerConfig) *WSDialer {
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if config.WriteWait == 0 {
		config.WriteWait = DefaultWriteWait
	}
	if config.PongWait == 0 {
		config.PongWait = DefaultPongWait
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	return &WSDialer{config: config}
}

// Dial connects to the gateway and returns an established connection.
func (d *WSDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.config.HandshakeTimeout,
	}

	var header http.Header
	if d.config.Origin != "" {
		header = http.Header{"Origin": []string{d.config.Origin}}
	}

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", url, err)
	}

	conn.SetReadLimit(d.config.MaxMessageSize)

	c := &WSConn{
		conn:      conn,
		writeWait: d.config.WriteWait,
		pongWait:  d.config.PongWait,
		closeCh:   make(chan struct{}),
	}
	c.startKeepAlive()

	return c, nil
}

// WSConn is a WebSocket connection to the gateway.
type WSConn struct {
	conn      *websocket.Conn
	writeWait time.Duration
	pongWait  time.Duration

	writeMu   sync.Mutex
	closeCh   chan struct{}
	closeOnce sync.Once
}

// startKeepAlive installs the pong handler and starts the ping loop.
func (c *WSConn) startKeepAlive() {
	if c.pongWait <= 0 {
		return
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	go func() {
		ticker := time.NewTicker(pingPeriod(c.pongWait))
		defer ticker.Stop()
		for {
			select {
			case <-c.closeCh:
				return
			case <-ticker.C:
				c.writeMu.Lock()
				err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
				c.writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()
}

// ReadFrame returns the next inbound text frame, skipping non-text
// message types.
func (c *WSConn) ReadFrame() ([]byte, error) {
	for {
		select {
		case <-c.closeCh:
			return nil, ErrConnectionClosed
		default:
		}

		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read failed: %w", err)
		}
		if messageType == websocket.TextMessage {
			return data, nil
		}
	}
}

// WriteFrame sends one text frame with the configured write deadline.
func (c *WSConn) WriteFrame(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// RemoteAddr returns the remote endpoint description.
func (c *WSConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Close sends a close frame on a best-effort basis and closes the
// underlying connection.
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeWait),
		)
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}
