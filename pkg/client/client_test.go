package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openclaw-protocol/clawpen-go/pkg/identity"
	"github.com/openclaw-protocol/clawpen-go/pkg/session"
	"github.com/openclaw-protocol/clawpen-go/pkg/transport"
	"github.com/openclaw-protocol/clawpen-go/pkg/wire"
)

// fakeConn lets the test play the gateway side of a connection.
type fakeConn struct {
	in  chan []byte
	out chan []byte

	mu       sync.Mutex
	closed   bool
	closedCh chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:       make(chan []byte, 16),
		out:      make(chan []byte, 16),
		closedCh: make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrame() ([]byte, error) {
	select {
	case data := <-c.in:
		return data, nil
	case <-c.closedCh:
		return nil, transport.ErrConnectionClosed
	}
}

func (c *fakeConn) WriteFrame(data []byte) error {
	select {
	case <-c.closedCh:
		return transport.ErrConnectionClosed
	default:
	}
	c.out <- data
	return nil
}

func (c *fakeConn) RemoteAddr() string { return "fake-gateway" }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.closedCh)
	}
	return nil
}

type fakeDialer struct {
	dialed chan *fakeConn
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (transport.Conn, error) {
	conn := newFakeConn()
	select {
	case d.dialed <- conn:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return conn, nil
}

// startAuthenticated runs a client against a fake gateway and completes
// the handshake. Returns the client and the gateway-side connection.
func startAuthenticated(t *testing.T) (*Client, *fakeConn) {
	t.Helper()

	dialer := &fakeDialer{dialed: make(chan *fakeConn, 4)}
	c, err := New(Config{
		GatewayURL: "ws://gateway.local:18789/",
		Store:      identity.NewMemoryStore(),
		Dialer:     dialer,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)

	var conn *fakeConn
	select {
	case conn = <-dialer.dialed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dial")
	}

	challenge, err := json.Marshal(map[string]any{
		"type":    "event",
		"event":   "connect.challenge",
		"payload": map[string]any{"nonce": "test-nonce"},
	})
	if err != nil {
		t.Fatal(err)
	}
	conn.in <- challenge

	connect := readFrame(t, conn)
	if connect.Method != wire.MethodConnect {
		t.Fatalf("first request method = %q, want connect", connect.Method)
	}
	ack, err := json.Marshal(map[string]any{"type": "res", "id": connect.ID, "ok": true})
	if err != nil {
		t.Fatal(err)
	}
	conn.in <- ack

	waitAuthenticated(t, c)
	return c, conn
}

func readFrame(t *testing.T, conn *fakeConn) *wire.Frame {
	t.Helper()
	select {
	case data := <-conn.out:
		frame, err := wire.DecodeFrame(data)
		if err != nil {
			t.Fatalf("outbound frame does not decode: %v", err)
		}
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an outbound frame")
		return nil
	}
}

func waitAuthenticated(t *testing.T, c *Client) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-c.Notifications():
			if n.Kind == session.NotifyAuthenticated {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for authentication")
		}
	}
}

func TestNewLoadsIdentity(t *testing.T) {
	id, err := identity.Generate(nil)
	if err != nil {
		t.Fatal(err)
	}

	c, err := New(Config{
		GatewayURL: "ws://gateway.local:18789/",
		Store:      identity.NewMemoryStoreWith(id),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := c.DeviceID(); got != id.DeviceID {
		t.Errorf("DeviceID() = %q, want %q", got, id.DeviceID)
	}
	if got := c.State(); got != session.StateDisconnected {
		t.Errorf("State() before Run = %v, want StateDisconnected", got)
	}
	if c.IsAuthenticated() {
		t.Error("IsAuthenticated() before Run = true")
	}
}

func TestNewRejectsCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := New(Config{
		GatewayURL: "ws://gateway.local:18789/",
		Store:      identity.NewFileStore(path),
	})
	if !errors.Is(err, identity.ErrCorruptStore) {
		t.Fatalf("New() with corrupt store = %v, want ErrCorruptStore", err)
	}
}

func TestNewRejectsMissingURL(t *testing.T) {
	_, err := New(Config{Store: identity.NewMemoryStore()})
	if err == nil {
		t.Fatal("New() without a gateway URL succeeded")
	}
}

func TestSendChatFrame(t *testing.T) {
	c, conn := startAuthenticated(t)

	id, err := c.SendChat("hello there")
	if err != nil {
		t.Fatalf("SendChat() failed: %v", err)
	}
	if !strings.HasPrefix(id, "msg-") {
		t.Errorf("request ID = %q, want msg- prefix", id)
	}

	frame := readFrame(t, conn)
	if frame.Type != wire.FrameTypeRequest {
		t.Errorf("frame type = %q, want %q", frame.Type, wire.FrameTypeRequest)
	}
	if frame.Method != wire.MethodChatSend {
		t.Errorf("frame method = %q, want %q", frame.Method, wire.MethodChatSend)
	}
	if frame.ID != id {
		t.Errorf("frame ID = %q, want %q", frame.ID, id)
	}

	var params wire.ChatSendParams
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		t.Fatal(err)
	}
	if params.SessionKey != DefaultSessionKey {
		t.Errorf("sessionKey = %q, want %q", params.SessionKey, DefaultSessionKey)
	}
	if params.Message != "hello there" {
		t.Errorf("message = %q", params.Message)
	}
	if params.Deliver {
		t.Error("deliver = true, want false")
	}
	if params.IdempotencyKey == "" {
		t.Error("idempotencyKey is empty")
	}
}

func TestSendChatUniqueIdempotencyKeys(t *testing.T) {
	c, conn := startAuthenticated(t)

	if _, err := c.SendChat("one"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SendChat("two"); err != nil {
		t.Fatal(err)
	}

	keys := map[string]bool{}
	for i := 0; i < 2; i++ {
		frame := readFrame(t, conn)
		var params wire.ChatSendParams
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			t.Fatal(err)
		}
		keys[params.IdempotencyKey] = true
	}
	if len(keys) != 2 {
		t.Errorf("idempotency keys are not unique: %v", keys)
	}
}
