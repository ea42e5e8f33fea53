package client

import (
	"context"
	"fmt"
	"time"

	"github.com/openclaw-protocol/clawpen-go/pkg/identity"
	"github.com/openclaw-protocol/clawpen-go/pkg/log"
	"github.com/openclaw-protocol/clawpen-go/pkg/reqid"
	"github.com/openclaw-protocol/clawpen-go/pkg/session"
	"github.com/openclaw-protocol/clawpen-go/pkg/transport"
	"github.com/openclaw-protocol/clawpen-go/pkg/wire"
)

// DefaultSessionKey is the chat session messages are sent to when no
// session key is configured.
const DefaultSessionKey = "main"

// Config configures a Client.
type Config struct {
	// GatewayURL is the gateway WebSocket endpoint (required).
	GatewayURL string

	// Store provides the persistent device identity. Defaults to the
	// file store at the default identity path.
	Store identity.Store

	// SessionKey selects the chat session for SendChat (default: "main").
	SessionKey string

	// Scopes requested during the handshake. Nil requests the default
	// operator scopes.
	Scopes []string

	// Dialer establishes connections. Defaults to a WebSocket dialer.
	Dialer transport.Dialer

	// RetryDelay is the fixed reconnect delay (default: 3s).
	RetryDelay time.Duration

	// HandshakeTimeout bounds each connection's handshake (default: 15s).
	HandshakeTimeout time.Duration

	// QueueCapacity is the outbound queue size (default: 100).
	QueueCapacity int

	// Logger receives protocol events. Nil disables logging.
	Logger log.Logger
}

// Client is an authenticated gateway chat client. Create with New,
// start with Run.
type Client struct {
	identity   *identity.Identity
	session    *session.Session
	messages   *reqid.Generator
	sessionKey string
}

// New loads the device identity and prepares the session. It does not
// connect; call Run to start the connection loop.
func New(config Config) (*Client, error) {
	store := config.Store
	if store == nil {
		path, err := identity.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve identity path: %w", err)
		}
		store = identity.NewFileStore(path)
	}

	id, err := store.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("failed to load device identity: %w", err)
	}

	sess, err := session.New(session.Config{
		URL:              config.GatewayURL,
		Identity:         id,
		Dialer:           config.Dialer,
		Scopes:           config.Scopes,
		RetryDelay:       config.RetryDelay,
		HandshakeTimeout: config.HandshakeTimeout,
		QueueCapacity:    config.QueueCapacity,
		Logger:           config.Logger,
	})
	if err != nil {
		return nil, err
	}

	sessionKey := config.SessionKey
	if sessionKey == "" {
		sessionKey = DefaultSessionKey
	}

	return &Client{
		identity:   id,
		session:    sess,
		messages:   reqid.NewGenerator(reqid.MessagePrefix),
		sessionKey: sessionKey,
	}, nil
}

// DeviceID returns the stable device identifier presented to the
// gateway.
func (c *Client) DeviceID() string {
	return c.identity.DeviceID
}

// State returns the current session state.
func (c *Client) State() session.State {
	return c.session.State()
}

// IsAuthenticated reports whether the current connection completed the
// handshake.
func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// Notifications returns the session's lifecycle and event channel.
func (c *Client) Notifications() <-chan session.Notification {
	return c.session.Notifications()
}

// Run drives the connection loop until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	return c.session.Run(ctx)
}

// SendChat enqueues a chat message and returns its request ID. Each
// call carries a fresh idempotency key so gateway-side retries do not
// duplicate the message. Queueing is not delivery: the message is
// discarded if the session is not authenticated when it is dequeued.
func (c *Client) SendChat(message string) (string, error) {
	id := c.messages.Next()
	frame, err := wire.NewRequest(id, wire.MethodChatSend, wire.ChatSendParams{
		SessionKey:     c.sessionKey,
		Message:        message,
		Deliver:        false,
		IdempotencyKey: reqid.IdempotencyKey(),
	})
	if err != nil {
		return "", err
	}

	data, err := wire.EncodeFrame(frame)
	if err != nil {
		return "", err
	}
	if err := c.session.Submit(data); err != nil {
		return "", fmt.Errorf("failed to queue chat message: %w", err)
	}
	return id, nil
}
