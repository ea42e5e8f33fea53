package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openclaw-protocol/clawpen-go/pkg/handshake"
	"github.com/openclaw-protocol/clawpen-go/pkg/identity"
	"github.com/openclaw-protocol/clawpen-go/pkg/log"
	"github.com/openclaw-protocol/clawpen-go/pkg/reqid"
	"github.com/openclaw-protocol/clawpen-go/pkg/transport"
	"github.com/openclaw-protocol/clawpen-go/pkg/wire"
)

// Defaults for Config fields left zero.
const (
	// DefaultHandshakeTimeout bounds the time from transport
	// establishment to authentication.
	DefaultHandshakeTimeout = 15 * time.Second

	// DefaultNotifyBuffer is the notification channel capacity.
	// Notifications are dropped, never blocked on, when the observer
	// falls behind.
	DefaultNotifyBuffer = 32
)

// errHandshakeTimeout reports an authentication that did not complete
// within the handshake timeout.
var errHandshakeTimeout = errors.New("handshake timed out")

// Config configures a Session.
type Config struct {
	// URL is the gateway WebSocket endpoint (required).
	URL string

	// Identity is the device identity used to answer challenges (required).
	Identity *identity.Identity

	// Dialer establishes connections. Defaults to a WebSocket dialer
	// with default timeouts.
	Dialer transport.Dialer

	// Scopes requested during the handshake. Nil requests the default
	// operator scopes.
	Scopes []string

	// RetryDelay is the fixed delay between reconnection attempts
	// (default: 3s).
	RetryDelay time.Duration

	// HandshakeTimeout bounds the time from transport establishment to
	// authentication (default: 15s). A connection that has not
	// authenticated within this window is dropped and retried.
	HandshakeTimeout time.Duration

	// QueueCapacity is the outbound queue size (default: 100).
	QueueCapacity int

	// NotifyBuffer is the notification channel capacity (default: 32).
	NotifyBuffer int

	// Logger receives protocol events. Nil disables logging.
	Logger log.Logger
}

// Session maintains one authenticated gateway connection, reconnecting
// with a fixed delay whenever it is lost. Create with New, start with
// Run.
type Session struct {
	config   Config
	queue    *OutboundQueue
	notifyCh chan Notification
	requests *reqid.Generator
	retry    *RetryPolicy
	logger   log.Logger

	// now is replaced in tests for deterministic signing timestamps.
	now func() time.Time

	mu     sync.RWMutex
	state  State
	connID string
}

// New creates a session for the given gateway.
func New(config Config) (*Session, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("gateway URL is required")
	}
	if config.Identity == nil {
		return nil, fmt.Errorf("device identity is required")
	}
	if config.Dialer == nil {
		config.Dialer = transport.NewWSDialer(transport.WSDialerConfig{})
	}
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if config.NotifyBuffer <= 0 {
		config.NotifyBuffer = DefaultNotifyBuffer
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	return &Session{
		config:   config,
		queue:    NewOutboundQueue(config.QueueCapacity),
		notifyCh: make(chan Notification, config.NotifyBuffer),
		requests: reqid.NewGenerator(reqid.ConnectPrefix),
		retry:    NewRetryPolicy(config.RetryDelay),
		logger:   logger,
		now:      time.Now,
		state:    StateDisconnected,
	}, nil
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether the handshake has completed on the
// current connection.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Submit enqueues one encoded outbound frame. It never blocks and
// returns ErrQueueFull when the queue is at capacity. Acceptance does
// not guarantee delivery: frames dequeued while the session is not
// authenticated are discarded.
func (s *Session) Submit(data []byte) error {
	return s.queue.Submit(data)
}

// Notifications returns the channel of lifecycle and event
// notifications. The channel is buffered; notifications are dropped
// when the buffer is full.
func (s *Session) Notifications() <-chan Notification {
	return s.notifyCh
}

// Run drives the session until ctx is cancelled: connect, handshake,
// pump, and on any disconnect wait the retry delay and start over.
// It always returns ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		s.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		timer.Reset(s.retry.Next())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// readResult carries one ReadFrame outcome from the reader goroutine.
type readResult struct {
	data []byte
	err  error
}

// runOnce performs one full connection attempt: dial, handshake, pump.
// It returns when the connection is lost or ctx is cancelled.
func (s *Session) runOnce(ctx context.Context) {
	connID := uuid.NewString()
	s.setConnID(connID)
	s.transition(StateConnecting, "connect attempt")

	conn, err := s.config.Dialer.Dial(ctx, s.config.URL)
	if err != nil {
		s.logError("dial", err)
		s.notify(Notification{Kind: NotifyError, Detail: err.Error()})
		s.transition(StateDisconnected, "dial failed")
		return
	}
	defer conn.Close()

	s.transition(StateAwaitingChallenge, "transport established")
	s.notify(Notification{Kind: NotifyConnected})

	done := make(chan struct{})
	defer close(done)

	readCh := make(chan readResult)
	go func() {
		for {
			data, err := conn.ReadFrame()
			select {
			case readCh <- readResult{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	// The handshake timer covers the whole pre-authentication phase and
	// is disarmed on authentication.
	hsTimer := time.NewTimer(s.config.HandshakeTimeout)
	defer hsTimer.Stop()
	hsExpired := hsTimer.C

	var connectID string
	connectSent := false

	for {
		select {
		case <-ctx.Done():
			s.transition(StateClosing, "shutdown")
			s.transition(StateDisconnected, "closed")
			s.notify(Notification{Kind: NotifyDisconnected, Detail: "closed"})
			return

		case <-hsExpired:
			s.logError("handshake", errHandshakeTimeout)
			s.notify(Notification{Kind: NotifyError, Detail: errHandshakeTimeout.Error()})
			s.disconnect(errHandshakeTimeout.Error())
			return

		case r := <-readCh:
			if r.err != nil {
				s.disconnect("read error: " + r.err.Error())
				return
			}
			if !s.handleFrame(conn, r.data, &connectID, &connectSent) {
				return
			}
			if s.IsAuthenticated() && hsExpired != nil {
				hsTimer.Stop()
				hsExpired = nil
			}

		case msg := <-s.queue.messages():
			if !s.IsAuthenticated() {
				// Dequeued while unauthenticated: discard, never delay.
				s.logFrame(log.DirectionOut, len(msg), "", true)
				continue
			}
			if err := conn.WriteFrame(msg); err != nil {
				s.logError("write", err)
				s.disconnect("write error: " + err.Error())
				return
			}
			s.logFrame(log.DirectionOut, len(msg), "", false)
		}
	}
}

// handleFrame dispatches one inbound frame. It returns false when the
// connection must be dropped.
func (s *Session) handleFrame(conn transport.Conn, data []byte, connectID *string, connectSent *bool) bool {
	class := wire.Classify(data, s.IsAuthenticated(), *connectID)
	s.logFrame(log.DirectionIn, len(data), class.Kind.String(), class.Kind == wire.KindIgnore)

	switch class.Kind {
	case wire.KindChallenge:
		// At most one connect request per transport session; a repeated
		// challenge on the same connection is ignored.
		if *connectSent {
			return true
		}

		id := s.requests.Next()
		frame, err := handshake.Build(id, class.Nonce, s.config.Identity, s.config.Scopes, s.now())
		if err != nil {
			s.logError("handshake", err)
			return true
		}
		encoded, err := wire.EncodeFrame(frame)
		if err != nil {
			s.logError("handshake", err)
			return true
		}
		if err := conn.WriteFrame(encoded); err != nil {
			s.logError("write", err)
			s.disconnect("write error: " + err.Error())
			return false
		}

		*connectID = id
		*connectSent = true
		s.logFrame(log.DirectionOut, len(encoded), wire.MethodConnect, false)
		s.transition(StateAuthenticating, "challenge answered")

	case wire.KindAck:
		s.transition(StateAuthenticated, "connect acknowledged")
		s.retry.Reset()
		s.notify(Notification{Kind: NotifyAuthenticated})

	case wire.KindError:
		s.notify(Notification{Kind: NotifyError, Detail: class.Detail})
		s.disconnect("gateway error: " + class.Detail)
		return false

	case wire.KindEvent:
		s.notify(Notification{Kind: NotifyEvent, Frame: class.Raw})

	case wire.KindIgnore:
	}

	return true
}

// disconnect records the end of a connection attempt. The caller closes
// the transport via its deferred Close.
func (s *Session) disconnect(reason string) {
	s.transition(StateDisconnected, reason)
	s.notify(Notification{Kind: NotifyDisconnected, Detail: reason})
}

// notify delivers one notification without blocking the session loop.
func (s *Session) notify(n Notification) {
	select {
	case s.notifyCh <- n:
	default:
	}
}

func (s *Session) setConnID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connID = id
}

// transition moves to the given state and logs the change. Same-state
// transitions are suppressed.
func (s *Session) transition(next State, reason string) {
	s.mu.Lock()
	old := s.state
	if old == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	connID := s.connID
	s.mu.Unlock()

	s.logger.Log(log.Event{
		Timestamp:    s.now(),
		ConnectionID: connID,
		Category:     log.CategoryState,
		DeviceID:     s.config.Identity.DeviceID,
		GatewayURL:   s.config.URL,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

func (s *Session) logFrame(dir log.Direction, size int, kind string, dropped bool) {
	s.mu.RLock()
	connID := s.connID
	s.mu.RUnlock()

	s.logger.Log(log.Event{
		Timestamp:    s.now(),
		ConnectionID: connID,
		Direction:    dir,
		Category:     log.CategoryFrame,
		DeviceID:     s.config.Identity.DeviceID,
		GatewayURL:   s.config.URL,
		Frame: &log.FrameEvent{
			Size:    size,
			Kind:    kind,
			Dropped: dropped,
		},
	})
}

func (s *Session) logError(context string, err error) {
	s.mu.RLock()
	connID := s.connID
	s.mu.RUnlock()

	s.logger.Log(log.Event{
		Timestamp:    s.now(),
		ConnectionID: connID,
		Category:     log.CategoryError,
		DeviceID:     s.config.Identity.DeviceID,
		GatewayURL:   s.config.URL,
		Error: &log.ErrorEventData{
			Message: err.Error(),
			Context: context,
		},
	})
}
