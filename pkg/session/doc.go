// Package session owns the gateway connection lifecycle.
//
// A Session is driven by a single long-lived goroutine (Run) that
// contains the outer reconnect loop and, per connection attempt, an
// inner loop multiplexing inbound frames and the outbound queue. All
// other goroutines interact with it only through the bounded outbound
// queue (Submit) and the asynchronous lifecycle notifications - the
// transport handle is never shared.
//
// # State machine
//
//	Disconnected -> Connecting          start, or retry delay elapsed
//	Connecting -> AwaitingChallenge     transport established
//	AwaitingChallenge -> Authenticating challenge received, connect sent
//	Authenticating -> Authenticated     matching acknowledgement
//	Authenticating -> Disconnected      error frame or send failure
//	Authenticated -> Disconnected       close, read or send failure
//	any -> Disconnected                 unrecoverable transport error
//
// Exactly one connect request is sent per transport session; later
// challenges on the same connection are ignored.
//
// # Delivery semantics
//
// Outbound messages are sent only while Authenticated. A message
// dequeued in any other state is discarded, not delayed: Submit
// reporting success is a queueing guarantee, not a delivery guarantee,
// and re-submission after reconnect is the caller's responsibility.
//
// # Reconnection
//
// Reconnection uses a fixed delay and runs for the lifetime of the
// session; there is no terminal failure state. An unreachable gateway
// is expected to become reachable again externally.
package session
