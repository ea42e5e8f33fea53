package session

import "errors"

// DefaultQueueCapacity is the default outbound queue size.
const DefaultQueueCapacity = 100

// ErrQueueFull is returned by Submit when the outbound queue is at
// capacity. The message was not enqueued.
var ErrQueueFull = errors.New("outbound queue full")

// OutboundQueue is a bounded FIFO of encoded outbound frames. Submit
// never blocks; when the queue is full the message is rejected so a
// stalled connection cannot apply backpressure to callers.
type OutboundQueue struct {
	ch chan []byte
}

// NewOutboundQueue creates a queue with the given capacity.
// A non-positive capacity falls back to DefaultQueueCapacity.
func NewOutboundQueue(capacity int) *OutboundQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &OutboundQueue{ch: make(chan []byte, capacity)}
}

// Submit enqueues one encoded frame. Safe for concurrent use.
// Acceptance guarantees queueing only, not delivery: messages dequeued
// while the session is not authenticated are discarded.
func (q *OutboundQueue) Submit(data []byte) error {
	select {
	case q.ch <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// messages exposes the receive side to the session loop.
func (q *OutboundQueue) messages() <-chan []byte {
	return q.ch
}

// Len returns the number of queued messages.
func (q *OutboundQueue) Len() int {
	return len(q.ch)
}
