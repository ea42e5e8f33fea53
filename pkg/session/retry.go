package session

import "time"

// DefaultRetryDelay is the fixed delay between reconnection attempts.
const DefaultRetryDelay = 3 * time.Second

// RetryPolicy produces the delay before the next reconnection attempt.
// The delay is fixed rather than exponential: the gateway is a local or
// operator-controlled endpoint and a short constant cadence recovers
// quickly once it is reachable again.
type RetryPolicy struct {
	delay    time.Duration
	attempts int
}

// NewRetryPolicy creates a policy with the given fixed delay.
// A non-positive delay falls back to DefaultRetryDelay.
func NewRetryPolicy(delay time.Duration) *RetryPolicy {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &RetryPolicy{delay: delay}
}

// Next records an attempt and returns the delay to wait before it.
func (r *RetryPolicy) Next() time.Duration {
	r.attempts++
	return r.delay
}

// Attempts returns the number of attempts since the last reset.
func (r *RetryPolicy) Attempts() int {
	return r.attempts
}

// Reset clears the attempt counter. Called after a successful
// authentication.
func (r *RetryPolicy) Reset() {
	r.attempts = 0
}
