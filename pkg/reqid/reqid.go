// Package reqid generates request and idempotency identifiers for
// outbound gateway operations.
package reqid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Default request ID prefixes.
const (
	// ConnectPrefix is used for connect handshake requests.
	ConnectPrefix = "cp"

	// MessagePrefix is used for chat message requests.
	MessagePrefix = "msg"
)

// Generator produces process-unique request IDs of the form
// "<prefix>-<n>" with a monotonically increasing counter. The zero
// value is not usable; create one with NewGenerator.
type Generator struct {
	prefix  string
	counter atomic.Uint64
}

// NewGenerator creates a generator with the given prefix.
func NewGenerator(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Next returns the next request ID. Safe for concurrent use.
func (g *Generator) Next() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}

// IdempotencyKey returns a fresh random idempotency key.
func IdempotencyKey() string {
	return uuid.NewString()
}
