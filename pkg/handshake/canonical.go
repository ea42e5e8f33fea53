package handshake

import (
	"fmt"
	"strings"
)

// Client profile constants. These identify the control-UI client to the
// gateway and are part of the signed canonical message.
const (
	ClientID       = "openclaw-control-ui"
	ClientMode     = "webchat"
	ClientVersion  = "1.0.0"
	ClientPlatform = "desktop"
	Role           = "operator"
)

// canonicalVersion tags the canonical message format.
const canonicalVersion = "v2"

// DefaultScopes are the capability scopes this client profile requests.
func DefaultScopes() []string {
	return []string{"operator.admin", "operator.approvals", "operator.pairing"}
}

// CanonicalMessage builds the exact byte string that is signed by the
// client and re-derived by the gateway. signedAt is epoch milliseconds.
// The empty field before the nonce is reserved.
func CanonicalMessage(deviceID string, scopes []string, signedAt int64, nonce string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d||%s",
		canonicalVersion,
		deviceID,
		ClientID,
		ClientMode,
		Role,
		strings.Join(scopes, ","),
		signedAt,
		nonce,
	)
}
