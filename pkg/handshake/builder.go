package handshake

import (
	"crypto/ed25519"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openclaw-protocol/clawpen-go/pkg/identity"
	"github.com/openclaw-protocol/clawpen-go/pkg/wire"
)

// Build constructs the signed connect request for a server-issued nonce.
//
// It has no side effects: the caller supplies the request ID and the
// signing timestamp, so repeated calls with identical inputs yield an
// identical frame. Scopes may be nil, in which case DefaultScopes() are
// requested.
func Build(requestID, nonce string, id *identity.Identity, scopes []string, signedAt time.Time) (*wire.Frame, error) {
	if id == nil {
		return nil, fmt.Errorf("nil identity")
	}
	if nonce == "" {
		return nil, fmt.Errorf("empty challenge nonce")
	}
	if scopes == nil {
		scopes = DefaultScopes()
	}

	signedAtMillis := signedAt.UnixMilli()
	message := CanonicalMessage(id.DeviceID, scopes, signedAtMillis, nonce)
	signature := id.Sign([]byte(message))

	params := wire.ConnectParams{
		MinProtocol: wire.ProtocolVersion,
		MaxProtocol: wire.ProtocolVersion,
		Client: wire.ClientInfo{
			ID:       ClientID,
			Version:  ClientVersion,
			Platform: ClientPlatform,
			Mode:     ClientMode,
		},
		Role:   Role,
		Scopes: scopes,
		Device: wire.DeviceAuth{
			ID:        id.DeviceID,
			PublicKey: base64.StdEncoding.EncodeToString(id.PublicKey),
			Signature: base64.StdEncoding.EncodeToString(signature),
			SignedAt:  signedAtMillis,
			Nonce:     nonce,
		},
		Caps:     []string{},
		Commands: []string{},
	}

	return wire.NewRequest(requestID, wire.MethodConnect, params)
}

// Verify checks a connect request's device proof the way a gateway
// would: it re-derives the canonical message from the params and
// verifies the signature against the transmitted public key, and checks
// that the device ID matches that key.
func Verify(params wire.ConnectParams) error {
	pub, err := base64.StdEncoding.DecodeString(params.Device.PublicKey)
	if err != nil {
		return fmt.Errorf("invalid public key encoding: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("public key is %d bytes, want %d", len(pub), ed25519.PublicKeySize)
	}

	derived := identity.DeviceIDFromPublicKey(pub)
	if subtle.ConstantTimeCompare([]byte(derived), []byte(params.Device.ID)) != 1 {
		return fmt.Errorf("device ID does not match public key")
	}

	sig, err := base64.StdEncoding.DecodeString(params.Device.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}

	message := CanonicalMessage(params.Device.ID, params.Scopes, params.Device.SignedAt, params.Device.Nonce)
	if !ed25519.Verify(pub, []byte(message), sig) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}
