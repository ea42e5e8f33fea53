package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// SeedSize is the size of the stored private key seed in bytes.
const SeedSize = ed25519.SeedSize

// Identity is a device's signing identity.
//
// The private key is exclusively owned by this process and is never
// transmitted. DeviceID is computed once at creation time and persisted
// alongside the keys; it is not regenerated while a stored key exists.
type Identity struct {
	privateKey ed25519.PrivateKey

	// PublicKey is the Ed25519 verifying key (32 bytes).
	PublicKey ed25519.PublicKey

	// DeviceID is the lowercase hex SHA-256 of PublicKey.
	DeviceID string
}

// Generate creates a new identity from the given entropy source.
// Pass nil to use crypto/rand.
func Generate(random io.Reader) (*Identity, error) {
	if random == nil {
		random = rand.Reader
	}

	pub, priv, err := ed25519.GenerateKey(random)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	return &Identity{
		privateKey: priv,
		PublicKey:  pub,
		DeviceID:   DeviceIDFromPublicKey(pub),
	}, nil
}

// FromSeed reconstructs an identity from a stored 32-byte private key seed.
// The deviceID is passed through from the stored record.
func FromSeed(seed []byte, deviceID string) (*Identity, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("invalid seed length: %d", len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	return &Identity{
		privateKey: priv,
		PublicKey:  pub,
		DeviceID:   deviceID,
	}, nil
}

// DeviceIDFromPublicKey derives a device ID from a public key.
func DeviceIDFromPublicKey(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:])
}

// Sign signs a message with the identity's private key.
// The returned signature is 64 bytes.
func (id *Identity) Sign(message []byte) []byte {
	return ed25519.Sign(id.privateKey, message)
}

// Verify reports whether sig is a valid signature of message by this
// identity's public key.
func (id *Identity) Verify(message, sig []byte) bool {
	return ed25519.Verify(id.PublicKey, message, sig)
}

// seed returns the 32-byte private key seed for persistence.
func (id *Identity) seed() []byte {
	return id.privateKey.Seed()
}
