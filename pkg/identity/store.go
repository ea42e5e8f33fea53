package identity

import "errors"

// Store errors.
var (
	// ErrCorruptStore indicates the persisted identity record exists but
	// cannot be used (bad encoding, wrong key length, missing fields).
	// This is fatal for connection attempts: regenerating the identity
	// would break trust previously established with the gateway, so the
	// caller must surface the problem instead of reconnecting.
	ErrCorruptStore = errors.New("corrupt identity store")
)

// Store loads or creates a persistent device identity.
type Store interface {
	// LoadOrCreate returns the stored identity, creating and persisting a
	// new one if no record exists. It is idempotent across process
	// restarts: once a record exists, every call returns an identity with
	// the same device ID and signing behavior.
	LoadOrCreate() (*Identity, error)
}
