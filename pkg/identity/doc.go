// Package identity manages the persistent device identity used to
// authenticate against an OpenClaw gateway.
//
// A device identity is a self-issued Ed25519 keypair plus a device ID
// derived from the public key (lowercase hex SHA-256). The private key
// never leaves the device; the gateway learns only the public key and
// verifies possession through the signed connect handshake.
//
// Identities are created once and persisted. The FileStore reads and
// writes the on-disk record:
//
//	{
//	  "privateKey": "<base64 32-byte seed>",
//	  "publicKey":  "<base64 32-byte key>",
//	  "deviceId":   "<hex sha256(publicKey)>"
//	}
//
// A malformed record is a fatal local error (ErrCorruptStore): the store
// never silently fabricates a replacement identity, since that would
// invalidate trust the gateway has already established for this device.
package identity
