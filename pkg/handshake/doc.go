// Package handshake builds and verifies the signed connect request of
// the challenge-response handshake.
//
// On connect the gateway issues a one-time nonce. The client proves
// possession of its device identity by signing a canonical message that
// binds the nonce to the device, client profile, role, scopes and a
// timestamp:
//
//	v2|<deviceId>|<clientId>|<clientMode>|<role>|<scope1,scope2,...>|<signedAtMillis>||<nonce>
//
// The field between signedAt and nonce is reserved and must stay empty.
// The gateway re-derives the exact same byte string from the request
// params and verifies the signature against the transmitted public key,
// so the format must match byte-for-byte.
//
// Build is pure: given identical identity, request ID, nonce and
// timestamp it produces an identical request.
package handshake
