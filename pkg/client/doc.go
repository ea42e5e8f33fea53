// Package client is the high-level entry point: it binds the persistent
// device identity to a reconnecting gateway session and exposes the
// chat operations.
//
// A Client loads (or creates) the device identity once at construction.
// A corrupt identity store is fatal at this point: regenerating the
// keypair would silently break the pairing established with the
// gateway, so no connection attempt is made.
package client
