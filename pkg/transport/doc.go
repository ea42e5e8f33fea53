// Package transport provides the WebSocket transport for the gateway
// connection.
//
// The transport layer handles:
//   - WebSocket dial and upgrade (gorilla/websocket)
//   - Text-frame send/receive with single-writer locking
//   - Keep-alive ping/pong for connection liveness
//
// The session layer consumes only the Conn and Dialer interfaces, so
// tests substitute in-memory fakes. TLS configuration is the caller's
// concern (wss:// URLs use the default gorilla TLS handling).
package transport
