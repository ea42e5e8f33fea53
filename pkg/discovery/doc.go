// Package discovery finds OpenClaw gateways on the local network via
// mDNS/DNS-SD.
//
// Gateways advertise _openclaw-gw._tcp in the local domain. The TXT
// record may carry the WebSocket path and a human-readable gateway
// name. Discovery is a convenience for interactive use; clients with a
// configured gateway URL never need it.
package discovery
