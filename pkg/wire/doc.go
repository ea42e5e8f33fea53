// Package wire defines the OpenClaw gateway wire protocol envelope and
// inbound frame classification.
//
// All traffic is JSON text frames. Three frame types exist:
//
//	req    client-to-server RPC request {type, id, method, params}
//	res    server response {type, id, ok, payload | error}
//	event  server push {type, event, payload, seq}
//
// Inbound frames are classified into a tagged Classification value with a
// fixed, first-match priority: challenge, connect acknowledgement, error,
// then opaque event. Frames that fit no category (or arrive before
// authentication) are ignored; a malformed frame never terminates the
// read loop.
package wire
