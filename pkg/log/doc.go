// Package log provides structured protocol logging for the gateway
// client.
//
// This package defines the Logger interface and Event types for
// capturing protocol-level events: session state changes, frames on the
// wire and errors. It is separate from operational logging (slog) -
// protocol capture provides a machine-readable event trace for
// debugging connection and handshake problems.
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("claw-pen.clog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// Log files use CBOR encoding; Reader streams them back with optional
// filtering.
package log
