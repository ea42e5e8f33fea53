// Command claw-pen is an interactive OpenClaw gateway chat client.
//
// On first run it generates a persistent Ed25519 device identity and
// stores it under ~/.openclaw/. Every connection answers the gateway's
// challenge with a signature from that identity, so the device ID stays
// stable across restarts.
//
// Usage:
//
//	claw-pen [flags]
//
// Flags:
//
//	-gateway string       Gateway WebSocket URL (e.g. ws://host:18789/)
//	-discover             Find the gateway via mDNS instead of -gateway
//	-config string        Config file path (default ~/.openclaw/claw-pen.yaml)
//	-identity string      Device identity file path
//	-session string       Chat session key (default "main")
//	-protocol-log string  Write a CBOR protocol log to this file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Connect to a known gateway
//	claw-pen -gateway ws://192.168.1.10:18789/
//
//	# Find the gateway on the local network
//	claw-pen -discover
//
//	# Record the protocol exchange for later inspection
//	claw-pen -gateway ws://gw:18789/ -protocol-log ./session.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/openclaw-protocol/clawpen-go/cmd/claw-pen/interactive"
	"github.com/openclaw-protocol/clawpen-go/pkg/client"
	"github.com/openclaw-protocol/clawpen-go/pkg/discovery"
	"github.com/openclaw-protocol/clawpen-go/pkg/identity"
	"github.com/openclaw-protocol/clawpen-go/pkg/log"
)

var flags struct {
	gateway     string
	discover    bool
	configPath  string
	identity    string
	session     string
	protocolLog string
	logLevel    string
}

func init() {
	flag.StringVar(&flags.gateway, "gateway", "", "Gateway WebSocket URL")
	flag.BoolVar(&flags.discover, "discover", false, "Find the gateway via mDNS")
	flag.StringVar(&flags.configPath, "config", "", "Config file path")
	flag.StringVar(&flags.identity, "identity", "", "Device identity file path")
	flag.StringVar(&flags.session, "session", "", "Chat session key")
	flag.StringVar(&flags.protocolLog, "protocol-log", "", "CBOR protocol log file")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// promptWriter lets the slog handler's output be redirected to the
// readline-coordinated writer once the console exists.
type promptWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *promptWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w.Write(b)
}

func (p *promptWriter) Set(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w = w
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "claw-pen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := &promptWriter{w: os.Stderr}
	slogger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	logger, closeLog, err := buildProtocolLogger(slogger, cfg.ProtocolLog)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gatewayURL, err := resolveGateway(ctx, cfg, slogger)
	if err != nil {
		return err
	}

	retryDelay, err := parseDuration("retryDelay", cfg.RetryDelay)
	if err != nil {
		return err
	}
	handshakeTimeout, err := parseDuration("handshakeTimeout", cfg.HandshakeTimeout)
	if err != nil {
		return err
	}

	var store identity.Store
	if cfg.Identity != "" {
		store = identity.NewFileStore(cfg.Identity)
	}

	c, err := client.New(client.Config{
		GatewayURL:       gatewayURL,
		Store:            store,
		SessionKey:       cfg.Session,
		Scopes:           cfg.Scopes,
		RetryDelay:       retryDelay,
		HandshakeTimeout: handshakeTimeout,
		QueueCapacity:    cfg.QueueCapacity,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	console, err := interactive.New(c)
	if err != nil {
		return err
	}
	out.Set(console.Stdout())
	stdlog.SetOutput(console.Stdout())

	fmt.Fprintf(console.Stdout(), "Device ID: %s\n", c.DeviceID())
	fmt.Fprintf(console.Stdout(), "Gateway:   %s\n", gatewayURL)

	go func() {
		if err := c.Run(ctx); err != nil && ctx.Err() == nil {
			slogger.Error("session stopped", "error", err)
		}
	}()
	go console.WatchNotifications(ctx)

	// Ctrl+C inside readline is handled by the console; signals cover
	// non-interactive termination.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	console.Run(ctx, cancel)
	return nil
}

// loadConfig merges the config file with command-line flags. Flags win.
func loadConfig() (*FileConfig, error) {
	path := flags.configPath
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return nil, err
	}

	if flags.gateway != "" {
		cfg.Gateway = flags.gateway
	}
	if flags.identity != "" {
		cfg.Identity = flags.identity
	}
	if flags.session != "" {
		cfg.Session = flags.session
	}
	if flags.protocolLog != "" {
		cfg.ProtocolLog = flags.protocolLog
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, nil
}

// resolveGateway returns the gateway URL from config or, with
// -discover, from mDNS browsing.
func resolveGateway(ctx context.Context, cfg *FileConfig, slogger *slog.Logger) (string, error) {
	if flags.discover {
		slogger.Info("browsing for gateways", "service", discovery.ServiceType)
		svc, err := discovery.NewBrowser(discovery.BrowserConfig{}).FindFirst(ctx)
		if err != nil {
			return "", err
		}
		slogger.Info("gateway found", "instance", svc.InstanceName, "url", svc.URL())
		return svc.URL(), nil
	}

	if cfg.Gateway == "" {
		return "", fmt.Errorf("no gateway configured; use -gateway, a config file, or -discover")
	}
	return cfg.Gateway, nil
}

// buildProtocolLogger composes the slog adapter with an optional CBOR
// file logger.
func buildProtocolLogger(slogger *slog.Logger, path string) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(slogger)
	if path == "" {
		return adapter, func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open protocol log: %w", err)
	}
	return log.NewMultiLogger(adapter, fileLogger), func() { _ = fileLogger.Close() }, nil
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
