package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the config file looked up in the OpenClaw
// directory when no -config flag is given.
const DefaultConfigFileName = "claw-pen.yaml"

// FileConfig is the YAML configuration file schema. All fields are
// optional; flags override file values.
type FileConfig struct {
	// Gateway is the gateway WebSocket URL.
	Gateway string `yaml:"gateway"`

	// Session is the chat session key (default "main").
	Session string `yaml:"session"`

	// Identity is the device identity file path.
	Identity string `yaml:"identity"`

	// Scopes override the requested operator scopes.
	Scopes []string `yaml:"scopes"`

	// RetryDelay is the reconnect delay ("3s", "500ms", ...).
	RetryDelay string `yaml:"retryDelay"`

	// HandshakeTimeout bounds each connection's handshake ("15s", ...).
	HandshakeTimeout string `yaml:"handshakeTimeout"`

	// QueueCapacity is the outbound queue size.
	QueueCapacity int `yaml:"queueCapacity"`

	// ProtocolLog is the CBOR protocol log file path.
	ProtocolLog string `yaml:"protocolLog"`

	// LogLevel is the console log level: debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".openclaw", DefaultConfigFileName), nil
}

// LoadConfig reads a YAML config file. A missing file at the default
// location is not an error; a missing explicit path is.
func LoadConfig(path string, explicit bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// parseDuration parses an optional duration string. Empty means zero,
// which selects the library default.
func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", name, value)
	}
	return d, nil
}
