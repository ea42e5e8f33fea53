package identity

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Default locations for the identity file, relative to the user's home.
const (
	DefaultDirName  = ".openclaw"
	DefaultFileName = "claw-pen-device.json"
)

// DefaultPath returns the default identity file path for the current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// record is the on-disk JSON representation of an identity.
// The file holds a private key and must be access-restricted.
type record struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
	DeviceID   string `json:"deviceId"`
}

// FileStore persists the device identity as a JSON file.
// The file is created with mode 0600 and its directory with 0700.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-based identity store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the identity file path.
func (s *FileStore) Path() string {
	return s.path
}

// LoadOrCreate returns the persisted identity, generating and persisting
// a new one on first use. An unreadable or malformed record returns an
// error wrapping ErrCorruptStore; a fresh identity is never fabricated
// over an existing record.
func (s *FileStore) LoadOrCreate() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.create()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	return s.load(data)
}

func (s *FileStore) load(data []byte) (*Identity, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrCorruptStore, err)
	}
	if rec.PrivateKey == "" || rec.PublicKey == "" || rec.DeviceID == "" {
		return nil, fmt.Errorf("%w: missing fields", ErrCorruptStore)
	}

	seed, err := base64.StdEncoding.DecodeString(rec.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key encoding: %v", ErrCorruptStore, err)
	}
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: private key is %d bytes, want %d", ErrCorruptStore, len(seed), SeedSize)
	}

	pub, err := base64.StdEncoding.DecodeString(rec.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid public key encoding: %v", ErrCorruptStore, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key is %d bytes, want %d", ErrCorruptStore, len(pub), ed25519.PublicKeySize)
	}

	id, err := FromSeed(seed, rec.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}

	// The stored public key must be the one the private key derives,
	// otherwise signatures will never verify against it.
	if !bytes.Equal(id.PublicKey, pub) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrCorruptStore)
	}

	return id, nil
}

func (s *FileStore) create() (*Identity, error) {
	id, err := Generate(nil)
	if err != nil {
		return nil, err
	}

	rec := record{
		PrivateKey: base64.StdEncoding.EncodeToString(id.seed()),
		PublicKey:  base64.StdEncoding.EncodeToString(id.PublicKey),
		DeviceID:   id.DeviceID,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create identity directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write identity file: %w", err)
	}

	return id, nil
}

// Compile-time interface satisfaction check.
var _ Store = (*FileStore)(nil)
