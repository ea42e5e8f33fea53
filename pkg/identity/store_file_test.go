package identity

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreLoadOrCreate(t *testing.T) {
	t.Run("CreatesOnFirstUse", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sub", "device.json")
		store := NewFileStore(path)

		id, err := store.LoadOrCreate()
		if err != nil {
			t.Fatalf("LoadOrCreate() failed: %v", err)
		}
		if id.DeviceID == "" {
			t.Error("created identity has empty device ID")
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("identity file not written: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("identity file mode = %o, want 0600", perm)
		}
	})

	t.Run("ReloadReproducesIdentity", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device.json")

		first, err := NewFileStore(path).LoadOrCreate()
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		second, err := NewFileStore(path).LoadOrCreate()
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}

		if second.DeviceID != first.DeviceID {
			t.Errorf("reloaded DeviceID = %s, want %s", second.DeviceID, first.DeviceID)
		}

		// Same signature behavior across restarts.
		msg := []byte("nonce-abc123")
		if !first.Verify(msg, second.Sign(msg)) {
			t.Error("reloaded identity signs with a different key")
		}
	})

	t.Run("PreservesStoredDeviceID", func(t *testing.T) {
		// The deviceId field is passed through from disk, not re-derived.
		path := filepath.Join(t.TempDir(), "device.json")
		id, err := Generate(nil)
		if err != nil {
			t.Fatal(err)
		}
		writeRecord(t, path, record{
			PrivateKey: base64.StdEncoding.EncodeToString(id.seed()),
			PublicKey:  base64.StdEncoding.EncodeToString(id.PublicKey),
			DeviceID:   "stored-device-id",
		})

		loaded, err := NewFileStore(path).LoadOrCreate()
		if err != nil {
			t.Fatalf("LoadOrCreate() failed: %v", err)
		}
		if loaded.DeviceID != "stored-device-id" {
			t.Errorf("DeviceID = %s, want stored-device-id", loaded.DeviceID)
		}
	})
}

func TestFileStoreCorruption(t *testing.T) {
	id, err := Generate(nil)
	if err != nil {
		t.Fatal(err)
	}
	goodSeed := base64.StdEncoding.EncodeToString(id.seed())
	goodPub := base64.StdEncoding.EncodeToString(id.PublicKey)

	other, err := Generate(nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data string
	}{
		{"InvalidJSON", "{not json"},
		{"MissingPrivateKey", mustJSON(t, record{PublicKey: goodPub, DeviceID: id.DeviceID})},
		{"MissingDeviceID", mustJSON(t, record{PrivateKey: goodSeed, PublicKey: goodPub})},
		{"BadBase64", mustJSON(t, record{PrivateKey: "!!!", PublicKey: goodPub, DeviceID: id.DeviceID})},
		{"ShortKey", mustJSON(t, record{
			PrivateKey: base64.StdEncoding.EncodeToString([]byte("short")),
			PublicKey:  goodPub,
			DeviceID:   id.DeviceID,
		})},
		{"MismatchedPublicKey", mustJSON(t, record{
			PrivateKey: goodSeed,
			PublicKey:  base64.StdEncoding.EncodeToString(other.PublicKey),
			DeviceID:   id.DeviceID,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "device.json")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := NewFileStore(path).LoadOrCreate()
			if !errors.Is(err, ErrCorruptStore) {
				t.Errorf("LoadOrCreate() error = %v, want ErrCorruptStore", err)
			}

			// The corrupt record must survive untouched: no silent rewrite.
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				t.Fatal(readErr)
			}
			if string(data) != tt.data {
				t.Error("corrupt identity file was rewritten")
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate() failed: %v", err)
	}
	second, err := store.LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate() failed: %v", err)
	}
	if first != second {
		t.Error("MemoryStore generated a second identity")
	}

	seeded := NewMemoryStoreWith(first)
	got, err := seeded.LoadOrCreate()
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Error("seeded store returned a different identity")
	}
}

func writeRecord(t *testing.T, path string, rec record) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
}

func mustJSON(t *testing.T, rec record) string {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
