package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestGenerate(t *testing.T) {
	id, err := Generate(nil)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	t.Run("DeviceIDDerivation", func(t *testing.T) {
		sum := sha256.Sum256(id.PublicKey)
		want := hex.EncodeToString(sum[:])
		if id.DeviceID != want {
			t.Errorf("DeviceID = %s, want %s", id.DeviceID, want)
		}
	})

	t.Run("SignVerify", func(t *testing.T) {
		msg := []byte("v2|test|message")
		sig := id.Sign(msg)

		if len(sig) != 64 {
			t.Errorf("signature length = %d, want 64", len(sig))
		}
		if !id.Verify(msg, sig) {
			t.Error("signature does not verify against own public key")
		}
		if id.Verify([]byte("tampered"), sig) {
			t.Error("signature verified against a different message")
		}
	})

	t.Run("Unique", func(t *testing.T) {
		other, err := Generate(nil)
		if err != nil {
			t.Fatalf("Generate() failed: %v", err)
		}
		if other.DeviceID == id.DeviceID {
			t.Error("two generated identities share a device ID")
		}
	})
}

func TestFromSeed(t *testing.T) {
	id, err := Generate(nil)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	t.Run("RoundTrip", func(t *testing.T) {
		restored, err := FromSeed(id.seed(), id.DeviceID)
		if err != nil {
			t.Fatalf("FromSeed() failed: %v", err)
		}

		if restored.DeviceID != id.DeviceID {
			t.Errorf("DeviceID = %s, want %s", restored.DeviceID, id.DeviceID)
		}

		// Signatures from the restored identity must verify against the
		// original public key.
		msg := []byte("challenge-nonce")
		sig := restored.Sign(msg)
		if !id.Verify(msg, sig) {
			t.Error("restored identity produces signatures the original key rejects")
		}
	})

	t.Run("BadSeedLength", func(t *testing.T) {
		if _, err := FromSeed(make([]byte, 16), "x"); err == nil {
			t.Error("FromSeed accepted a 16-byte seed")
		}
	})
}
