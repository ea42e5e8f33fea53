package identity

import "sync"

// MemoryStore keeps the identity in memory only. Intended for tests and
// ephemeral clients that should not persist a device identity.
type MemoryStore struct {
	mu sync.Mutex
	id *Identity
}

// NewMemoryStore creates an empty in-memory identity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates an in-memory store seeded with an existing
// identity.
func NewMemoryStoreWith(id *Identity) *MemoryStore {
	return &MemoryStore{id: id}
}

// LoadOrCreate returns the stored identity, generating one on first call.
func (s *MemoryStore) LoadOrCreate() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != nil {
		return s.id, nil
	}

	id, err := Generate(nil)
	if err != nil {
		return nil, err
	}
	s.id = id
	return id, nil
}

// Compile-time interface satisfaction check.
var _ Store = (*MemoryStore)(nil)
