package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const keyringService = "briefhub-cli"

// ErrNoToken is returned by a Store when no credential is held.
var ErrNoToken = errors.New("no stored token")

// Store holds at most one bearer token for a session domain.
type Store interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// KeyringStore persists a token in the OS keychain/credential manager so a
// session survives process restarts.
type KeyringStore struct {
	account string
}

// NewKeyringStore creates a durable token store under the given account name
// (e.g. "user-token").
func NewKeyringStore(account string) *KeyringStore {
	return &KeyringStore{account: account}
}

func (s *KeyringStore) Save(token string) error {
	if err := keyring.Set(keyringService, s.account, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(keyringService, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(keyringService, s.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already cleared
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// MemoryStore holds a token for the process lifetime only. Admin elevation
// uses it so an admin credential never outlives the session that obtained it.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryStore creates an empty volatile token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
