package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore is the single durable slot holding the bearer token.
type TokenStore interface {
	// Load returns the stored token, or "" if none is stored.
	Load() (string, error)

	// Save replaces the stored token.
	Save(token string) error

	// Clear removes the stored token. Clearing an empty slot is not an error.
	Clear() error
}

// FileStore keeps the token in one file with mode 0600.
type FileStore struct {
	Path string
}

// Load implements TokenStore.
func (f FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save implements TokenStore. The parent directory is created with mode 0700.
func (f FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(token), 0600)
}

// Clear implements TokenStore.
func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore is an in-process TokenStore for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string

	// SaveErr, if set, is returned by Save.
	SaveErr error
}

// NewMemoryStore returns a MemoryStore holding token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Load implements TokenStore.
func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Save implements TokenStore.
func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.token = token
	return nil
}

// Clear implements TokenStore.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
