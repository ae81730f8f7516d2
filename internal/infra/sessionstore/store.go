// Package sessionstore persists the login session in a small JSON key/value file.
package sessionstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/zentasks/zentasks/internal/domain"
)

// Ensure Store implements domain.SessionStore.
var _ domain.SessionStore = (*Store)(nil)

// storeData is the file content: storage key -> raw string value.
type storeData map[string]string

// Store implements domain.SessionStore using a JSON file guarded by flock.
type Store struct {
	path     string
	lockPath string
}

// New creates a Store for the given file path.
// The file does not need to exist; it is created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored session, or nil when the token or user is missing.
// A user value that does not decode clears both keys.
func (s *Store) Load() (*domain.Session, error) {
	var session *domain.Session
	err := s.withLockWrite(func(data storeData) (bool, error) {
		token := data[domain.TokenStorageKey]
		rawUser := data[domain.UserStorageKey]
		if token == "" || rawUser == "" {
			return false, nil
		}
		var user domain.User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			delete(data, domain.TokenStorageKey)
			delete(data, domain.UserStorageKey)
			return true, nil
		}
		session = &domain.Session{Token: token, User: &user}
		return false, nil
	})
	return session, err
}

// Save writes the token and user together.
func (s *Store) Save(session *domain.Session) error {
	if !session.IsAuthenticated() {
		return s.Clear()
	}
	rawUser, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.withLockWrite(func(data storeData) (bool, error) {
		data[domain.TokenStorageKey] = session.Token
		data[domain.UserStorageKey] = string(rawUser)
		return true, nil
	})
}

// Clear removes the token and user together.
func (s *Store) Clear() error {
	return s.withLockWrite(func(data storeData) (bool, error) {
		_, hasToken := data[domain.TokenStorageKey]
		_, hasUser := data[domain.UserStorageKey]
		delete(data, domain.TokenStorageKey)
		delete(data, domain.UserStorageKey)
		return hasToken || hasUser, nil
	})
}

// Get returns the raw value for key.
func (s *Store) Get(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.withLock(func(data storeData) error {
		value, ok = data[key]
		return nil
	})
	return value, ok, err
}

// Set stores a raw value for key.
func (s *Store) Set(key, value string) error {
	return s.withLockWrite(func(data storeData) (bool, error) {
		data[key] = value
		return true, nil
	})
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	return fn(data)
}

// withLockWrite executes fn with an exclusive lock and writes the data back
// when fn reports a change.
func (s *Store) withLockWrite(fn func(storeData) (bool, error)) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	changed, err := fn(data)
	if err != nil || !changed {
		return err
	}
	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read returns the file content. A missing or unreadable file is an empty store.
func (s *Store) read() (storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return storeData{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	data := storeData{}
	if err := json.Unmarshal(content, &data); err != nil {
		// Treat a corrupt file like an empty one; the next write replaces it.
		return storeData{}, nil
	}
	if data == nil {
		data = storeData{}
	}
	return data, nil
}

func (s *Store) write(data storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
