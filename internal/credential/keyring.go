package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"

	"github.com/nhle/jira-issues/internal/model"
)

const serviceName = "jira-issues"

// TokenEnv is the environment variable that overrides the stored token.
const TokenEnv = "JIRA_TOKEN"

// ErrNotFound is returned when no credential exists for a key.
var ErrNotFound = errors.New("credential not found")

// Store reads and writes API tokens in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  model.ConfigDir() + "/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jira-issues-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("getting credential %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key string, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key.
func (s *Store) Delete(key string) error {
	err := s.ring.Remove(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("deleting credential %q: %w", key, ErrNotFound)
		}
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// ResolveToken returns the token from $JIRA_TOKEN when set, otherwise from
// the keyring entry key. A nil store only consults the environment.
func ResolveToken(s *Store, key string) (string, error) {
	if token := os.Getenv(TokenEnv); token != "" {
		return token, nil
	}
	if s == nil {
		return "", fmt.Errorf("getting credential %q: %w", key, ErrNotFound)
	}
	return s.Get(key)
}
