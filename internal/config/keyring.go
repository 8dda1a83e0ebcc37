// internal/config/keyring.go
package config

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "sqlstudio"

// ErrNoPassword is returned when the keyring holds no entry for a server
var ErrNoPassword = errors.New("no stored password")

// PasswordStore is the subset of KeyringStore used by the UI and CLI
type PasswordStore interface {
	SetPassword(server, password string) error
	GetPassword(server string) (string, error)
	DeletePassword(server string) error
}

// KeyringStore manages password storage in system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// NewKeyringStoreWith wraps an already opened keyring
func NewKeyringStoreWith(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// SetPassword stores a password for a server
func (k *KeyringStore) SetPassword(server, password string) error {
	return k.ring.Set(keyring.Item{
		Key:   server,
		Data:  []byte(password),
		Label: "sqlstudio " + server,
	})
}

// GetPassword retrieves a password for a server
func (k *KeyringStore) GetPassword(server string) (string, error) {
	item, err := k.ring.Get(server)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w for server %s", ErrNoPassword, server)
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return string(item.Data), nil
}

// DeletePassword removes a password for a server
func (k *KeyringStore) DeletePassword(server string) error {
	err := k.ring.Remove(server)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
