package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "gptlink"

const sessionTokenKey = "session-token"

// OpenKeyring opens the OS secret store. backend "memory" keeps secrets in
// process, "file" uses an encrypted file under the user config dir, and
// an empty backend lets keyring pick the platform default.
func OpenKeyring(backend string) (keyring.Keyring, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "memory":
		return keyring.NewArrayKeyring(nil), nil
	case "file":
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		return keyring.Open(keyring.Config{
			ServiceName:      serviceName,
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			FileDir:          filepath.Join(configDir, serviceName, "keys"),
			FilePasswordFunc: keyring.FixedStringPrompt(serviceName),
		})
	case "":
		return keyring.Open(keyring.Config{
			ServiceName:                    serviceName,
			KeychainTrustApplication:       true,
			KeychainAccessibleWhenUnlocked: true,
		})
	default:
		return nil, fmt.Errorf("unknown keyring backend %q", backend)
	}
}

// KeyringService keeps the session token out of the database.
type KeyringService struct {
	ring keyring.Keyring
}

func NewKeyringService(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

func (s *KeyringService) StoreToken(token string) error {
	if token == "" {
		return errors.New("token is empty")
	}
	return s.ring.Set(keyring.Item{
		Key:         sessionTokenKey,
		Data:        []byte(token),
		Label:       "gptlink session token",
		Description: "Session token used by gptlink",
	})
}

// Token returns "" without error when no token is stored.
func (s *KeyringService) Token() (string, error) {
	item, err := s.ring.Get(sessionTokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteToken() error {
	err := s.ring.Remove(sessionTokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
