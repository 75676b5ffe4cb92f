package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "micampo"

// Keys under which API credentials are kept.
const (
	OpenWeatherKey = "openweather_api_key"
	OpenAIKey      = "openai_api_key"
)

var ErrNotFound = errors.New("credential not found")

// openKeyring is swapped in tests.
var openKeyring = func() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/micampo/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("micampo-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func Set(key, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: "MiCampo " + key}); err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Known reports whether key is one of the credentials the service reads.
func Known(key string) bool { return key == OpenWeatherKey || key == OpenAIKey }
