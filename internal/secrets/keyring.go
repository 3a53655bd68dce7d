// Package secrets keeps engine state and credentials in the OS keychain.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the engine's entries in the OS keychain.
	DefaultService = "jobboard"

	// Config values carrying this prefix name a keychain account instead
	// of holding the secret inline, e.g. "keyring:postgres".
	RefPrefix = "keyring:"
)

// KeyringKV stores each key as one keychain entry of service. It
// satisfies bookmarks.KV.
type KeyringKV struct {
	service string
}

func NewKeyringKV(service string) *KeyringKV {
	if strings.TrimSpace(service) == "" {
		service = DefaultService
	}
	return &KeyringKV{service: service}
}

func (kv *KeyringKV) Get(_ context.Context, key string) (string, bool, error) {
	v, err := keyring.Get(kv.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring get %s: %w", key, err)
	}
	return v, true, nil
}

func (kv *KeyringKV) Set(_ context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("keyring account name is empty")
	}
	if err := keyring.Set(kv.service, key, value); err != nil {
		return fmt.Errorf("keyring set %s: %w", key, err)
	}
	return nil
}

func (kv *KeyringKV) Remove(_ context.Context, key string) error {
	err := keyring.Delete(kv.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %s: %w", key, err)
	}
	return nil
}

// Resolve returns value unchanged unless it is a "keyring:<account>"
// reference, in which case the secret is read from service.
func Resolve(service, value string) (string, error) {
	account, ok := strings.CutPrefix(strings.TrimSpace(value), RefPrefix)
	if !ok {
		return value, nil
	}
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(service) == "" {
		service = DefaultService
	}
	v, err := keyring.Get(service, account)
	if err != nil {
		return "", fmt.Errorf("secret %q not found in keychain: %w", account, err)
	}
	return v, nil
}
