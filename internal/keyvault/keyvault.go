package keyvault

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/vitalock/vitalock/internal/crypto"
)

const (
	defaultService = "vitalock"
	keyAccount     = "vault-key"
)

// ErrSecretStoreUnavailable reports that the platform secret store
// could not be reached or returned unusable key material. It is never
// downgraded to a silent fallback; callers surface it and stop.
var ErrSecretStoreUnavailable = errors.New("secret store unavailable")

// Vault owns the single durable VaultKey kept in the platform secret
// store (Keychain, libsecret, Credential Manager via go-keyring).
type Vault struct {
	mu      sync.Mutex
	service string
}

// Open returns a Vault bound to the given keyring service name.
// An empty service selects the default.
func Open(service string) *Vault {
	if service == "" {
		service = defaultService
	}
	return &Vault{service: service}
}

// Key returns the 256-bit VaultKey, generating and persisting it on
// first use. Idempotent and safe for concurrent callers; once a key
// exists it is never regenerated, since a second key would orphan
// everything sealed under the first.
func (v *Vault) Key(ctx context.Context) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded, err := keyring.Get(v.service, keyAccount)
	switch {
	case err == nil:
		key, decErr := hex.DecodeString(encoded)
		if decErr != nil || len(key) != crypto.KeySize {
			return nil, fmt.Errorf("%w: stored key material is malformed", ErrSecretStoreUnavailable)
		}
		return key, nil

	case errors.Is(err, keyring.ErrNotFound):
		key, genErr := crypto.GenerateRandom(crypto.KeySize)
		if genErr != nil {
			return nil, genErr
		}
		if setErr := keyring.Set(v.service, keyAccount, hex.EncodeToString(key)); setErr != nil {
			crypto.ClearBytes(key)
			return nil, fmt.Errorf("%w: %v", ErrSecretStoreUnavailable, setErr)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrSecretStoreUnavailable, err)
	}
}

// Probe checks that the secret store answers at all. A missing key is
// still a healthy store.
func (v *Vault) Probe() error {
	_, err := keyring.Get(v.service, keyAccount)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrSecretStoreUnavailable, err)
}

// HasKey reports whether a VaultKey has been minted yet.
func (v *Vault) HasKey() bool {
	_, err := keyring.Get(v.service, keyAccount)
	return err == nil
}
