package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vitalock/vitalock/internal/auth"
	"github.com/vitalock/vitalock/internal/crypto"
	"github.com/vitalock/vitalock/internal/keyvault"
	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/storage"
	"github.com/vitalock/vitalock/internal/vault"
)

// DataDir resolves the directory holding the sealed vault. VITALOCK_DIR
// overrides the per-user default.
func DataDir() (string, error) {
	if dir := os.Getenv("VITALOCK_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, "vitalock"), nil
}

// OpenStore opens the vault in its sealed state. The constructor seals
// any working copy a previous crash left behind, so a store is always
// locked by the time this returns.
func OpenStore(ctx context.Context, log logging.Logger) (*vault.Store, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return vault.Open(ctx, vault.Options{
		DataDir:    dataDir,
		ScratchDir: filepath.Join(dataDir, "work"),
		Keys:       keyvault.Open(""),
		Log:        log,
	})
}

// WithUnlocked runs fn against an unlocked store and seals it again
// before returning, whatever fn did. This is the session every data
// command runs: authenticate, unlock, operate, lock.
func WithUnlocked(ctx context.Context, log logging.Logger, fn func(*vault.Store) error) error {
	gate := auth.Gate{Auth: auth.Allow()}
	if err := gate.Confirm(ctx, "unlock health vault"); err != nil {
		return err
	}

	store, err := OpenStore(ctx, log)
	if err != nil {
		return err
	}
	if err := store.Unlock(ctx); err != nil {
		return err
	}
	defer func() {
		if err := store.Lock(context.WithoutCancel(ctx)); err != nil {
			log.Errorf("failed to seal vault: %s", err)
		}
	}()

	return fn(store)
}

// parseTime accepts the timestamp spellings the flags take. Date-only
// values are taken as local midnight.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want RFC3339, \"2006-01-02 15:04\" or \"2006-01-02\")", value)
}

// parseQuery builds a record query from flag values
func parseQuery(kind, from, to string) (storage.Query, error) {
	start, err := parseTime(from)
	if err != nil {
		return storage.Query{}, err
	}
	end, err := parseTime(to)
	if err != nil {
		return storage.Query{}, err
	}
	return storage.Query{Kind: storage.Kind(kind), Start: start, End: end}, nil
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, keyvault.ErrSecretStoreUnavailable):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The platform secret store is not reachable; nothing was changed. Try again once it is back.\n")
	case errors.Is(err, crypto.ErrAuthenticationFailed):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The data could not be authenticated: wrong key or password, or the bytes were modified.\n")
	case errors.Is(err, crypto.ErrMalformedEnvelope):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The file is too short to be a sealed vitalock payload.\n")
	case errors.Is(err, vault.ErrStoreLocked):
		fmt.Fprintf(os.Stderr, "Error: the vault is locked\n")
	case errors.Is(err, vault.ErrInvalidRecord):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, vault.ErrDiskIO):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The previous sealed vault and working copy were left in place.\n")
	case errors.Is(err, storage.ErrCorruptRecord):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The working copy is damaged. Run 'vitalock lock' and unlock again to restore from the sealed vault.\n")
	case errors.Is(err, auth.ErrDenied):
		fmt.Fprintf(os.Stderr, "Error: authentication denied\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
