package keyvault

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/vitalock/vitalock/internal/crypto"
)

func TestKeyCreatedOnceAndStable(t *testing.T) {
	keyring.MockInit()
	v := Open("vitalock-test")

	first, err := v.Key(context.Background())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if len(first) != crypto.KeySize {
		t.Fatalf("key length = %d, want %d", len(first), crypto.KeySize)
	}

	second, err := v.Key(context.Background())
	if err != nil {
		t.Fatalf("Key() second call error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Key() returned different material on second call")
	}
}

func TestKeyConcurrentCallersAgree(t *testing.T) {
	keyring.MockInit()
	v := Open("vitalock-test")

	const callers = 8
	keys := make([][]byte, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := v.Key(context.Background())
			if err != nil {
				t.Errorf("Key() error = %v", err)
				return
			}
			keys[i] = key
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if !bytes.Equal(keys[0], keys[i]) {
			t.Fatalf("caller %d received a different key", i)
		}
	}
}

func TestKeyStoreUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus not running"))
	v := Open("vitalock-test")

	if _, err := v.Key(context.Background()); !errors.Is(err, ErrSecretStoreUnavailable) {
		t.Errorf("Key() error = %v, want ErrSecretStoreUnavailable", err)
	}
	if err := v.Probe(); !errors.Is(err, ErrSecretStoreUnavailable) {
		t.Errorf("Probe() error = %v, want ErrSecretStoreUnavailable", err)
	}
}

func TestKeyMalformedMaterial(t *testing.T) {
	keyring.MockInit()
	v := Open("vitalock-test")

	if err := keyring.Set("vitalock-test", keyAccount, "not hex at all"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := v.Key(context.Background()); !errors.Is(err, ErrSecretStoreUnavailable) {
		t.Errorf("Key() error = %v, want ErrSecretStoreUnavailable", err)
	}
}

func TestKeyTruncatedMaterial(t *testing.T) {
	keyring.MockInit()
	v := Open("vitalock-test")

	// Valid hex, wrong length
	if err := keyring.Set("vitalock-test", keyAccount, "deadbeef"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := v.Key(context.Background()); !errors.Is(err, ErrSecretStoreUnavailable) {
		t.Errorf("Key() error = %v, want ErrSecretStoreUnavailable", err)
	}
}

func TestProbeHealthyWithoutKey(t *testing.T) {
	keyring.MockInit()
	v := Open("vitalock-test")

	if err := v.Probe(); err != nil {
		t.Errorf("Probe() on empty store error = %v, want nil", err)
	}
	if v.HasKey() {
		t.Error("HasKey() = true before any key was minted")
	}

	if _, err := v.Key(context.Background()); err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if !v.HasKey() {
		t.Error("HasKey() = false after Key() minted one")
	}
}

func TestKeyContextCancelled(t *testing.T) {
	keyring.MockInit()
	v := Open("vitalock-test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := v.Key(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Key() error = %v, want context.Canceled", err)
	}
}
