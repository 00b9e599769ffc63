package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("GenerateRandom() error = %v", err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("72.5")},
		{"binary", []byte{0x00, 0xff, 0x10, 0x00, 0x7f}},
		{"larger", bytes.Repeat([]byte("heart-rate,72,bpm\n"), 512)},
	}

	enc, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := enc.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(envelope) != len(tt.plaintext)+EnvelopeOverhead {
				t.Errorf("envelope length = %d, want %d", len(envelope), len(tt.plaintext)+EnvelopeOverhead)
			}

			got, err := enc.Decrypt(envelope)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(got, tt.plaintext) {
				t.Errorf("round trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestDecryptRejectsEveryBitFlip(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	envelope, err := enc.Encrypt([]byte("sleep-duration,7.5,hours"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	for i := range envelope {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(envelope))
			copy(corrupted, envelope)
			corrupted[i] ^= 1 << bit

			if _, err := enc.Decrypt(corrupted); !errors.Is(err, ErrAuthenticationFailed) {
				t.Fatalf("Decrypt() with byte %d bit %d flipped: error = %v, want ErrAuthenticationFailed", i, bit, err)
			}
		}
	}
}

func TestDecryptShortInput(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"one byte", []byte{0x42}},
		{"nonce only", make([]byte, NonceSize)},
		{"one short of overhead", make([]byte, EnvelopeOverhead-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := enc.Decrypt(tt.input); !errors.Is(err, ErrMalformedEnvelope) {
				t.Errorf("Decrypt(%d bytes) error = %v, want ErrMalformedEnvelope", len(tt.input), err)
			}
		})
	}
}

func TestDecryptTruncatedEnvelope(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	envelope, err := enc.Encrypt([]byte("step-count,10000"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// Still long enough to parse, so it must fail authentication
	if _, err := enc.Decrypt(envelope[:len(envelope)-1]); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Decrypt(truncated) error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}
	other, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	envelope, err := enc.Encrypt([]byte("private"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := other.Decrypt(envelope); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Decrypt() with wrong key error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestEncryptFreshNoncePerCall(t *testing.T) {
	enc, err := NewEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	plaintext := []byte("same plaintext every time")
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		envelope, err := enc.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		nonce := string(envelope[:NonceSize])
		if seen[nonce] {
			t.Fatal("nonce reused across Encrypt() calls")
		}
		seen[nonce] = true
	}
}

func TestNewEncryptorKeySize(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		if _, err := NewEncryptor(make([]byte, n)); err == nil {
			t.Errorf("NewEncryptor(%d-byte key) expected error, got nil", n)
		}
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("NewKDF() error = %v", err)
	}

	password := []byte("correct horse battery staple")
	k1 := kdf.DeriveKey(password)
	k2 := NewKDFWithSalt(kdf.Salt).DeriveKey(password)

	if !bytes.Equal(k1, k2) {
		t.Error("same password and salt derived different keys")
	}
	if len(k1) != KeySize {
		t.Errorf("derived key length = %d, want %d", len(k1), KeySize)
	}
}

func TestDeriveKeyDistinctSalts(t *testing.T) {
	a, err := NewKDF()
	if err != nil {
		t.Fatalf("NewKDF() error = %v", err)
	}
	b, err := NewKDF()
	if err != nil {
		t.Fatalf("NewKDF() error = %v", err)
	}

	if bytes.Equal(a.Salt, b.Salt) {
		t.Fatal("two NewKDF() calls produced the same salt")
	}
	if len(a.Salt) != SaltSize {
		t.Errorf("salt length = %d, want %d", len(a.Salt), SaltSize)
	}
	if a.Iterations != DefaultIters {
		t.Errorf("iterations = %d, want %d", a.Iterations, DefaultIters)
	}

	password := []byte("same password")
	if bytes.Equal(a.DeriveKey(password), b.DeriveKey(password)) {
		t.Error("distinct salts derived the same key")
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive")
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Error("equal slices compared unequal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Error("unequal slices compared equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("ab")) {
		t.Error("different lengths compared equal")
	}
}
