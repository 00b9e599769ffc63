package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // KDF salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)
)

// EnvelopeOverhead is the number of non-ciphertext bytes in a sealed
// envelope. An envelope for an empty plaintext is exactly this long.
const EnvelopeOverhead = NonceSize + TagSize

var (
	// ErrMalformedEnvelope reports input too short to contain a nonce
	// and an authentication tag. Returned before any key material is
	// touched.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrAuthenticationFailed reports that the GCM tag did not verify.
	// Wrong key and corrupted content are indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// KDF derives encryption keys from passwords
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a KDF with a fresh random salt. Each sealed artifact
// gets its own; salts are never reused.
func NewKDF() (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: DefaultIters,
	}, nil
}

// NewKDFWithSalt creates a KDF over an existing salt, for opening
// previously sealed artifacts.
func NewKDFWithSalt(salt []byte) *KDF {
	return &KDF{
		Salt:       salt,
		Iterations: DefaultIters,
	}
}

// DeriveKey derives an encryption key from a password. Deterministic
// for a given password, salt and iteration count. The full iteration
// cost is always paid; there is no early exit.
func (k *KDF) DeriveKey(password []byte) []byte {
	return pbkdf2.Key(password, k.Salt, k.Iterations, KeySize, sha256.New)
}

// Encryptor provides authenticated encryption over a single key
type Encryptor struct {
	key []byte
}

// NewEncryptor creates an encryptor. The key must be exactly KeySize
// bytes; the slice is retained, so Destroy clears the caller's copy too.
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	return &Encryptor{key: key}, nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce
// and returns nonce || ciphertext || tag.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext||tag to the nonce slice in one allocation
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens an envelope produced by Encrypt. Inputs shorter than
// the framing overhead fail with ErrMalformedEnvelope; a tag mismatch
// of any kind fails with ErrAuthenticationFailed.
func (e *Encryptor) Decrypt(envelope []byte) ([]byte, error) {
	if len(envelope) < EnvelopeOverhead {
		return nil, ErrMalformedEnvelope
	}

	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := envelope[:NonceSize]
	plaintext, err := gcm.Open(nil, nonce, envelope[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

func (e *Encryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return gcm, nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
