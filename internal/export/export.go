package export

import (
	"fmt"
	"time"

	"github.com/vitalock/vitalock/internal/crypto"
	"github.com/vitalock/vitalock/internal/report"
	"github.com/vitalock/vitalock/internal/storage"
)

// Artifact layout: salt[32] || nonce[12] || ciphertext || tag[16].
// The salt travels in the clear; everything after it is one envelope
// sealed under the password-derived key.
const minArtifactSize = crypto.SaltSize + crypto.EnvelopeOverhead

// Artifact is a sealed export. Suffix is advisory naming only; the
// bytes carry no type tag.
type Artifact struct {
	Bytes  []byte
	Suffix string
}

// Seal encrypts a payload under a key derived from password with a
// fresh single-use salt. Two seals of the same payload never produce
// the same artifact.
func Seal(payload, password []byte) ([]byte, error) {
	kdf, err := crypto.NewKDF()
	if err != nil {
		return nil, err
	}

	key := kdf.DeriveKey(password)
	enc, err := crypto.NewEncryptor(key)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, err
	}
	defer enc.Destroy()

	envelope, err := enc.Encrypt(payload)
	if err != nil {
		return nil, err
	}

	artifact := make([]byte, 0, len(kdf.Salt)+len(envelope))
	artifact = append(artifact, kdf.Salt...)
	artifact = append(artifact, envelope...)
	return artifact, nil
}

// Open decrypts an artifact produced by Seal. Inputs too short to
// carry the salt and envelope framing fail with ErrMalformedEnvelope
// before any derivation work; a wrong password or damaged content
// fails with ErrAuthenticationFailed after the full derivation cost.
func Open(artifact, password []byte) ([]byte, error) {
	if len(artifact) < minArtifactSize {
		return nil, crypto.ErrMalformedEnvelope
	}

	kdf := crypto.NewKDFWithSalt(artifact[:crypto.SaltSize])
	key := kdf.DeriveKey(password)
	enc, err := crypto.NewEncryptor(key)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, err
	}
	defer enc.Destroy()

	return enc.Decrypt(artifact[crypto.SaltSize:])
}

// Records renders a record set through the given renderer and seals
// the payload. The plaintext rendering is cleared before returning.
func Records(recs []storage.Record, password []byte, r report.Renderer) (*Artifact, error) {
	payload, err := r.Render(recs)
	if err != nil {
		return nil, fmt.Errorf("failed to render payload: %w", err)
	}
	defer crypto.ClearBytes(payload)

	sealed, err := Seal(payload, password)
	if err != nil {
		return nil, err
	}

	return &Artifact{Bytes: sealed, Suffix: r.Suffix() + ".enc"}, nil
}

// Filename is the advisory artifact name for a queried date range,
// e.g. vitalock-2024-01-01-2024-01-31.csv.enc.
func Filename(start, end time.Time, suffix string) string {
	return fmt.Sprintf("vitalock-%s-%s%s",
		start.Format("2006-01-02"), end.Format("2006-01-02"), suffix)
}
