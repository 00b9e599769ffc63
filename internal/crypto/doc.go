// Package crypto provides cryptographic operations for vitalock.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key (the device VaultKey, or a password-derived key)
//   - 12-byte random nonce per encryption operation
//   - sealed envelopes laid out as nonce || ciphertext || tag
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 32-byte random salt, fresh per sealed artifact
//   - 210,000 iterations (OWASP minimum recommendation)
//
// Failure modes are coarse: an input too short to carry the framing
// is ErrMalformedEnvelope, everything else that does not verify is
// ErrAuthenticationFailed. Callers never learn which byte differed.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
