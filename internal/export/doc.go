// Package export seals record exports under user passwords.
//
// An artifact is laid out as:
//   - 32-byte KDF salt, fresh per export, stored in the clear
//   - 12-byte GCM nonce
//   - ciphertext followed by the 16-byte authentication tag
//
// Nothing about the payload, its format or its size beyond the
// ciphertext length is recoverable without the password, and the
// fresh salt makes equal payloads seal to unequal artifacts. An
// artifact carries no type tag, so payload type on open is guessed
// by content sniffing.
//
// Opening a tampered or wrongly keyed artifact fails closed with
// crypto.ErrAuthenticationFailed. Only inputs too short to parse fail
// with crypto.ErrMalformedEnvelope, and those are rejected before the
// derivation cost is paid.
package export
