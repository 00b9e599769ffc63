// Package vault provides the encrypted store lifecycle and the record
// repository on top of it.
//
// Lifecycle operations:
//   - Open: prepare directories and return the store sealed; fresh
//     installs and crash leftovers both end up as one at-rest envelope
//   - Unlock: decrypt the at-rest file into the plaintext working copy
//     (or adopt/create one) and open it for record operations
//   - Lock: close the working copy, seal it under the VaultKey with an
//     atomic write-then-rename, and delete the plaintext
//
// Record operations (Insert, Fetch, Count) require the Unlocked state
// and fail with ErrStoreLocked otherwise. Everything serializes
// through one mutex; the store never retries a failed transition on
// its own and never downgrades an error to a boolean.
//
// Fetch range semantics are asymmetric: the lower bound applies to
// record starts, the upper bound only to record ends, and records
// without an end are never excluded by the upper bound.
package vault
