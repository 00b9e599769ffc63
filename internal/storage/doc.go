// Package storage provides the BBolt database holding metric records.
//
// The database is the plaintext working copy of the vault: it exists
// on disk only while the store is unlocked and is sealed back into a
// single encrypted file on lock. Nothing in here is encrypted; the
// lifecycle around it is what keeps the data private.
//
// Database structure uses two buckets:
//   - meta: schema version, created/modified timestamps, install id
//   - records: metric records, keyed by start time then insertion id
//
// The records key layout (big-endian start nanos, then id) makes a
// plain cursor walk yield the fetch ordering: start ascending, ties in
// insertion order. Record ids come from the bucket sequence and are
// never reused.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
