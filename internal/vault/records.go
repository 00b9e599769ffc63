package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitalock/vitalock/internal/storage"
)

// Insert validates and stores one record. The store assigns the id
// and recordedAt stamps and returns the stored copy; the caller's
// record is never retained. Requires Unlocked.
func (s *Store) Insert(ctx context.Context, rec storage.Record) (storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return storage.Record{}, err
	}
	if s.state != Unlocked || s.db == nil {
		return storage.Record{}, ErrStoreLocked
	}
	if err := rec.Validate(); err != nil {
		return storage.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	stored, err := s.db.InsertRecord(rec)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%w: %v", ErrDiskIO, err)
	}

	s.log.Debugf("inserted %s record %d", stored.Kind, stored.ID)
	return stored, nil
}

// Fetch returns the records matching q, ordered by start time with
// ties in insertion order. Requires Unlocked.
func (s *Store) Fetch(ctx context.Context, q storage.Query) ([]storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.state != Unlocked || s.db == nil {
		return nil, ErrStoreLocked
	}

	recs, err := s.db.FetchRecords(q)
	if err != nil {
		if errors.Is(err, storage.ErrCorruptRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	return recs, nil
}

// Count returns the number of stored records. Requires Unlocked.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.state != Unlocked || s.db == nil {
		return 0, ErrStoreLocked
	}

	n, err := s.db.CountRecords()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	return n, nil
}
