package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	MetaBucket    = []byte("meta")    // schema version, timestamps, install id
	RecordsBucket = []byte("records") // metric records keyed by start||id
)

// Meta keys
var (
	MetaVersion   = []byte("version")
	MetaCreated   = []byte("created")
	MetaModified  = []byte("modified")
	MetaInstallID = []byte("install_id")
)

// ErrCorruptRecord reports a stored record that no longer decodes.
// The working copy only ever holds what this package wrote, so this
// means the database bytes were damaged.
var ErrCorruptRecord = errors.New("corrupt record")

// DB is the plaintext working-copy database. It exists on disk only
// while the enclosing store is unlocked.
type DB struct {
	db *bolt.DB
}

// Open opens or creates a working-copy database
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database
func (s *DB) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *DB) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure for a fresh database
func (s *DB) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{MetaBucket, RecordsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		meta := tx.Bucket(MetaBucket)
		if meta.Get(MetaVersion) != nil {
			return nil // already initialized
		}
		if err := meta.Put(MetaVersion, []byte("1")); err != nil {
			return err
		}

		now, _ := time.Now().MarshalBinary()
		if err := meta.Put(MetaCreated, now); err != nil {
			return err
		}
		return meta.Put(MetaModified, now)
	})
}

// IsInitialized checks if the database has been initialized
func (s *DB) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta != nil && meta.Get(MetaVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// InsertRecord assigns the next id, stamps recordedAt and stores the
// record. Returns the stored copy. Ids come from the bucket sequence,
// so they grow monotonically and are never handed out twice.
func (s *DB) InsertRecord(rec Record) (Record, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(RecordsBucket)
		if records == nil {
			return fmt.Errorf("records bucket not found")
		}

		seq, err := records.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate record id: %w", err)
		}
		rec.ID = int64(seq)
		rec.RecordedAt = time.Now()

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		if err := records.Put(recordKey(rec.Start, rec.ID), data); err != nil {
			return err
		}

		meta := tx.Bucket(MetaBucket)
		modified, _ := time.Now().MarshalBinary()
		return meta.Put(MetaModified, modified)
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// FetchRecords returns the records matching q, ordered by start time
// ascending with ties broken by insertion order. The bucket key layout
// provides both orderings, so this is a single cursor walk from the
// query's lower bound.
func (s *DB) FetchRecords(q Query) ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket(RecordsBucket)
		if records == nil {
			return fmt.Errorf("records bucket not found")
		}

		c := records.Cursor()
		k, v := c.First()
		if !q.Start.IsZero() {
			k, v = c.Seek(recordKey(q.Start, 0))
		}
		// No upper cursor bound: records without an end stay eligible
		// however late they start.
		for ; k != nil; k, v = c.Next() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
			}
			if q.Matches(rec) {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountRecords returns the number of stored records
func (s *DB) CountRecords() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket(RecordsBucket)
		if records == nil {
			return nil
		}
		n = records.Stats().KeyN
		return nil
	})
	return n, err
}

// GetModified retrieves the last modified timestamp
func (s *DB) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta == nil {
			return fmt.Errorf("meta bucket not found")
		}
		data := meta.Get(MetaModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetOrCreateInstallID retrieves the install id, minting one the first
// time a database is created on this device.
func (s *DB) GetOrCreateInstallID() (string, error) {
	var installID string
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta == nil {
			return fmt.Errorf("meta bucket not found")
		}
		if data := meta.Get(MetaInstallID); data != nil {
			installID = string(data)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if installID != "" {
		return installID, nil
	}

	installID = uuid.NewString()
	err = s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta == nil {
			return fmt.Errorf("meta bucket not found")
		}
		// Another writer may have raced us here; keep the stored one
		if data := meta.Get(MetaInstallID); data != nil {
			installID = string(data)
			return nil
		}
		return meta.Put(MetaInstallID, []byte(installID))
	})
	if err != nil {
		return "", err
	}
	return installID, nil
}
