package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vitalock/vitalock/internal/crypto"
	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/storage"
)

const (
	AtRestFileName  = "vault.enc" // sealed envelope in the data dir
	WorkingFileName = "vault.db"  // plaintext working copy in the scratch dir
)

var (
	// ErrStoreLocked reports a record operation against a locked store.
	ErrStoreLocked = errors.New("store is locked")

	// ErrInvalidRecord reports a record that failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrDiskIO reports a filesystem failure during a lifecycle
	// transition. The transition is never half-applied: the previous
	// at-rest file and the working copy survive it.
	ErrDiskIO = errors.New("disk i/o failure")
)

// State of the store lifecycle.
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// KeySource yields the VaultKey. Implementations must hand out a
// fresh copy per call; the store zeroizes key material after use.
type KeySource interface {
	Key(ctx context.Context) ([]byte, error)
}

// Options configure a Store.
type Options struct {
	DataDir    string // app-private durable dir, holds the sealed file
	ScratchDir string // app-private scratch dir, holds the working copy
	Keys       KeySource
	Log        logging.Logger
}

// Store is the encrypted store state machine. All methods serialize
// through one mutex, so any goroutine may call them; blocking methods
// take a context but never abandon a seal or key derivation midway.
//
// At most one plaintext working copy exists, and only while the store
// is Unlocked. The at-rest file is always a single sealed envelope
// under the current VaultKey.
type Store struct {
	mu    sync.Mutex
	state State

	atRest   string
	workPath string
	keys     KeySource
	db       *storage.DB // open while Unlocked
	log      logging.Logger
}

// Open prepares the directories and returns the store sealed. A fresh
// install materializes an empty database and seals it; a working copy
// left behind by a crash is sealed too, so nothing recorded is lost.
// The very first access after Open always requires an explicit Unlock.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Keys == nil {
		return nil, errors.New("vault: Options.Keys is required")
	}
	if opts.DataDir == "" || opts.ScratchDir == "" {
		return nil, errors.New("vault: data and scratch directories are required")
	}
	for _, dir := range []string{opts.DataDir, opts.ScratchDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDiskIO, err)
		}
	}

	s := &Store{
		state:    Locked,
		atRest:   filepath.Join(opts.DataDir, AtRestFileName),
		workPath: filepath.Join(opts.ScratchDir, WorkingFileName),
		keys:     opts.Keys,
		log:      opts.Log,
	}

	if !fileExists(s.atRest) && !fileExists(s.workPath) {
		db, err := s.createWorking()
		if err != nil {
			return nil, err
		}
		if err := db.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDiskIO, err)
		}
		s.log.Debugf("created fresh vault database")
	}

	if err := s.Lock(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// State reports the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Unlock transitions Locked -> Unlocked. It adopts a leftover working
// copy when one exists (it is newer than the at-rest file), otherwise
// decrypts the at-rest envelope with the VaultKey, otherwise starts a
// fresh empty database. On a decrypt failure the store stays Locked
// and nothing is written to disk. Unlocking an unlocked store is a
// no-op.
func (s *Store) Unlock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unlocked {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	extracted := false
	switch {
	case fileExists(s.workPath):
		s.log.Warnf("adopting leftover working copy from an interrupted session")

	case fileExists(s.atRest):
		envelope, err := os.ReadFile(s.atRest)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDiskIO, err)
		}

		plaintext, err := s.openEnvelope(ctx, envelope)
		if err != nil {
			return err
		}

		if err := os.WriteFile(s.workPath, plaintext, 0600); err != nil {
			crypto.ClearBytes(plaintext)
			os.Remove(s.workPath)
			return fmt.Errorf("%w: %v", ErrDiskIO, err)
		}
		crypto.ClearBytes(plaintext)
		extracted = true

	default:
		// nothing on disk at all; first unlock starts empty
	}

	db, err := s.createWorking()
	if err != nil {
		if extracted {
			// drop the extraction, not someone's crash leftovers; the
			// at-rest file still has everything
			os.Remove(s.workPath)
		}
		return err
	}
	s.db = db
	s.state = Unlocked

	if id, idErr := db.GetOrCreateInstallID(); idErr == nil {
		s.log.Debugf("working copy open (install %s)", id)
	}
	s.log.Infof("vault unlocked")
	return nil
}

// Lock transitions to Locked: flush and close the working copy, seal
// its bytes under the VaultKey, atomically replace the at-rest file,
// then delete the working copy. Locking a locked store with nothing
// left on disk is a no-op. If sealing fails the previous at-rest file
// and the working copy both survive intact.
func (s *Store) Lock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockLocked(ctx)
}

func (s *Store) lockLocked(ctx context.Context) error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		if err != nil {
			return s.recoverAfterSealFailure(fmt.Errorf("%w: failed to close working copy: %v", ErrDiskIO, err))
		}
	}

	if !fileExists(s.workPath) {
		s.state = Locked
		return nil
	}

	if err := s.sealWorkingCopy(ctx); err != nil {
		return s.recoverAfterSealFailure(err)
	}

	if err := os.Remove(s.workPath); err != nil {
		return s.recoverAfterSealFailure(fmt.Errorf("%w: failed to remove working copy: %v", ErrDiskIO, err))
	}

	s.state = Locked
	s.log.Infof("vault sealed")
	return nil
}

// sealWorkingCopy reads the closed working copy and writes the sealed
// envelope with a write-then-rename so a crash can never leave a
// half-written at-rest file.
func (s *Store) sealWorkingCopy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	plaintext, err := os.ReadFile(s.workPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	defer crypto.ClearBytes(plaintext)

	key, err := s.keys.Key(ctx)
	if err != nil {
		return err
	}
	enc, err := crypto.NewEncryptor(key)
	if err != nil {
		crypto.ClearBytes(key)
		return err
	}
	defer enc.Destroy()

	envelope, err := enc.Encrypt(plaintext)
	if err != nil {
		return err
	}

	tmpPath := s.atRest + ".tmp"
	if err := writeFileSync(tmpPath, envelope, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	if err := os.Rename(tmpPath, s.atRest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	return nil
}

// recoverAfterSealFailure puts the store back into a usable state
// after a failed lock. The working copy is still on disk; reopen it
// if the store was unlocked, else leave it for the next unlock to
// adopt. The original cause is always returned.
func (s *Store) recoverAfterSealFailure(cause error) error {
	if s.state != Unlocked {
		return cause
	}
	db, err := storage.Open(s.workPath)
	if err != nil {
		s.state = Locked
		s.log.Warnf("working copy left on disk after failed lock: %v", err)
		return cause
	}
	s.db = db
	return cause
}

// openEnvelope decrypts the at-rest envelope with the VaultKey.
func (s *Store) openEnvelope(ctx context.Context, envelope []byte) ([]byte, error) {
	key, err := s.keys.Key(ctx)
	if err != nil {
		return nil, err
	}
	enc, err := crypto.NewEncryptor(key)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, err
	}
	defer enc.Destroy()

	return enc.Decrypt(envelope)
}

// createWorking opens the working copy database, creating file and
// schema as needed.
func (s *Store) createWorking() (*storage.DB, error) {
	db, err := storage.Open(s.workPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	return db, nil
}

// StatusInfo is a snapshot of the store's on-disk situation. It is
// computed without unlocking anything.
type StatusInfo struct {
	State          State
	AtRestPath     string
	AtRestSize     int64
	AtRestModified time.Time
	WorkingCopy    bool
}

// Status reports the current on-disk situation.
func (s *Store) Status() StatusInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := StatusInfo{
		State:       s.state,
		AtRestPath:  s.atRest,
		WorkingCopy: fileExists(s.workPath),
	}
	if fi, err := os.Stat(s.atRest); err == nil {
		info.AtRestSize = fi.Size()
		info.AtRestModified = fi.ModTime()
	}
	return info
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFileSync writes data and syncs before closing so the following
// rename never publishes a half-written envelope.
func writeFileSync(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
