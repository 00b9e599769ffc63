package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// Kind tags a metric record. The set is open; these are the kinds the
// built-in feeds and commands know about.
type Kind string

const (
	KindStepCount     Kind = "step-count"
	KindSleepDuration Kind = "sleep-duration"
	KindHeartRate     Kind = "heart-rate"
)

// Record is one health metric sample or interval. Records are value
// types; the repository hands out copies, never references into the
// database.
type Record struct {
	ID         int64      `json:"id"`
	Kind       Kind       `json:"kind"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit,omitempty"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
	Source     string     `json:"source,omitempty"`
	RecordedAt time.Time  `json:"recordedAt"`
}

// Validate checks the fields a caller controls. The id and recordedAt
// stamps are owned by the store and ignored here.
func (r Record) Validate() error {
	if r.Kind == "" {
		return errors.New("kind is required")
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return fmt.Errorf("value %v is not a finite number", r.Value)
	}
	if r.Start.IsZero() {
		return errors.New("start is required")
	}
	if r.End != nil && r.End.Before(r.Start) {
		return fmt.Errorf("end %s precedes start %s", r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// Query selects records. Kind empty matches every kind, and a zero
// Start or End leaves that side unbounded. The match rule is
// asymmetric: Start bounds record starts from below, End bounds record
// ends from above, and a record without an end is never excluded by
// End.
type Query struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

// Matches applies the query rule to one record.
func (q Query) Matches(r Record) bool {
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if r.Start.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.End != nil && r.End.After(q.End) {
		return false
	}
	return true
}

// recordKey orders the records bucket by start time, then insertion
// id. The sign bit flip keeps byte order matching time order for
// pre-1970 instants too.
func recordKey(start time.Time, id int64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(start.UnixNano())^(1<<63))
	binary.BigEndian.PutUint64(key[8:], uint64(id))
	return key
}
