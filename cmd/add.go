package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/storage"
	"github.com/vitalock/vitalock/internal/vault"
)

// AddOptions carries the flag values for one manual record
type AddOptions struct {
	Kind   string
	Value  float64
	Unit   string
	Start  string
	End    string
	Source string
}

// Add records a single metric entered on the command line
func Add(ctx context.Context, log logging.Logger, opts AddOptions) {
	start, err := parseTime(opts.Start)
	if err != nil {
		HandleError(err)
	}
	if start.IsZero() {
		start = time.Now()
	}

	rec := storage.Record{
		Kind:   storage.Kind(opts.Kind),
		Value:  opts.Value,
		Unit:   opts.Unit,
		Start:  start,
		Source: opts.Source,
	}
	if opts.End != "" {
		end, err := parseTime(opts.End)
		if err != nil {
			HandleError(err)
		}
		rec.End = &end
	}

	var stored storage.Record
	err = WithUnlocked(ctx, log, func(s *vault.Store) error {
		var insertErr error
		stored, insertErr = s.Insert(ctx, rec)
		return insertErr
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Recorded %s %s", stored.Kind, strconv.FormatFloat(stored.Value, 'f', -1, 64))
	if stored.Unit != "" {
		fmt.Printf(" %s", stored.Unit)
	}
	fmt.Printf(" (id %d)\n", stored.ID)
}
