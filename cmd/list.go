package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/storage"
	"github.com/vitalock/vitalock/internal/vault"
)

// List prints the records matching the given filters
func List(ctx context.Context, log logging.Logger, kind, from, to string, limit int) {
	q, err := parseQuery(kind, from, to)
	if err != nil {
		HandleError(err)
	}

	var recs []storage.Record
	err = WithUnlocked(ctx, log, func(s *vault.Store) error {
		var fetchErr error
		recs, fetchErr = s.Fetch(ctx, q)
		return fetchErr
	})
	if err != nil {
		HandleError(err)
	}

	if len(recs) == 0 {
		fmt.Println("No records")
		return
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	fmt.Printf("%5s  %-15s %12s %-8s %-17s %-17s %s\n", "ID", "KIND", "VALUE", "UNIT", "START", "END", "SOURCE")
	for _, rec := range recs {
		end := ""
		if rec.End != nil {
			end = rec.End.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%5d  %-15s %12s %-8s %-17s %-17s %s\n",
			rec.ID,
			rec.Kind,
			strconv.FormatFloat(rec.Value, 'f', -1, 64),
			rec.Unit,
			rec.Start.Local().Format("2006-01-02 15:04"),
			end,
			rec.Source)
	}
	fmt.Printf("\n%d record(s)\n", len(recs))
}
