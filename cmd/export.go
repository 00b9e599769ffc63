package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vitalock/vitalock/internal/crypto"
	"github.com/vitalock/vitalock/internal/export"
	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/report"
	"github.com/vitalock/vitalock/internal/storage"
	"github.com/vitalock/vitalock/internal/vault"
)

// Export seals the matching records into a password-protected artifact
func Export(ctx context.Context, log logging.Logger, kind, from, to, out string) {
	q, err := parseQuery(kind, from, to)
	if err != nil {
		HandleError(err)
	}

	password, err := GetPasswordForExport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	var recs []storage.Record
	err = WithUnlocked(ctx, log, func(s *vault.Store) error {
		var fetchErr error
		recs, fetchErr = s.Fetch(ctx, q)
		return fetchErr
	})
	if err != nil {
		HandleError(err)
	}

	artifact, err := export.Records(recs, password, report.CSVRenderer{})
	if err != nil {
		HandleError(err)
	}

	if out == "" {
		out = exportName(q, artifact.Suffix)
	}
	if err := os.WriteFile(out, artifact.Bytes, 0600); err != nil {
		HandleError(fmt.Errorf("failed to write artifact: %w", err))
	}

	fmt.Printf("Exported %d record(s) to %s (%s)\n", len(recs), out, formatSize(int64(len(artifact.Bytes))))
}

// exportName derives the artifact file name from the query range,
// falling back to the export date for open-ended queries.
func exportName(q storage.Query, suffix string) string {
	if !q.Start.IsZero() && !q.End.IsZero() {
		return export.Filename(q.Start, q.End, suffix)
	}
	return fmt.Sprintf("vitalock-export-%s%s", time.Now().Format("2006-01-02"), suffix)
}
