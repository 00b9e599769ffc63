package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vitalock/vitalock/internal/crypto"
	"github.com/vitalock/vitalock/internal/export"
	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/report"
	"github.com/vitalock/vitalock/internal/storage"
	"github.com/vitalock/vitalock/internal/vault"
)

// Diff compares an export artifact with the current vault contents
func Diff(ctx context.Context, log logging.Logger, artifactPath string) {
	artifact, err := os.ReadFile(artifactPath)
	if err != nil {
		HandleError(fmt.Errorf("failed to read artifact: %w", err))
	}

	password := GetPasswordOrExit("Enter export password: ")
	defer crypto.ClearBytes(password)

	exported, err := export.Open(artifact, password)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(exported)

	var recs []storage.Record
	err = WithUnlocked(ctx, log, func(s *vault.Store) error {
		var fetchErr error
		recs, fetchErr = s.Fetch(ctx, storage.Query{})
		return fetchErr
	})
	if err != nil {
		HandleError(err)
	}

	current, err := (report.CSVRenderer{}).Render(recs)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(current)

	diff := report.UnifiedDiff(filepath.Base(artifactPath), exported, current)
	if diff == "" {
		fmt.Println("Export matches the vault")
		return
	}
	fmt.Print(diff)
}
