package cmd

import (
	"context"
	"fmt"

	"github.com/vitalock/vitalock/internal/health"
	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/storage"
	"github.com/vitalock/vitalock/internal/vault"
)

// Pull imports samples from a health feed into the vault
func Pull(ctx context.Context, log logging.Logger, feedPath, kind, from, to string) {
	q, err := parseQuery(kind, from, to)
	if err != nil {
		HandleError(err)
	}

	src := health.FileSource{Path: feedPath}
	samples, err := src.FetchSamples(ctx, q.Kind, q.Start, q.End)
	if err != nil {
		HandleError(err)
	}
	if len(samples) == 0 {
		fmt.Println("Feed has no matching samples")
		return
	}
	log.Infof("feed %s yielded %d samples", feedPath, len(samples))

	var imported int
	err = WithUnlocked(ctx, log, func(s *vault.Store) error {
		for _, sample := range samples {
			if _, err := s.Insert(ctx, sample.Record()); err != nil {
				return fmt.Errorf("after %d records: %w", imported, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Imported %d record(s)\n", imported)
	byKind := make(map[storage.Kind]int)
	for _, sample := range samples {
		byKind[sample.Kind]++
	}
	for k, n := range byKind {
		fmt.Printf("  %s: %d\n", k, n)
	}
}
