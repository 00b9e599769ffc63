package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalock/vitalock/internal/logging"
)

// Lock seals the vault. Opening the store already performs the seal,
// catching any working copy a crashed session left behind.
func Lock(ctx context.Context, log logging.Logger) {
	store, err := OpenStore(ctx, log)
	if err != nil {
		HandleError(err)
	}

	info := store.Status()
	fmt.Printf("Vault sealed (%s, last sealed %s)\n",
		formatSize(info.AtRestSize), info.AtRestModified.Local().Format(time.RFC3339))
}
