package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalock/vitalock/internal/keyvault"
	"github.com/vitalock/vitalock/internal/logging"
)

// Status shows the current state of the vault without unlocking it
func Status(ctx context.Context, log logging.Logger) {
	store, err := OpenStore(ctx, log)
	if err != nil {
		HandleError(err)
	}

	info := store.Status()

	fmt.Printf("Vault: %s\n", info.AtRestPath)
	fmt.Printf("State: %s\n", info.State)
	fmt.Printf("Size:  %s\n", formatSize(info.AtRestSize))
	if !info.AtRestModified.IsZero() {
		fmt.Printf("Last sealed: %s\n", info.AtRestModified.Format(time.RFC3339))
	}

	if err := keyvault.Open("").Probe(); err != nil {
		fmt.Println("Secret store: unavailable")
	} else {
		fmt.Println("Secret store: available")
	}
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
