package cmd

import (
	"fmt"
	"os"

	"github.com/vitalock/vitalock/internal/crypto"
	"github.com/vitalock/vitalock/internal/export"
	"github.com/vitalock/vitalock/internal/logging"
	"github.com/vitalock/vitalock/internal/report"
)

// Open decrypts an export artifact. Text payloads print to stdout when
// no output path is given; binary payloads always need one.
func Open(log logging.Logger, artifactPath, out string) {
	artifact, err := os.ReadFile(artifactPath)
	if err != nil {
		HandleError(fmt.Errorf("failed to read artifact: %w", err))
	}

	password := GetPasswordOrExit("Enter export password: ")
	defer crypto.ClearBytes(password)

	payload, err := export.Open(artifact, password)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(payload)

	format := report.Sniff(payload)
	log.Debugf("payload sniffed as %s (%d bytes)", format, len(payload))

	if out != "" {
		if err := os.WriteFile(out, payload, 0600); err != nil {
			HandleError(fmt.Errorf("failed to write payload: %w", err))
		}
		fmt.Printf("Wrote %s payload to %s (%s)\n", format, out, formatSize(int64(len(payload))))
		return
	}

	if format != report.FormatCSV {
		fmt.Fprintf(os.Stderr, "Error: payload is %s, refusing to print it; use --out to write a file\n", format)
		os.Exit(1)
	}
	os.Stdout.Write(payload)
}
