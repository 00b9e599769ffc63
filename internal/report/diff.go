package report

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contentEqual compares two payloads by SHA-256 digest.
func contentEqual(a, b []byte) bool {
	ha := sha256.Sum256(a)
	hb := sha256.Sum256(b)
	return ha == hb
}

// UnifiedDiff renders a line-mode unified diff between an exported
// payload and a freshly rendered one. Returns the empty string when
// the payloads are identical; binary payloads get a one-line notice
// instead of a hunk dump.
func UnifiedDiff(label string, exported, current []byte) string {
	if contentEqual(exported, current) {
		return ""
	}

	if !isText(exported) || !isText(current) {
		return fmt.Sprintf("Binary payload %s has changed\n", label)
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	exportedStr, currentStr := string(exported), string(current)
	a, b, lineArray := dmp.DiffLinesToChars(exportedStr, currentStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(exportedStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- a/%s\n", label))
	result.WriteString(fmt.Sprintf("+++ b/%s\n", label))
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
