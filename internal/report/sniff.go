package report

import (
	"bytes"
	"unicode/utf8"
)

const (
	sniffSampleSize   = 8192 // Bytes to sample for text/binary detection
	sniffThresholdPct = 10   // Max % non-printable chars for text payloads
)

// Format is a best-effort guess at what a decrypted payload holds.
// The artifact format carries no type tag, so a wrong guess only
// mislabels the output file; the bytes themselves are exact.
type Format string

const (
	FormatPDF    Format = "pdf"
	FormatCSV    Format = "csv"
	FormatBinary Format = "binary"
)

// Suffix returns the advisory file extension for the format.
func (f Format) Suffix() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatCSV:
		return ".csv"
	default:
		return ".bin"
	}
}

var pdfMagic = []byte("%PDF-")

// Sniff guesses the payload format from its content.
func Sniff(payload []byte) Format {
	if bytes.HasPrefix(payload, pdfMagic) {
		return FormatPDF
	}
	if isText(payload) {
		return FormatCSV
	}
	return FormatBinary
}

// isText decides whether a payload is likely text.
//
// Heuristic (in order):
//  1. Null bytes present → binary
//  2. Invalid UTF-8 → binary
//  3. >10% non-printable control chars → binary
func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}

	if bytes.IndexByte(data, 0) != -1 {
		return false
	}

	sampleSize := sniffSampleSize
	if len(data) < sampleSize {
		sampleSize = len(data)
	}
	sample := data[:sampleSize]

	if !utf8.Valid(sample) {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		// Allow common whitespace: space, tab, newline, carriage return
		if b < 32 && b != 9 && b != 10 && b != 13 {
			nonPrintable++
		}
		if b == 127 { // DEL character
			nonPrintable++
		}
	}

	threshold := len(sample) * sniffThresholdPct / 100
	return nonPrintable <= threshold
}
