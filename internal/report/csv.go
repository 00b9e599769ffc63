package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/vitalock/vitalock/internal/storage"
)

// Renderer turns a fetched record set into an export payload. Payloads
// are plain bytes; the export codec seals whatever a renderer emits.
type Renderer interface {
	Render(recs []storage.Record) ([]byte, error)
	Suffix() string
}

// CSVRenderer renders records as CSV, one row per record, times in
// RFC 3339 UTC.
type CSVRenderer struct{}

func (CSVRenderer) Suffix() string { return ".csv" }

func (CSVRenderer) Render(recs []storage.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "kind", "value", "unit", "start", "end", "source", "recorded_at"}); err != nil {
		return nil, err
	}
	for _, r := range recs {
		end := ""
		if r.End != nil {
			end = r.End.UTC().Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			string(r.Kind),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			r.Unit,
			r.Start.UTC().Format(time.RFC3339),
			end,
			r.Source,
			r.RecordedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
