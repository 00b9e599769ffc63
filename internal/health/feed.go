package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vitalock/vitalock/internal/storage"
)

// Sample is one reading from an external metrics provider. It carries
// no id and no recordedAt; those belong to the store, which stamps
// them when the sample is inserted.
type Sample struct {
	Kind   storage.Kind `json:"kind"`
	Value  float64      `json:"value"`
	Unit   string       `json:"unit,omitempty"`
	Start  time.Time    `json:"start"`
	End    *time.Time   `json:"end,omitempty"`
	Source string       `json:"source,omitempty"`
}

// Record converts the sample into an insertable record.
func (s Sample) Record() storage.Record {
	return storage.Record{
		Kind:   s.Kind,
		Value:  s.Value,
		Unit:   s.Unit,
		Start:  s.Start,
		End:    s.End,
		Source: s.Source,
	}
}

// SampleSource is the boundary to an external metrics provider. An
// empty kind requests every kind; the window bounds sample starts
// inclusively on both sides, and a zero bound leaves that side open.
type SampleSource interface {
	FetchSamples(ctx context.Context, kind storage.Kind, start, end time.Time) ([]Sample, error)
}

// FileSource reads samples from a JSON file holding an array of
// Sample objects. Samples without a source are attributed to the file.
type FileSource struct {
	Path string
}

func (f FileSource) FetchSamples(ctx context.Context, kind storage.Kind, start, end time.Time) ([]Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample file: %w", err)
	}

	var all []Sample
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse sample file %s: %w", f.Path, err)
	}

	var out []Sample
	for _, s := range all {
		if kind != "" && s.Kind != kind {
			continue
		}
		if s.Start.Before(start) {
			continue
		}
		if !end.IsZero() && s.Start.After(end) {
			continue
		}
		if s.Source == "" {
			s.Source = filepath.Base(f.Path)
		}
		out = append(out, s)
	}
	return out, nil
}
