package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vitalock/vitalock/internal/storage"
)

const sampleJSON = `[
  {"kind": "step-count", "value": 8123, "unit": "steps", "start": "2024-03-01T00:00:00Z", "end": "2024-03-01T23:59:59Z", "source": "pedometer"},
  {"kind": "heart-rate", "value": 61, "unit": "bpm", "start": "2024-03-02T07:30:00Z"},
  {"kind": "heart-rate", "value": 88, "unit": "bpm", "start": "2024-03-05T18:00:00Z"},
  {"kind": "sleep-duration", "value": 7.25, "unit": "hours", "start": "2024-03-03T22:45:00Z", "end": "2024-03-04T06:00:00Z"}
]`

func writeSampleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write sample file: %v", err)
	}
	return path
}

func TestFetchSamplesAll(t *testing.T) {
	src := FileSource{Path: writeSampleFile(t, sampleJSON)}

	got, err := src.FetchSamples(context.Background(), "",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchSamples() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("FetchSamples() returned %d samples, want 4", len(got))
	}
}

func TestFetchSamplesKindFilter(t *testing.T) {
	src := FileSource{Path: writeSampleFile(t, sampleJSON)}

	got, err := src.FetchSamples(context.Background(), storage.KindHeartRate,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchSamples() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchSamples() returned %d heart-rate samples, want 2", len(got))
	}
	for _, s := range got {
		if s.Kind != storage.KindHeartRate {
			t.Errorf("Sample kind = %q, want heart-rate", s.Kind)
		}
	}
}

func TestFetchSamplesWindow(t *testing.T) {
	src := FileSource{Path: writeSampleFile(t, sampleJSON)}

	got, err := src.FetchSamples(context.Background(), "",
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchSamples() error = %v", err)
	}
	// Only the 03-02 heart rate and the 03-03 sleep interval start
	// inside the window
	if len(got) != 2 {
		t.Fatalf("FetchSamples() returned %d samples, want 2", len(got))
	}
}

func TestFetchSamplesOpenWindow(t *testing.T) {
	src := FileSource{Path: writeSampleFile(t, sampleJSON)}

	got, err := src.FetchSamples(context.Background(), "", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("FetchSamples() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("FetchSamples() with open window returned %d samples, want 4", len(got))
	}
}

func TestFetchSamplesDefaultSource(t *testing.T) {
	src := FileSource{Path: writeSampleFile(t, `[{"kind": "heart-rate", "value": 70, "start": "2024-03-02T07:30:00Z"}]`)}

	got, err := src.FetchSamples(context.Background(), "",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchSamples() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FetchSamples() returned %d samples, want 1", len(got))
	}
	if got[0].Source != "samples.json" {
		t.Errorf("Default source = %q, want samples.json", got[0].Source)
	}
}

func TestFetchSamplesBadFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := src.FetchSamples(context.Background(), "", time.Time{}, time.Now()); err == nil {
		t.Error("FetchSamples() on missing file expected error")
	}

	src = FileSource{Path: writeSampleFile(t, "not json")}
	if _, err := src.FetchSamples(context.Background(), "", time.Time{}, time.Now()); err == nil {
		t.Error("FetchSamples() on malformed file expected error")
	}
}

func TestSampleRecord(t *testing.T) {
	end := time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)
	s := Sample{
		Kind:   storage.KindSleepDuration,
		Value:  7.25,
		Unit:   "hours",
		Start:  time.Date(2024, 3, 3, 22, 45, 0, 0, time.UTC),
		End:    &end,
		Source: "sleep-tracker",
	}

	rec := s.Record()
	if rec.ID != 0 || !rec.RecordedAt.IsZero() {
		t.Error("Record() should leave id and recordedAt for the store to stamp")
	}
	if rec.Kind != s.Kind || rec.Value != s.Value || rec.Unit != s.Unit || rec.Source != s.Source {
		t.Errorf("Record() = %+v, lost sample fields", rec)
	}
	if !rec.Start.Equal(s.Start) || rec.End == nil || !rec.End.Equal(end) {
		t.Errorf("Record() interval = %v..%v, want %v..%v", rec.Start, rec.End, s.Start, end)
	}
}
