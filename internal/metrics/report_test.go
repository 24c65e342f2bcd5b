package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orbitfield/internal/frame"
)

func TestReportCarriesMetricsAndHistory(t *testing.T) {
	s := Default()
	for i := 0; i < 3; i++ {
		s.OnFrame(frame.FrameInfo{Frame: uint64(i + 1), Particles: moving(1, 4)})
	}

	r := NewReport(s)
	r.Preset, r.Frames = "calm", 3
	if len(r.Energy) != 3 {
		t.Fatalf("expected 3 energy samples, got %d", len(r.Energy))
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Preset != "calm" || got.Frames != 3 {
		t.Errorf("unexpected header: %+v", got)
	}
	if _, ok := got.Metrics["kinetic_energy"]; !ok {
		t.Errorf("missing kinetic_energy in %v", got.Metrics)
	}
}

func TestReportWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewReport(NewSet()).WriteFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("invalid json: %s", data)
	}

	if err := NewReport(NewSet()).WriteFile(filepath.Join(t.TempDir(), "missing", "r.json")); err == nil {
		t.Error("expected error for missing directory")
	}
}
