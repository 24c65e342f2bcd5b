package metrics

import (
	"encoding/json"
	"io"
	"os"
)

// Report summarises a headless run.
type Report struct {
	Preset    string             `json:"preset"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Metrics   map[string]float64 `json:"metrics"`
	Energy    []float64          `json:"energy,omitempty"`
}

// NewReport fills Metrics and Energy from s. The remaining fields are left to
// the caller.
func NewReport(s *Set) *Report {
	r := &Report{Metrics: s.Snapshot()}
	if ke, ok := s.Get("kinetic_energy").(*KineticEnergy); ok {
		r.Energy = ke.History()
	}
	return r
}

func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
