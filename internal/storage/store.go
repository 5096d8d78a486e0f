// Package storage persists completed runs: metadata as JSON and the
// sampled trajectory as CSV, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Timestamp     time.Time          `json:"timestamp"`
	Integrator    string             `json:"integrator"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Tolerance     float64            `json:"tolerance,omitempty"`
	Softening     float64            `json:"softening,omitempty"`
	Bodies        int                `json:"bodies"`
	StepsTaken    int                `json:"steps_taken"`
	StepsRejected int                `json:"steps_rejected,omitempty"`
	EnergyDrift   float64            `json:"energy_drift"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	bodies := 0
	if len(result.Frames) > 0 {
		bodies = len(result.Frames[0].Px)
	}

	meta := RunMetadata{
		ID:            runID,
		Scenario:      scenario,
		Timestamp:     time.Now(),
		Integrator:    cfg.Integrator,
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Tolerance:     cfg.Tolerance,
		Softening:     cfg.Softening,
		Bodies:        bodies,
		StepsTaken:    result.StepsTaken,
		StepsRejected: result.StepsRejected,
		EnergyDrift:   result.EnergyDrift,
		Metrics:       result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeFrames(filepath.Join(runDir, "trajectory.csv"), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(frames) == 0 {
		return nil
	}

	header := []string{"time", "energy"}
	for i := range frames[0].Px {
		header = append(header,
			fmt.Sprintf("px%d", i), fmt.Sprintf("py%d", i), fmt.Sprintf("pz%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{
			strconv.FormatFloat(fr.Time, 'g', -1, 64),
			strconv.FormatFloat(fr.Energy, 'g', -1, 64),
		}
		for i := range fr.Px {
			row = append(row,
				strconv.FormatFloat(fr.Px[i], 'g', -1, 64),
				strconv.FormatFloat(fr.Py[i], 'g', -1, 64),
				strconv.FormatFloat(fr.Pz[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns metadata for all stored runs.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads the sampled trajectory of one run.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	bodies := (len(records[0]) - 2) / 3
	frames := make([]sim.Frame, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 2+3*bodies {
			continue
		}
		fr := sim.Frame{
			Px: make([]float64, bodies),
			Py: make([]float64, bodies),
			Pz: make([]float64, bodies),
		}
		fr.Time, _ = strconv.ParseFloat(rec[0], 64)
		fr.Energy, _ = strconv.ParseFloat(rec[1], 64)
		for i := 0; i < bodies; i++ {
			fr.Px[i], _ = strconv.ParseFloat(rec[2+3*i], 64)
			fr.Py[i], _ = strconv.ParseFloat(rec[3+3*i], 64)
			fr.Pz[i], _ = strconv.ParseFloat(rec[4+3*i], 64)
		}
		frames = append(frames, fr)
	}
	return frames, nil
}
