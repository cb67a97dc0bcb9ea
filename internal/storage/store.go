// Package storage persists spectrum runs: one directory per run with
// a JSON metadata file and the spectral data as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jv-marek/radsim/internal/config"
	"github.com/jv-marek/radsim/internal/spectrum"
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
	ID        string             `json:"id"`
	Source    string             `json:"source"` // model name or "traces"
	Timestamp time.Time          `json:"timestamp"`
	Traces    int                `json:"traces"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a completed run and returns its generated id.
func (s *Store) Save(source string, traces int, cfg *config.Config, metrics map[string]float64, result *spectrum.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", source, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Source:    source,
		Timestamp: time.Now(),
		Traces:    traces,
		Config:    cfg,
		Metrics:   metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "spectrum.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	if err := writeSpectrum(csvFile, result); err != nil {
		csvFile.Close()
		return "", err
	}
	if err := csvFile.Close(); err != nil {
		return "", err
	}

	return runID, nil
}

// writeSpectrum emits the per-detector rows, surfacing buffered write
// errors from the final flush.
func writeSpectrum(dst io.Writer, result *spectrum.Result) error {
	w := csv.NewWriter(dst)

	if err := w.Write([]string{"theta", "phi", "omega", "intensity"}); err != nil {
		return err
	}
	for i := range result.Intensity {
		theta := strconv.FormatFloat(result.Theta[i], 'e', 9, 64)
		phi := strconv.FormatFloat(result.Phi[i], 'e', 9, 64)
		for k, v := range result.Intensity[i] {
			row := []string{
				theta,
				phi,
				strconv.FormatFloat(result.Omega[k], 'e', 9, 64),
				strconv.FormatFloat(v, 'e', 12, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSpectrum reads a run's spectral data back into a Result.
// Detectors are recovered in file order, one per distinct
// (theta, phi) block.
func (s *Store) LoadSpectrum(runID string) (*spectrum.Result, error) {
	csvPath := filepath.Join(s.baseDir, runID, "spectrum.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: %s: empty spectrum", runID)
	}

	res := &spectrum.Result{}
	var lastTheta, lastPhi float64
	started := false
	var row []float64

	flush := func() {
		if row != nil {
			res.Theta = append(res.Theta, lastTheta)
			res.Phi = append(res.Phi, lastPhi)
			res.Intensity = append(res.Intensity, row)
			row = nil
		}
	}

	for _, rec := range records[1:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("storage: %s: malformed spectrum row", runID)
		}
		var v [4]float64
		for i, f := range rec {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s: %w", runID, err)
			}
			v[i] = x
		}

		if !started || v[0] != lastTheta || v[1] != lastPhi {
			flush()
			lastTheta, lastPhi = v[0], v[1]
			started = true
		}
		if len(res.Intensity) == 0 {
			// omega axis repeats per detector; record it once
			res.Omega = append(res.Omega, v[2])
		}
		row = append(row, v[3])
	}
	flush()

	return res, nil
}
