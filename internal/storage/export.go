package storage

import (
	"encoding/json"
	"os"

	"github.com/jv-marek/radsim/internal/spectrum"
)

type ExportData struct {
	Source    string             `json:"source"`
	Traces    int                `json:"traces"`
	Omega     []float64          `json:"omega"`
	Theta     []float64          `json:"theta"`
	Phi       []float64          `json:"phi"`
	Intensity [][]float64        `json:"intensity"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run's full spectrum as a single JSON document.
func ExportJSON(path string, meta *RunMetadata, result *spectrum.Result) error {
	data := ExportData{
		Source:    meta.Source,
		Traces:    meta.Traces,
		Omega:     result.Omega,
		Theta:     result.Theta,
		Phi:       result.Phi,
		Intensity: result.Intensity,
		Metrics:   meta.Metrics,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
