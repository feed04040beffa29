package storage

import (
	"encoding/json"
	"io"
	"time"
)

// ExportData is the flattened form of a stored run for downstream
// tooling: metadata and the recorded series in one document.
type ExportData struct {
	ID        string             `json:"id"`
	Case      string             `json:"case"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
	Columns   []string           `json:"columns"`
	Times     []float64          `json:"times"`
	Rows      [][]float64        `json:"rows"`
}

// ExportJSON writes one run as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	data := ExportData{
		ID:        meta.ID,
		Case:      meta.Case,
		Timestamp: meta.Timestamp,
		Seed:      meta.Seed,
		Steps:     meta.Steps,
		Particles: meta.Particles,
		Metrics:   meta.Metrics,
		Columns:   series.Names,
		Times:     series.Times,
		Rows:      series.Rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
