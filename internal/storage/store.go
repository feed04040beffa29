package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store keeps one directory per run under a base directory: metadata,
// the recorded diagnostic series, and optionally a particle snapshot.
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
	Case      string             `json:"case"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Series holds the per-step diagnostics a run recorded: one row per
// record boundary, one column per metric.
type Series struct {
	Names []string
	Times []float64
	Rows  [][]float64
}

func (s *Store) Save(caseName string, seed int64, steps, particles int, series *Series, finals map[string]float64) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}

	// several same-case runs can land in the same second, so probe
	// with Mkdir until the ID is free instead of overwriting
	stamp := time.Now().Unix()
	runID := fmt.Sprintf("%s_%d", caseName, stamp)
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", caseName, stamp, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta := RunMetadata{
		ID:        runID,
		Case:      caseName,
		Timestamp: time.Now(),
		Seed:      seed,
		Steps:     steps,
		Particles: particles,
		Metrics:   finals,
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

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, series.Names...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, row := range series.Rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(series.Times[i], 'g', -1, 64))
		for _, val := range row {
			rec = append(rec, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	return runID, nil
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Series{}, nil
	}

	series := &Series{Names: records[0][1:]}
	for _, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(rec)-1)
		for _, field := range rec[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		series.Times = append(series.Times, t)
		series.Rows = append(series.Rows, row)
	}

	return series, nil
}
