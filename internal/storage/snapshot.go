package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrMissingReload is reported when a case asks to start from a saved
// particle state and the run has none.
var ErrMissingReload = errors.New("gosph: missing reload snapshot")

// ReloadError names the run the snapshot was expected in.
type ReloadError struct {
	RunID string
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("gosph: missing reload snapshot for run %s", e.RunID)
}

func (e *ReloadError) Unwrap() error { return ErrMissingReload }

// Snapshot is the particle state a run can save and a later case reload:
// per-particle fields over the real range, column layout.
type Snapshot struct {
	Time float64
	Pos  []r2.Vec
	Vel  []r2.Vec
	Rho  []float64
	P    []float64
	Mass []float64
	Vol  []float64
}

const (
	snapshotMagic   uint32 = 0x48505347
	snapshotVersion uint32 = 1
	snapshotFile           = "snapshot.gsp"
)

// WriteSnapshot encodes snap as little-endian zstd-compressed column
// frames, each prefixed with its compressed length.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	n := len(snap.Pos)
	for _, err := range []error{
		binary.Write(w, binary.LittleEndian, snapshotMagic),
		binary.Write(w, binary.LittleEndian, snapshotVersion),
		binary.Write(w, binary.LittleEndian, snap.Time),
		binary.Write(w, binary.LittleEndian, int64(n)),
	} {
		if err != nil {
			return err
		}
	}

	for _, col := range snapshotColumns(snap) {
		if len(col) != n {
			return fmt.Errorf("gosph: snapshot column length %d, want %d", len(col), n)
		}
		if err := writeFrame(w, col); err != nil {
			return err
		}
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var magic, version uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("gosph: not a snapshot file (magic %#x)", magic)
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("gosph: unsupported snapshot version %d", version)
	}

	snap := &Snapshot{}
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &snap.Time); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("gosph: snapshot with negative particle count %d", n)
	}

	snap.Pos = make([]r2.Vec, n)
	snap.Vel = make([]r2.Vec, n)
	snap.Rho = make([]float64, n)
	snap.P = make([]float64, n)
	snap.Mass = make([]float64, n)
	snap.Vol = make([]float64, n)

	posX, posY := make([]float64, n), make([]float64, n)
	velX, velY := make([]float64, n), make([]float64, n)
	cols := [][]float64{posX, posY, velX, velY, snap.Rho, snap.P, snap.Mass, snap.Vol}
	for _, col := range cols {
		if err := readFrame(r, col); err != nil {
			return nil, err
		}
	}
	for i := range snap.Pos {
		snap.Pos[i] = r2.Vec{X: posX[i], Y: posY[i]}
		snap.Vel[i] = r2.Vec{X: velX[i], Y: velY[i]}
	}
	return snap, nil
}

// column order is part of the format
func snapshotColumns(snap *Snapshot) [][]float64 {
	n := len(snap.Pos)
	posX, posY := make([]float64, n), make([]float64, n)
	velX, velY := make([]float64, n), make([]float64, n)
	for i := range snap.Pos {
		posX[i], posY[i] = snap.Pos[i].X, snap.Pos[i].Y
		velX[i], velY[i] = snap.Vel[i].X, snap.Vel[i].Y
	}
	return [][]float64{posX, posY, velX, velY, snap.Rho, snap.P, snap.Mass, snap.Vol}
}

func writeFrame(w io.Writer, col []float64) error {
	raw := make([]byte, 8*len(col))
	for i, v := range col {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}

	comp, err := zstd.CompressLevel(nil, raw, 1)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(len(comp))); err != nil {
		return err
	}
	_, err = w.Write(comp)
	return err
}

func readFrame(r io.Reader, col []float64) error {
	var size int64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("gosph: snapshot frame with negative size %d", size)
	}
	comp := make([]byte, size)
	if _, err := io.ReadFull(r, comp); err != nil {
		return err
	}

	raw, err := zstd.Decompress(nil, comp)
	if err != nil {
		return err
	}
	if len(raw) != 8*len(col) {
		return fmt.Errorf("gosph: snapshot frame holds %d bytes, want %d", len(raw), 8*len(col))
	}
	for i := range col {
		col[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return nil
}

// SaveSnapshot writes the particle snapshot into the run's directory.
func (s *Store) SaveSnapshot(runID string, snap *Snapshot) error {
	f, err := os.Create(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSnapshot(f, snap)
}

// LoadSnapshot reads the run's particle snapshot. A run without one
// reports ErrMissingReload.
func (s *Store) LoadSnapshot(runID string) (*Snapshot, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ReloadError{RunID: runID}
		}
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
