package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
)

func sampleSeries() *Series {
	return &Series{
		Names: []string{"kinetic_energy", "particles"},
		Times: []float64{0, 0.5, 1.0},
		Rows: [][]float64{
			{1.25, 100},
			{1.5, 101},
			{1.75, 103},
		},
	}
}

func TestStoreSaveLoadRoundtrip(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("channel", 42, 200, 103, sampleSeries(),
		map[string]float64{"peak_speed": 1.5})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runID).NotTo(BeEmpty())

	meta, err := st.Load(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(meta.Case).To(Equal("channel"))
	g.Expect(meta.Seed).To(Equal(int64(42)))
	g.Expect(meta.Steps).To(Equal(200))
	g.Expect(meta.Particles).To(Equal(103))
	g.Expect(meta.Metrics).To(HaveKeyWithValue("peak_speed", 1.5))

	series, err := st.LoadSeries(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(series.Names).To(Equal([]string{"kinetic_energy", "particles"}))
	g.Expect(series.Times).To(Equal([]float64{0, 0.5, 1.0}))
	g.Expect(series.Rows).To(HaveLen(3))
	g.Expect(series.Rows[2]).To(Equal([]float64{1.75, 103}))
}

func TestStoreList(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())

	runs, err := st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(BeEmpty())

	g.Expect(st.Init()).To(Succeed())
	runID, err := st.Save("relaxation", 7, 50, 64, sampleSeries(), nil)
	g.Expect(err).NotTo(HaveOccurred())

	runs, err = st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(1))
	g.Expect(runs[0].ID).To(Equal(runID))
	g.Expect(runs[0].Case).To(Equal("relaxation"))
}

func TestExportJSON(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("channel", 42, 200, 103, sampleSeries(),
		map[string]float64{"peak_speed": 1.5})
	g.Expect(err).NotTo(HaveOccurred())

	meta, err := st.Load(runID)
	g.Expect(err).NotTo(HaveOccurred())
	series, err := st.LoadSeries(runID)
	g.Expect(err).NotTo(HaveOccurred())

	var buf bytes.Buffer
	g.Expect(ExportJSON(&buf, meta, series)).To(Succeed())

	var data ExportData
	g.Expect(json.Unmarshal(buf.Bytes(), &data)).To(Succeed())
	g.Expect(data.ID).To(Equal(runID))
	g.Expect(data.Case).To(Equal("channel"))
	g.Expect(data.Particles).To(Equal(103))
	g.Expect(data.Metrics).To(HaveKeyWithValue("peak_speed", 1.5))
	g.Expect(data.Columns).To(Equal([]string{"kinetic_energy", "particles"}))
	g.Expect(data.Rows).To(HaveLen(3))
}

func TestStoreSaveDistinctIDs(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	// back-to-back saves land in the same second
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		runID, err := st.Save("channel", 1, 10, 3, sampleSeries(), nil)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(seen).NotTo(HaveKey(runID))
		seen[runID] = true
	}

	runs, err := st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(3))
}

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Time: 2.5,
		Pos:  []r2.Vec{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}, {X: -1, Y: 7}},
		Vel:  []r2.Vec{{X: 1}, {Y: -1}, {X: 0.5, Y: 0.5}},
		Rho:  []float64{1000, 1001, 999.5},
		P:    []float64{0, 100, -50},
		Mass: []float64{2, 2, 2},
		Vol:  []float64{0.002, 0.002, 0.002},
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	g := NewWithT(t)
	snap := sampleSnapshot()

	var buf bytes.Buffer
	g.Expect(WriteSnapshot(&buf, snap)).To(Succeed())

	got, err := ReadSnapshot(&buf)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got.Time).To(Equal(snap.Time))
	g.Expect(got.Pos).To(Equal(snap.Pos))
	g.Expect(got.Vel).To(Equal(snap.Vel))
	g.Expect(got.Rho).To(Equal(snap.Rho))
	g.Expect(got.P).To(Equal(snap.P))
	g.Expect(got.Mass).To(Equal(snap.Mass))
	g.Expect(got.Vol).To(Equal(snap.Vol))
}

func TestSnapshotRejectsForeignBytes(t *testing.T) {
	g := NewWithT(t)
	_, err := ReadSnapshot(bytes.NewReader([]byte("time,x0,x1\n0,1,2\n")))
	g.Expect(err).To(HaveOccurred())
}

func TestStoreSnapshotRoundtrip(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("relaxation", 1, 10, 3, sampleSeries(), nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(st.SaveSnapshot(runID, sampleSnapshot())).To(Succeed())
	got, err := st.LoadSnapshot(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got.Pos).To(HaveLen(3))
	g.Expect(got.Time).To(Equal(2.5))
}

func TestLoadSnapshotMissing(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("channel", 1, 10, 3, sampleSeries(), nil)
	g.Expect(err).NotTo(HaveOccurred())

	_, err = st.LoadSnapshot(runID)
	g.Expect(err).To(HaveOccurred())
	g.Expect(errors.Is(err, ErrMissingReload)).To(BeTrue())

	var reloadErr *ReloadError
	g.Expect(errors.As(err, &reloadErr)).To(BeTrue())
	g.Expect(reloadErr.RunID).To(Equal(runID))
}
