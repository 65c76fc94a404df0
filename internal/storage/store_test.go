package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/montecarlo"
)

func testResult() *montecarlo.Result {
	return &montecarlo.Result{
		Energies: []float64{-1.5, -2.0, -2.25},
		Volumes:  []float64{400, 400, 401},
		Accepted: 5,
		Rejected: 3,
		Sweeps:   2,
		Metrics: map[string]float64{
			"mean_energy": -2.125,
		},
		Bodies: []*body.Body{
			body.New(0, 1, 2, 0.5),
			body.New(1, 3.25, -4, 1),
		},
	}
}

func testInfo() RunInfo {
	return RunInfo{
		Name:        "test",
		Boundary:    "periodic",
		Box:         config.BoxConfig{Kind: config.BoxPeriodic, Width: 12, Height: 8},
		Seed:        42,
		Sweeps:      2,
		Temperature: 1.5,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "test_") || len(runID) != len("test_")+8 {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", meta.Name)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Box.Kind != config.BoxPeriodic || meta.Box.Width != 12 || meta.Box.Height != 8 {
		t.Errorf("unexpected box %+v", meta.Box)
	}
	if meta.NumBodies != 2 || meta.Accepted != 5 || meta.Rejected != 3 {
		t.Errorf("unexpected counts %+v", meta)
	}
	if meta.Metrics["mean_energy"] != -2.125 {
		t.Errorf("expected mean energy -2.125, got %f", meta.Metrics["mean_energy"])
	}

	energies, volumes, err := st.LoadEnergies(runID)
	if err != nil {
		t.Fatalf("load energies failed: %v", err)
	}
	if len(energies) != 3 || len(volumes) != 3 {
		t.Fatalf("expected 3 rows, got %d energies and %d volumes", len(energies), len(volumes))
	}
	if energies[2] != -2.25 || volumes[2] != 401 {
		t.Errorf("unexpected last row %f %f", energies[2], volumes[2])
	}

	bodies, err := st.LoadConfiguration(runID)
	if err != nil {
		t.Fatalf("load configuration failed: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if bodies[1].Type != 1 || bodies[1].X() != 3.25 || bodies[1].Y() != -4 {
		t.Errorf("unexpected body %d %f %f", bodies[1].Type, bodies[1].X(), bodies[1].Y())
	}
}

func TestStoreConfigurationMatchesTextFormat(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "configuration.txt"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := "    0  1.000000  2.000000  0.500000\n" +
		"    1  3.250000 -4.000000  1.000000\n"
	if string(data) != want {
		t.Errorf("configuration.txt = %q, want %q", data, want)
	}
}

func TestStoreChecksumMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(tmpDir, runID, "configuration.txt")
	if err := os.WriteFile(path, []byte("    0  9.000000  9.000000  0.000000\n"), 0644); err != nil {
		t.Fatalf("tamper failed: %v", err)
	}

	_, err = st.LoadConfiguration(runID)
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("expected ErrChecksum, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(testInfo(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) == 2 && runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("expected runs sorted oldest first")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "configuration.txt", "energies.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testInfo(), testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Name != "test" || data.Sweeps != 2 || len(data.Energies) != 3 {
		t.Errorf("unexpected export %+v", data)
	}
	if len(data.Bodies) != 2 || data.Bodies[1].X != 3.25 {
		t.Errorf("unexpected bodies %+v", data.Bodies)
	}
}
