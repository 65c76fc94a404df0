package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/montecarlo"
)

const (
	metadataFile      = "metadata.json"
	configurationFile = "configuration.txt"
	energiesFile      = "energies.csv"
)

// ErrChecksum indicates a stored configuration that no longer matches the
// checksum recorded in its metadata.
var ErrChecksum = errors.New("storage: configuration checksum mismatch")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes the parameters of a run that are not part of its result.
// Box is the box at the end of the run, which differs from the configured one
// after volume moves.
type RunInfo struct {
	Name        string
	Boundary    string
	Box         config.BoxConfig
	Topology    string
	ForceField  string
	Seed        int64
	Sweeps      int
	Temperature float64
	Pressure    float64
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Boundary    string             `json:"boundary"`
	Box         config.BoxConfig   `json:"box"`
	Topology    string             `json:"topology,omitempty"`
	ForceField  string             `json:"force_field,omitempty"`
	Seed        int64              `json:"seed"`
	Sweeps      int                `json:"sweeps"`
	Temperature float64            `json:"temperature"`
	Pressure    float64            `json:"pressure,omitempty"`
	NumBodies   int                `json:"num_bodies"`
	Accepted    int                `json:"accepted"`
	Rejected    int                `json:"rejected"`
	Checksum    string             `json:"checksum"`
	Metrics     map[string]float64 `json:"metrics"`
}

func newRunID(name string) string {
	return fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
}

func checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Save writes the final configuration, the energy trace and the metadata of a
// run into a fresh directory and returns the run id.
func (s *Store) Save(info RunInfo, result *montecarlo.Result) (string, error) {
	runID := newRunID(info.Name)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	var conf bytes.Buffer
	if err := body.WriteConfiguration(&conf, result.Bodies); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, configurationFile), conf.Bytes(), 0644); err != nil {
		return "", err
	}

	if err := writeEnergies(filepath.Join(runDir, energiesFile), result); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        info.Name,
		Timestamp:   time.Now(),
		Boundary:    info.Boundary,
		Box:         info.Box,
		Topology:    info.Topology,
		ForceField:  info.ForceField,
		Seed:        info.Seed,
		Sweeps:      info.Sweeps,
		Temperature: info.Temperature,
		Pressure:    info.Pressure,
		NumBodies:   len(result.Bodies),
		Accepted:    result.Accepted,
		Rejected:    result.Rejected,
		Checksum:    checksum(conf.Bytes()),
		Metrics:     result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	return runID, nil
}

func writeEnergies(path string, result *montecarlo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sweep", "energy", "volume"}); err != nil {
		return err
	}
	for i, e := range result.Energies {
		vol := 0.0
		if i < len(result.Volumes) {
			vol = result.Volumes[i]
		}
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(e, 'f', 6, 64),
			strconv.FormatFloat(vol, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadEnergies returns the recorded system energy and box area per sweep,
// starting with the state before the first sweep.
func (s *Store) LoadEnergies(runID string) ([]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, energiesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	energies := make([]float64, 0, len(records)-1)
	volumes := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		energies = append(energies, e)
		volumes = append(volumes, v)
	}

	return energies, volumes, nil
}

// LoadConfiguration reads the final bodies of a run after checking them
// against the stored checksum.
func (s *Store) LoadConfiguration(runID string) ([]*body.Body, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, configurationFile))
	if err != nil {
		return nil, err
	}
	if sum := checksum(data); sum != meta.Checksum {
		return nil, fmt.Errorf("%w: run %s has %s, metadata says %s", ErrChecksum, runID, sum, meta.Checksum)
	}

	return body.ReadConfiguration(bytes.NewReader(data))
}
