package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/montecarlo"
)

type ExportBody struct {
	Type        int     `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Orientation float64 `json:"orientation"`
	Accepted    int     `json:"accepted"`
	Rejected    int     `json:"rejected"`
	MaxStep     float64 `json:"max_step"`
}

type ExportData struct {
	Name           string             `json:"name"`
	Boundary       string             `json:"boundary"`
	Box            config.BoxConfig   `json:"box"`
	Seed           int64              `json:"seed"`
	Sweeps         int                `json:"sweeps"`
	Temperature    float64            `json:"temperature"`
	Energies       []float64          `json:"energies"`
	Volumes        []float64          `json:"volumes"`
	Accepted       int                `json:"accepted"`
	Rejected       int                `json:"rejected"`
	VolumeAccepted int                `json:"volume_accepted"`
	VolumeRejected int                `json:"volume_rejected"`
	Bodies         []ExportBody       `json:"bodies"`
	Metrics        map[string]float64 `json:"metrics"`
}

func newExportData(info RunInfo, result *montecarlo.Result) ExportData {
	data := ExportData{
		Name:           info.Name,
		Boundary:       info.Boundary,
		Box:            info.Box,
		Seed:           info.Seed,
		Sweeps:         result.Sweeps,
		Temperature:    info.Temperature,
		Energies:       result.Energies,
		Volumes:        result.Volumes,
		Accepted:       result.Accepted,
		Rejected:       result.Rejected,
		VolumeAccepted: result.VolumeAccepted,
		VolumeRejected: result.VolumeRejected,
		Bodies:         make([]ExportBody, len(result.Bodies)),
		Metrics:        result.Metrics,
	}

	for i, b := range result.Bodies {
		data.Bodies[i] = ExportBody{
			Type:        b.Type,
			X:           b.X(),
			Y:           b.Y(),
			Orientation: b.Orientation(),
			Accepted:    b.Stats.Accepted,
			Rejected:    b.Stats.Rejected,
			MaxStep:     b.Stats.MaxStep,
		}
	}
	return data
}

// ExportJSON writes the full run, including per-body statistics, to path.
func ExportJSON(path string, info RunInfo, result *montecarlo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func WriteJSON(w io.Writer, info RunInfo, result *montecarlo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result))
}
