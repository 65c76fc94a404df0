package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidmc/internal/analysis"
	"github.com/san-kum/rigidmc/internal/export"
	"github.com/san-kum/rigidmc/internal/storage"
)

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	bodies, err := st.LoadConfiguration(runID)
	if err != nil {
		return err
	}

	sys, err := storedSystem(meta)
	if err != nil {
		return err
	}
	scene, err := export.NewScene(sys.bd, sys.ev, bodies)
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(export.SceneToSVG(scene, renderScale)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies)\n", out, len(bodies))

	if energyOut != "" {
		energies, _, err := st.LoadEnergies(runID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(energyOut, []byte(export.SeriesToSVG(energies, 800, 300, "#00aaff")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", energyOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	energies, _, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}

	skip := discard
	if skip < 0 {
		skip = len(energies) / 5
	}
	if skip >= len(energies)-1 {
		return fmt.Errorf("not enough samples: %d recorded, %d discarded", len(energies), skip)
	}
	data := energies[skip:]

	sum := analysis.Summarize(energies, skip)
	blockMean, blockErr := analysis.BlockAverage(data, blocks)

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d (discarded %d)\n", sum.Samples, skip)
	fmt.Printf("mean energy: %.6f +/- %.6f\n", sum.Mean, sum.StdErr)
	fmt.Printf("std dev: %.6f\n", sum.Std)
	fmt.Printf("autocorrelation time: %.2f sweeps\n", sum.Tau)
	fmt.Printf("block average (%d blocks): %.6f +/- %.6f\n\n", blocks, blockMean, blockErr)

	acf := analysis.Autocorrelation(data)
	if acf == nil {
		fmt.Println("energy is constant, no correlation to plot")
		return nil
	}
	lags := min(len(acf), 100)
	fmt.Println(asciigraph.Plot(acf[:lags],
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("energy autocorrelation by lag"),
	))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - sum.Mean
	}
	if ps := analysis.PowerSpectrum(centered); len(ps) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("energy power spectrum"),
		))
	}
	return nil
}
