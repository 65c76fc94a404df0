package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/rigidmc/internal/automation"
	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/logging"
	"github.com/san-kum/rigidmc/internal/montecarlo"
	"github.com/san-kum/rigidmc/internal/storage"
)

func runAnneal(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	scenario := automation.Anneal(annealFrom, annealTo, annealStages, cfg.MC.Sweeps)
	if scenarioFile != "" {
		scenario, err = automation.LoadScenario(scenarioFile)
		if err != nil {
			return err
		}
	}

	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sys, err := loadSystem(cfg)
	if err != nil {
		return err
	}
	bodies, err := sys.populate(cfg.MC.Seed)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sampler := montecarlo.New(sys.ev, sys.bd, logger)
	stages, err := automation.RunScenario(ctx, sampler, bodies, montecarlo.FromConfig(cfg.MC), scenario, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tNAME\tTEMP\tPRESSURE\tACCEPT\tFINAL")
	for i, s := range stages {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.3f\t%.6f\n",
			i+1, s.Stage.Name, s.Stage.Temperature, s.Stage.Pressure, s.Result.AcceptanceRatio(), s.Result.FinalEnergy())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	last := scenario.Stages[len(scenario.Stages)-1]
	result := automation.Combine(stages)
	info := storage.RunInfo{
		Name:        cfg.Name + "_" + scenario.Name,
		Boundary:    sys.bd.Name(),
		Box:         boundary.ToConfig(sys.bd),
		Topology:    cfg.Topology,
		ForceField:  cfg.ForceField,
		Seed:        cfg.MC.Seed,
		Sweeps:      result.Sweeps,
		Temperature: last.Temperature,
		Pressure:    last.Pressure,
	}
	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}
	logger.Info("scenario stored", zap.String("run", runID), zap.Int("stages", len(stages)))

	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	build := func(i int) (*montecarlo.Sampler, []*body.Body, error) {
		sys, err := loadSystem(cfg)
		if err != nil {
			return nil, nil, err
		}
		bodies, err := sys.populate(cfg.MC.Seed + int64(i))
		if err != nil {
			return nil, nil, err
		}
		return montecarlo.New(sys.ev, sys.bd, logger.With(zap.Int("point", i))), bodies, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scan := automation.Scan{
		Param:   scanParam,
		Min:     scanMin,
		Max:     scanMax,
		Steps:   scanSteps,
		Discard: cfg.MC.Sweeps / 5,
	}
	points, err := automation.RunScan(ctx, build, montecarlo.FromConfig(cfg.MC), scan)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tERR\tAREA\tACCEPT\n", scanParam)
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.4f\t%.3f\n",
			p.Value, p.Energy.Mean, p.Energy.StdErr, p.Volume.Mean, p.Acceptance)
	}
	return w.Flush()
}
