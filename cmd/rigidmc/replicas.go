package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/rigidmc/internal/analysis"
	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/logging"
	"github.com/san-kum/rigidmc/internal/montecarlo"
	"github.com/san-kum/rigidmc/internal/optim"
	"github.com/san-kum/rigidmc/internal/viz"
)

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if replicas < 1 {
		return fmt.Errorf("replicas must be positive, got %d", replicas)
	}

	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Every replica gets its own box so volume moves stay independent.
	build := func(i int) (*montecarlo.Sampler, []*body.Body, error) {
		sys, err := loadSystem(cfg)
		if err != nil {
			return nil, nil, err
		}
		bodies, err := sys.populate(cfg.MC.Seed + int64(i))
		if err != nil {
			return nil, nil, err
		}
		return montecarlo.New(sys.ev, sys.bd, logger.With(zap.Int("replica", i))), bodies, nil
	}

	ens := montecarlo.NewEnsemble(build, replicas, cfg.MC.Seed)
	ens.SetParallelism(parallel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d replicas of %s...\n", replicas, cfg.Name)
	start := time.Now()
	results, err := ens.Run(ctx, montecarlo.FromConfig(cfg.MC))
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPLICA\tSEED\tACCEPT\tFINAL\tMEAN")

	finals := make([]float64, len(results))
	skip := cfg.MC.Sweeps / 5
	for i, r := range results {
		finals[i] = r.FinalEnergy()
		sum := analysis.Summarize(r.Energies, skip)
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%.6f\t%.6f\n",
			i, cfg.MC.Seed+int64(i), r.AcceptanceRatio(), finals[i], sum.Mean)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, stderr := analysis.BlockAverage(finals, len(finals))
	fmt.Printf("\nfinal energy over replicas: %.6f +/- %.6f\n", mean, stderr)
	return nil
}

func tuneSteps(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	run := func(ctx context.Context, params map[string]float64) (*montecarlo.Result, error) {
		sys, err := loadSystem(cfg)
		if err != nil {
			return nil, err
		}
		bodies, err := sys.populate(cfg.MC.Seed)
		if err != nil {
			return nil, err
		}

		mc := montecarlo.FromConfig(cfg.MC)
		mc.MaxStep = params["max_step"]
		mc.MaxAngle = params["max_angle"]
		// Adaptive steps would wash out the grid.
		mc.AdaptEvery = 0

		res, err := montecarlo.New(sys.ev, sys.bd, nil).Run(ctx, bodies, mc)
		if err != nil {
			logger.Warn("tune run failed", zap.Any("params", params), zap.Error(err))
			return nil, err
		}
		logger.Debug("tune run",
			zap.Float64("max_step", mc.MaxStep),
			zap.Float64("max_angle", mc.MaxAngle),
			zap.Float64("acceptance", res.AcceptanceRatio()),
		)
		return res, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch([]string{"max_step", "max_angle"}, [][]float64{stepGrid, angleGrid})
	best, score, err := gs.Search(ctx, run, optim.AcceptanceDistance(targetAcceptance))
	if err != nil {
		return err
	}
	if best == nil {
		return errors.New("every tuning run failed")
	}

	fmt.Printf("target acceptance: %.3f\n", targetAcceptance)
	fmt.Printf("best max_step: %g\n", best["max_step"])
	fmt.Printf("best max_angle: %g\n", best["max_angle"])
	fmt.Printf("distance from target: %.4f\n", score)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := loadSystem(cfg)
	if err != nil {
		return err
	}
	bodies, err := sys.populate(cfg.MC.Seed)
	if err != nil {
		return err
	}

	// Log lines would tear the terminal view.
	sampler := montecarlo.New(sys.ev, sys.bd, logging.Nop())
	feed := viz.NewFeed(sys.bd, sys.ev)
	sampler.AddObserver(feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, err := sampler.Run(ctx, bodies, montecarlo.FromConfig(cfg.MC))
		feed.Finish(err)
	}()

	final, err := tea.NewProgram(viz.NewModel(cfg.Name, cfg.MC.Sweeps, feed, cancel)).Run()
	cancel()
	<-finished
	if err != nil {
		return err
	}

	if runErr := final.(viz.Model).Err(); runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
