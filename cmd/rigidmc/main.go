package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/rigidmc/internal/automation"
	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/logging"
	"github.com/san-kum/rigidmc/internal/metrics"
	"github.com/san-kum/rigidmc/internal/montecarlo"
	"github.com/san-kum/rigidmc/internal/storage"
)

var (
	dataDir  string
	logLevel string
	// Run parameters
	configFile  string
	preset      string
	sweeps      int
	temperature float64
	maxStep     float64
	maxAngle    float64
	seed        int64
	workers     int
	pressure    float64
	numBodies   int
	topoFile    string
	ffFile      string
	exportPath  string
	// Energy parameters
	energySeed int64
	boxKind    string
	// Bench parameters
	benchSweeps int
	// Render parameters
	renderOut   string
	energyOut   string
	renderScale float64
	// Analyze parameters
	discard int
	blocks  int
	// Ensemble parameters
	replicas int
	parallel int
	// Tune parameters
	targetAcceptance float64
	stepGrid         []float64
	angleGrid        []float64
	// Anneal parameters
	scenarioFile string
	annealFrom   float64
	annealTo     float64
	annealStages int
	// Scan parameters
	scanParam string
	scanMin   float64
	scanMax   float64
	scanSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rigidmc",
		Short:        "monte-carlo sampling of rigid 2d bodies",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidmc", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [box]",
		Short: "run a monte-carlo simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	addSamplerFlags(runCmd)
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write the full run as json to this path")

	energyCmd := &cobra.Command{
		Use:   "energy [configuration]",
		Short: "print per-body and total energies of a configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printEnergies,
	}
	addSystemFlags(energyCmd)
	energyCmd.Flags().Int64Var(&energySeed, "seed", 1, "random seed for generated bodies")
	energyCmd.Flags().StringVar(&boxKind, "box", config.BoxPeriodic, "box kind the preset is looked up under")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark sweeps per second",
		RunE:  benchSampler,
	}
	benchCmd.Flags().IntVar(&benchSweeps, "sweeps", 20, "sweeps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets [box]",
		Short: "list available presets for a box kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for box: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "draw the final configuration of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "svg output path (default <run_id>.svg)")
	renderCmd.Flags().StringVar(&energyOut, "energy-out", "", "also draw the energy trace to this svg path")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 20, "pixels per length unit")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "equilibrium statistics of a run's energy trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&discard, "discard", -1, "sweeps dropped as equilibration (default a fifth)")
	analyzeCmd.Flags().IntVar(&blocks, "blocks", 10, "number of blocks for block averaging")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [box]",
		Short: "run independent replicas in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSystemFlags(ensembleCmd)
	addSamplerFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&replicas, "replicas", 4, "number of replicas")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "replicas run at once (0 means all)")

	tuneCmd := &cobra.Command{
		Use:   "tune [box]",
		Short: "grid search step sizes for a target acceptance ratio",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneSteps,
	}
	addSystemFlags(tuneCmd)
	addSamplerFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&targetAcceptance, "target", 0.5, "target acceptance ratio")
	tuneCmd.Flags().Float64SliceVar(&stepGrid, "steps", []float64{0.05, 0.1, 0.25, 0.5, 1}, "max-step values to try")
	tuneCmd.Flags().Float64SliceVar(&angleGrid, "angles", []float64{0.1, 0.3, 0.6, 1.2}, "max-angle values to try")

	liveCmd := &cobra.Command{
		Use:   "live [box]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	addSamplerFlags(liveCmd)

	annealCmd := &cobra.Command{
		Use:   "anneal [box]",
		Short: "run a multi-stage schedule and store the combined run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnneal,
	}
	addSystemFlags(annealCmd)
	addSamplerFlags(annealCmd)
	annealCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml); overrides the cooling flags")
	annealCmd.Flags().Float64Var(&annealFrom, "from", 2, "initial temperature")
	annealCmd.Flags().Float64Var(&annealTo, "to", 0.2, "final temperature")
	annealCmd.Flags().IntVar(&annealStages, "stages", 5, "number of cooling stages; --sweeps is per stage")

	scanCmd := &cobra.Command{
		Use:   "scan [box]",
		Short: "sample over a range of temperatures or pressures",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	addSystemFlags(scanCmd)
	addSamplerFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanParam, "param", automation.ParamTemperature, "parameter to scan (temperature, pressure)")
	scanCmd.Flags().Float64Var(&scanMin, "min", 0.5, "first value")
	scanCmd.Flags().Float64Var(&scanMax, "max", 2, "last value")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 4, "number of values")

	rootCmd.AddCommand(runCmd, energyCmd, listCmd, plotCmd, exportCmd, benchCmd, presetsCmd,
		renderCmd, analyzeCmd, ensembleCmd, tuneCmd, liveCmd, annealCmd, scanCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration for the box kind")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of randomly placed bodies of type 0")
	cmd.Flags().StringVar(&topoFile, "topology", "", "topology file (yaml)")
	cmd.Flags().StringVar(&ffFile, "forcefield", "", "force field file (yaml)")
}

func addSamplerFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&sweeps, "sweeps", config.DefaultSweeps, "number of sweeps")
	cmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "temperature")
	cmd.Flags().Float64Var(&maxStep, "max-step", config.DefaultMaxStep, "initial maximum translation")
	cmd.Flags().Float64Var(&maxAngle, "max-angle", config.DefaultMaxAngle, "maximum rotation")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines per neighbour sum")
	cmd.Flags().Float64Var(&pressure, "pressure", 0, "pressure for volume moves (0 disables)")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	kind := config.BoxPeriodic
	if len(args) > 0 {
		kind = args[0]
	}

	if preset != "" {
		p := config.GetPreset(kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Population = []config.PopulationConfig{{Type: 0, Count: numBodies}}
	}
	if flags.Changed("topology") {
		cfg.Topology = topoFile
	}
	if flags.Changed("forcefield") {
		cfg.ForceField = ffFile
	}
	if flags.Changed("sweeps") {
		cfg.MC.Sweeps = sweeps
	}
	if flags.Changed("temperature") {
		cfg.MC.Temperature = temperature
	}
	if flags.Changed("max-step") {
		cfg.MC.MaxStep = maxStep
	}
	if flags.Changed("max-angle") {
		cfg.MC.MaxAngle = maxAngle
	}
	if flags.Changed("workers") {
		cfg.MC.Workers = workers
	}
	if flags.Changed("pressure") {
		cfg.MC.Pressure = pressure
	}
	if v, err := flags.GetInt64("seed"); err == nil && (cfg.MC.Seed == 0 || flags.Changed("seed")) {
		cfg.MC.Seed = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
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

	sampler := montecarlo.New(sys.ev, sys.bd, logger)
	sampler.AddMetric(metrics.NewAcceptanceRatio())
	sampler.AddMetric(metrics.NewMeanEnergy(cfg.MC.Sweeps / 5))
	sampler.AddMetric(metrics.NewEnergyDrift())
	sampler.AddMetric(metrics.NewStability(sys.ff.BigEnergy()))
	sampler.AddObserver(&progress{total: cfg.MC.Sweeps, logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s with %d bodies...\n", cfg.Name, len(bodies))
	start := time.Now()

	result, err := sampler.Run(ctx, bodies, montecarlo.FromConfig(cfg.MC))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	info := storage.RunInfo{
		Name:        cfg.Name,
		Boundary:    sys.bd.Name(),
		Box:         boundary.ToConfig(sys.bd),
		Topology:    cfg.Topology,
		ForceField:  cfg.ForceField,
		Seed:        cfg.MC.Seed,
		Sweeps:      cfg.MC.Sweeps,
		Temperature: cfg.MC.Temperature,
		Pressure:    cfg.MC.Pressure,
	}
	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}

	if exportPath != "" {
		if err := storage.ExportJSON(exportPath, info, result); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("sweeps: %d\n", result.Sweeps)
	fmt.Printf("acceptance: %.3f\n", result.AcceptanceRatio())
	fmt.Printf("final energy: %.6f\n", result.FinalEnergy())
	if cfg.MC.Pressure > 0 {
		fmt.Printf("volume moves: %d accepted, %d rejected\n", result.VolumeAccepted, result.VolumeRejected)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

// progress logs the sampler's state about ten times per run.
type progress struct {
	total  int
	logger *zap.Logger
}

func (p *progress) OnSweep(s montecarlo.Sample, _ []*body.Body) {
	every := max(p.total/10, 1)
	if s.Sweep%every != 0 {
		return
	}
	p.logger.Info("progress",
		zap.Int("sweep", s.Sweep),
		zap.Int("of", p.total),
		zap.Float64("energy", s.Energy),
		zap.Float64("volume", s.Volume),
	)
}

func printEnergies(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, []string{boxKind})
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Configuration = args[0]
		cfg.Bodies = nil
		cfg.Population = nil
	}

	sys, err := loadSystem(cfg)
	if err != nil {
		return err
	}

	bodies, err := sys.populate(cfg.MC.Seed)
	if err != nil {
		return err
	}

	sampler := montecarlo.New(sys.ev, sys.bd, nil)
	ctx := context.Background()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tTYPE\tX\tY\tANGLE\tPAIR\tBOUNDARY\tTOTAL")

	for i, b := range bodies {
		total, err := sampler.BodyEnergy(ctx, b, bodies, cfg.MC.Workers)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		edge, err := sys.bd.Energy(sys.ev, b)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.4f\t%.6f\t%.6f\t%.6f\n",
			i, b.Type, b.X(), b.Y(), b.Orientation(), total-edge, edge, total)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sum, err := sampler.SystemEnergy(ctx, bodies)
	if err != nil {
		return err
	}
	fmt.Printf("\nsystem energy: %.6f\n", sum)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBOX\tTIME\tBODIES\tSWEEPS\tTEMP\tACCEPT")

	for _, run := range runs {
		ratio := 0.0
		if n := run.Accepted + run.Rejected; n > 0 {
			ratio = float64(run.Accepted) / float64(n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%.3f\n",
			run.ID,
			run.Boundary,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NumBodies,
			run.Sweeps,
			run.Temperature,
			ratio,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	energies, volumes, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}

	if len(energies) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("box: %s\n", meta.Boundary)
	fmt.Printf("samples: %d\n\n", len(energies))

	graph := asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("system energy per sweep"),
	)
	fmt.Println(graph)
	fmt.Println()

	if meta.Pressure > 0 {
		graph = asciigraph.Plot(volumes,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("box area per sweep"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchSampler(cmd *cobra.Command, args []string) error {
	counts := []int{16, 64, 256}
	workerCounts := []int{1, 4}

	fmt.Printf("benchmarking %d sweeps\n\n", benchSweeps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tTRIALS\tTIME\tTRIALS/SEC")

	for _, n := range counts {
		for _, wk := range workerCounts {
			cfg := config.DefaultConfig()
			cfg.Population = []config.PopulationConfig{{Type: 0, Count: n}}

			sys, err := loadSystem(cfg)
			if err != nil {
				return err
			}
			bodies, err := sys.populate(42)
			if err != nil {
				return err
			}

			mc := montecarlo.FromConfig(cfg.MC)
			mc.Sweeps = benchSweeps
			mc.Seed = 42
			mc.Workers = wk

			start := time.Now()
			result, err := montecarlo.New(sys.ev, sys.bd, nil).Run(context.Background(), bodies, mc)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			trials := result.Accepted + result.Rejected
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
				n, wk, trials, elapsed, float64(trials)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
