package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jv-marek/radsim/internal/config"
	"github.com/jv-marek/radsim/internal/export"
	"github.com/jv-marek/radsim/internal/geom"
	"github.com/jv-marek/radsim/internal/metrics"
	"github.com/jv-marek/radsim/internal/motion"
	"github.com/jv-marek/radsim/internal/scan"
	"github.com/jv-marek/radsim/internal/spectrum"
	"github.com/jv-marek/radsim/internal/storage"
	"github.com/jv-marek/radsim/internal/trace"
	"github.com/jv-marek/radsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	tracesGlob string
	// observation grid
	omegaMax float64
	thetaMax float64
	nOmega   int
	nTheta   int
	nPhi     int
	workers  int
	// built-in source parameters
	b0     float64
	period float64
	p0     float64
	dt     float64
	steps  int
	// view/export
	liveView bool
	outPath  string
	svgScale float64
	// parameter scan bounds
	scanB0Lo     float64
	scanB0Hi     float64
	scanPeriodLo float64
	scanPeriodHi float64
	scanPoints   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "radsim",
		Short: "far-field radiation spectrum lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".radsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "compute a radiation spectrum from traces or a built-in source",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSpectrum,
	}
	runCmd.Flags().StringVar(&tracesGlob, "traces", "", "glob of trace files (overrides the model source)")
	runCmd.Flags().Float64Var(&omegaMax, "omega-max", config.DefaultOmegaMax, "maximum angular frequency [1/s]")
	runCmd.Flags().Float64Var(&thetaMax, "theta-max", config.DefaultThetaMax, "maximum polar angle [deg]")
	runCmd.Flags().IntVar(&nOmega, "n-omega", config.DefaultNOmega, "frequency bins")
	runCmd.Flags().IntVar(&nTheta, "n-theta", config.DefaultNTheta, "polar directions")
	runCmd.Flags().IntVar(&nPhi, "n-phi", config.DefaultNPhi, "azimuthal directions")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per CPU)")
	addSourceFlags(runCmd)
	runCmd.Flags().BoolVar(&liveView, "live", false, "live spectrum view while sweeping traces")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	generateCmd := &cobra.Command{
		Use:   "generate [model]",
		Short: "integrate a built-in source and write its trace file",
		Args:  cobra.ExactArgs(1),
		RunE:  generateTrace,
	}
	addSourceFlags(generateCmd)
	generateCmd.Flags().StringVar(&outPath, "out", "trace.dat", "output trace file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the full spectrum to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "spectrum.json", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the spectral map to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "spectrum.svg", "output file")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4.0, "pixels per braille dot")

	scanCmd := &cobra.Command{
		Use:   "scan [model]",
		Short: "grid-search source parameters for the brightest on-axis peak",
		Args:  cobra.ExactArgs(1),
		RunE:  scanSource,
	}
	addSourceFlags(scanCmd)
	scanCmd.Flags().Float64Var(&scanB0Lo, "b0-min", 0.2, "field strength lower bound [T]")
	scanCmd.Flags().Float64Var(&scanB0Hi, "b0-max", 1.6, "field strength upper bound [T]")
	scanCmd.Flags().Float64Var(&scanPeriodLo, "period-min", 0.01, "period lower bound [m]")
	scanCmd.Flags().Float64Var(&scanPeriodHi, "period-max", 0.05, "period upper bound [m]")
	scanCmd.Flags().IntVar(&scanPoints, "points", 5, "grid points per parameter")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per CPU)")
	scanCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	scanCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a source model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, generateCmd, listCmd, plotCmd, scanCmd, exportCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&b0, "b0", 0.8, "field strength [T]")
	cmd.Flags().Float64Var(&period, "period", 0.02, "undulator period [m]")
	cmd.Flags().Float64Var(&p0, "p0", 2.7e-20, "initial momentum magnitude [kg m/s]")
	cmd.Flags().Float64Var(&dt, "dt", 1e-13, "timestep [s]")
	cmd.Flags().IntVar(&steps, "steps", 4000, "integration steps")
}

// resolveConfig merges preset, config file and explicit flags in
// increasing priority.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
	}

	if model != "" {
		cfg.Source.Model = model
	}
	if cmd.Flags().Changed("omega-max") {
		cfg.OmegaMax = omegaMax
	}
	if cmd.Flags().Changed("theta-max") {
		cfg.ThetaMax = thetaMax
	}
	if cmd.Flags().Changed("n-omega") {
		cfg.NOmega = nOmega
	}
	if cmd.Flags().Changed("n-theta") {
		cfg.NTheta = nTheta
	}
	if cmd.Flags().Changed("n-phi") {
		cfg.NPhi = nPhi
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("b0") {
		cfg.Source.B0 = b0
	}
	if cmd.Flags().Changed("period") {
		cfg.Source.Period = period
	}
	if cmd.Flags().Changed("p0") {
		cfg.Source.P0 = p0
	}
	if cmd.Flags().Changed("dt") {
		cfg.Source.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Source.Steps = steps
	}

	return cfg, cfg.Validate()
}

// buildSource integrates the configured built-in model into a trace.
func buildSource(cfg *config.Config) ([]trace.Sample, error) {
	pusher := motion.NewElectronPusher()

	var field motion.Field
	var pInit geom.Vec3
	switch cfg.Source.Model {
	case "dipole":
		field = motion.NewDipole(cfg.Source.B0)
		pInit = geom.Vec3{X: cfg.Source.P0} // perpendicular to B
	case "undulator":
		field = motion.NewUndulator(cfg.Source.B0, cfg.Source.Period)
		pInit = geom.Vec3{Z: cfg.Source.P0} // along the beam axis
	default:
		return nil, fmt.Errorf("unknown source model: %s", cfg.Source.Model)
	}

	return pusher.Generate(field, geom.Vec3{}, pInit, cfg.Source.Dt, cfg.Source.Steps), nil
}

func mkGrid(cfg *config.Config) func() *spectrum.Grid {
	return func() *spectrum.Grid {
		return spectrum.NewGrid(cfg.OmegaMax, cfg.NOmega, cfg.ThetaMaxRad(), cfg.NTheta, cfg.NPhi)
	}
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	if model == "" && tracesGlob == "" {
		return fmt.Errorf("either a source model or --traces is required")
	}

	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	var result *spectrum.Result
	var runMetrics map[string]float64
	source := cfg.Source.Model
	traces := 1

	if tracesGlob != "" {
		result, runMetrics, traces, err = runTraceSweep(cfg)
		source = "traces"
	} else {
		result, runMetrics, err = runSourceModel(cfg)
	}
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("aborted")
		return nil
	}
	elapsed := time.Since(start)

	runID, err := st.Save(source, traces, cfg, runMetrics, result)
	if err != nil {
		return err
	}

	omegaPeak, peak := result.Peak()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("traces: %d, detectors: %d, frequencies: %d\n", traces, len(result.Intensity), len(result.Omega))
	fmt.Printf("peak: %.4e J s at omega %.4e rad/s\n", peak, omegaPeak)
	if len(runMetrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range runMetrics {
			fmt.Printf("  %s: %.6e\n", name, val)
		}
	}

	return nil
}

func runSourceModel(cfg *config.Config) (*spectrum.Result, map[string]float64, error) {
	samples, err := buildSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("integrating %s source (%d steps)...\n", cfg.Source.Model, cfg.Source.Steps)
	runMetrics := metrics.Collect(samples,
		metrics.NewRadiatedEnergy(), metrics.NewMaxGamma(), metrics.NewPathLength())

	result, err := spectrum.Compute(context.Background(), samples, mkGrid(cfg)(), cfg.Workers)
	if err != nil {
		return nil, nil, err
	}
	return result, runMetrics, nil
}

func runTraceSweep(cfg *config.Config) (*spectrum.Result, map[string]float64, int, error) {
	paths, err := filepath.Glob(tracesGlob)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(paths) == 0 {
		return nil, nil, 0, fmt.Errorf("no trace files match %q", tracesGlob)
	}
	if len(paths) > cfg.NTrace {
		paths = paths[:cfg.NTrace]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !liveView {
		fmt.Printf("sweeping %d traces...\n", len(paths))
		result, err := spectrum.Sweep(ctx, paths, mkGrid(cfg), cfg.Workers,
			func(done, total int, _ *spectrum.Result) {
				fmt.Printf("\r  %d/%d", done, total)
			})
		fmt.Println()
		if err != nil {
			return nil, nil, 0, err
		}
		return result, sumTraceMetrics(paths), len(paths), nil
	}

	updates := make(chan viz.Progress, 1)
	type sweepOut struct {
		res *spectrum.Result
		err error
	}
	out := make(chan sweepOut, 1)

	go func() {
		res, err := spectrum.Sweep(ctx, paths, mkGrid(cfg), cfg.Workers,
			func(done, total int, partial *spectrum.Result) {
				// drop stale frames rather than block the sweep
				select {
				case updates <- viz.Progress{Done: done, Total: total, Partial: partial}:
				default:
				}
			})
		close(updates)
		out <- sweepOut{res, err}
	}()

	liveModel := viz.NewLive(updates)
	if _, err := tea.NewProgram(liveModel).Run(); err != nil {
		cancel()
		<-out
		return nil, nil, 0, err
	}
	if liveModel.Aborted() {
		cancel()
	}

	result := <-out
	if liveModel.Aborted() && errors.Is(result.err, context.Canceled) {
		return nil, nil, 0, nil
	}
	if result.err != nil {
		return nil, nil, 0, result.err
	}
	return result.res, sumTraceMetrics(paths), len(paths), nil
}

// sumTraceMetrics folds the per-trace observables of every file into
// run totals (max_gamma keeps the maximum).
func sumTraceMetrics(paths []string) map[string]float64 {
	total := make(map[string]float64)
	for _, path := range paths {
		samples, err := trace.ReadFile(path)
		if err != nil {
			continue
		}
		m := metrics.Collect(samples,
			metrics.NewRadiatedEnergy(), metrics.NewMaxGamma(), metrics.NewPathLength())
		total["radiated_energy"] += m["radiated_energy"]
		total["path_length"] += m["path_length"]
		if m["max_gamma"] > total["max_gamma"] {
			total["max_gamma"] = m["max_gamma"]
		}
	}
	return total
}

func scanSource(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	search := scan.NewGridSearch(
		[]string{"b0", "period"},
		[][]float64{
			scan.Range(scanB0Lo, scanB0Hi, scanPoints),
			scan.Range(scanPeriodLo, scanPeriodHi, scanPoints),
		},
	)

	fmt.Printf("scanning %d points...\n", scanPoints*scanPoints)
	evaluated := 0
	params, best, err := search.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		trial := *cfg
		trial.Source.B0 = p["b0"]
		trial.Source.Period = p["period"]

		samples, err := buildSource(&trial)
		if err != nil {
			return 0, err
		}
		result, err := spectrum.Compute(ctx, samples, mkGrid(&trial)(), trial.Workers)
		if err != nil {
			return 0, err
		}
		evaluated++
		_, peak := result.Peak()
		fmt.Printf("\r  %d evaluated", evaluated)
		return peak, nil
	})
	fmt.Println()
	if err != nil {
		return err
	}
	if params == nil {
		return fmt.Errorf("no grid point evaluated successfully")
	}

	fmt.Printf("best peak: %.4e J s\n", best)
	fmt.Printf("  b0:     %.4f T\n", params["b0"])
	fmt.Printf("  period: %.4f m\n", params["period"])
	return nil
}

func generateTrace(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	samples, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if err := trace.WriteFile(outPath, samples); err != nil {
		return err
	}

	fmt.Printf("wrote %d samples to %s\n", len(samples), outPath)
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
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tTRACES\tGRID")

	for _, run := range runs {
		grid := ""
		if run.Config != nil {
			grid = fmt.Sprintf("%dx%dx%d", run.Config.NOmega, run.Config.NTheta, run.Config.NPhi)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Traces,
			grid,
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
	result, err := st.LoadSpectrum(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s (%d traces)\n\n", meta.Source, meta.Traces)

	fmt.Println(viz.GraphOnAxis(result, 80, 12))
	fmt.Println()

	if len(result.Theta) > 1 {
		fmt.Println("theta-omega map:")
		fmt.Print(viz.SpectralMap(result, 80, 16, 0.01).String())
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadSpectrum(args[0])
	if err != nil {
		return err
	}

	if err := storage.ExportJSON(outPath, meta, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadSpectrum(args[0])
	if err != nil {
		return err
	}

	if err := export.SpectralMapSVG(outPath, result, 120, 40, svgScale); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
