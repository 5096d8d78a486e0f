package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	duration   float64
	integrator string
	tolerance  float64
	softening  float64
	adaptive   bool
	sampling   int
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "n-body gravitational simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, dopri54, leapfrog)")
	runCmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "adaptive error tolerance")
	runCmd.Flags().Float64Var(&softening, "softening", 0, "softening length [m]")
	runCmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step-size control")
	runCmd.Flags().IntVar(&sampling, "sample", 1, "record every n-th step")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "run with live orbit view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchScenario,
	}
	watchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	watchCmd.Flags().StringVar(&integrator, "integrator", "leapfrog", "integrator")
	watchCmd.Flags().Float64Var(&softening, "softening", 0, "softening length [m]")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark integrators on a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		watchCmd, benchCmd, compareCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges preset, config file and flags into one run
// configuration. Precedence: flags > config file > preset > defaults.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)",
				preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scenario = args[0]
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSystem(cfg *config.Config) (*body.System, error) {
	if len(cfg.Bodies) > 0 {
		return cfg.BuildSystem(), nil
	}
	return scenario.Build(cfg.Scenario)
}

func runConfig(cfg *config.Config) *sim.Config {
	return &sim.Config{
		Integrator:    cfg.Integrator,
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Tolerance:     cfg.Tolerance,
		Softening:     cfg.Softening,
		Adaptive:      cfg.Adaptive,
		SampleEvery:   sampling,
		ValidateState: true,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	stepper, err := sim.NewStepper(cfg.Integrator, cfg.Softening)
	if err != nil {
		return err
	}

	simulator := sim.New(stepper)
	simulator.AddMetric(metrics.NewEnergyDrift())
	simulator.AddMetric(metrics.NewAngularMomentumDrift())

	runCfg := runConfig(cfg)

	fmt.Printf("running %s (%d bodies, %s)...\n", cfg.Scenario, s.Count, cfg.Integrator)
	start := time.Now()

	result, err := simulator.Run(context.Background(), s, *runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, *runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d", result.StepsTaken)
	if result.StepsRejected > 0 {
		fmt.Printf(" (%d rejected)", result.StepsRejected)
	}
	fmt.Println()
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}

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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tINTEG\tSTEPS\tE-DRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Integrator,
			run.StepsTaken,
			run.EnergyDrift,
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	energy := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = f.Energy
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy [J]"),
	))
	fmt.Println()

	// Radius of each body relative to body 0, capped to keep the
	// terminal output readable.
	maxPlots := meta.Bodies
	if maxPlots > 4 {
		maxPlots = 4
	}
	for b := 1; b < maxPlots; b++ {
		radius := make([]float64, len(frames))
		for i, f := range frames {
			dx := f.Px[b] - f.Px[0]
			dy := f.Py[b] - f.Py[0]
			dz := f.Pz[b] - f.Pz[0]
			radius[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
		fmt.Println(asciigraph.Plot(radius,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d distance from body 0 [m]", b)),
		))
		fmt.Println()
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

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "energy"}
	for i := range frames[0].Px {
		header = append(header,
			fmt.Sprintf("px%d", i), fmt.Sprintf("py%d", i), fmt.Sprintf("pz%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'g', -1, 64),
			strconv.FormatFloat(f.Energy, 'g', -1, 64),
		}
		for i := range f.Px {
			row = append(row,
				strconv.FormatFloat(f.Px[i], 'g', -1, 64),
				strconv.FormatFloat(f.Py[i], 'g', -1, 64),
				strconv.FormatFloat(f.Pz[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	name := "earth_moon"
	if len(args) > 0 {
		name = args[0]
	}

	s, err := scenario.Build(name)
	if err != nil {
		return err
	}
	stepper, err := sim.NewStepper(integrator, softening)
	if err != nil {
		return err
	}

	m := viz.NewModel(s, stepper, dt, name)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	name := "earth_moon"
	if len(args) > 0 {
		name = args[0]
	}

	dts := []float64{10, 60, 600}
	integs := []string{"rk4", "dopri54", "leapfrog"}

	fmt.Printf("benchmarking %s (duration %.0fs)\n\n", name, duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tDT\tSTEPS\tTIME\tSTEPS/SEC\tE-DRIFT")

	for _, integName := range integs {
		for _, stepSize := range dts {
			s, err := scenario.Build(name)
			if err != nil {
				return err
			}
			stepper, err := sim.NewStepper(integName, 0)
			if err != nil {
				return err
			}

			cfg := sim.DefaultConfig()
			cfg.Integrator = integName
			cfg.Dt = stepSize
			cfg.Duration = duration
			cfg.SampleEvery = 1 << 20 // benchmark, not trajectory capture

			start := time.Now()
			result, err := sim.New(stepper).Run(context.Background(), s, cfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%.0fs\t%d\t%v\t%.0f\t%.2e\n",
				integName, stepSize, result.StepsTaken, elapsed.Round(time.Microsecond),
				stepsPerSec, result.EnergyDrift)
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	name := args[0]
	integs := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.1fs, duration=%.0fs)\n\n", name, dt, duration)
	fmt.Printf("%-12s  %-14s  %-14s  %-10s\n", "integrator", "energy_drift", "angmom_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, integName := range integs {
		s, err := scenario.Build(name)
		if err != nil {
			return err
		}
		stepper, err := sim.NewStepper(integName, 0)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", integName, err)
			continue
		}

		simulator := sim.New(stepper)
		amDrift := metrics.NewAngularMomentumDrift()
		simulator.AddMetric(amDrift)

		cfg := sim.DefaultConfig()
		cfg.Integrator = integName
		cfg.Dt = dt
		cfg.Duration = duration
		cfg.SampleEvery = 1 << 20

		start := time.Now()
		result, err := simulator.Run(context.Background(), s, cfg)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", integName, err)
			continue
		}

		fmt.Printf("%-12s  %14.4e  %14.4e  %10.2f\n",
			integName, result.EnergyDrift, amDrift.Value(),
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}
