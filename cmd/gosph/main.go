package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/resolventdk/gosph/internal/analysis"
	"github.com/resolventdk/gosph/internal/automation"
	"github.com/resolventdk/gosph/internal/cases"
	"github.com/resolventdk/gosph/internal/config"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/export"
	"github.com/resolventdk/gosph/internal/optim"
	"github.com/resolventdk/gosph/internal/storage"
	"github.com/resolventdk/gosph/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	themeName   string
	configFile  string
	preset      string
	steps       int
	recordEvery int
	seed        int64
	workers     int
	spacing     float64
	velocity    float64
	reload      string
	frameRate   int
	metricName  string
	svgWidth    int
	svgHeight   int
	paramSpec   string
	objective   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosph",
		Short: "smoothed-particle hydrodynamics lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(themeName)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to interactive mode when no command given
			return viz.RunInteractive(dataDir)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "runs", "data directory")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "ocean",
		"color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [case]",
		Short: "run a case",
		Args:  cobra.ExactArgs(1),
		RunE:  runCase,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record diagnostics every n steps")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")
	runCmd.Flags().Float64Var(&spacing, "spacing", config.DefaultSpacing, "particle spacing")
	runCmd.Flags().Float64Var(&velocity, "velocity", config.DefaultInflowVelocity, "inflow velocity (channel)")
	runCmd.Flags().StringVar(&reload, "reload", "", "reload particle state from run id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	scatterCmd := &cobra.Command{
		Use:   "scatter [run_id]",
		Short: "particle scatter of the final state",
		Args:  cobra.ExactArgs(1),
		RunE:  scatterRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded diagnostics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final particle state as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	benchCmd := &cobra.Command{
		Use:   "bench [case]",
		Short: "benchmark a case across resolutions",
		Args:  cobra.ExactArgs(1),
		RunE:  benchCase,
	}
	benchCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded diagnostic",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "", "diagnostic column (default: first recorded)")

	liveCmd := &cobra.Command{
		Use:   "live [case]",
		Short: "run a case with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	liveCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	liveCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")
	liveCmd.Flags().Float64Var(&spacing, "spacing", config.DefaultSpacing, "particle spacing")
	liveCmd.Flags().Float64Var(&velocity, "velocity", config.DefaultInflowVelocity, "inflow velocity (channel)")
	liveCmd.Flags().StringVar(&reload, "reload", "", "reload particle state from run id")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(dataDir)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [case]",
		Short: "list available presets for a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for case: %s\n", args[0])
				return nil
			}
			sort.Strings(names)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				pc := config.GetPreset(args[0], p)
				fmt.Printf("  %-10s steps=%d spacing=%g velocity=%g\n",
					p, pc.Steps, pc.Domain.Spacing, pc.Inflow.Velocity)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")

	tuneCmd := &cobra.Command{
		Use:   "tune [case]",
		Short: "grid search over case parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneCase,
	}
	tuneCmd.Flags().StringVar(&paramSpec, "params", "", "parameters as name=min:max:count, comma separated")
	tuneCmd.Flags().StringVar(&objective, "objective", "density_rms", "final metric to minimize")
	tuneCmd.Flags().StringVar(&preset, "preset", "", "base preset configuration")
	tuneCmd.Flags().IntVar(&steps, "steps", 100, "steps per evaluation")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, scatterCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, exportSVGCmd, benchCmd, analyzeCmd, liveCmd, tuiCmd,
		presetsCmd, scenarioCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig layers the run configuration: preset, then config file,
// then explicitly set flags.
func resolveConfig(cmd *cobra.Command, caseName string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		pc := config.GetPreset(caseName, preset)
		if pc == nil {
			available := config.ListPresets(caseName)
			sort.Strings(available)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, available)
		}
		copied := *pc
		cfg = &copied
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("spacing") {
		cfg.Domain.Spacing = spacing
	}
	if cmd.Flags().Changed("velocity") {
		cfg.Inflow.Velocity = velocity
	}
	if reload != "" {
		cfg.Reload = reload
	}

	cfg.Case = caseName
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCase(cmd *cobra.Command, args []string) error {
	caseName := args[0]

	cfg, err := resolveConfig(cmd, caseName)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine.SetWorkers(cfg.Workers)

	reg := cases.NewRegistry()
	build, err := reg.Get(caseName)
	if err != nil {
		return err
	}
	scene, err := build(cfg, st)
	if err != nil {
		return err
	}

	fmt.Printf("running %s with %d particles...\n", caseName, scene.Fluid.Particles.TotalReal)

	runner := cases.NewRunner(scene)
	result, err := runner.Run(context.Background(), cfg.Steps, cfg.RecordEvery)
	if err != nil {
		return err
	}

	runID, err := st.Save(caseName, cfg.Seed, result.Steps, scene.Fluid.Particles.TotalReal, result.Series, result.Finals)
	if err != nil {
		return err
	}
	if err := st.SaveSnapshot(runID, scene.TakeSnapshot()); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("final time: %.4fs\n", runner.Clock().Time)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Finals) {
		fmt.Printf("  %s: %.6f\n", name, result.Finals[name])
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
	fmt.Fprintln(w, "ID\tCASE\tTIME\tSTEPS\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Particles,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("case: %s\n", meta.Case)
	fmt.Printf("samples: %d\n\n", len(series.Rows))

	for col, name := range series.Names {
		data := make([]float64, len(series.Rows))
		for i, row := range series.Rows {
			if col < len(row) {
				data[i] = row[col]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func scatterRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	snap, err := st.LoadSnapshot(runID)
	if err != nil {
		return err
	}
	if len(snap.Pos) == 0 {
		return fmt.Errorf("snapshot is empty")
	}

	lo, hi := snap.Pos[0], snap.Pos[0]
	for _, p := range snap.Pos {
		if p.X < lo.X {
			lo.X = p.X
		}
		if p.X > hi.X {
			hi.X = p.X
		}
		if p.Y < lo.Y {
			lo.Y = p.Y
		}
		if p.Y > hi.Y {
			hi.Y = p.Y
		}
	}

	// pad the view so boundary particles stay inside the frame
	span := hi.Sub(lo)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}
	viewLo := lo.Sub(span.Scale(0.03))
	viewHi := hi.Add(span.Scale(0.03))

	canvas := viz.NewCanvas(70, 20)
	view := viz.NewViewport(viewLo, viewHi, canvas)
	canvas.Rect(0, 0, canvas.DotWidth()-1, canvas.DotHeight()-1)
	for _, p := range snap.Pos {
		if x, y, ok := view.Dot(p); ok {
			canvas.Dot(x, y)
		}
	}

	fmt.Printf("particle scatter: %s (t=%.3fs, %d particles)\n\n", runID, snap.Time, len(snap.Pos))
	fmt.Print(canvas.String())
	fmt.Printf("\nx: [%.3f, %.3f]  y: [%.3f, %.3f]\n", lo.X, hi.X, lo.Y, hi.Y)

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
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, series.Names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range series.Rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(series.Times[i], 'g', -1, 64))
		for _, val := range row {
			rec = append(rec, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, series)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snap, err := st.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	svg := export.SnapshotToSVG(snap, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("snapshot is empty")
	}
	fmt.Println(svg)
	return nil
}

func benchCase(cmd *cobra.Command, args []string) error {
	caseName := args[0]

	engine.SetWorkers(workers)

	reg := cases.NewRegistry()
	build, err := reg.Get(caseName)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)

	spacings := []float64{0.1, 0.05, 0.025}
	stepCounts := []int{50, 200}

	fmt.Printf("benchmarking %s\n\n", caseName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPACING\tPARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, sp := range spacings {
		for _, n := range stepCounts {
			cfg := config.DefaultConfig()
			cfg.Case = caseName
			cfg.Domain.Spacing = sp
			cfg.Steps = n
			cfg.RecordEvery = n

			scene, err := build(cfg, st)
			if err != nil {
				return err
			}

			runner := cases.NewRunner(scene)
			result, err := runner.Run(context.Background(), n, n)
			if err != nil {
				return err
			}

			stepsPerSec := float64(result.Steps) / result.Elapsed.Seconds()
			fmt.Fprintf(w, "%.3f\t%d\t%d\t%v\t%.0f\n",
				sp, scene.Fluid.Particles.TotalReal, result.Steps, result.Elapsed.Round(time.Millisecond), stepsPerSec)
		}
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Rows) == 0 || len(series.Names) == 0 {
		return fmt.Errorf("no data")
	}

	col := 0
	if metricName != "" {
		col = -1
		for i, name := range series.Names {
			if name == metricName {
				col = i
				break
			}
		}
		if col < 0 {
			return fmt.Errorf("unknown metric %s (recorded: %v)", metricName, series.Names)
		}
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("case: %s\n\n", meta.Case)

	data := make([]float64, len(series.Rows))
	for i, row := range series.Rows {
		if col < len(row) {
			data[i] = row[col]
		}
	}

	spectrum := analysis.NewSpectrum(series.Times, data)
	if spectrum == nil {
		return fmt.Errorf("series too short to analyze, need at least 4 samples")
	}

	plotData := spectrum.Power[:len(spectrum.Power)/4]
	if len(plotData) < 2 {
		plotData = spectrum.Power
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", series.Names[col])),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := spectrum.Dominant()
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	caseName := args[0]

	cfg, err := resolveConfig(cmd, caseName)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine.SetWorkers(cfg.Workers)

	reg := cases.NewRegistry()
	build, err := reg.Get(caseName)
	if err != nil {
		return err
	}

	buildScene := func() (*cases.Scene, error) { return build(cfg, st) }
	m, err := viz.NewLive(caseName, cfg.Steps, frameRate, buildScene)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine.SetWorkers(workers)

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(context.Background(), cases.NewRegistry(), st, sc)

	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tLABEL\tRUN\tSTEPS")
		for i, r := range results {
			label := r.Label
			if label == "" {
				label = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, label, r.RunID, r.Steps)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return runErr
}

func tuneCase(cmd *cobra.Command, args []string) error {
	caseName := args[0]

	names, ranges, err := parseParamSpec(paramSpec)
	if err != nil {
		return err
	}

	engine.SetWorkers(workers)

	reg := cases.NewRegistry()
	build, err := reg.Get(caseName)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)

	base := config.DefaultConfig()
	if preset != "" {
		pc := config.GetPreset(caseName, preset)
		if pc == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
		copied := *pc
		base = &copied
	}
	base.Case = caseName
	base.Steps = steps
	base.RecordEvery = steps

	total := 1
	for _, r := range ranges {
		total *= len(r)
	}
	fmt.Printf("tuning %s: %d combinations, minimizing %s\n\n", caseName, total, objective)

	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := *base
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return 0, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return 0, err
		}

		scene, err := build(&cfg, st)
		if err != nil {
			return 0, err
		}
		result, err := cases.NewRunner(scene).Run(ctx, cfg.Steps, cfg.RecordEvery)
		if err != nil {
			return 0, err
		}

		val, ok := result.Finals[objective]
		if !ok {
			return 0, fmt.Errorf("case records no metric %s", objective)
		}
		fmt.Printf("  %v -> %.6f\n", params, val)
		return val, nil
	}

	bestParams, bestVal, err := optim.NewGridSearch(names, ranges).Search(context.Background(), eval)
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", objective, bestVal)
	for _, name := range sortedKeys(bestParams) {
		fmt.Printf("  %s = %g\n", name, bestParams[name])
	}

	return nil
}

// parseParamSpec reads "name=min:max:count" groups separated by commas.
func parseParamSpec(spec string) ([]string, [][]float64, error) {
	if spec == "" {
		return nil, nil, fmt.Errorf("no parameters given, use --params name=min:max:count")
	}

	var names []string
	var ranges [][]float64
	for _, part := range strings.Split(spec, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, nil, fmt.Errorf("bad parameter spec: %s", part)
		}

		fields := strings.Split(kv[1], ":")
		if len(fields) != 3 {
			return nil, nil, fmt.Errorf("bad range in %s, want min:max:count", part)
		}
		lo, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad range in %s: %w", part, err)
		}
		hi, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad range in %s: %w", part, err)
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil || count < 1 {
			return nil, nil, fmt.Errorf("bad count in %s, want a positive integer", part)
		}

		vals := make([]float64, count)
		if count == 1 {
			vals[0] = lo
		} else {
			step := (hi - lo) / float64(count-1)
			for i := range vals {
				vals[i] = lo + float64(i)*step
			}
		}

		names = append(names, strings.TrimSpace(kv[0]))
		ranges = append(ranges, vals)
	}

	return names, ranges, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
