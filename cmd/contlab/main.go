package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/contlab/internal/analysis"
	"github.com/san-kum/contlab/internal/config"
	"github.com/san-kum/contlab/internal/contin"
	"github.com/san-kum/contlab/internal/experiment"
	"github.com/san-kum/contlab/internal/storage"
	"github.com/san-kum/contlab/internal/viz"
)

var (
	dataDir        string
	stepSize       float64
	maxStepSize    float64
	minStepSize    float64
	aggressiveness float64
	newtonIters    int
	newtonTol      float64
	maxSteps       int
	predictor      string
	lambda0        float64
	milestones     []float64
	paramSets      []string
	configFile     string
	preset         string
	verbose        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contlab",
		Short: "numerical continuation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".contlab", "data directory")

	traceCmd := &cobra.Command{
		Use:   "trace [problem]",
		Short: "trace a solution branch",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	addTraceFlags(traceCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored traces",
		RunE:  listTraces,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [trace_id]",
		Short: "plot a stored branch",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTrace,
	}

	exportCmd := &cobra.Command{
		Use:   "export [trace_id]",
		Short: "export trace metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportTrace,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [problem]",
		Short: "trace a branch with a live view",
		Args:  cobra.ExactArgs(1),
		RunE:  watchTrace,
	}
	addTraceFlags(watchCmd)

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems and presets",
		RunE:  listProblems,
	}

	rootCmd.AddCommand(traceCmd, listCmd, plotCmd, exportCmd, watchCmd, problemsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addTraceFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&stepSize, "step", config.DefaultStepSize, "initial step size")
	cmd.Flags().Float64Var(&maxStepSize, "max-step", 0, "maximum step size (0 = unlimited)")
	cmd.Flags().Float64Var(&minStepSize, "min-step", config.DefaultMinStepSize, "backoff floor (0 = retry forever)")
	cmd.Flags().Float64Var(&aggressiveness, "aggressiveness", config.DefaultAggressiveness, "step growth aggressiveness")
	cmd.Flags().IntVar(&newtonIters, "newton-iters", config.DefaultMaxNewtonIters, "newton iteration budget per step")
	cmd.Flags().Float64Var(&newtonTol, "newton-tol", config.DefaultNewtonTol, "newton tolerance")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 100, "maximum continuation steps (0 = unlimited)")
	cmd.Flags().StringVar(&predictor, "predictor", config.DefaultPredictor, "predictor order: zero or first")
	cmd.Flags().Float64Var(&lambda0, "lambda0", 0, "initial parameter value")
	cmd.Flags().Float64SliceVar(&milestones, "milestones", nil, "parameter values the trace must land on")
	cmd.Flags().StringSliceVar(&paramSets, "set", nil, "problem parameter override, name=value")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "per-iteration diagnostics")
}

// buildConfig resolves preset, config file, and flags into one experiment
// config. Precedence: flags over config file over preset over defaults.
func buildConfig(cmd *cobra.Command, problem string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Problem = problem

	if preset != "" {
		p := config.GetPreset(problem, preset)
		if p == nil {
			return nil, fmt.Errorf("no preset %q for problem %q", preset, problem)
		}
		*cfg = *p
		// Presets are shared; never mutate their maps through cfg.
		cfg.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			cfg.Params[k] = v
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Problem = problem
	}

	flagF64 := func(name string, dst *float64, v float64) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	flagF64("step", &cfg.Continuation.StepSize, stepSize)
	flagF64("max-step", &cfg.Continuation.MaxStepSize, maxStepSize)
	flagF64("min-step", &cfg.Continuation.MinStepSize, minStepSize)
	flagF64("aggressiveness", &cfg.Continuation.Aggressiveness, aggressiveness)
	flagF64("newton-tol", &cfg.Continuation.NewtonTol, newtonTol)
	flagF64("lambda0", &cfg.Lambda0, lambda0)
	if cmd.Flags().Changed("newton-iters") {
		cfg.Continuation.MaxNewtonIters = newtonIters
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Continuation.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("predictor") {
		cfg.Continuation.Predictor = predictor
	}
	if cmd.Flags().Changed("milestones") {
		cfg.Continuation.Milestones = milestones
	}

	for _, kv := range paramSets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[name] = v
	}

	return cfg, nil
}

func buildExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	registry := experiment.NewRegistry()
	p, err := registry.Get(cfg.Problem)
	if err != nil {
		return nil, err
	}

	drv := cfg.Continuation.Driver()
	if verbose {
		drv.Report = func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		}
	}

	expCfg := experiment.Config{
		Problem:      cfg.Problem,
		Params:       cfg.Params,
		Continuation: drv,
	}
	if cfg.Lambda0 != 0 {
		l := cfg.Lambda0
		expCfg.Lambda0 = &l
	}
	if len(cfg.InitState) > 0 {
		expCfg.InitState = cfg.InitState
	}

	exp := experiment.New(expCfg)
	if err := exp.Setup(p); err != nil {
		return nil, err
	}
	return exp, nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("tracing %s...\n", cfg.Problem)
	start := time.Now()

	res, traceErr := exp.Run(nil)
	elapsed := time.Since(start)

	if res == nil {
		return traceErr
	}

	traceID, err := st.Save(cfg.Problem, cfg.Lambda0, cfg.Continuation.StepSize,
		cfg.Continuation.Predictor, cfg.Params, cfg.Continuation.Milestones, res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("trace id: %s\n", traceID)
	fmt.Printf("accepted: %d  rejected: %d  newton iters: %d\n",
		res.Stats.Accepted, res.Stats.Rejected, res.Stats.NewtonIters)
	fmt.Printf("final lambda: %.6e  final step: %.3e\n",
		res.Stats.FinalLambda, res.Stats.FinalStepSize)

	if traceErr != nil {
		fmt.Printf("stopped early: %v\n", traceErr)
	}
	if est, ok := analysis.TurningPointEstimate(&res.Branch); ok {
		fmt.Printf("step collapse suggests a turning point near lambda = %.4f\n", est)
	}

	return nil
}

func listTraces(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traces, err := st.List()
	if err != nil {
		return err
	}

	if len(traces) == 0 {
		fmt.Println("no traces found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tACCEPTED\tREJECTED\tFINAL LAMBDA")

	for _, tr := range traces {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\n",
			tr.ID,
			tr.Problem,
			tr.Timestamp.Format("2006-01-02 15:04:05"),
			tr.Accepted,
			tr.Rejected,
			tr.FinalLambda,
		)
	}

	return w.Flush()
}

func plotTrace(cmd *cobra.Command, args []string) error {
	traceID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(traceID)
	if err != nil {
		return err
	}

	branch, err := st.LoadBranch(traceID)
	if err != nil {
		return err
	}
	if len(branch.Points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("trace: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("points: %d\n\n", len(branch.Points))

	graph := asciigraph.Plot(branch.Norms(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("||u|| per accepted step"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Println("branch diagram (||u|| vs lambda):")
	fmt.Print(analysis.BranchToASCII(branch, 80, 16))

	if collapsed, ratio := analysis.StepCollapse(branch); collapsed {
		fmt.Printf("\nstep size collapsed to %.1e of its peak; the branch likely folds near lambda = %.4f\n",
			ratio, meta.FinalLambda)
	}

	return nil
}

func exportTrace(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func watchTrace(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	exp, err := buildExperiment(cfg)
	if err != nil {
		return err
	}

	feed := make(chan tea.Msg, 64)
	go func() {
		_, traceErr := exp.Run(func(k int, lambda float64, u contin.State) {
			feed <- viz.PointMsg{Step: k, Lambda: lambda, U: u.Clone()}
		})
		feed <- viz.DoneMsg{Err: traceErr}
		close(feed)
	}()

	p := tea.NewProgram(viz.NewModel(cfg.Problem, feed))
	_, err = p.Run()
	return err
}

func listProblems(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tPRESETS")
	for _, name := range registry.List() {
		presets := config.ListPresets(name)
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(presets, ", "))
	}
	return w.Flush()
}
