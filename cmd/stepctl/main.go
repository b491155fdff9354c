package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/stepctl/internal/analysis"
	"github.com/san-kum/stepctl/internal/config"
	"github.com/san-kum/stepctl/internal/controller"
	"github.com/san-kum/stepctl/internal/equations"
	"github.com/san-kum/stepctl/internal/logging"
	"github.com/san-kum/stepctl/internal/report"
	"github.com/san-kum/stepctl/internal/solver"
	"github.com/san-kum/stepctl/internal/sweep"
)

var (
	order          int
	adaptivity     int
	stepsizeFilter int
	errorFilter    int
	poleList       string
	derivation     string
	maxPairs       int
	configFile     string
	preset         string
	format         string
	output         string
	theme          string
	plain          bool
	logLevel       string
	logFormat      string
	steps          int
	sweepFrom      float64
	sweepTo        float64
	sweepStep      float64
	workers        int
	alphaList      string
	kbetaList      string
)

// main registers the commands and exits with status 1 if execution fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "stepctl",
		Short:        "step-size controller synthesis",
		SilenceUsage: true,
		// the bare command constructs the default controller
		RunE: runDefault,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (console, json)")

	designCmd := &cobra.Command{
		Use:   "design",
		Short: "construct a controller and print its parameters",
		RunE:  runDesign,
	}
	addStructureFlags(designCmd)
	designCmd.Flags().StringVar(&format, "format", "text", "output format (text, json, yaml)")
	designCmd.Flags().StringVarP(&output, "output", "o", "", "write the export to a file instead of stdout")
	designCmd.Flags().StringVar(&theme, "theme", "", "color theme (default, minimal)")
	designCmd.Flags().BoolVar(&plain, "plain", false, "disable colors and headers")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "classify explicit alpha and kbeta coefficients",
		RunE:  runCheck,
	}
	checkCmd.Flags().StringVar(&alphaList, "alpha", "", "comma separated alpha coefficients, alpha1 first")
	checkCmd.Flags().StringVar(&kbetaList, "kbeta", "", "comma separated kbeta coefficients")
	_ = checkCmd.MarkFlagRequired("alpha")
	_ = checkCmd.MarkFlagRequired("kbeta")

	responseCmd := &cobra.Command{
		Use:   "response",
		Short: "plot the closed-loop impulse response",
		RunE:  runResponse,
	}
	addStructureFlags(responseCmd)
	responseCmd.Flags().IntVar(&steps, "steps", config.DefaultResponseSteps, "number of steps")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a uniform pole placement",
		RunE:  runSweep,
	}
	addStructureFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", config.DefaultSweepFrom, "first placement")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", config.DefaultSweepTo, "last placement")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", config.DefaultSweepStep, "placement increment")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel constructions (0 = all cpus)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list controller presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(designCmd, checkCmd, responseCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStructureFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&order, "order", config.DefaultOrder, "controller order")
	cmd.Flags().IntVar(&adaptivity, "adaptivity", config.DefaultAdaptivityExtra, "extra order of adaptivity")
	cmd.Flags().IntVar(&stepsizeFilter, "stepsize-filter", config.DefaultStepsizeFilter, "step-size filter order")
	cmd.Flags().IntVar(&errorFilter, "error-filter", config.DefaultErrorFilter, "error filter order")
	cmd.Flags().StringVar(&poleList, "poles", "0,0,0", "comma separated pole placements")
	cmd.Flags().StringVar(&derivation, "derivation", config.DefaultDerivation, "equation derivation (basis, probe)")
	cmd.Flags().IntVar(&maxPairs, "max-pairs", config.DefaultMaxPairs, "critical pair budget before numeric fallback")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig layers defaults, preset, config file and changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("order") {
		cfg.Controller.Order = order
	}
	if flags.Changed("adaptivity") {
		cfg.Controller.AdaptivityExtra = adaptivity
	}
	if flags.Changed("stepsize-filter") {
		cfg.Controller.StepsizeFilter = stepsizeFilter
	}
	if flags.Changed("error-filter") {
		cfg.Controller.ErrorFilter = errorFilter
	}
	if flags.Changed("poles") {
		p, err := parseFloats(poleList)
		if err != nil {
			return nil, fmt.Errorf("--poles: %w", err)
		}
		cfg.Controller.PolePlacements = p
	}
	if flags.Changed("derivation") {
		cfg.Derivation = derivation
	}
	if flags.Changed("max-pairs") {
		cfg.Solver.MaxPairs = maxPairs
	}
	if flags.Changed("steps") {
		cfg.Response.Steps = steps
	}
	if flags.Changed("from") {
		cfg.Sweep.From = sweepFrom
	}
	if flags.Changed("to") {
		cfg.Sweep.To = sweepTo
	}
	if flags.Changed("step") {
		cfg.Sweep.Step = sweepStep
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

func newConstructor(cfg *config.Config, logger *zap.Logger) (*controller.Constructor, error) {
	mode, err := equations.ParseMode(cfg.Derivation)
	if err != nil {
		return nil, err
	}
	return controller.New(
		controller.WithDerivation(mode),
		controller.WithLogger(logger),
		controller.WithSolverOptions(
			solver.WithMaxPairs(cfg.Solver.MaxPairs),
			solver.WithRootTolerance(cfg.Solver.RootTolerance),
			solver.WithNewton(cfg.Solver.NewtonIterations, cfg.Solver.NewtonTolerance),
		),
	), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// setup loads the config and builds the logger and constructor.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, *controller.Constructor, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := newConstructor(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, c, nil
}

func runDefault(cmd *cobra.Command, args []string) error {
	cfg, logger, c, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	d, err := c.Construct(ctx, cfg.Structure())
	if err != nil {
		return err
	}
	return report.New(os.Stdout).PrintDesign(d)
}

func runDesign(cmd *cobra.Command, args []string) error {
	cfg, logger, c, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	d, err := c.Construct(ctx, cfg.Structure())
	if err != nil {
		return err
	}

	if output != "" {
		if err := report.ExportFile(output, d, f); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", output)
		return nil
	}

	if f != report.FormatText {
		return report.Export(os.Stdout, d, f)
	}

	var opts []report.Option
	if !plain {
		opts = append(opts, report.WithStyles(report.NewStyles(report.GetTheme(cfg.Theme))))
	}
	return report.New(os.Stdout, opts...).PrintDesign(d)
}

func runCheck(cmd *cobra.Command, args []string) error {
	alpha, err := parseFloats(alphaList)
	if err != nil {
		return fmt.Errorf("--alpha: %w", err)
	}
	kbeta, err := parseFloats(kbetaList)
	if err != nil {
		return fmt.Errorf("--kbeta: %w", err)
	}
	if len(alpha) != len(kbeta) {
		return fmt.Errorf("alpha has %d entries, kbeta has %d", len(alpha), len(kbeta))
	}

	v, err := report.ClassifyNumeric(alpha, kbeta)
	if err != nil {
		return err
	}

	r := report.New(os.Stdout)
	fmt.Printf("characteristic polynomial: %s\n", report.FormatCoefficients(v.Coefficients))
	fmt.Println("zeros:")
	if err := r.PrintZeros(v.Zeros); err != nil {
		return err
	}
	fmt.Printf("spectral radius: %.6g\n", v.Radius)
	return r.PrintVerdict(v)
}

func runResponse(cmd *cobra.Command, args []string) error {
	cfg, logger, c, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	s := cfg.Structure()
	d, err := c.Construct(ctx, s)
	if err != nil {
		return err
	}

	v, ok := report.Classify(d.Solution, d.Parameters, s.Order)
	if !ok {
		return fmt.Errorf("parameters are not all numeric; fix every free pole with --poles")
	}

	resp := analysis.ImpulseResponse(v.Coefficients, cfg.Response.Steps)
	if len(resp) == 0 {
		return fmt.Errorf("no response to plot")
	}

	graph := asciigraph.Plot(resp,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("closed-loop impulse response"),
	)
	fmt.Println(graph)
	fmt.Println()

	peak, at := analysis.Peak(resp)
	fmt.Printf("peak: %.6g at step %d\n", peak, at)
	if k := analysis.SettlingStep(resp, 0, 1e-6); k >= 0 {
		fmt.Printf("settles at step %d\n", k)
	} else {
		fmt.Printf("does not settle within %d steps\n", len(resp))
	}

	spec := analysis.MagnitudeSpectrum(resp)
	maxGain, maxIdx := 0.0, 0
	for i, g := range spec {
		if g > maxGain {
			maxGain, maxIdx = g, i
		}
	}
	fmt.Printf("max gain: %.6g at bin %d of %d\n", maxGain, maxIdx, len(spec))

	return report.New(os.Stdout).PrintVerdict(v)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, c, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	values, err := sweep.Values(cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sw := sweep.New(c, sweep.WithWorkers(cfg.Sweep.Workers), sweep.WithLogger(logger))
	points, err := sw.Run(ctx, cfg.Structure(), values)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POLE\tVERDICT\tRADIUS\tSETTLES\tBRANCHES")
	for _, p := range points {
		switch {
		case p.Err != nil:
			fmt.Fprintf(w, "%.4g\terror: %v\t-\t-\t-\n", p.Placement, p.Err)
		case !p.Classified:
			fmt.Fprintf(w, "%.4g\t%s\t-\t-\t%d\n", p.Placement, verdictCell(p), len(p.Design.Solution.Branches))
		default:
			resp := analysis.ImpulseResponse(p.Verdict.Coefficients, cfg.Response.Steps)
			settle := "-"
			if k := analysis.SettlingStep(resp, 0, 1e-6); k >= 0 {
				settle = strconv.Itoa(k)
			}
			fmt.Fprintf(w, "%.4g\t%s\t%.4g\t%s\t%d\n",
				p.Placement, p.Verdict.Location(), p.Verdict.Radius, settle, len(p.Design.Solution.Branches))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(points); ok {
		fmt.Printf("\nsmallest stable radius: %.4g at pole %.4g\n", best.Verdict.Radius, best.Placement)
	}
	return nil
}

func verdictCell(p sweep.Point) string {
	if p.Design.Solution.Empty() {
		return strings.ToLower(report.NoSolution)
	}
	return "not numeric"
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORDER\tADAPTIVITY\tSTEPSIZE\tERROR\tPOLES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		cc := cfg.Controller
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%v\n",
			name, cc.Order, cc.AdaptivityExtra, cc.StepsizeFilter, cc.ErrorFilter, cc.PolePlacements)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}
