package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/perfworkshop/workshop/bench"
	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
	"github.com/perfworkshop/workshop/lib"
	"github.com/perfworkshop/workshop/ui"
	"github.com/perfworkshop/workshop/worker"
	"github.com/perfworkshop/workshop/workload"
)

// cmdRun handles the workshop run sub-command
type cmdRun struct {
	gs *state.GlobalState
}

func getCmdRun(gs *state.GlobalState) *cobra.Command {
	c := &cmdRun{gs: gs}

	runCmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Build, verify and benchmark both implementations",
		Long: `Run the full workshop pipeline in the given directory (the current one by
default): build both implementations, verify that they produce matching
results for the workload defined in the workshop script, benchmark each one
and report the speedup of the candidate over the reference.`,
		Args: maxArgsWithMsg(1, "the workshop directory, defaulting to the current one"),
		RunE: c.run,
	}
	runCmd.Flags().SortFlags = false
	runCmd.Flags().AddFlagSet(c.flagSet())
	return runCmd
}

func (c *cmdRun) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.DurationP("duration", "d", lib.DefaultDuration, "target wall-clock time of each benchmark run")
	flags.Duration("calibration", lib.DefaultCalibration, "length of the calibration window picking the chunk size")
	flags.Bool("skip-build", false, "skip the build phase, e.g. when iterating on the workshop script")
	return flags
}

func (c *cmdRun) run(cmd *cobra.Command, args []string) error {
	gs := c.gs
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	m, err := lib.LoadManifest(gs.FS, filepath.Join(dir, lib.ManifestFilename))
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidManifest)
	}
	opts, err := consolidateOptions(gs, m, cmd.Flags())
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidManifest)
	}

	printBanner(gs)

	ctx, cancel := context.WithCancel(gs.Ctx)
	defer cancel()
	stop := handleRunAbortSignals(gs, func(sig os.Signal) {
		gs.Logger.WithField("sig", sig).Debug("Stopping the run in response to a signal...")
		cancel()
	})
	defer stop()

	err = c.runPipeline(ctx, dir, m, opts)
	if err != nil && ctx.Err() != nil {
		return &errext.InterruptError{Reason: "the run was aborted"}
	}
	return err
}

// consolidateOptions layers the benchmark options from all their sources, in
// increasing order of precedence: defaults, manifest, environment, CLI flags.
func consolidateOptions(gs *state.GlobalState, m *lib.Manifest, flags *pflag.FlagSet) (lib.Options, error) {
	opts := lib.DefaultOptions().Apply(m.Options())

	envOpts := lib.Options{}
	if err := envconfig.Process("workshop", &envOpts, func(key string) (string, bool) {
		v, ok := gs.Env[key]
		return v, ok
	}); err != nil {
		return opts, err
	}
	opts = opts.Apply(envOpts)

	opts = opts.Apply(lib.Options{
		Duration:    getNullDuration(flags, "duration"),
		Calibration: getNullDuration(flags, "calibration"),
		SkipBuild:   getNullBool(flags, "skip-build"),
	})

	return opts, opts.Validate()
}

func (c *cmdRun) runPipeline(ctx context.Context, dir string, m *lib.Manifest, opts lib.Options) error {
	gs := c.gs
	report := ui.NewReporter(gs.Console)
	impls := []lib.Implementation{m.Reference, m.Candidate}

	report.Heading("Build")
	for _, impl := range impls {
		if len(impl.Build) == 0 {
			continue
		}
		if opts.SkipBuild.Bool {
			gs.Logger.Debugf("Skipping the build of '%s'", impl.Name)
			continue
		}
		report.Action("Building " + impl.Name)
		if err := worker.Build(ctx, impl, implDir(dir, impl), gs.Env); err != nil {
			report.Failed()
			var berr *worker.BuildError
			if errors.As(err, &berr) && berr.Output != "" {
				gs.Console.Print(gs.Console.Bad("Error details:") + "\n" + berr.Output)
			}
			return err
		}
		report.Done()
	}

	script, err := workload.Load(gs.FS, filepath.Join(dir, m.Script), gs.Logger)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.ScriptException)
	}

	callers := make([]workload.Caller, len(impls))
	for i, impl := range impls {
		caller, cleanup, err := c.startImplementation(ctx, dir, impl, script)
		if err != nil {
			return err
		}
		if cleanup != nil {
			defer cleanup()
		}
		callers[i] = caller
	}
	refCall, candCall := callers[0], callers[1]

	report.Heading("Verification")
	refRes, err := script.DoWork(refCall)
	if err != nil {
		return err
	}
	selfMatch, err := script.Compare(refRes, refRes)
	if err != nil {
		return err
	}
	if !selfMatch {
		gs.Console.Print(gs.Console.Bad(fmt.Sprintf(
			"The %s result does not match itself! Check your compareResults() implementation.",
			m.Reference.Name)) + "\n")
		gs.Console.Printf("%s result: %s\n", m.Reference.Name, script.PrintResult(refRes))
		return errext.WithExitCodeIfNone(
			errors.New("the reference result does not match itself"), exitcodes.VerificationFailed)
	}

	candRes, err := script.DoWork(candCall)
	if err != nil {
		return err
	}
	match, err := script.Compare(refRes, candRes)
	if err != nil {
		return err
	}
	report.Match(match)
	if !match {
		report.Results(
			m.Reference.Name, script.PrintResult(refRes),
			m.Candidate.Name, script.PrintResult(candRes),
		)
		return errext.WithExitCodeIfNone(
			errors.New("the implementations produced different results"), exitcodes.VerificationFailed)
	}

	report.Heading("Benchmark")
	// The candidate goes first and its time scale is forced onto the
	// reference, so both results read in the same unit.
	candBench, scale, err := c.benchmark(ctx, report, script, m.Candidate.Name, candCall, opts, nil)
	if err != nil {
		return err
	}
	refBench, _, err := c.benchmark(ctx, report, script, m.Reference.Name, refCall, opts, &scale)
	if err != nil {
		return err
	}

	report.Speedup(m.Candidate.Name, m.Reference.Name, refBench.MeanSeconds/candBench.MeanSeconds)
	return nil
}

// startImplementation turns a manifest implementation into a Caller: script
// functions are looked up in the loaded script, subprocess implementations get
// a running worker. The returned cleanup, if any, stops the worker.
func (c *cmdRun) startImplementation(
	ctx context.Context, dir string, impl lib.Implementation, script *workload.Script,
) (workload.Caller, func(), error) {
	if !impl.IsProcess() {
		caller, err := script.FuncCaller(impl.Func)
		return caller, nil, err
	}

	p, err := worker.Start(ctx, impl, implDir(dir, impl), c.gs.Env, c.gs.Logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := p.Stop(); err != nil {
			c.gs.Logger.WithError(err).WithField("worker", p.Name).Warn("The worker did not exit cleanly")
		}
	}
	return p.Call, cleanup, nil
}

func (c *cmdRun) benchmark(
	ctx context.Context, report *ui.Reporter, script *workload.Script,
	name string, call workload.Caller, opts lib.Options, forced *bench.TimeScale,
) (bench.Result, bench.TimeScale, error) {
	report.Action("Calibrating " + name)
	work := func() error {
		_, err := script.DoWork(call)
		return err
	}

	res, err := bench.Run(ctx, work,
		opts.Calibration.TimeDuration(), opts.Duration.TimeDuration(),
		func(chunkSize int) {
			report.Done()
			report.Chunks(chunkSize)
		})
	if err != nil {
		report.Failed()
		return bench.Result{}, bench.TimeScale{}, err
	}
	report.Done()

	scale := bench.ScaleFor(res.MeanSeconds)
	if forced != nil {
		scale = *forced
	}
	report.BenchmarkResult(res, scale)
	return res, scale, nil
}

// implDir resolves an implementation's working directory relative to the
// workshop directory.
func implDir(dir string, impl lib.Implementation) string {
	if impl.Dir == "" {
		return dir
	}
	if filepath.IsAbs(impl.Dir) {
		return impl.Dir
	}
	return filepath.Join(dir, impl.Dir)
}
