package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
	"github.com/perfworkshop/workshop/lib"
)

// inspectOutput is the consolidated view of a workshop directory printed by
// the inspect sub-command: the manifest plus the benchmark options after all
// their sources have been applied.
type inspectOutput struct {
	Script      string             `yaml:"script"`
	Reference   lib.Implementation `yaml:"reference"`
	Candidate   lib.Implementation `yaml:"candidate"`
	Duration    string             `yaml:"duration"`
	Calibration string             `yaml:"calibration"`
	SkipBuild   bool               `yaml:"skipBuild"`
}

func getCmdInspect(gs *state.GlobalState) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Inspect a workshop manifest and its consolidated options",
		Long: `Parse the workshop manifest in the given directory (the current one by
default) and print it together with the consolidated benchmark options,
without running anything.`,
		Args: maxArgsWithMsg(1, "the workshop directory, defaulting to the current one"),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			return gs.Console.PrintYAML(inspectOutput{
				Script:      m.Script,
				Reference:   m.Reference,
				Candidate:   m.Candidate,
				Duration:    opts.Duration.TimeDuration().String(),
				Calibration: opts.Calibration.TimeDuration().String(),
				SkipBuild:   opts.SkipBuild.Bool,
			})
		},
	}
	// The same flags as 'run', so the printed options match what a run with
	// those flags would use.
	inspectCmd.Flags().SortFlags = false
	inspectCmd.Flags().AddFlagSet((&cmdRun{gs: gs}).flagSet())
	return inspectCmd
}
