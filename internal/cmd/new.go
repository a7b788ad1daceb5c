package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/lib"
)

const defaultManifest = `# The workload script defining doWork() and compareResults().
script: workshop.js

# The two implementations under comparison. Each needs either a 'func' defined
# in the workshop script, or a 'cmd' to run as a worker subprocess (with an
# optional 'build' command and 'dir' to run both in).
reference:
  name: iterative
  func: fibonacci

candidate:
  name: fast-doubling
  func: fibonacciFast

# Benchmark settings, overridable with WORKSHOP_DURATION and WORKSHOP_CALIBRATION
# environment variables or the --duration and --calibration flags.
duration: 1s
calibration: 100ms
`

const defaultScript = `// The workload run for every verification and benchmark iteration. impl is
// the implementation under test; call it with the workload's input and return
// its result.
function doWork(impl) {
  return impl(78);
}

// How two results are matched during verification. Results of subprocess
// implementations arrive as decoded JSON, so deep comparisons may be needed
// for structured results.
function compareResults(a, b) {
  return a === b;
}

// Optional: how a result is rendered when the verification fails.
function printResult(r) {
  return String(r);
}

function fibonacci(n) {
  let a = 0, b = 1;
  for (let i = 0; i < n; i++) {
    const next = a + b;
    a = b;
    b = next;
  }
  return a;
}

function fibonacciFast(n) {
  let bit = 1;
  while (bit * 2 <= n) {
    bit *= 2;
  }
  let a = 0, b = 1; // F(k) and F(k+1)
  for (; bit > 0; bit = Math.floor(bit / 2)) {
    const c = a * (2 * b - a);
    const d = a * a + b * b;
    if (n & bit) {
      a = d;
      b = c + d;
    } else {
      a = c;
      b = d;
    }
  }
  return a;
}
`

// cmdNew handles the workshop new sub-command
type cmdNew struct {
	gs             *state.GlobalState
	overwriteFiles bool
}

func getCmdNew(gs *state.GlobalState) *cobra.Command {
	c := &cmdNew{gs: gs}

	newCmd := &cobra.Command{
		Use:   "new [dir]",
		Short: "Create and initialize a new workshop directory",
		Long: `Create and initialize a new workshop directory (the current one by default)
with a workshop manifest and a workload script comparing two sample
implementations. Edit both to plug in your own.`,
		Args: maxArgsWithMsg(1, "the directory to initialize, defaulting to the current one"),
		RunE: c.run,
	}
	newCmd.Flags().AddFlagSet(c.flagSet())
	return newCmd
}

func (c *cmdNew) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.BoolVarP(&c.overwriteFiles, "force", "f", false, "overwrite existing files")
	return flags
}

func (c *cmdNew) run(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if err := c.gs.FS.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := map[string]string{
		lib.ManifestFilename:  defaultManifest,
		lib.DefaultScriptName: defaultScript,
	}
	for name, content := range files {
		target := filepath.Join(dir, name)
		if !c.overwriteFiles {
			exists, err := afero.Exists(c.gs.FS, target)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%s already exists. Use the `--force` flag to overwrite it", target)
			}
		}
		if err := afero.WriteFile(c.gs.FS, target, []byte(content), 0o644); err != nil {
			return err
		}
	}

	c.gs.Console.Printf("New workshop created in %s.\n", dir)
	c.gs.Console.Printf("Edit %s and %s, then try it with:\n\n", lib.ManifestFilename, lib.DefaultScriptName)
	if dir == "." {
		c.gs.Console.Printf("  %s run\n", c.gs.BinaryName)
	} else {
		c.gs.Console.Printf("  %s run %s\n", c.gs.BinaryName, dir)
	}
	return nil
}
