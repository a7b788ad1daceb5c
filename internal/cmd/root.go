// Package cmd implements the workshop CLI: the root command, its global flags
// and logger setup, and the run/new/inspect/version subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
	"github.com/perfworkshop/workshop/lib/consts"
)

// ExecuteWithGlobalState runs the root command with an existing GlobalState.
// It adds all child commands to the root command and it sets flags
// appropriately. It is called by main.main().
func ExecuteWithGlobalState(gs *state.GlobalState) {
	newRootCommand(gs).execute()
}

// This is to keep all fields needed for the main/root workshop command
type rootCommand struct {
	globalState *state.GlobalState

	cmd          *cobra.Command
	loggerOutput io.WriteCloser
}

func newRootCommand(gs *state.GlobalState) *rootCommand {
	c := &rootCommand{
		globalState: gs,
	}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:               gs.BinaryName,
		Short:             "workshop compares two implementations of the same workload",
		Long:              "\n" + gs.Console.Banner(consts.Banner()),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           consts.Version,
	}

	rootCmd.SetVersionTemplate(
		`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "v%s\n" .Version}}`,
	)

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.CmdArgs[1:])
	rootCmd.SetOut(gs.Console.Stdout)
	rootCmd.SetErr(gs.Console.Stderr)
	rootCmd.SetIn(gs.Console.Stdin)

	subCommands := []func(*state.GlobalState) *cobra.Command{
		getCmdRun, getCmdNew, getCmdInspect, getCmdVersion,
	}
	for _, sc := range subCommands {
		rootCmd.AddCommand(sc(gs))
	}

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	if err := c.setupLoggers(); err != nil {
		return err
	}
	c.globalState.Logger.Debugf("workshop version: v%s", consts.FullVersion())
	return nil
}

func (c *rootCommand) execute() {
	ctx, cancel := context.WithCancel(c.globalState.Ctx)
	c.globalState.Ctx = ctx

	exitCode := -1
	defer func() {
		cancel()
		c.stopLoggers()
		c.globalState.OSExit(exitCode)
	}()

	defer func() {
		if r := recover(); r != nil {
			exitCode = int(exitcodes.GoPanic)
			err := fmt.Errorf("unexpected workshop panic: %s\n%s", r, debug.Stack())
			c.globalState.Logger.Error(err)
		}
	}()

	err := c.cmd.Execute()
	if err == nil {
		exitCode = 0
		return
	}

	var ecerr errext.HasExitCode
	if errors.As(err, &ecerr) {
		exitCode = int(ecerr.ExitCode())
	}

	errText, fields := errext.Format(err)
	c.globalState.Logger.WithFields(fields).Error(errText)
}

func (c *rootCommand) stopLoggers() {
	if c.loggerOutput != nil {
		if err := c.loggerOutput.Close(); err != nil {
			c.globalState.FallbackLogger.WithError(err).Error("could not close the log output")
		}
	}
}

func rootCmdPersistentFlagSet(gs *state.GlobalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	// We need to use `gs.Flags.<value>` both as the destination and as the
	// value here, since the config values could have already been set by
	// their respective environment variables. However, we then also have to
	// explicitly set the DefValue to the respective default value from
	// `gs.DefaultFlags.<value>`, so that the `workshop --help` message is
	// not messed up...

	flags.StringVar(&gs.Flags.LogOutput, "log-output", gs.Flags.LogOutput,
		"change the output for workshop logs, possible values are 'stderr', 'stdout', 'none', 'file[=./path.log]'")
	flags.Lookup("log-output").DefValue = gs.DefaultFlags.LogOutput

	flags.StringVar(&gs.Flags.LogFormat, "log-format", gs.Flags.LogFormat, "log output format ('raw', 'json')")
	flags.Lookup("log-format").DefValue = gs.DefaultFlags.LogFormat

	flags.BoolVar(&gs.Flags.NoColor, "no-color", gs.Flags.NoColor, "disable colored output")
	flags.Lookup("no-color").DefValue = strconv.FormatBool(gs.DefaultFlags.NoColor)

	flags.BoolVarP(&gs.Flags.Verbose, "verbose", "v", gs.DefaultFlags.Verbose, "enable verbose logging")
	flags.BoolVarP(&gs.Flags.Quiet, "quiet", "q", gs.DefaultFlags.Quiet, "disable the banner and progress updates")

	return flags
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

func (c *rootCommand) setupLoggers() error {
	gs := c.globalState
	if gs.Flags.Verbose {
		gs.Logger.SetLevel(logrus.DebugLevel)
	}

	loggerForceColors := false // disable color by default
	switch line := gs.Flags.LogOutput; {
	case line == "stderr":
		loggerForceColors = !gs.Flags.NoColor && gs.Console.IsTTY
		gs.Logger.SetOutput(gs.Console.Stderr)
	case line == "stdout":
		loggerForceColors = !gs.Flags.NoColor && gs.Console.IsTTY
		gs.Logger.SetOutput(gs.Console.Stdout)
	case line == "none":
		gs.Logger.SetOutput(io.Discard)
	case strings.HasPrefix(line, "file"):
		w, err := fileLogOutput(gs, line)
		if err != nil {
			return err
		}
		c.loggerOutput = w
		gs.Logger.SetOutput(w)
	default:
		return fmt.Errorf("unsupported log output '%s'", line)
	}

	switch gs.Flags.LogFormat {
	case "raw":
		gs.Logger.SetFormatter(&RawFormatter{})
		gs.Logger.Debug("Logger format: RAW")
	case "json":
		gs.Logger.SetFormatter(&logrus.JSONFormatter{})
		gs.Logger.Debug("Logger format: JSON")
	case "":
		gs.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors: loggerForceColors, DisableColors: gs.Flags.NoColor,
		})
		gs.Logger.Debug("Logger format: TEXT")
	default:
		return fmt.Errorf("unsupported log format '%s'", gs.Flags.LogFormat)
	}

	// Sometimes the Go runtime uses the standard log output to log some
	// messages directly, so route those through logrus as well.
	stdlog.SetOutput(gs.Logger.Writer())
	return nil
}

// fileLogOutput opens the log file from a 'file=./path.log' config line.
func fileLogOutput(gs *state.GlobalState, line string) (io.WriteCloser, error) {
	_, path, ok := strings.Cut(line, "=")
	if !ok || path == "" {
		return nil, fmt.Errorf("unsupported log output '%s', expected 'file=./path.log'", line)
	}
	f, err := gs.FS.OpenFile(path, logFileFlags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}
