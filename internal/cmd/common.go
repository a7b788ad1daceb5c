package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/errext/exitcodes"
	"github.com/perfworkshop/workshop/lib/consts"
	"github.com/perfworkshop/workshop/lib/types"
)

const logFileFlags = os.O_CREATE | os.O_WRONLY | os.O_APPEND

// TODO: refactor the CLI config so these functions aren't needed - they
// can mask errors by failing only at runtime, not at compile time
func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}

func getNullDuration(flags *pflag.FlagSet, key string) types.NullDuration {
	v, err := flags.GetDuration(key)
	if err != nil {
		panic(err)
	}
	return types.NullDuration{Duration: types.Duration(v), Valid: flags.Changed(key)}
}

func maxArgsWithMsg(n int, msg string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("accepts at most %d arg(s), received %d: %s", n, len(args), msg)
		}
		return nil
	}
}

func printBanner(gs *state.GlobalState) {
	if gs.Flags.Quiet {
		return
	}
	gs.Console.Print(gs.Console.Banner(consts.Banner()) + "\n\n")
}

// Trap Interrupts, SIGINTs and SIGTERMs and call the given handlers. A second
// signal makes the process exit immediately.
func handleRunAbortSignals(gs *state.GlobalState, gracefulStopHandler func(os.Signal)) (stop func()) {
	gs.Logger.Debug("Trapping interrupt signals so the run can stop gracefully...")
	sigC := make(chan os.Signal, 2)
	done := make(chan struct{})
	gs.SignalNotify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigC:
			gracefulStopHandler(sig)
		case <-done:
			return
		}

		select {
		case <-sigC:
			// The user really wants us gone.
			gs.OSExit(int(exitcodes.ExternalAbort))
		case <-done:
			return
		}
	}()

	return func() {
		gs.Logger.Debug("Releasing signal trap...")
		close(done)
		gs.SignalStop(sigC)
	}
}
