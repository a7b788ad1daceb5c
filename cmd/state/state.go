// Package state holds the dependency injection seam of the CLI: everything
// the commands need from the outside world lives in GlobalState, so tests can
// swap in an in-memory filesystem, buffers for the console and fake signal
// delivery.
package state

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/perfworkshop/workshop/ui/console"
)

// GlobalFlags contains global config values that apply to all subcommands.
type GlobalFlags struct {
	Quiet     bool
	NoColor   bool
	Verbose   bool
	LogOutput string
	LogFormat string
}

// GetDefaultFlags returns the default global flags.
func GetDefaultFlags() GlobalFlags {
	return GlobalFlags{
		LogOutput: "stderr",
	}
}

func consolidateFlags(defaultFlags GlobalFlags, env map[string]string) GlobalFlags {
	result := defaultFlags

	if val, ok := env["WORKSHOP_LOG_OUTPUT"]; ok {
		result.LogOutput = val
	}
	if val, ok := env["WORKSHOP_LOG_FORMAT"]; ok {
		result.LogFormat = val
	}
	if env["WORKSHOP_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable
	// the color output.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	return result
}

// GlobalState contains the GlobalFlags and accessors for most of the global
// process state. Commands should never access the host environment directly,
// so everything stays swappable in tests.
type GlobalState struct {
	Ctx context.Context

	FS         afero.Fs
	Getwd      func() (string, error)
	BinaryName string
	CmdArgs    []string
	Env        map[string]string

	DefaultFlags, Flags GlobalFlags

	Console *console.Console

	OSExit       func(int)
	SignalNotify func(chan<- os.Signal, ...os.Signal)
	SignalStop   func(chan<- os.Signal)

	Logger         *logrus.Logger
	FallbackLogger logrus.FieldLogger
}

// NewGlobalState returns a new GlobalState with the given context, wired to
// the real process environment. Any changes to the host environment, process
// arguments or the standard streams after this call will not be reflected.
func NewGlobalState(ctx context.Context) *GlobalState {
	env := BuildEnvMap(os.Environ())

	defaultFlags := GetDefaultFlags()
	flags := consolidateFlags(defaultFlags, env)

	cons := console.New(os.Stdout, os.Stderr, os.Stdin, !flags.NoColor, env["TERM"])

	return &GlobalState{
		Ctx:          ctx,
		FS:           afero.NewOsFs(),
		Getwd:        os.Getwd,
		BinaryName:   "workshop",
		CmdArgs:      os.Args,
		Env:          env,
		DefaultFlags: defaultFlags,
		Flags:        flags,
		Console:      cons,
		OSExit:       os.Exit,
		SignalNotify: signal.Notify,
		SignalStop:   signal.Stop,
		Logger:       cons.GetLogger(),
		FallbackLogger: &logrus.Logger{
			Out:       os.Stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

// BuildEnvMap returns a map from the os.Environ() list of KEY=value strings.
func BuildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}
