// Package worker builds and drives the implementations under comparison.
// Subprocess implementations speak newline-delimited JSON over stdin/stdout;
// their stderr is forwarded to the logger.
package worker

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
	"github.com/perfworkshop/workshop/lib"
)

// BuildError is a failed build command, carrying the combined output of the
// build tool so it can be shown to the user.
type BuildError struct {
	Name   string
	Output string
	err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building '%s' failed: %s", e.Name, e.err)
}

func (e *BuildError) Unwrap() error {
	return e.err
}

// ExitCode returns the exit code used when a build fails.
func (e *BuildError) ExitCode() exitcodes.ExitCode {
	return exitcodes.BuildFailed
}

var _ errext.HasExitCode = &BuildError{}

// Build runs the implementation's build command in dir, with the process
// environment extended by the implementation's env entries.
func Build(ctx context.Context, impl lib.Implementation, dir string, env map[string]string) error {
	cmd := exec.CommandContext(ctx, impl.Build[0], impl.Build[1:]...) //nolint:gosec
	cmd.Dir = dir
	cmd.Env = environ(env, impl.Env)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return &BuildError{Name: impl.Name, Output: string(out), err: err}
	}
	return nil
}

// environ flattens the base environment merged with the overrides into the
// KEY=value form wanted by os/exec.
func environ(base, overrides map[string]string) []string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}

	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	return env
}
