package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/ui/console"
)

type testOSFileW struct {
	*bytes.Buffer
}

func (f testOSFileW) Fd() uintptr {
	return ^uintptr(0)
}

type testOSFileR struct {
	*bytes.Buffer
}

func (f testOSFileR) Fd() uintptr {
	return ^uintptr(0)
}

// testState is a GlobalState wired to buffers, an in-memory filesystem and a
// fake process exit, so whole commands can run inside a test.
type testState struct {
	*state.GlobalState

	t              *testing.T
	stdout, stderr *bytes.Buffer
	exitCode       int
	exitCalled     bool
}

func newTestState(t *testing.T, args ...string) *testState {
	ts := &testState{
		t:      t,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	cons := console.New(
		testOSFileW{ts.stdout}, testOSFileW{ts.stderr},
		testOSFileR{&bytes.Buffer{}}, false, "dumb",
	)

	ts.GlobalState = &state.GlobalState{
		Ctx:            context.Background(),
		FS:             afero.NewMemMapFs(),
		Getwd:          func() (string, error) { return "/", nil },
		BinaryName:     "workshop",
		CmdArgs:        append([]string{"workshop"}, args...),
		Env:            map[string]string{},
		DefaultFlags:   state.GetDefaultFlags(),
		Flags:          state.GetDefaultFlags(),
		Console:        cons,
		OSExit:         func(code int) { ts.exitCode = code; ts.exitCalled = true },
		SignalNotify:   func(chan<- os.Signal, ...os.Signal) {},
		SignalStop:     func(chan<- os.Signal) {},
		Logger:         cons.GetLogger(),
		FallbackLogger: cons.GetLogger(),
	}
	return ts
}

// run executes the whole CLI and asserts that it tried to exit.
func (ts *testState) run() {
	ts.t.Helper()
	ExecuteWithGlobalState(ts.GlobalState)
	require.True(ts.t, ts.exitCalled)
}

func (ts *testState) writeFile(path, content string) {
	ts.t.Helper()
	require.NoError(ts.t, afero.WriteFile(ts.FS, path, []byte(content), 0o644))
}
