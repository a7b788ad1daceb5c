package cmd

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "version")
	ts.run()

	assert.Equal(t, 0, ts.exitCode)
	assert.Contains(t, ts.stdout.String(), "workshop v0.4.0")
}

func TestRootVersionFlag(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "--version")
	ts.run()

	assert.Equal(t, 0, ts.exitCode)
	assert.Contains(t, ts.stdout.String(), "workshop v0.4.0")
}

func TestUnsupportedLogOutput(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "version", "--log-output", "nope")
	ts.run()

	assert.NotEqual(t, 0, ts.exitCode)
	assert.Contains(t, ts.stderr.String(), "unsupported log output 'nope'")
}

func TestUnsupportedLogFormat(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "version", "--log-format", "xml")
	ts.run()

	assert.NotEqual(t, 0, ts.exitCode)
	assert.Contains(t, ts.stderr.String(), "unsupported log format 'xml'")
}

func TestLogOutputFile(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "version", "-v", "--log-output", "file=/workshop.log")
	ts.run()

	require.Equal(t, 0, ts.exitCode)
	data, err := afero.ReadFile(ts.FS, "/workshop.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "workshop version: v0.4.0")
}

func TestLogFormatJSON(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "run", "/nowhere", "--log-format", "json")
	ts.run()

	assert.NotEqual(t, 0, ts.exitCode)
	assert.Contains(t, ts.stderr.String(), `"level":"error"`)
}

func TestTooManyArgs(t *testing.T) {
	t.Parallel()

	ts := newTestState(t, "run", "a", "b")
	ts.run()

	assert.NotEqual(t, 0, ts.exitCode)
	assert.Contains(t, ts.stderr.String(), "accepts at most 1 arg(s)")
}
