package lib

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfworkshop/workshop/lib/types"
)

const exampleManifest = `
script: fib.js
duration: 2s
reference:
  name: python
  build: [pip, install, -e, ./python_lib]
  cmd: [python, ./python_lib/worker.py]
candidate:
  name: rust
  build: [cargo, build, --release]
  cmd: [./target/release/worker]
  dir: ./rust_lib
  env:
    RUSTFLAGS: -C target-cpu=native
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(exampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "fib.js", m.Script)
	assert.Equal(t, types.NullDurationFrom(2*time.Second), m.Duration)
	assert.False(t, m.Calibration.Valid)

	assert.Equal(t, "python", m.Reference.Name)
	assert.True(t, m.Reference.IsProcess())
	assert.Equal(t, []string{"pip", "install", "-e", "./python_lib"}, m.Reference.Build)

	assert.Equal(t, "rust", m.Candidate.Name)
	assert.Equal(t, "./rust_lib", m.Candidate.Dir)
	assert.Equal(t, "-C target-cpu=native", m.Candidate.Env["RUSTFLAGS"])
}

func TestParseManifestDefaults(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(`
reference:
  func: fibonacci
candidate:
  cmd: [./worker]
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultScriptName, m.Script)
	assert.Equal(t, "reference", m.Reference.Name)
	assert.Equal(t, "candidate", m.Candidate.Name)
	assert.False(t, m.Reference.IsProcess())
}

func TestParseManifestErrors(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"empty":        ``,
		"neither":      "reference:\n  name: a\ncandidate:\n  cmd: [./w]\n",
		"both":         "reference:\n  func: f\n  cmd: [./w]\ncandidate:\n  cmd: [./w]\n",
		"buildNoCmd":   "reference:\n  func: f\n  build: [make]\ncandidate:\n  cmd: [./w]\n",
		"unknownField": "refrence:\n  func: f\ncandidate:\n  cmd: [./w]\n",
	}

	for name, data := range testCases {
		data := data
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseManifest([]byte(data))
			require.Error(t, err)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ws/workshop.yaml", []byte(exampleManifest), 0o644))

	m, err := LoadManifest(fs, "/ws/workshop.yaml")
	require.NoError(t, err)
	assert.Equal(t, "rust", m.Candidate.Name)

	_, err = LoadManifest(fs, "/ws/missing.yaml")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/ws/broken.yaml", []byte("reference: ["), 0o644))
	_, err = LoadManifest(fs, "/ws/broken.yaml")
	require.ErrorContains(t, err, "could not parse")
}
