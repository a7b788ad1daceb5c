// Package lib contains the workshop manifest schema and the consolidated
// benchmark options.
package lib

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/perfworkshop/workshop/lib/types"
)

// Default file names inside a workshop directory.
const (
	ManifestFilename  = "workshop.yaml"
	DefaultScriptName = "workshop.js"
)

// Implementation describes one side of the comparison: either a function
// defined in the workshop script, or a worker subprocess driven over the
// line protocol.
type Implementation struct {
	Name  string            `yaml:"name" json:"name"`
	Func  string            `yaml:"func,omitempty" json:"func,omitempty"`
	Build []string          `yaml:"build,omitempty" json:"build,omitempty"`
	Cmd   []string          `yaml:"cmd,omitempty" json:"cmd,omitempty"`
	Dir   string            `yaml:"dir,omitempty" json:"dir,omitempty"`
	Env   map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// IsProcess reports whether the implementation runs as a worker subprocess.
func (i Implementation) IsProcess() bool {
	return len(i.Cmd) > 0
}

// Validate checks that the implementation is runnable: exactly one of 'func'
// or 'cmd', and 'build' only makes sense for subprocess implementations.
func (i Implementation) Validate() error {
	switch {
	case i.Func == "" && len(i.Cmd) == 0:
		return fmt.Errorf("implementation '%s' needs either a 'func' or a 'cmd'", i.Name)
	case i.Func != "" && len(i.Cmd) > 0:
		return fmt.Errorf("implementation '%s' can have either a 'func' or a 'cmd', not both", i.Name)
	case len(i.Build) > 0 && len(i.Cmd) == 0:
		return fmt.Errorf("implementation '%s' has a 'build' command but no 'cmd' to run", i.Name)
	}
	return nil
}

// Manifest is the parsed workshop.yaml: the workload script, the two
// implementations under comparison and optional benchmark settings.
type Manifest struct {
	Script      string             `yaml:"script" json:"script"`
	Duration    types.NullDuration `yaml:"duration,omitempty" json:"duration"`
	Calibration types.NullDuration `yaml:"calibration,omitempty" json:"calibration"`
	Reference   Implementation     `yaml:"reference" json:"reference"`
	Candidate   Implementation     `yaml:"candidate" json:"candidate"`
}

// LoadManifest reads and validates the workshop manifest at path.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", path, err)
	}
	return m, nil
}

// ParseManifest parses manifest data, fills in defaults and validates both
// implementations. Unknown fields are rejected so typos don't silently turn
// into defaults.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if m.Script == "" {
		m.Script = DefaultScriptName
	}
	if m.Reference.Name == "" {
		m.Reference.Name = "reference"
	}
	if m.Candidate.Name == "" {
		m.Candidate.Name = "candidate"
	}

	if err := m.Reference.Validate(); err != nil {
		return nil, err
	}
	if err := m.Candidate.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Options returns the benchmark options carried by the manifest.
func (m *Manifest) Options() Options {
	return Options{
		Duration:    m.Duration,
		Calibration: m.Calibration,
	}
}
