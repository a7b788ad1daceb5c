package lib

import (
	"errors"
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/perfworkshop/workshop/lib/types"
)

// Default benchmark settings, matching the classic workshop runner.
const (
	DefaultDuration    = 1 * time.Second
	DefaultCalibration = 100 * time.Millisecond
)

// Options are the consolidated benchmark settings. Sources are applied in
// order: defaults, manifest, environment variables, CLI flags.
type Options struct {
	// Target wall-clock time each benchmark run should take.
	Duration types.NullDuration `json:"duration" envconfig:"WORKSHOP_DURATION"`
	// How long to run the calibration loop that picks the chunk size.
	Calibration types.NullDuration `json:"calibration" envconfig:"WORKSHOP_CALIBRATION"`
	// Skip the build phase, e.g. when iterating on the workshop script.
	SkipBuild null.Bool `json:"skipBuild" envconfig:"WORKSHOP_SKIP_BUILD"`
}

// DefaultOptions returns Options with all defaults filled in.
func DefaultOptions() Options {
	return Options{
		Duration:    types.NullDurationFrom(DefaultDuration),
		Calibration: types.NullDurationFrom(DefaultCalibration),
		SkipBuild:   null.BoolFrom(false),
	}
}

// Apply overlays the valid fields of opts on top of o and returns the result.
func (o Options) Apply(opts Options) Options {
	if opts.Duration.Valid {
		o.Duration = opts.Duration
	}
	if opts.Calibration.Valid {
		o.Calibration = opts.Calibration
	}
	if opts.SkipBuild.Valid {
		o.SkipBuild = opts.SkipBuild
	}
	return o
}

// Validate checks that the consolidated options make sense.
func (o Options) Validate() error {
	if o.Duration.TimeDuration() <= 0 {
		return errors.New("benchmark duration must be positive")
	}
	if o.Calibration.TimeDuration() <= 0 {
		return errors.New("calibration window must be positive")
	}
	return nil
}
