package bench

// TimeScale is the display unit used when reporting measured times.
type TimeScale struct {
	Unit       string
	Multiplier float64 // size of the unit in seconds
}

var scales = []TimeScale{ //nolint:gochecknoglobals
	{"ns", 1e-9},
	{"µs", 1e-6},
	{"ms", 1e-3},
	{"s", 1.0},
}

// ScaleFor picks the best display unit for a duration given in seconds: the
// smallest unit in which the value stays below 1000. Zero and anything above
// 1000s fall back to plain seconds.
func ScaleFor(seconds float64) TimeScale {
	if seconds == 0 {
		return scales[len(scales)-1]
	}
	for _, s := range scales {
		if seconds < s.Multiplier*1000 {
			return s
		}
	}
	return scales[len(scales)-1]
}

// Apply converts a duration in seconds to this scale's unit.
func (ts TimeScale) Apply(seconds float64) float64 {
	return seconds / ts.Multiplier
}
