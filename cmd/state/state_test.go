package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEnvMap(t *testing.T) {
	t.Parallel()

	env := BuildEnvMap([]string{"PATH=/bin:/usr/bin", "EMPTY=", "WEIRD=a=b=c"})
	assert.Equal(t, map[string]string{
		"PATH":  "/bin:/usr/bin",
		"EMPTY": "",
		"WEIRD": "a=b=c",
	}, env)
}

func TestConsolidateFlags(t *testing.T) {
	t.Parallel()

	defaults := GetDefaultFlags()
	assert.Equal(t, "stderr", defaults.LogOutput)

	testCases := []struct {
		name     string
		env      map[string]string
		expected GlobalFlags
	}{
		{
			name:     "empty env keeps defaults",
			env:      nil,
			expected: defaults,
		},
		{
			name: "log output and format",
			env:  map[string]string{"WORKSHOP_LOG_OUTPUT": "stdout", "WORKSHOP_LOG_FORMAT": "json"},
			expected: GlobalFlags{
				LogOutput: "stdout",
				LogFormat: "json",
			},
		},
		{
			name:     "WORKSHOP_NO_COLOR needs a value",
			env:      map[string]string{"WORKSHOP_NO_COLOR": ""},
			expected: defaults,
		},
		{
			name:     "WORKSHOP_NO_COLOR set",
			env:      map[string]string{"WORKSHOP_NO_COLOR": "true"},
			expected: GlobalFlags{NoColor: true, LogOutput: "stderr"},
		},
		{
			name:     "empty NO_COLOR still disables colors",
			env:      map[string]string{"NO_COLOR": ""},
			expected: GlobalFlags{NoColor: true, LogOutput: "stderr"},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, consolidateFlags(defaults, tc.env))
		})
	}
}
