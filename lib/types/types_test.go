package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseExtendedDuration(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		durStr string
		expErr bool
		expDur time.Duration
	}{
		{"", true, 0},
		{"d", true, 0},
		{"2d", false, 48 * time.Hour},
		{"1d6h30m", false, 30*time.Hour + 30*time.Minute},
		{"-1d6h", false, -30 * time.Hour},
		{"100", false, 100 * time.Millisecond},
		{"1.5", false, 1500 * time.Microsecond},
		{"10s", false, 10 * time.Second},
		{"300ms", false, 300 * time.Millisecond},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.durStr, func(t *testing.T) {
			t.Parallel()
			result, err := ParseExtendedDuration(tc.durStr)
			if tc.expErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expDur, result)
		})
	}
}

func TestNullDurationJSON(t *testing.T) {
	t.Parallel()

	var d NullDuration
	require.NoError(t, json.Unmarshal([]byte(`"10s"`), &d))
	assert.Equal(t, NullDurationFrom(10*time.Second), d)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"10s"`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.False(t, d.Valid)

	data, err = json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestNullDurationYAML(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Duration NullDuration `yaml:"duration"`
	}

	var w wrapper
	require.NoError(t, yaml.Unmarshal([]byte("duration: 1m30s\n"), &w))
	assert.Equal(t, NullDurationFrom(90*time.Second), w.Duration)

	data, err := yaml.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, "duration: 1m30s\n", string(data))

	w = wrapper{}
	require.NoError(t, yaml.Unmarshal([]byte("duration:\n"), &w))
	assert.False(t, w.Duration.Valid)

	w = wrapper{}
	require.Error(t, yaml.Unmarshal([]byte("duration: bogus\n"), &w))
}

func TestNullDurationHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Duration(0), NullDuration{}.ValueOrZero())
	assert.Equal(t, Duration(time.Second), NullDurationFrom(time.Second).ValueOrZero())
	assert.Equal(t, time.Second, NullDurationFrom(time.Second).TimeDuration())
	assert.Equal(t, NullDuration{Duration(time.Second), false}, NewNullDuration(time.Second, false))
}
