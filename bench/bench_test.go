package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	calls := 0
	chunk, err := Calibrate(ctx, func() error { calls++; return nil }, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, calls*2, chunk)
	assert.GreaterOrEqual(t, chunk, 2)

	// A slow workload still yields a usable chunk size.
	chunk, err = Calibrate(ctx, func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, chunk)
}

func TestCalibrateErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Calibrate(context.Background(), func() error { return boom }, time.Second)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Calibrate(ctx, func() error { return nil }, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasure(t *testing.T) {
	t.Parallel()

	res, err := Measure(context.Background(), func() error { return nil }, 1000, 20*time.Millisecond)
	require.NoError(t, err)

	assert.Greater(t, res.Iterations, int64(0))
	assert.Equal(t, 1000, res.ChunkSize)
	assert.Zero(t, res.Iterations%int64(res.ChunkSize))
	assert.Greater(t, res.MeanSeconds, 0.0)
	assert.GreaterOrEqual(t, res.WallTime, 20*time.Millisecond)
	assert.LessOrEqual(t, res.PureTime, res.WallTime)
	assert.GreaterOrEqual(t, res.Overhead(), 0.0)
	assert.Less(t, res.Overhead(), 100.0)
}

func TestMeasureErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Measure(context.Background(), func() error { return boom }, 10, time.Second)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Measure(ctx, func() error { return nil }, 10, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun(t *testing.T) {
	t.Parallel()

	var calibratedChunk int
	res, err := Run(
		context.Background(),
		func() error { return nil },
		2*time.Millisecond, 10*time.Millisecond,
		func(chunk int) { calibratedChunk = chunk },
	)
	require.NoError(t, err)
	assert.Equal(t, calibratedChunk, res.ChunkSize)
	assert.Greater(t, res.Iterations, int64(0))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	res := summarize([]float64{1e-6, 3e-6}, 100, 400*time.Microsecond, 500*time.Microsecond)
	assert.InDelta(t, 2e-6, res.MeanSeconds, 1e-12)
	// Sample stddev of {1µs, 3µs} is sqrt(2) µs.
	assert.InDelta(t, 1.4142135e-6, res.StdDevSeconds, 1e-12)
	assert.Equal(t, int64(200), res.Iterations)
	assert.InDelta(t, 20.0, res.Overhead(), 1e-9)

	res = summarize([]float64{5e-9}, 10, time.Microsecond, time.Microsecond)
	assert.Zero(t, res.StdDevSeconds)
	assert.Zero(t, res.Overhead())
}
