// Package bench implements the measurement loop of the workshop runner:
// calibrate how many iterations fit in a chunk, run chunks of iterations
// until the target wall time is reached, and summarize the per-iteration
// times across chunks.
package bench

import (
	"context"
	"math"
	"time"
)

// Workload invokes the implementation under test exactly once.
type Workload func() error

// Result holds the measurements of one benchmark run.
type Result struct {
	// Mean time of a single iteration, in seconds. Chunk means are averaged
	// so per-call timer overhead doesn't dominate fast workloads.
	MeanSeconds float64
	// Sample standard deviation of the per-iteration time across chunks.
	StdDevSeconds float64
	// Total number of workload invocations during measurement.
	Iterations int64
	// Iterations per timed chunk.
	ChunkSize int
	// Time spent actually running the workload.
	PureTime time.Duration
	// Wall-clock time of the whole measurement.
	WallTime time.Duration
}

// Overhead returns the percentage of wall-clock time not spent inside the
// workload itself.
func (r Result) Overhead() float64 {
	if r.WallTime <= 0 {
		return 0
	}
	return float64(r.WallTime-r.PureTime) / float64(r.WallTime) * 100
}

// Calibrate runs the workload for the given window and returns the chunk size
// to use for measurement: twice the number of iterations that fit in the
// window, and at least one.
func Calibrate(ctx context.Context, workload Workload, window time.Duration) (int, error) {
	count := 0
	start := time.Now()
	for time.Since(start) < window {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := workload(); err != nil {
			return 0, err
		}
		count++
	}

	chunk := count * 2
	if chunk < 1 {
		chunk = 1
	}
	return chunk, nil
}

// Measure runs chunks of chunkSize iterations until at least target wall time
// has passed, timing each chunk separately.
func Measure(ctx context.Context, workload Workload, chunkSize int, target time.Duration) (Result, error) {
	if chunkSize < 1 {
		chunkSize = 1
	}

	var chunkMeans []float64
	var pure time.Duration
	wallStart := time.Now()

	for time.Since(wallStart) < target {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		chunkStart := time.Now()
		for i := 0; i < chunkSize; i++ {
			if err := workload(); err != nil {
				return Result{}, err
			}
		}
		elapsed := time.Since(chunkStart)

		chunkMeans = append(chunkMeans, elapsed.Seconds()/float64(chunkSize))
		pure += elapsed
	}

	return summarize(chunkMeans, chunkSize, pure, time.Since(wallStart)), nil
}

// Run is Calibrate followed by Measure. The onCalibrated callback, if set, is
// invoked with the chosen chunk size before measurement starts, so callers can
// report progress between the two stages.
func Run(
	ctx context.Context, workload Workload,
	calibration, target time.Duration,
	onCalibrated func(chunkSize int),
) (Result, error) {
	chunk, err := Calibrate(ctx, workload, calibration)
	if err != nil {
		return Result{}, err
	}
	if onCalibrated != nil {
		onCalibrated(chunk)
	}
	return Measure(ctx, workload, chunk, target)
}

func summarize(chunkMeans []float64, chunkSize int, pure, wall time.Duration) Result {
	mean := 0.0
	for _, m := range chunkMeans {
		mean += m
	}
	mean /= float64(len(chunkMeans))

	stdDev := 0.0
	if len(chunkMeans) > 1 {
		variance := 0.0
		for _, m := range chunkMeans {
			variance += (m - mean) * (m - mean)
		}
		variance /= float64(len(chunkMeans) - 1)
		stdDev = math.Sqrt(variance)
	}

	return Result{
		MeanSeconds:   mean,
		StdDevSeconds: stdDev,
		Iterations:    int64(len(chunkMeans)) * int64(chunkSize),
		ChunkSize:     chunkSize,
		PureTime:      pure,
		WallTime:      wall,
	}
}
