// Package ui assembles the run report: phase headings, aligned status lines
// and the final speedup verdict.
package ui

import (
	"fmt"
	"strconv"

	"github.com/perfworkshop/workshop/bench"
	"github.com/perfworkshop/workshop/ui/console"
)

// Column widths chosen so the DONE/FAILED markers and the ± signs line up
// across all the lines of a run.
const (
	actionPad     = 32
	iterationsPad = 17
	chunkPad      = 9
	resultPad     = 14
)

// Reporter renders the progress and results of a run on a console.
type Reporter struct {
	c *console.Console
}

// NewReporter returns a Reporter writing to the given console.
func NewReporter(c *console.Console) *Reporter {
	return &Reporter{c: c}
}

// Heading prints a phase heading, e.g. "=== Build Phase ===".
func (r *Reporter) Heading(phase string) {
	r.c.Print("\n" + r.c.Heading(fmt.Sprintf("=== %s Phase ===", phase)) + "\n")
}

// Action prints an in-progress status line without a trailing newline, padded
// so the eventual DONE or FAILED markers line up. Padding is applied before
// colorizing, otherwise the escape codes would count against the width.
func (r *Reporter) Action(text string) {
	r.c.Print("    " + r.c.Dim(fmt.Sprintf("%-*s", actionPad, text+"...")))
}

// Done completes an Action line.
func (r *Reporter) Done() {
	r.c.Print(" " + r.c.Good("DONE") + "\n")
}

// Failed completes an Action line.
func (r *Reporter) Failed() {
	r.c.Print(" " + r.c.Bad("FAILED") + "\n")
}

// Chunks prints the chunk size chosen by calibration, without a trailing
// newline so the measurement's DONE marker completes the line.
func (r *Reporter) Chunks(chunkSize int) {
	r.c.Print("    " + r.c.Dim("Running in chunks of "))
	r.c.Print(r.c.Accent(fmt.Sprintf("%*s", chunkPad, comma(int64(chunkSize)))))
	r.c.Print(" " + r.c.Dim("iterations..."))
}

// BenchmarkResult prints the iteration count and the mean ± stddev of a
// finished measurement, scaled to the given unit.
func (r *Reporter) BenchmarkResult(res bench.Result, scale bench.TimeScale) {
	r.c.Print("    " + r.c.Dim("└─ Completed "))
	r.c.Print(r.c.Accent(fmt.Sprintf("%*s", iterationsPad, comma(res.Iterations))))
	r.c.Print(" " + r.c.Dim("iterations") + "\n")

	mean := fmt.Sprintf("%.3f %s", scale.Apply(res.MeanSeconds), scale.Unit)
	stddev := fmt.Sprintf("%.3f %s", scale.Apply(res.StdDevSeconds), scale.Unit)
	centered := fmt.Sprintf("%*s ±%*s", resultPad, mean, resultPad, stddev)

	r.c.Print("    " + r.c.Dim("└─ Result: "))
	r.c.Print(r.c.Bold(centered))
	r.c.Print(" " + r.c.Dim(fmt.Sprintf("   (Benchmarking Overhead: %5.1f%%)", res.Overhead())) + "\n")
}

// Match prints the verification verdict.
func (r *Reporter) Match(ok bool) {
	if ok {
		r.c.Print("Results " + r.c.Good("MATCH") + "\n")
	} else {
		r.c.Print("Results " + r.c.Bad("DO NOT MATCH") + "\n")
	}
}

// Results prints the rendered result of each implementation, with the names
// right-aligned so the values line up.
func (r *Reporter) Results(refName, refResult, candName, candResult string) {
	width := len(refName)
	if len(candName) > width {
		width = len(candName)
	}
	r.c.Printf("%*s result: %s\n", width, refName, refResult)
	r.c.Printf("%*s result: %s\n", width, candName, candResult)
}

// Speedup prints the final verdict comparing the candidate to the reference.
// speedup is refMean / candMean; values below 1 are reported as a slowdown.
func (r *Reporter) Speedup(candName, refName string, speedup float64) {
	var verdict string
	if speedup >= 1 {
		verdict = r.c.GoodBold(fmt.Sprintf("%.2fx faster", speedup))
	} else {
		verdict = r.c.BadBold(fmt.Sprintf("%.2fx slower", 1/speedup))
	}
	r.c.Printf("\nThe %s implementation ran %s than %s!\n", candName, verdict, refName)
}

// comma renders n with thousands separators, so iteration counts in the
// millions stay readable.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if s[0] == '-' {
		start = 1
	}
	for i := len(s) - 3; i > start; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
