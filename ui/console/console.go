// Package console handles all of the output of the workshop CLI: synced
// writing to stdout and stderr, TTY detection and the color theme used by the
// run report.
package console

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Default terminal width in characters.
const defaultTermWidth = 80

// Console enables synced writing to stdout and stderr, so log lines and
// status output don't interleave mid-line.
type Console struct {
	IsTTY          bool
	outMx          *sync.Mutex
	Stdout, Stderr OSFileW
	Stdin          OSFileR
	stdout, stderr *consoleWriter
	theme          *theme
	logger         *logrus.Logger
}

// New returns the pointer to a new Console value.
func New(stdout, stderr OSFileW, stdin OSFileR, colorize bool, termType string) *Console {
	outMx := &sync.Mutex{}
	outCW := newConsoleWriter(stdout, outMx, termType)
	errCW := newConsoleWriter(stderr, outMx, termType)
	isTTY := outCW.isTTY && errCW.isTTY

	// Default logger without any formatting
	logger := &logrus.Logger{
		Out:       errCW,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	var th *theme
	// Only enable the theme and a colored logger if we're in a TTY
	if isTTY && colorize {
		th = newTheme()

		logger.Formatter = &logrus.TextFormatter{
			ForceColors:   true,
			DisableColors: false,
		}
	}

	return &Console{
		IsTTY:  isTTY,
		outMx:  outMx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  stdin,
		stdout: outCW,
		stderr: errCW,
		theme:  th,
		logger: logger,
	}
}

// GetLogger returns the preconfigured plain-text logger. It will be configured
// to output colors if the theme is enabled.
func (c *Console) GetLogger() *logrus.Logger {
	return c.logger
}

// SetLogger overrides the preconfigured logger.
func (c *Console) SetLogger(l *logrus.Logger) {
	c.logger = l
}

// Print writes s to stdout.
func (c *Console) Print(s string) {
	if _, err := fmt.Fprint(c.stdout, s); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// Printf writes s to stdout, formatted with optional arguments.
func (c *Console) Printf(s string, a ...interface{}) {
	if _, err := fmt.Fprintf(c.stdout, s, a...); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// PrintYAML marshals v to YAML, and writes the result to stdout. It returns an
// error if marshalling fails.
func (c *Console) PrintYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal YAML: %w", err)
	}
	c.Print(string(data))
	return nil
}

// TermWidth returns the terminal window width in characters. If the window
// size lookup fails, or if we're not running in a TTY, the default value of 80
// is returned. err will be non-nil if the lookup fails.
func (c *Console) TermWidth() (int, error) {
	if !c.IsTTY {
		return defaultTermWidth, nil
	}

	width, _, err := term.GetSize(int(c.Stdout.Fd()))
	if !(width > 0) || err != nil {
		return defaultTermWidth, err
	}

	return width, nil
}

// Colorized reports whether the color theme is enabled.
func (c *Console) Colorized() bool {
	return c.theme != nil
}

// Banner colors the given banner text with the foreground theme color.
func (c *Console) Banner(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.foreground.Sprint(s)
}

// Good renders s in the theme's success color (green).
func (c *Console) Good(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.good.Sprint(s)
}

// Bad renders s in the theme's failure color (red).
func (c *Console) Bad(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.bad.Sprint(s)
}

// GoodBold renders s bold in the theme's success color, for the final verdict
// line.
func (c *Console) GoodBold(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.goodBold.Sprint(s)
}

// BadBold renders s bold in the theme's failure color.
func (c *Console) BadBold(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.badBold.Sprint(s)
}

// Accent renders s in the theme's accent color, used for numbers that should
// stand out of the surrounding dim text.
func (c *Console) Accent(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.accent.Sprint(s)
}

// Dim renders s faint, for progress narration around the actual results.
func (c *Console) Dim(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.faint.Sprint(s)
}

// Bold renders s bold.
func (c *Console) Bold(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.bold.Sprint(s)
}

// Heading renders s as a phase heading.
func (c *Console) Heading(s string) string {
	if !c.Colorized() {
		return s
	}
	return c.theme.heading.Sprint(s)
}

// OSFile is a subset of the functionality implemented by os.File.
type OSFile interface {
	Fd() uintptr
}

// OSFileW is the writer variant of OSFile, typically representing os.Stdout
// and os.Stderr.
type OSFileW interface {
	io.Writer
	OSFile
}

// OSFileR is the reader variant of OSFile, typically representing os.Stdin.
type OSFileR interface {
	io.Reader
	OSFile
}

// theme is the collection of colors supported by the console output.
type theme struct {
	foreground *color.Color
	good       *color.Color
	bad        *color.Color
	goodBold   *color.Color
	badBold    *color.Color
	accent     *color.Color
	faint      *color.Color
	bold       *color.Color
	heading    *color.Color
}

func newTheme() *theme {
	return &theme{
		foreground: newColor(color.FgCyan),
		good:       newColor(color.FgGreen),
		bad:        newColor(color.FgRed),
		goodBold:   newColor(color.FgGreen, color.Bold),
		badBold:    newColor(color.FgRed, color.Bold),
		accent:     newColor(color.FgMagenta),
		faint:      newColor(color.Faint),
		bold:       newColor(color.Bold),
		heading:    newColor(color.FgCyan, color.Bold),
	}
}

// newColor returns the requested color with the given attributes, with color
// output force-enabled so the global color.NoColor detection doesn't strip it.
func newColor(attributes ...color.Attribute) *color.Color {
	c := color.New(attributes...)
	c.EnableColor()
	return c
}

// A writer that syncs writes with a mutex and, if the output is a TTY, clears
// till the end of line before newlines so partial status lines can be
// overwritten cleanly.
type consoleWriter struct {
	OSFileW
	isTTY bool
	mutex *sync.Mutex
}

func newConsoleWriter(out OSFileW, mx *sync.Mutex, termType string) *consoleWriter {
	isTTY := termType != "dumb" && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))
	return &consoleWriter{out, isTTY, mx}
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.isTTY {
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.mutex.Lock()
	n, err = w.OSFileW.Write(p)
	w.mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}
