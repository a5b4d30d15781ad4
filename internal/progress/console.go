// Package progress provides Progress implementations for the diagnostics
// reporter: a console renderer, a zap logger adapter, a fan-out and a no-op.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const barWidth = 20

// Console renders progress for a person watching the dump. On a terminal
// each step redraws a percentage bar in place; otherwise one line is
// printed per step.
type Console struct {
	out         io.Writer
	interactive bool
	errColor    *color.Color

	total   int
	step    int
	target  string
	percent int
}

// NewConsole creates a console renderer writing to out. Interactive mode is
// chosen when out is a terminal.
func NewConsole(out io.Writer) *Console {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return newConsole(out, interactive)
}

func newConsole(out io.Writer, interactive bool) *Console {
	errColor := color.New(color.FgRed, color.Bold)
	if !interactive {
		errColor.DisableColor()
	}
	return &Console{out: out, interactive: interactive, errColor: errColor}
}

// SetTotalSteps sets the step count used in the "[i/n]" prefix.
func (c *Console) SetTotalSteps(n int) {
	c.total = n
	if n == 0 {
		fmt.Fprintln(c.out, "Nothing to collect.")
	}
}

// Started prints the target of a new step.
func (c *Console) Started(step int, target string) {
	c.step = step
	c.target = target
	c.percent = 0
	if c.interactive {
		c.redraw()
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.prefix(), target)
}

// PercentChanged redraws the progress bar on a terminal. Values are clamped to 0..100.
func (c *Console) PercentChanged(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent == c.percent {
		return
	}
	c.percent = percent
	if c.interactive {
		c.redraw()
	}
}

// Info prints an informational line under the current step.
func (c *Console) Info(msg string) {
	if c.interactive {
		fmt.Fprint(c.out, "\r\033[K")
	}
	fmt.Fprintf(c.out, "  %s\n", msg)
	if c.interactive {
		c.redraw()
	}
}

// Error prints a failed step in red.
func (c *Console) Error(msg string, err error) {
	if c.interactive {
		fmt.Fprint(c.out, "\r\033[K")
	}
	c.errColor.Fprintf(c.out, "%s %s: %s: %v\n", c.prefix(), c.target, msg, err)
}

// Finished completes the progress bar of the current step.
func (c *Console) Finished() {
	if !c.interactive {
		return
	}
	c.percent = 100
	c.redraw()
	fmt.Fprintln(c.out)
}

func (c *Console) prefix() string {
	width := len(fmt.Sprint(c.total))
	return fmt.Sprintf("[%*d/%d]", width, c.step, c.total)
}

func (c *Console) redraw() {
	filled := c.percent * barWidth / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	fmt.Fprintf(c.out, "\r\033[K%s %s [%s] %3d%%", c.prefix(), c.target, bar, c.percent)
}
