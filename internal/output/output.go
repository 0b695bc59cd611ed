package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// UI provides colored output and respects verbose mode.
type UI struct {
	Verbose bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New creates a UI with default stdout/stderr writers.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
)

// Cyan returns a cyan-colored string.
func Cyan(s string) string { return cyan(s) }

// Green returns a green-colored string.
func Green(s string) string { return green(s) }

// Yellow returns a yellow-colored string.
func Yellow(s string) string { return yellow(s) }

// Red returns a red-colored string.
func Red(s string) string { return red(s) }

// VerdictColor colors a hard-judge verdict.
func VerdictColor(verdict string) string {
	switch verdict {
	case "YES":
		return green(verdict)
	case "NO":
		return red(verdict)
	default:
		return yellow(verdict)
	}
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

const divider = "============================================================"

// PhaseStart prints a phase banner with the task count and concurrency.
func (u *UI) PhaseStart(phase string, total, concurrency int) {
	fmt.Fprintf(u.Out, "\n%s\n", divider)
	fmt.Fprintf(u.Out, "[%s] starting: %d tasks, concurrency %d\n", phase, total, concurrency)
	fmt.Fprintln(u.Out, divider)
}

// PhaseEnd prints a phase completion banner.
func (u *UI) PhaseEnd(phase string, total int, elapsed time.Duration) {
	fmt.Fprintf(u.Out, "[%s] all done: %d tasks, elapsed %s\n", phase, total, Elapsed(elapsed))
}

// Progress prints one [i/total] line for a task transition, e.g.
//
//	[Debate] [2/12] pr-33820 ... done (2m34s)
func (u *UI) Progress(phase string, index, total int, task, status string, elapsed time.Duration) {
	suffix := ""
	if elapsed > 0 {
		suffix = fmt.Sprintf(" (%s)", Elapsed(elapsed))
	}
	fmt.Fprintf(u.Out, "[%s] [%d/%d] %s ... %s%s\n", phase, index, total, task, status, suffix)
}

// Skipped prints the line for a task that will not run, with the reason.
func (u *UI) Skipped(phase, task, reason string) {
	fmt.Fprintf(u.Out, "[%s] [skipped] %s (%s)\n", phase, task, reason)
}

// Elapsed formats a duration as 34s or 2m05s.
func Elapsed(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

// Table creates a new tablewriter on the UI's output with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	return Table(u.Out, headers)
}

// Table creates a borderless tablewriter on w.
func Table(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
