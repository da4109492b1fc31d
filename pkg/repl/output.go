package repl

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/soypete/employee-tracker/pkg/render"
	"github.com/soypete/employee-tracker/pkg/store"
)

// Output prints status lines and tables to the terminal
type Output struct {
	writer      io.Writer
	interactive bool // writer is a terminal that can show a spinner
	success     *color.Color
	failure     *color.Color
	warning     *color.Color
}

// NewOutput creates an output handler writing to stdout
func NewOutput(noColor bool) *Output {
	o := &Output{
		writer:      os.Stdout,
		interactive: !noColor && isatty.IsTerminal(os.Stdout.Fd()),
		success:     color.New(color.FgGreen),
		failure:     color.New(color.FgRed),
		warning:     color.New(color.FgYellow),
	}
	if noColor {
		o.success.DisableColor()
		o.failure.DisableColor()
		o.warning.DisableColor()
	}
	return o
}

// SetWriter sets the output writer. Spinners are disabled afterwards.
func (o *Output) SetWriter(w io.Writer) {
	o.writer = w
	o.interactive = false
}

// Writer returns the output writer
func (o *Output) Writer() io.Writer {
	return o.writer
}

// PrintMessage prints a message to the output
func (o *Output) PrintMessage(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// PrintError prints an error message
func (o *Output) PrintError(format string, args ...interface{}) {
	o.failure.Fprintf(o.writer, format, args...)
}

// PrintSuccess prints a success message
func (o *Output) PrintSuccess(format string, args ...interface{}) {
	o.success.Fprintf(o.writer, format, args...)
}

// PrintWarning prints a warning message
func (o *Output) PrintWarning(format string, args ...interface{}) {
	o.warning.Fprintf(o.writer, format, args...)
}

// PrintTable renders a result set
func (o *Output) PrintTable(rs store.ResultSet) error {
	return render.Table(o.writer, rs)
}

// Spin runs fn with a spinner showing message when the output is a terminal.
func (o *Output) Spin(message string, fn func() error) error {
	if !o.interactive {
		return fn()
	}
	s := NewSpinner(o.writer, message)
	s.Start()
	defer s.Stop()
	return fn()
}
