// Package output prints CLI results in color or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Options struct {
	JSON    bool
	Verbose bool
	NoColor bool
	// Out and Err default to os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer
}

type Output struct {
	JSON    bool
	Verbose bool

	out io.Writer
	err io.Writer

	yellow *color.Color
	red    *color.Color
	gray   *color.Color
	bold   *color.Color
}

func New(opts Options) *Output {
	o := &Output{
		JSON:    opts.JSON,
		Verbose: opts.Verbose,
		out:     opts.Out,
		err:     opts.Err,
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
		gray:    color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
	}
	if o.out == nil {
		o.out = os.Stdout
	}
	if o.err == nil {
		o.err = os.Stderr
	}
	if opts.NoColor {
		for _, c := range []*color.Color{o.yellow, o.red, o.gray, o.bold} {
			c.DisableColor()
		}
	}
	return o
}

func (o *Output) Yellow(s string) string { return o.yellow.Sprint(s) }
func (o *Output) Red(s string) string    { return o.red.Sprint(s) }
func (o *Output) Gray(s string) string   { return o.gray.Sprint(s) }
func (o *Output) Bold(s string) string   { return o.bold.Sprint(s) }

// Print writes msg and a newline to stdout unless JSON output is on.
func (o *Output) Print(msg string) {
	if o.JSON {
		return
	}
	fmt.Fprintln(o.out, msg)
}

// Prompt writes msg without a trailing newline. Prompts go to stderr so
// piped stdout stays clean.
func (o *Output) Prompt(msg string) {
	fmt.Fprint(o.err, o.Bold(msg))
}

func (o *Output) Warn(msg string) {
	if o.JSON {
		return
	}
	fmt.Fprintln(o.err, o.Yellow(msg))
}

func (o *Output) Debug(msg string) {
	if o.JSON || !o.Verbose {
		return
	}
	fmt.Fprintln(o.err, o.Gray(msg))
}

// Error always prints, even in JSON mode.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.err, o.Red(msg))
}

func (o *Output) EmitJSON(v any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Tracks prints the recommendation heading followed by one track per line.
func (o *Output) Tracks(tracks []string) {
	o.Print(o.Bold("Recommended songs:"))
	for _, t := range tracks {
		o.Print(t)
	}
}
