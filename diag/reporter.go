// Package diag renders startup diagnostics for a resolved route table.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/restbind/restbind/internal/errors"
	"github.com/restbind/restbind/route"
)

// Reporter prints a human-readable route table and resolution errors
type Reporter struct {
	out     io.Writer
	verbose bool
}

// NewReporter creates a reporter writing to stderr
func NewReporter(verbose bool) *Reporter {
	return &Reporter{out: os.Stderr, verbose: verbose}
}

// NewReporterTo creates a reporter writing to the given writer
func NewReporterTo(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// ReportRoutes prints one line per resolved definition, verb color-coded,
// security and blocking flags marked.
func (r *Reporter) ReportRoutes(definitions []*route.RouteDefinition) {
	for _, d := range definitions {
		line := d.String()
		if d.IsBlocking() {
			line += "  (blocking)"
		}
		fmt.Fprintf(r.out, "%s\n", verbColor(d.Method()).Sprint(line))

		if r.verbose {
			for _, param := range d.Parameters() {
				fmt.Fprintf(r.out, "           %s\n", param)
			}
		}
	}
}

// ReportError prints a resolution error with its hints
func (r *Reporter) ReportError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(r.out, "ERROR: ")
	fmt.Fprintf(r.out, "%s\n", err)

	if cfg, ok := err.(*errors.ConfigError); ok && len(cfg.Hints) > 0 {
		fmt.Fprintf(r.out, "\nSuggestions:\n")
		for _, hint := range cfg.Hints {
			fmt.Fprintf(r.out, "  - %s\n", hint)
		}
	}
}

func verbColor(verb string) *color.Color {
	switch strings.ToUpper(verb) {
	case "GET", "HEAD":
		return color.New(color.FgGreen)
	case "POST", "PUT", "PATCH":
		return color.New(color.FgYellow)
	case "DELETE":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgCyan)
	}
}
