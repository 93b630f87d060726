// Package output provides context-aware output for lin.
// Stdout is used for primary data output (tables, JSON).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type ctxKey struct{}

// Format selects how primary output is rendered.
type Format int

const (
	// FormatText renders human-readable tables and lines.
	FormatText Format = iota
	// FormatJSON renders machine-readable JSON.
	FormatJSON
)

// DetectFormat picks the output format. The --json flag forces JSON;
// a non-terminal stdout (pipe, redirect) also selects JSON so scripts
// get stable output.
func DetectFormat(jsonFlag bool, stdout *os.File) Format {
	if jsonFlag {
		return FormatJSON
	}
	if stdout != nil && !isatty.IsTerminal(stdout.Fd()) && !isatty.IsCygwinTerminal(stdout.Fd()) {
		return FormatJSON
	}
	return FormatText
}

// Printer writes primary output (data, tables, JSON) to stdout.
type Printer struct {
	w      io.Writer
	format Format
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext retrieves the Printer from context.
// Returns a text Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout, format: FormatText}
}

// JSON returns true when the printer renders JSON.
func (p *Printer) JSON() bool {
	return p.format == FormatJSON
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// EncodeJSON writes v as indented JSON followed by a newline.
func (p *Printer) EncodeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
