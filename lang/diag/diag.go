// Package diag implements the diagnostics taxonomy shared by every phase of
// the loxide pipeline: lexical, syntactic, resolution and runtime errors.
// Its ErrorList mirrors the go/scanner.ErrorList idiom the language's
// toolchain uses for its own multi-error reporting, but renders each entry
// as the three-line, caret-underlined, optionally colorized block the
// language's diagnostics are specified to produce.
package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mna/loxide/lang/token"
)

// Kind identifies which phase of the pipeline raised a Diagnostic.
type Kind int

const (
	Lexical Kind = iota
	Syntactic
	Resolution
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntactic:
		return "syntax error"
	case Resolution:
		return "resolution error"
	case Runtime:
		return "runtime error"
	default:
		return "error"
	}
}

// Diagnostic is a single positioned error produced by one phase of the
// pipeline.
type Diagnostic struct {
	Kind    Kind
	Span    token.Span
	Message string
}

func (d *Diagnostic) Error() string { return d.Message }

// Render writes the three-line diagnostic block to w: a header naming the
// kind, line and column, the offending source line verbatim, and a caret
// underline of Span.Len characters starting at the column's indent. When
// colorize is true, the header and caret line are wrapped in ANSI color
// codes.
func Render(w io.Writer, d *Diagnostic, sm *token.SourceMap, colorize bool) {
	pos := sm.Map(d.Span)

	headerColor := color.New(color.FgRed, color.Bold)
	caretColor := color.New(color.FgRed)
	headerColor.EnableColor()
	caretColor.EnableColor()
	if !colorize {
		headerColor.DisableColor()
		caretColor.DisableColor()
	}

	header := fmt.Sprintf("%s: %s: %s", pos.String(), d.Kind, d.Message)
	fmt.Fprintln(w, headerColor.Sprint(header))
	fmt.Fprintln(w, pos.LineText)

	width := d.Span.Len
	if width < 1 {
		width = 1
	}
	caret := strings.Repeat(" ", pos.Col) + strings.Repeat("^", width)
	fmt.Fprintln(w, caretColor.Sprint(caret))
}

// ErrorList accumulates diagnostics across an entire phase (or pipeline run)
// so that the phase can continue past the first error and report everything
// it found in one pass.
type ErrorList struct {
	items []*Diagnostic
}

// Add appends a diagnostic to the list.
func (el *ErrorList) Add(kind Kind, span token.Span, format string, args ...any) {
	el.items = append(el.items, &Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Len reports the number of accumulated diagnostics.
func (el *ErrorList) Len() int { return len(el.items) }

// Items returns the accumulated diagnostics in insertion order.
func (el *ErrorList) Items() []*Diagnostic { return el.items }

// Sort orders the diagnostics by their span offset, for stable reporting
// regardless of the order statements were visited in.
func (el *ErrorList) Sort() {
	sort.SliceStable(el.items, func(i, j int) bool {
		return el.items[i].Span.Offset < el.items[j].Span.Offset
	})
}

// Err returns the ErrorList as an error, or nil if it is empty.
func (el *ErrorList) Err() error {
	if len(el.items) == 0 {
		return nil
	}
	return el
}

func (el *ErrorList) Error() string {
	switch len(el.items) {
	case 0:
		return "no errors"
	case 1:
		return el.items[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more diagnostics)", el.items[0], len(el.items)-1)
	}
}

// Unwrap lets callers use errors.Is/As across every accumulated diagnostic.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.items))
	for i, d := range el.items {
		errs[i] = d
	}
	return errs
}

// PrintAll renders every diagnostic in the list to w.
func PrintAll(w io.Writer, el *ErrorList, sm *token.SourceMap, colorize bool) {
	for _, d := range el.Items() {
		Render(w, d, sm, colorize)
	}
}
