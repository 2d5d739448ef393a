package emit

import (
	"fmt"
	"strconv"
	"strings"
)

// sourceWriter accumulates indented source lines for an emitter.  The first
// error recorded with fail sticks; once failed, the writer discards all
// further output.
type sourceWriter struct {
	sb     strings.Builder
	indent int
	err    error
}

// line writes one line at the current indentation level.
func (w *sourceWriter) line(format string, args ...interface{}) {
	if w.err != nil {
		return
	}

	w.sb.WriteString(strings.Repeat("    ", w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// blank writes an empty separator line.
func (w *sourceWriter) blank() {
	if w.err == nil {
		w.sb.WriteByte('\n')
	}
}

// indented runs f with the indentation level raised by one.
func (w *sourceWriter) indented(f func()) {
	w.indent++
	f()
	w.indent--
}

// fail records the first error encountered during emission.
func (w *sourceWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// result returns the accumulated source text or the recorded error.
func (w *sourceWriter) result() (string, error) {
	if w.err != nil {
		return "", w.err
	}

	return w.sb.String(), nil
}

// -----------------------------------------------------------------------------

// formatFloat renders a float literal so that it parses as a floating-point
// literal in every text target: the shortest exact decimal form, with `.0`
// appended when that form has no fractional part or exponent.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)

	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}
