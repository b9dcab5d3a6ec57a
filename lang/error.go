package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse            = NewError("parse error")
	ErrUnknownSymbol    = NewError("unknown symbol")
	ErrReadInput        = NewError("failed to read input")
	ErrUndefined        = NewError("undefined identifier")
	ErrNotAFunction     = NewError("not a function")
	ErrOperandType      = NewError("invalid operand type")
	ErrIndexRange       = NewError("index out of range")
	ErrVectorLength     = NewError("vector length mismatch")
	ErrMaxDepthExceeded = NewError("maximum call depth exceeded")
	ErrInvalidNode      = NewError("invalid expression node")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches errors by base message, so a sentinel still matches after
// Wrap and With have copied it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// WithPosition adds source position attributes to the error.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}

// Position locates a byte in the source text.
type Position struct {
	Offset int // byte offset, from 0
	Line   int // line number, from 1
	Column int // column number, from 1
}

// ParseError reports a failed parse.
//
// Pos is the furthest position the parser reached before failing, and
// Expected lists the tokens that would have let it continue from there.
// Msg is set instead of Expected for failures that name their own cause,
// such as an unknown control sequence.
type ParseError struct {
	Pos      Position
	Source   string   // The original source input
	Snippet  string   // Snippet of the source (set by Error)
	Expected []string // Expected tokens at Pos
	Msg      string   // Description for committed failures
	err      error    // Sentinel class reported by Unwrap
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	// Write error location and description
	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))

	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}

	buf.WriteString(":\n")

	e.Snippet = e.formatSnippet()
	buf.WriteString(e.Snippet)

	if len(e.Expected) > 0 {
		exp := make([]string, 0, len(e.Expected))
		for _, tok := range e.Expected {
			exp = append(exp, strconv.Quote(tok))
		}

		slices.Sort(exp)

		buf.WriteString("\texpected: ")
		buf.WriteString(strings.Join(exp, ", "))
	}

	return buf.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error {
	if e.err != nil {
		return e.err
	}

	return ErrParse
}

// formatSnippet renders the offending source line with a column marker.
func (e *ParseError) formatSnippet() string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := lines[e.Pos.Line-1]

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// Print marker pointing to the column
	// Calculate the width needed for line number display
	lineNumWidth := len(strconv.Itoa(e.Pos.Line))
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", lineNumWidth+5)

	// Add spaces to reach the error column
	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}
