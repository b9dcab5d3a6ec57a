package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rogeriochaves/rubber/lang"
)

// symbolHints describes the operands of each control sequence, keyed by
// name without the backslash. Groups are the brace-delimited operands in
// source order; the trailer is the unbraced operand that follows them
// (only summation has one).
var symbolHints = map[string]struct {
	groups  []string
	trailer string
}{
	"sqrt": {groups: []string{"x"}},
	"abs":  {groups: []string{"x"}},
	"sin":  {groups: []string{"x"}},
	"cos":  {groups: []string{"x"}},
	"tan":  {groups: []string{"x"}},
	"ln":   {groups: []string{"x"}},
	"frac": {groups: []string{"numerator", "denominator"}},
	"max":  {groups: []string{"a", "b"}},
	"min":  {groups: []string{"a", "b"}},
	"mod":  {groups: []string{"a", "b"}},
	"vec":  {groups: []string{"name"}},
	"sum_": {groups: []string{"i = start", "bound"}, trailer: "expr"},
}

// operandHintStyle styles for operand hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// controlCall represents a detected control sequence whose brace group
// contains the cursor.
type controlCall struct {
	name  string // sequence name without the backslash (e.g., "frac")
	group int    // current brace group index (0-based)
	in    bool   // true if cursor is inside a brace group
}

// functionCall represents a detected function application whose
// argument contains the cursor.
type functionCall struct {
	name string // single-letter function name
	in   bool   // true if cursor is inside the argument parentheses
}

// detectControl analyzes the input to determine whether the cursor sits
// inside a brace group belonging to a control sequence, and which group.
// It scans backward for the innermost unmatched '{', then walks over any
// completed groups before it (and the '^' between summation bounds) to
// reach the introducing backslash name. Braces that belong to a
// subscript like v_{i} have no such name and report no control.
func detectControl(input string, cursor int) controlCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to find the innermost unmatched '{'.
	depth := 0
	open := -1

scan:
	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case '}':
			depth++
		case '{':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		}
	}

	if open == -1 {
		return controlCall{}
	}

	group := 0
	pos := open

	for {
		j := skipSpacesBack(input, pos-1)

		// Summation writes '^' between its bound groups.
		if j >= 0 && input[j] == '^' {
			j = skipSpacesBack(input, j-1)
		}

		if j >= 0 && input[j] == '}' {
			// A completed group precedes this one; walk over it.
			d := 1
			j--

			for j >= 0 && d > 0 {
				switch input[j] {
				case '}':
					d++
				case '{':
					d--
				}

				j--
			}

			if d > 0 {
				return controlCall{}
			}

			group++
			pos = j + 1

			continue
		}

		// Expect the sequence name directly before the first group.
		end := j + 1
		for j >= 0 && isNameByte(input[j]) {
			j--
		}

		if j >= 0 && input[j] == '\\' && end > j+1 {
			return controlCall{name: input[j+1 : end], group: group, in: true}
		}

		return controlCall{}
	}
}

// detectCall analyzes the input to determine whether the cursor sits
// inside the argument of a function application such as f(. The
// identifier immediately before the opening parenthesis distinguishes
// an application from vector literals and plain grouping.
func detectCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	depth := 0
	open := -1

scan:
	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		}
	}

	if open == -1 {
		return functionCall{}
	}

	j := open - 1
	if j < 0 || input[j] < 'a' || input[j] > 'z' {
		return functionCall{}
	}

	// Identifiers are single letters; a preceding name character or
	// backslash means the letter belongs to a control sequence instead.
	if j > 0 && (isNameByte(input[j-1]) || input[j-1] == '\\') {
		return functionCall{}
	}

	return functionCall{name: input[j : j+1], in: true}
}

func skipSpacesBack(s string, i int) int {
	for i >= 0 && (s[i] == ' ' || s[i] == '\t') {
		i--
	}

	return i
}

func isNameByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || b == '_'
}

// operandHint renders the hint line for the construct containing the
// cursor: a control sequence's operands with the current brace group
// highlighted, or a defined function's parameter. Returns "" when the
// cursor is not inside a known construct.
func operandHint(scope *lang.Scope, input string, cursor int) string {
	if ctrl := detectControl(input, cursor); ctrl.in {
		if hint, ok := symbolHints[ctrl.name]; ok {
			return renderControlHint(ctrl.name, hint.groups, hint.trailer, ctrl.group)
		}

		return ""
	}

	if call := detectCall(input, cursor); call.in {
		if fn, ok := scope.Function(call.name); ok {
			return renderCallHint(call.name, fn)
		}
	}

	return ""
}

// renderControlHint renders a control sequence's operand groups with
// the current group highlighted.
func renderControlHint(
	name string,
	groups []string,
	trailer string,
	current int,
) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(`\` + name))

	for i, group := range groups {
		if name == "sum_" && i > 0 {
			b.WriteString(signatureStyle.Render("^"))
		}

		b.WriteString(signatureStyle.Render("{"))

		if i == current {
			b.WriteString(currentParamStyle.Render(group))
		} else {
			b.WriteString(signatureStyle.Render(group))
		}

		b.WriteString(signatureStyle.Render("}"))
	}

	if trailer != "" {
		b.WriteString(signatureStyle.Render(" " + trailer))
	}

	return b.String()
}

// renderCallHint renders a defined function's declaration shape with
// its parameter highlighted.
func renderCallHint(name string, fn *lang.Expression) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))
	b.WriteString(currentParamStyle.Render(fn.Ident.String()))
	b.WriteString(signatureStyle.Render(")"))

	if fn.Kind == lang.KindMapAbstraction {
		b.WriteString(signatureStyle.Render("_{" + fn.Index + "}"))
	}

	return b.String()
}
