package lang

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in source notation, one statement per line.
// The output is canonical: operators are spaced, redundant whitespace is
// dropped, and parentheses appear exactly where reparsing requires them,
// so formatting and reparsing yields an equal program.
func (prog *Program) Format(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var sb strings.Builder

	for _, stmt := range prog.Statements {
		writeStatement(&sb, stmt)
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return WrapError(err)
	}

	return nil
}

// FormatJSON writes the program as a JSON document. An indent of 0
// produces a compact single-line document.
func (prog *Program) FormatJSON(
	ctx context.Context,
	w io.Writer,
	indent int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		buf []byte
		err error
	)

	if indent > 0 {
		buf, err = json.MarshalIndent(prog, "", strings.Repeat(" ", indent))
	} else {
		buf, err = json.Marshal(prog)
	}

	if err != nil {
		return WrapError(err)
	}

	buf = append(buf, '\n')

	if _, err := w.Write(buf); err != nil {
		return WrapError(err)
	}

	return nil
}

// FormatYAML writes the program as a YAML document. An indent of 0
// produces flow-style output.
func (prog *Program) FormatYAML(
	ctx context.Context,
	w io.Writer,
	indent int,
) error {
	opts := make([]yaml.EncodeOption, 0, 1)

	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	buf, err := yaml.MarshalContext(ctx, prog, opts...)
	if err != nil {
		return WrapError(err)
	}

	if _, err := w.Write(buf); err != nil {
		return WrapError(err)
	}

	return nil
}

// String renders the program in source notation.
func (prog *Program) String() string {
	var sb strings.Builder

	for _, stmt := range prog.Statements {
		writeStatement(&sb, stmt)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// String renders the expression in source notation, using declaration
// form for assignments of function bodies.
func (e *Expression) String() string {
	var sb strings.Builder

	writeStatement(&sb, e)

	return sb.String()
}

// Print precedence tiers, loosest first. A node whose tier is below the
// minimum its context requires is parenthesized.
const (
	precSum = iota
	precAdditive
	precMultiplicative
	precExponent
	precIndex
	precAtom
)

func opPrec(op Operator) int {
	switch op {
	case OpAddition, OpSubtraction:
		return precAdditive

	case OpMultiplication, OpDivision:
		return precMultiplicative

	case OpExponentiation:
		return precExponent

	default:
		return precAtom
	}
}

func opToken(op Operator) string {
	switch op {
	case OpAddition:
		return "+"

	case OpSubtraction:
		return "-"

	case OpMultiplication:
		return "*"

	case OpDivision:
		return "/"

	case OpExponentiation:
		return "^"

	default:
		return "?"
	}
}

// writeStatement renders a top-level statement, with declaration sugar
// for function definitions.
func writeStatement(sb *strings.Builder, e *Expression) {
	if e.Kind == KindDoubleArity && e.Op == OpAssignment &&
		e.Left != nil && e.Left.Kind == KindVariable {
		switch e.Right.Kind {
		case KindAbstraction:
			sb.WriteString(e.Left.Ident.String())
			sb.WriteByte('(')
			sb.WriteString(e.Right.Ident.String())
			sb.WriteString(") = ")
			writeExpr(sb, e.Right.Right, precSum)

			return

		case KindMapAbstraction:
			sb.WriteString(e.Left.Ident.String())
			sb.WriteByte('(')
			sb.WriteString(e.Right.Ident.String())
			sb.WriteString(")_{")
			sb.WriteString(e.Right.Index)
			sb.WriteString("} = ")
			writeExpr(sb, e.Right.Right, precSum)

			return
		}
	}

	writeExpr(sb, e, precSum)
}

func writeExpr(sb *strings.Builder, e *Expression, min int) {
	switch e.Kind {
	case KindNumber:
		sb.WriteString(formatFloat(e.Num))

	case KindVariable:
		sb.WriteString(e.Ident.String())

	case KindVector:
		sb.WriteByte('(')

		for i, item := range e.Items {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeExpr(sb, item, precSum)
		}

		sb.WriteByte(')')

	case KindApplication:
		writeExpr(sb, e.Left, precAtom)
		sb.WriteByte('(')
		writeExpr(sb, e.Right, precSum)
		sb.WriteByte(')')

	case KindSingleArity:
		sb.WriteByte('\\')
		sb.WriteString(e.Op.String())
		writeBraced(sb, e.Left)

	case KindDoubleArity:
		writeDouble(sb, e, min)

	case KindTripleArity:
		writeSum(sb, e, min)

	case KindAbstraction:
		sb.WriteByte('(')
		sb.WriteString(e.Ident.String())
		sb.WriteString(") = ")
		writeExpr(sb, e.Right, precSum)

	case KindMapAbstraction:
		sb.WriteByte('(')
		sb.WriteString(e.Ident.String())
		sb.WriteString(")_{")
		sb.WriteString(e.Index)
		sb.WriteString("} = ")
		writeExpr(sb, e.Right, precSum)
	}
}

func writeDouble(sb *strings.Builder, e *Expression, min int) {
	switch e.Op {
	case OpAssignment:
		writeExpr(sb, e.Left, precAtom)
		sb.WriteString(" = ")
		writeExpr(sb, e.Right, precSum)

	case OpIndex:
		wrap := precIndex < min
		if wrap {
			sb.WriteByte('(')
		}

		writeExpr(sb, e.Left, precAtom)
		sb.WriteString("_{")
		writeExpr(sb, e.Right, precSum)
		sb.WriteByte('}')

		if wrap {
			sb.WriteByte(')')
		}

	case OpFrac, OpMax, OpMin, OpMod:
		sb.WriteByte('\\')
		sb.WriteString(e.Op.String())
		writeBraced(sb, e.Left)
		writeBraced(sb, e.Right)

	default:
		p := opPrec(e.Op)

		wrap := p < min
		if wrap {
			sb.WriteByte('(')
		}

		writeExpr(sb, e.Left, p)
		sb.WriteByte(' ')
		sb.WriteString(opToken(e.Op))
		sb.WriteByte(' ')
		writeExpr(sb, e.Right, p+1)

		if wrap {
			sb.WriteByte(')')
		}
	}
}

// writeSum renders a summation. The summand extends to the end of the
// expression when parsed, so a summation in any tighter context must be
// parenthesized to survive a round trip.
func writeSum(sb *strings.Builder, e *Expression, min int) {
	wrap := precSum < min
	if wrap {
		sb.WriteByte('(')
	}

	sb.WriteString(`\sum_{`)
	writeExpr(sb, e.Left, precSum)
	sb.WriteString(`}^{`)
	writeExpr(sb, e.Mid, precSum)
	sb.WriteString(`} `)
	writeExpr(sb, e.Right, precSum)

	if wrap {
		sb.WriteByte(')')
	}
}

func writeBraced(sb *strings.Builder, e *Expression) {
	sb.WriteByte('{')
	writeExpr(sb, e, precSum)
	sb.WriteByte('}')
}

// formatFloat renders a number in the shortest decimal form that parses
// back to the same value. Integral values carry no decimal point.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
