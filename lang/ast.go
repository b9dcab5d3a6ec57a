package lang

import (
	"context"
	"io"
	"iter"
	"strings"

	"github.com/rogeriochaves/rubber/log"
)

// Program is the abstract syntax tree for one rubber source text: its
// top-level statements in source order. A statement is either an
// assignment (the only place the parser produces one) or a bare
// expression.
type Program struct {
	Statements []*Expression
	opts       options    // configuration options
	logger     log.Logger // structured logger
}

// All returns an iterator over the program statements in source order.
func (prog *Program) All() iter.Seq[*Expression] {
	return func(yield func(*Expression) bool) {
		for _, stmt := range prog.Statements {
			if !yield(stmt) {
				return
			}
		}
	}
}

// Identifier names a variable. Scalars and vectors share the same
// single-letter name space and are distinguished by kind: x versus
// \vec{x}.
type Identifier struct {
	Kind IdentKind
	Name string
}

// Scalar returns the identifier of a scalar variable.
func Scalar(name string) Identifier {
	return Identifier{Kind: IdentScalar, Name: name}
}

// Vec returns the identifier of a vector variable, written \vec{name}.
func Vec(name string) Identifier {
	return Identifier{Kind: IdentVector, Name: name}
}

// String returns the identifier in source syntax.
func (id Identifier) String() string {
	if id.Kind == IdentVector {
		return `\vec{` + id.Name + `}`
	}

	return id.Name
}

// IdentKind indicates the kind of identifier.
type IdentKind int

const (
	// IdentScalar represents a scalar variable name.
	IdentScalar IdentKind = iota

	// IdentVector represents a vector variable name.
	IdentVector
)

// String returns a string representation of the identifier kind.
func (k IdentKind) String() string {
	switch k {
	case IdentScalar:
		return "Scalar"

	case IdentVector:
		return "Vector"

	default:
		return "Unknown"
	}
}

// Expression is a node of the syntax tree. Which fields are set depends
// on Kind:
//
//   - KindNumber: Num
//   - KindVariable: Ident
//   - KindApplication: Left (callee), Right (argument)
//   - KindVector: Items
//   - KindSingleArity: Op, Left
//   - KindDoubleArity: Op, Left, Right
//   - KindTripleArity: Op, Left, Mid, Right
//   - KindAbstraction: Ident (parameter), Right (body)
//   - KindMapAbstraction: Ident (parameter), Index, Right (body)
type Expression struct {
	Kind  Kind
	Op    Operator
	Num   float64
	Ident Identifier
	Index string // element-index binding of a map abstraction
	Items []*Expression
	Left  *Expression
	Mid   *Expression
	Right *Expression
}

// NewNumber returns a number literal node.
func NewNumber(value float64) *Expression {
	return &Expression{Kind: KindNumber, Num: value}
}

// NewVariable returns a variable reference node.
func NewVariable(id Identifier) *Expression {
	return &Expression{Kind: KindVariable, Ident: id}
}

// NewApplication returns a function application node.
func NewApplication(callee, argument *Expression) *Expression {
	return &Expression{Kind: KindApplication, Left: callee, Right: argument}
}

// NewVector returns a vector literal node.
func NewVector(items ...*Expression) *Expression {
	return &Expression{Kind: KindVector, Items: items}
}

// NewSingleArity returns an operator node with one operand.
func NewSingleArity(op Operator, operand *Expression) *Expression {
	return &Expression{Kind: KindSingleArity, Op: op, Left: operand}
}

// NewDoubleArity returns an operator node with two operands.
func NewDoubleArity(op Operator, lhs, rhs *Expression) *Expression {
	return &Expression{Kind: KindDoubleArity, Op: op, Left: lhs, Right: rhs}
}

// NewTripleArity returns an operator node with three operands.
func NewTripleArity(op Operator, first, second, third *Expression) *Expression {
	return &Expression{
		Kind:  KindTripleArity,
		Op:    op,
		Left:  first,
		Mid:   second,
		Right: third,
	}
}

// NewAbstraction returns a function body node with one bound parameter,
// produced by declarations such as f(x) = body.
func NewAbstraction(param Identifier, body *Expression) *Expression {
	return &Expression{Kind: KindAbstraction, Ident: param, Right: body}
}

// NewMapAbstraction returns a vector-mapping function body node, produced
// by declarations such as f(\vec{x})_{i} = body. The body is evaluated
// once per element with index bound to the name index.
func NewMapAbstraction(
	param Identifier,
	index string,
	body *Expression,
) *Expression {
	return &Expression{
		Kind:  KindMapAbstraction,
		Ident: param,
		Index: index,
		Right: body,
	}
}

// Kind indicates the kind of expression node.
type Kind int

const (
	// KindNumber represents a numeric literal.
	KindNumber Kind = iota

	// KindVariable represents a reference to a scalar or vector variable.
	KindVariable

	// KindApplication represents a single-argument function call.
	KindApplication

	// KindVector represents a vector literal.
	KindVector

	// KindSingleArity represents an operator applied to one operand.
	KindSingleArity

	// KindDoubleArity represents an operator applied to two operands.
	KindDoubleArity

	// KindTripleArity represents an operator applied to three operands.
	KindTripleArity

	// KindAbstraction represents a function body with one bound parameter.
	KindAbstraction

	// KindMapAbstraction represents a function body mapped over a vector.
	KindMapAbstraction
)

// String returns a string representation of the expression kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"

	case KindVariable:
		return "Variable"

	case KindApplication:
		return "Application"

	case KindVector:
		return "Vector"

	case KindSingleArity:
		return "SingleArity"

	case KindDoubleArity:
		return "DoubleArity"

	case KindTripleArity:
		return "TripleArity"

	case KindAbstraction:
		return "Abstraction"

	case KindMapAbstraction:
		return "MapAbstraction"

	default:
		return "Unknown"
	}
}

// Walk returns an iterator over e and all of its descendants, preorder.
func (e *Expression) Walk() iter.Seq[*Expression] {
	return func(yield func(*Expression) bool) {
		e.walk(yield)
	}
}

func (e *Expression) walk(yield func(*Expression) bool) bool {
	if e == nil {
		return true
	}

	if !yield(e) {
		return false
	}

	for _, item := range e.Items {
		if !item.walk(yield) {
			return false
		}
	}

	for _, child := range []*Expression{e.Left, e.Mid, e.Right} {
		if child != nil && !child.walk(yield) {
			return false
		}
	}

	return true
}

// Equal reports whether two expression trees are structurally identical.
func (e *Expression) Equal(other *Expression) bool {
	if e == nil || other == nil {
		return e == other
	}

	if e.Kind != other.Kind ||
		e.Op != other.Op ||
		e.Num != other.Num ||
		e.Ident != other.Ident ||
		e.Index != other.Index {
		return false
	}

	if len(e.Items) != len(other.Items) {
		return false
	}

	for i, item := range e.Items {
		if !item.Equal(other.Items[i]) {
			return false
		}
	}

	return e.Left.Equal(other.Left) &&
		e.Mid.Equal(other.Mid) &&
		e.Right.Equal(other.Right)
}

// DefaultMaxDepth is the default maximum function call depth during
// evaluation. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// options holds Program configuration.
type options struct {
	maxDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*Program)

// WithMaxDepth sets the maximum function call depth for evaluation.
func WithMaxDepth(depth int) Option {
	return func(prog *Program) {
		prog.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(prog *Program) {
		prog.logger = logger
	}
}

// applyDefaults sets default option values on a Program.
func applyDefaults(prog *Program) {
	prog.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to a Program.
func applyOptions(prog *Program, opts ...Option) {
	for _, opt := range opts {
		opt(prog)
	}
}

// Print writes a formatted tree representation of the program to the
// writer.
func (prog *Program) Print(ctx context.Context, w io.Writer) {
	prog.PrintIndent(ctx, w, 0)
}

// PrintIndent writes a formatted tree representation of the program to
// the writer with the specified indentation.
func (prog *Program) PrintIndent(ctx context.Context, w io.Writer, indent int) {
	for _, stmt := range prog.Statements {
		stmt.Print(ctx, w, indent)
	}
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

// Print writes a formatted tree representation of the expression.
func (e *Expression) Print(ctx context.Context, w io.Writer, indent int) {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	switch e.Kind {
	case KindNumber:
		put("\n", prefix+e.Kind.String(), formatFloat(e.Num))

	case KindVariable:
		put("\n", prefix+e.Kind.String(), e.Ident.String())

	case KindApplication:
		put("\n", prefix+e.Kind.String())
		e.Left.Print(ctx, w, indent+1)
		e.Right.Print(ctx, w, indent+1)

	case KindVector:
		put("\n", prefix+e.Kind.String())

		for _, item := range e.Items {
			item.Print(ctx, w, indent+1)
		}

	case KindSingleArity, KindDoubleArity, KindTripleArity:
		put("\n", prefix+e.Kind.String(), e.Op.String())

		for _, child := range []*Expression{e.Left, e.Mid, e.Right} {
			if child != nil {
				child.Print(ctx, w, indent+1)
			}
		}

	case KindAbstraction:
		put("\n", prefix+e.Kind.String(), e.Ident.String())
		e.Right.Print(ctx, w, indent+1)

	case KindMapAbstraction:
		put("\n", prefix+e.Kind.String(), e.Ident.String(), e.Index)
		e.Right.Print(ctx, w, indent+1)

	default:
		put("\n", prefix+"Unknown")
	}
}
