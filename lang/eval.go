package lang

import (
	"context"
	"log/slog"
	"math"
	"slices"
)

// Scope holds the named bindings a program evaluates against. A name is
// bound to either a value or a function; both live in one namespace, so
// redefining a value as a function (or the reverse) replaces the prior
// binding. The zero value is not usable; construct with NewScope.
//
// A Scope persists across Evaluate calls, which is how the REPL carries
// definitions from one line to the next. It is not safe for concurrent
// use.
type Scope struct {
	bindings map[string]binding
}

// binding is either a function (fn non-nil) or a value.
type binding struct {
	fn    *Expression
	value Value
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]binding)}
}

func (s *Scope) lookup(name string) (binding, bool) {
	b, ok := s.bindings[name]

	return b, ok
}

func (s *Scope) define(name string, b binding) {
	s.bindings[name] = b
}

// Names returns the defined names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Lookup returns the value bound to name. The second result is false
// when name is unbound or names a function.
func (s *Scope) Lookup(name string) (Value, bool) {
	b, ok := s.bindings[name]
	if !ok || b.fn != nil {
		return Value{}, false
	}

	return b.value, true
}

// Function returns the abstraction or map abstraction bound to name.
// The second result is false when name is unbound or holds a value.
func (s *Scope) Function(name string) (*Expression, bool) {
	b, ok := s.bindings[name]
	if !ok || b.fn == nil {
		return nil, false
	}

	return b.fn, true
}

// Evaluate evaluates the program's statements in order against a fresh
// scope and returns the value of each expression statement. Assignments
// and function declarations update the scope and produce no value.
func (prog *Program) Evaluate(ctx context.Context) ([]Value, error) {
	return prog.EvaluateIn(ctx, NewScope())
}

// EvaluateIn evaluates the program against an existing scope, which
// accumulates any definitions the program makes.
func (prog *Program) EvaluateIn(
	ctx context.Context,
	scope *Scope,
) ([]Value, error) {
	ec := &evalContext{
		ctx:   ctx,
		scope: scope,
		opts:  prog.opts,
	}

	values := make([]Value, 0, len(prog.Statements))

	for _, stmt := range prog.Statements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, hasValue, err := ec.evalStatement(stmt)
		if err != nil {
			return nil, err
		}

		if hasValue {
			values = append(values, value)
		}

		prog.logger.TraceContext(
			ctx,
			"statement evaluated",
			slog.String("kind", stmt.Kind.String()),
			slog.Bool("has_value", hasValue),
		)
	}

	return values, nil
}

// evalContext carries the mutable evaluation state: the scope of global
// bindings, a stack of transient local bindings, and the application
// depth used to bound recursion.
type evalContext struct {
	ctx    context.Context
	scope  *Scope
	opts   options
	locals []localBinding
	depth  int
}

type localBinding struct {
	name  string
	value Value
}

func (ec *evalContext) pushLocal(name string, v Value) {
	ec.locals = append(ec.locals, localBinding{name: name, value: v})
}

func (ec *evalContext) popLocals(n int) {
	ec.locals = ec.locals[:len(ec.locals)-n]
}

// resolve looks a name up in the innermost matching local binding, then
// in the global scope. Lookup is by name alone: a body written against
// x finds a binding introduced as \vec{x}.
func (ec *evalContext) resolve(name string) (binding, bool) {
	for i := len(ec.locals) - 1; i >= 0; i-- {
		if ec.locals[i].name == name {
			return binding{value: ec.locals[i].value}, true
		}
	}

	return ec.scope.lookup(name)
}

// evalStatement evaluates one statement. Assignments bind and report no
// value; every other statement yields its value.
func (ec *evalContext) evalStatement(e *Expression) (Value, bool, error) {
	if e.Kind == KindDoubleArity && e.Op == OpAssignment {
		if err := ec.assign(e); err != nil {
			return Value{}, false, err
		}

		return Value{}, false, nil
	}

	value, err := ec.eval(e)
	if err != nil {
		return Value{}, false, err
	}

	return value, true, nil
}

// assign binds the statement's left-hand name. Function bodies are
// stored unevaluated; value bindings evaluate their right-hand side
// immediately.
func (ec *evalContext) assign(e *Expression) error {
	if e.Left.Kind != KindVariable {
		return ErrInvalidNode.With(slog.String("kind", e.Left.Kind.String()))
	}

	name := e.Left.Ident.Name

	switch e.Right.Kind {
	case KindAbstraction, KindMapAbstraction:
		ec.scope.define(name, binding{fn: e.Right})

		return nil

	default:
		value, err := ec.eval(e.Right)
		if err != nil {
			return err
		}

		ec.scope.define(name, binding{value: value})

		return nil
	}
}

func (ec *evalContext) eval(e *Expression) (Value, error) {
	switch e.Kind {
	case KindNumber:
		return NumberValue(e.Num), nil

	case KindVariable:
		return ec.evalVariable(e)

	case KindVector:
		return ec.evalVector(e)

	case KindApplication:
		return ec.evalApplication(e)

	case KindSingleArity:
		return ec.evalSingleArity(e)

	case KindDoubleArity:
		return ec.evalDoubleArity(e)

	case KindTripleArity:
		return ec.evalSum(e)

	default:
		return Value{}, ErrInvalidNode.With(
			slog.String("kind", e.Kind.String()),
		)
	}
}

func (ec *evalContext) evalVariable(e *Expression) (Value, error) {
	name := e.Ident.Name

	b, ok := ec.resolve(name)
	if !ok {
		return Value{}, ErrUndefined.With(slog.String("name", name))
	}

	if b.fn != nil {
		return Value{}, ErrOperandType.With(
			slog.String("name", name),
			slog.String("reason", "function used as a value"),
		)
	}

	return b.value, nil
}

func (ec *evalContext) evalVector(e *Expression) (Value, error) {
	items := make([]float64, 0, len(e.Items))

	for _, item := range e.Items {
		value, err := ec.eval(item)
		if err != nil {
			return Value{}, err
		}

		if value.Kind != ValueNumber {
			return Value{}, ErrOperandType.With(
				slog.String("reason", "vector items must be numbers"),
			)
		}

		items = append(items, value.Num)
	}

	return VectorValue(items...), nil
}

// evalApplication applies a user-defined function to its argument. The
// application depth is bounded so runaway recursion surfaces as an
// error instead of exhausting the stack.
func (ec *evalContext) evalApplication(e *Expression) (Value, error) {
	if err := ec.ctx.Err(); err != nil {
		return Value{}, err
	}

	if e.Left.Kind != KindVariable {
		return Value{}, ErrInvalidNode.With(
			slog.String("kind", e.Left.Kind.String()),
		)
	}

	name := e.Left.Ident.Name

	b, ok := ec.resolve(name)
	if !ok {
		return Value{}, ErrUndefined.With(slog.String("name", name))
	}

	if b.fn == nil {
		return Value{}, ErrNotAFunction.With(slog.String("name", name))
	}

	ec.depth++
	defer func() { ec.depth-- }()

	if ec.depth > ec.opts.maxDepth {
		return Value{}, ErrMaxDepthExceeded.With(
			slog.String("name", name),
			slog.Int("max_depth", ec.opts.maxDepth),
		)
	}

	arg, err := ec.eval(e.Right)
	if err != nil {
		return Value{}, err
	}

	if b.fn.Kind == KindMapAbstraction {
		return ec.applyMap(name, b.fn, arg)
	}

	ec.pushLocal(b.fn.Ident.Name, arg)
	defer ec.popLocals(1)

	return ec.eval(b.fn.Right)
}

// applyMap applies a map function element-wise over a vector argument.
// For each position the parameter name is bound to the whole vector and
// the index name to the 1-based position, so a body like x_{i} selects
// the current element.
func (ec *evalContext) applyMap(
	name string,
	fn *Expression,
	arg Value,
) (Value, error) {
	if arg.Kind != ValueVector {
		return Value{}, ErrOperandType.With(
			slog.String("name", name),
			slog.String("reason", "map function requires a vector argument"),
		)
	}

	items := make([]float64, 0, len(arg.Vec))

	for i := range arg.Vec {
		if err := ec.ctx.Err(); err != nil {
			return Value{}, err
		}

		ec.pushLocal(fn.Ident.Name, arg)
		ec.pushLocal(fn.Index, NumberValue(float64(i+1)))

		value, err := ec.eval(fn.Right)

		ec.popLocals(2)

		if err != nil {
			return Value{}, err
		}

		if value.Kind != ValueNumber {
			return Value{}, ErrOperandType.With(
				slog.String("name", name),
				slog.String("reason", "map function body must yield a number"),
			)
		}

		items = append(items, value.Num)
	}

	return VectorValue(items...), nil
}

func (ec *evalContext) evalSingleArity(e *Expression) (Value, error) {
	operand, err := ec.evalNumberOperand(e.Op, e.Left)
	if err != nil {
		return Value{}, err
	}

	var result float64

	switch e.Op {
	case OpSqrt:
		result = math.Sqrt(operand)

	case OpAbs:
		result = math.Abs(operand)

	case OpSin:
		result = math.Sin(operand)

	case OpCos:
		result = math.Cos(operand)

	case OpTan:
		result = math.Tan(operand)

	case OpLn:
		result = math.Log(operand)

	default:
		return Value{}, ErrInvalidNode.With(
			slog.String("operator", e.Op.String()),
		)
	}

	return NumberValue(result), nil
}

func (ec *evalContext) evalDoubleArity(e *Expression) (Value, error) {
	switch e.Op {
	case OpAssignment:
		// Assignment is a statement form, not an expression.
		return Value{}, ErrInvalidNode.With(
			slog.String("operator", e.Op.String()),
		)

	case OpIndex:
		return ec.evalIndex(e)

	case OpMax, OpMin, OpMod:
		left, err := ec.evalNumberOperand(e.Op, e.Left)
		if err != nil {
			return Value{}, err
		}

		right, err := ec.evalNumberOperand(e.Op, e.Right)
		if err != nil {
			return Value{}, err
		}

		switch e.Op {
		case OpMax:
			return NumberValue(math.Max(left, right)), nil

		case OpMin:
			return NumberValue(math.Min(left, right)), nil

		default:
			return NumberValue(math.Mod(left, right)), nil
		}

	default:
		left, err := ec.eval(e.Left)
		if err != nil {
			return Value{}, err
		}

		right, err := ec.eval(e.Right)
		if err != nil {
			return Value{}, err
		}

		return evalArith(e.Op, left, right)
	}
}

// evalIndex selects a vector element. Indices are 1-based and must be
// whole numbers within the vector's length.
func (ec *evalContext) evalIndex(e *Expression) (Value, error) {
	base, err := ec.eval(e.Left)
	if err != nil {
		return Value{}, err
	}

	if base.Kind != ValueVector {
		return Value{}, ErrOperandType.With(
			slog.String("operator", e.Op.String()),
			slog.String("reason", "only vectors can be indexed"),
		)
	}

	index, err := ec.evalNumberOperand(e.Op, e.Right)
	if err != nil {
		return Value{}, err
	}

	if index != math.Trunc(index) || math.IsNaN(index) {
		return Value{}, ErrIndexRange.With(
			slog.Float64("index", index),
			slog.String("reason", "index must be a whole number"),
		)
	}

	i := int(index)
	if i < 1 || i > len(base.Vec) {
		return Value{}, ErrIndexRange.With(
			slog.Int("index", i),
			slog.Int("length", len(base.Vec)),
		)
	}

	return NumberValue(base.Vec[i-1]), nil
}

// evalSum folds the summand over the loop variable, which steps by one
// from its initial value while it does not exceed the bound. An empty
// range yields 0.
func (ec *evalContext) evalSum(e *Expression) (Value, error) {
	if e.Op != OpSum {
		return Value{}, ErrInvalidNode.With(
			slog.String("operator", e.Op.String()),
		)
	}

	bind := e.Left
	if bind == nil || bind.Op != OpAssignment ||
		bind.Left == nil || bind.Left.Kind != KindVariable {
		return Value{}, ErrInvalidNode.With(
			slog.String("operator", e.Op.String()),
			slog.String("reason", "malformed loop binding"),
		)
	}

	name := bind.Left.Ident.Name

	start, err := ec.evalNumberOperand(e.Op, bind.Right)
	if err != nil {
		return Value{}, err
	}

	bound, err := ec.evalNumberOperand(e.Op, e.Mid)
	if err != nil {
		return Value{}, err
	}

	total := NumberValue(0)

	for k, first := start, true; k <= bound; k++ {
		if err := ec.ctx.Err(); err != nil {
			return Value{}, err
		}

		ec.pushLocal(name, NumberValue(k))

		value, err := ec.eval(e.Right)

		ec.popLocals(1)

		if err != nil {
			return Value{}, err
		}

		if first {
			total, first = value, false

			continue
		}

		total, err = evalArith(OpAddition, total, value)
		if err != nil {
			return Value{}, err
		}
	}

	return total, nil
}

// evalNumberOperand evaluates an operand that must be a number.
func (ec *evalContext) evalNumberOperand(
	op Operator,
	e *Expression,
) (float64, error) {
	value, err := ec.eval(e)
	if err != nil {
		return 0, err
	}

	if value.Kind != ValueNumber {
		return 0, ErrOperandType.With(
			slog.String("operator", op.String()),
			slog.String("reason", "operand must be a number"),
		)
	}

	return value.Num, nil
}

// evalArith applies a binary arithmetic operator. Numbers follow IEEE
// 754 semantics, so division by zero and domain errors propagate as
// infinities and NaN rather than failing. Vectors add and subtract
// element-wise against vectors of the same length, and scale by a
// number under multiplication or division.
func evalArith(op Operator, left, right Value) (Value, error) {
	if left.Kind == ValueNumber && right.Kind == ValueNumber {
		return NumberValue(arith(op, left.Num, right.Num)), nil
	}

	switch op {
	case OpAddition, OpSubtraction:
		if left.Kind != ValueVector || right.Kind != ValueVector {
			return Value{}, ErrOperandType.With(
				slog.String("operator", op.String()),
				slog.String("reason", "cannot mix a vector and a number"),
			)
		}

		if len(left.Vec) != len(right.Vec) {
			return Value{}, ErrVectorLength.With(
				slog.String("operator", op.String()),
				slog.Int("left_length", len(left.Vec)),
				slog.Int("right_length", len(right.Vec)),
			)
		}

		items := make([]float64, len(left.Vec))
		for i := range left.Vec {
			items[i] = arith(op, left.Vec[i], right.Vec[i])
		}

		return VectorValue(items...), nil

	case OpMultiplication:
		if left.Kind == ValueVector && right.Kind == ValueVector {
			return Value{}, ErrOperandType.With(
				slog.String("operator", op.String()),
				slog.String("reason", "cannot multiply two vectors"),
			)
		}

		scale, vec := left, right
		if left.Kind == ValueVector {
			scale, vec = right, left
		}

		items := make([]float64, len(vec.Vec))
		for i := range vec.Vec {
			items[i] = vec.Vec[i] * scale.Num
		}

		return VectorValue(items...), nil

	case OpDivision, OpFrac:
		if left.Kind != ValueVector || right.Kind != ValueNumber {
			return Value{}, ErrOperandType.With(
				slog.String("operator", op.String()),
				slog.String("reason", "only a vector divided by a number"),
			)
		}

		items := make([]float64, len(left.Vec))
		for i := range left.Vec {
			items[i] = left.Vec[i] / right.Num
		}

		return VectorValue(items...), nil

	default:
		return Value{}, ErrOperandType.With(
			slog.String("operator", op.String()),
			slog.String("reason", "operator requires number operands"),
		)
	}
}

// arith applies a binary operator to two numbers.
func arith(op Operator, left, right float64) float64 {
	switch op {
	case OpAddition:
		return left + right

	case OpSubtraction:
		return left - right

	case OpMultiplication:
		return left * right

	case OpDivision, OpFrac:
		return left / right

	case OpExponentiation:
		return math.Pow(left, right)

	default:
		return math.NaN()
	}
}
