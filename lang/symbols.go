package lang

import "slices"

// Operator tags an operator node. Core operators come from statement and
// expression syntax; the rest are control sequences dispatched through
// the symbol tables below.
type Operator int

const (
	// OpAssignment binds a value to an identifier: a = 1. Also tags the
	// loop-variable binding inside a summation.
	OpAssignment Operator = iota

	// OpIndex selects a vector element: v_{i}.
	OpIndex

	// OpExponentiation is the ^ operator.
	OpExponentiation

	// OpMultiplication is the * operator.
	OpMultiplication

	// OpDivision is the / operator.
	OpDivision

	// OpAddition is the + operator.
	OpAddition

	// OpSubtraction is the - operator.
	OpSubtraction

	// OpSum is the summation \sum_{i = a}^{b}.
	OpSum

	// OpSqrt is the square root \sqrt{x}.
	OpSqrt

	// OpAbs is the absolute value \abs{x}.
	OpAbs

	// OpSin is the sine \sin{x}.
	OpSin

	// OpCos is the cosine \cos{x}.
	OpCos

	// OpTan is the tangent \tan{x}.
	OpTan

	// OpLn is the natural logarithm \ln{x}.
	OpLn

	// OpFrac is the fraction \frac{a}{b}.
	OpFrac

	// OpMax is the maximum \max{a}{b}.
	OpMax

	// OpMin is the minimum \min{a}{b}.
	OpMin

	// OpMod is the modulo \mod{a}{b}.
	OpMod
)

// String returns the operator name.
func (op Operator) String() string {
	switch op {
	case OpAssignment:
		return "assignment"

	case OpIndex:
		return "index"

	case OpExponentiation:
		return "exponentiation"

	case OpMultiplication:
		return "multiplication"

	case OpDivision:
		return "division"

	case OpAddition:
		return "addition"

	case OpSubtraction:
		return "subtraction"

	case OpSum:
		return "sum"

	case OpSqrt:
		return "sqrt"

	case OpAbs:
		return "abs"

	case OpSin:
		return "sin"

	case OpCos:
		return "cos"

	case OpTan:
		return "tan"

	case OpLn:
		return "ln"

	case OpFrac:
		return "frac"

	case OpMax:
		return "max"

	case OpMin:
		return "min"

	case OpMod:
		return "mod"

	default:
		return "unknown"
	}
}

// Reserved control-sequence names that are part of the grammar rather
// than the symbol tables.
const (
	controlVec = "vec"
	controlSum = "sum_"
)

// Symbol tables mapping control-sequence names to operators. Lookup
// order during parsing is single, then double, then triple arity.
var (
	singleOps = map[string]Operator{
		"sqrt": OpSqrt,
		"abs":  OpAbs,
		"sin":  OpSin,
		"cos":  OpCos,
		"tan":  OpTan,
		"ln":   OpLn,
	}

	doubleOps = map[string]Operator{
		"frac": OpFrac,
		"max":  OpMax,
		"min":  OpMin,
		"mod":  OpMod,
	}

	// sum_ carries the trailing underscore because the name scanner is
	// greedy: in \sum_{i = 1} the { terminates the name.
	tripleOps = map[string]Operator{
		controlSum: OpSum,
	}
)

// Arity reports the operand count of a control-sequence name, without
// the leading backslash. The second result is false for unknown names.
func Arity(name string) (int, bool) {
	if _, ok := singleOps[name]; ok {
		return 1, true
	}

	if _, ok := doubleOps[name]; ok {
		return 2, true
	}

	if _, ok := tripleOps[name]; ok {
		return 3, true
	}

	return 0, false
}

// Symbols returns every control-sequence name the parser recognizes,
// including the reserved \vec, sorted and without the leading backslash.
func Symbols() []string {
	names := make([]string, 0, len(singleOps)+len(doubleOps)+len(tripleOps)+1)

	for name := range singleOps {
		names = append(names, name)
	}

	for name := range doubleOps {
		names = append(names, name)
	}

	for name := range tripleOps {
		names = append(names, name)
	}

	names = append(names, controlVec)

	slices.Sort(names)

	return names
}
