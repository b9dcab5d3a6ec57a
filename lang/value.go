package lang

import (
	"slices"
	"strings"
)

// ValueKind discriminates the result forms evaluation can produce.
type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueVector
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "Number"

	case ValueVector:
		return "Vector"

	default:
		return "Unknown"
	}
}

// Value is the result of evaluating an expression: a number or a vector
// of numbers. The zero value is the number 0.
type Value struct {
	Kind ValueKind
	Num  float64
	Vec  []float64
}

// NumberValue returns a number value.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Num: n}
}

// VectorValue returns a vector value.
func VectorValue(items ...float64) Value {
	return Value{Kind: ValueVector, Vec: items}
}

// String renders the value in source notation.
func (v Value) String() string {
	if v.Kind == ValueNumber {
		return formatFloat(v.Num)
	}

	var sb strings.Builder

	sb.WriteByte('(')

	for i, n := range v.Vec {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(formatFloat(n))
	}

	sb.WriteByte(')')

	return sb.String()
}

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	if v.Kind == ValueNumber {
		return v.Num == other.Num
	}

	return slices.Equal(v.Vec, other.Vec)
}
