package lang

import (
	"encoding/json"
	"slices"
)

// MarshalJSON encodes the program as an array of statement nodes.
func (prog *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(prog.toSlice())
}

// MarshalYAML provides the statement nodes to YAML encoders.
func (prog *Program) MarshalYAML() (any, error) {
	return prog.toSlice(), nil
}

func (prog *Program) toSlice() []map[string]any {
	stmts := make([]map[string]any, len(prog.Statements))

	for i, stmt := range prog.Statements {
		stmts[i] = stmt.ToMap()
	}

	return stmts
}

// ToMap returns the expression as nested maps keyed by a kind tag, the
// form generic encoders consume. Operator nodes carry their operands in
// order under a single operands key regardless of arity.
func (e *Expression) ToMap() map[string]any {
	switch e.Kind {
	case KindNumber:
		return map[string]any{
			"kind":  kindTag(e.Kind),
			"value": e.Num,
		}

	case KindVariable:
		m := identMap(e.Ident)
		m["kind"] = kindTag(e.Kind)

		return m

	case KindApplication:
		return map[string]any{
			"kind":     kindTag(e.Kind),
			"callee":   e.Left.ToMap(),
			"argument": e.Right.ToMap(),
		}

	case KindVector:
		items := make([]any, len(e.Items))
		for i, item := range e.Items {
			items[i] = item.ToMap()
		}

		return map[string]any{
			"kind":  kindTag(e.Kind),
			"items": items,
		}

	case KindSingleArity:
		return operatorMap(e, e.Left)

	case KindDoubleArity:
		return operatorMap(e, e.Left, e.Right)

	case KindTripleArity:
		return operatorMap(e, e.Left, e.Mid, e.Right)

	case KindAbstraction:
		return map[string]any{
			"kind":      kindTag(e.Kind),
			"parameter": identMap(e.Ident),
			"body":      e.Right.ToMap(),
		}

	case KindMapAbstraction:
		return map[string]any{
			"kind":      kindTag(e.Kind),
			"parameter": identMap(e.Ident),
			"index":     e.Index,
			"body":      e.Right.ToMap(),
		}

	default:
		return map[string]any{"kind": "unknown"}
	}
}

func operatorMap(e *Expression, operands ...*Expression) map[string]any {
	items := make([]any, len(operands))
	for i, operand := range operands {
		items[i] = operand.ToMap()
	}

	return map[string]any{
		"kind":     kindTag(e.Kind),
		"operator": e.Op.String(),
		"operands": items,
	}
}

func identMap(id Identifier) map[string]any {
	m := map[string]any{"name": id.Name}

	if id.Kind == IdentVector {
		m["vector"] = true
	}

	return m
}

func kindTag(k Kind) string {
	switch k {
	case KindNumber:
		return "number"

	case KindVariable:
		return "variable"

	case KindApplication:
		return "application"

	case KindVector:
		return "vector"

	case KindSingleArity:
		return "single_arity"

	case KindDoubleArity:
		return "double_arity"

	case KindTripleArity:
		return "triple_arity"

	case KindAbstraction:
		return "abstraction"

	case KindMapAbstraction:
		return "map_abstraction"

	default:
		return "unknown"
	}
}

// ToNative returns the value as a native Go number or slice of numbers.
func (v Value) ToNative() any {
	if v.Kind == ValueVector {
		return slices.Clone(v.Vec)
	}

	return v.Num
}
