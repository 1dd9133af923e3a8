package eval

import (
	"fmt"
	"strings"
)

// interp evaluates a parsed expression tree. Function calls resolve
// through funcs, bare identifiers through vars.
type interp struct {
	funcs Registry
	vars  map[string]any
}

func (in *interp) eval(n *node) (any, error) {
	switch n.kind {
	case nodeLiteral:
		return n.val, nil
	case nodeIdent:
		if v, ok := in.vars[n.name]; ok {
			return v, nil
		}
		return nil, &UnknownVariableError{Name: n.name}
	case nodeList:
		items := make([]any, 0, len(n.children))
		for _, c := range n.children {
			v, err := in.eval(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case nodeUnary:
		return in.evalUnary(n)
	case nodeBinary:
		return in.evalBinary(n)
	case nodeCall:
		return in.evalCall(n)
	case nodeSubscript:
		return in.evalSubscript(n)
	default:
		return nil, typeErrorf("unsupported expression node %d", n.kind)
	}
}

func (in *interp) evalUnary(n *node) (any, error) {
	v, err := in.eval(n.children[0])
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "not":
		b, ok := v.(bool)
		if !ok {
			return nil, typeErrorf("'not' requires a boolean operand, got %s", typeName(v))
		}
		return !b, nil
	case "-":
		i, ok := v.(int)
		if !ok {
			return nil, typeErrorf("unary '-' requires an integer operand, got %s", typeName(v))
		}
		return -i, nil
	default:
		return nil, typeErrorf("unsupported unary operator %q", n.op)
	}
}

func (in *interp) evalBinary(n *node) (any, error) {
	// and/or short-circuit, so the right operand is evaluated lazily.
	if n.op == "and" || n.op == "or" {
		return in.evalLogical(n)
	}

	left, err := in.eval(n.children[0])
	if err != nil {
		return nil, err
	}
	right, err := in.eval(n.children[1])
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	case "in":
		return contains(left, right)
	case "not in":
		ok, err := contains(left, right)
		if err != nil {
			return nil, err
		}
		return !ok, nil
	default:
		return nil, typeErrorf("unsupported operator %q", n.op)
	}
}

func (in *interp) evalLogical(n *node) (any, error) {
	left, err := in.eval(n.children[0])
	if err != nil {
		return nil, err
	}
	lb, ok := left.(bool)
	if !ok {
		return nil, typeErrorf("%q requires boolean operands, got %s", n.op, typeName(left))
	}
	if n.op == "and" && !lb {
		return false, nil
	}
	if n.op == "or" && lb {
		return true, nil
	}

	right, err := in.eval(n.children[1])
	if err != nil {
		return nil, err
	}
	rb, ok := right.(bool)
	if !ok {
		return nil, typeErrorf("%q requires boolean operands, got %s", n.op, typeName(right))
	}
	return rb, nil
}

func (in *interp) evalCall(n *node) (any, error) {
	fn, ok := in.funcs[n.name]
	if !ok {
		return nil, &UnknownFunctionError{Name: n.name}
	}
	args := make([]any, 0, len(n.children))
	for _, c := range n.children {
		v, err := in.eval(c)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return fn(args)
}

func (in *interp) evalSubscript(n *node) (any, error) {
	target, err := in.eval(n.children[0])
	if err != nil {
		return nil, err
	}
	index, err := in.eval(n.children[1])
	if err != nil {
		return nil, err
	}

	list, ok := target.([]any)
	if !ok {
		return nil, typeErrorf("cannot index %s", typeName(target))
	}
	i, ok := index.(int)
	if !ok {
		return nil, typeErrorf("list index must be an integer, got %s", typeName(index))
	}

	j := i
	if j < 0 {
		j += len(list)
	}
	if j < 0 || j >= len(list) {
		return nil, typeErrorf("list index %d out of range (%d items)", i, len(list))
	}
	return list[j], nil
}

// valuesEqual compares two evaluated values. Lists compare
// element-wise; values of different types are unequal rather than
// an error.
func valuesEqual(a, b any) bool {
	la, aok := a.([]any)
	lb, bok := b.([]any)
	if aok || bok {
		if !aok || !bok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !valuesEqual(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// contains implements the "in" operator: substring match on strings,
// element membership on lists.
func contains(needle, haystack any) (bool, error) {
	switch h := haystack.(type) {
	case string:
		s, ok := needle.(string)
		if !ok {
			return false, typeErrorf("'in' on a string requires a string left operand, got %s", typeName(needle))
		}
		return strings.Contains(h, s), nil
	case []any:
		for _, item := range h {
			if valuesEqual(needle, item) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, typeErrorf("'in' requires a string or list right operand, got %s", typeName(haystack))
	}
}

// stringify renders an evaluated value for template substitution.
// Lists have no canonical text form and are rejected.
func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return fmt.Sprintf("%d", t), nil
	case bool:
		return fmt.Sprintf("%t", t), nil
	default:
		return "", typeErrorf("cannot substitute %s value into a template", typeName(v))
	}
}
