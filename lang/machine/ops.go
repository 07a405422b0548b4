package machine

import (
	"math"

	"github.com/mna/gen/lang/value"
)

// add implements ADD's polymorphism: number+number, string concatenation,
// and array append. Appending to an array mutates and returns the same
// array reference rather than a copy, consistent with arrays being
// reference-typed throughout this runtime.
func add(lhs, rhs value.Value, line int, m *Machine) (value.Value, error) {
	switch l := lhs.(type) {
	case value.Number:
		r, ok := rhs.(value.Number)
		if !ok {
			return nil, m.errf(line, "Cannot add %s to a number", rhs.Type())
		}
		return l + r, nil
	case value.String:
		r, ok := rhs.(value.String)
		if !ok {
			return nil, m.errf(line, "Cannot add %s to a string", rhs.Type())
		}
		return l + r, nil
	case *value.Array:
		l.Append(rhs)
		return l, nil
	default:
		return nil, m.errf(line, "Operator + is not supported for %s", lhs.Type())
	}
}

// sub implements SUB's polymorphism: number subtraction and, for arrays,
// dropping the trailing n elements (n given by a number operand).
func sub(lhs, rhs value.Value, line int, m *Machine) (value.Value, error) {
	switch l := lhs.(type) {
	case value.Number:
		r, ok := rhs.(value.Number)
		if !ok {
			return nil, m.errf(line, "Cannot subtract %s from a number", rhs.Type())
		}
		return l - r, nil
	case *value.Array:
		r, ok := rhs.(value.Number)
		if !ok {
			return nil, m.errf(line, "Array drop-count must be a number, got %s", rhs.Type())
		}
		l.DropTrailing(int(r))
		return l, nil
	default:
		return nil, m.errf(line, "Operator - is not supported for %s", lhs.Type())
	}
}

func asNumbers(lhs, rhs value.Value, line int, m *Machine, op string) (value.Number, value.Number, error) {
	l, ok := lhs.(value.Number)
	if !ok {
		return 0, 0, m.errf(line, "Operator %s requires numbers, got %s", op, lhs.Type())
	}
	r, ok := rhs.(value.Number)
	if !ok {
		return 0, 0, m.errf(line, "Operator %s requires numbers, got %s", op, rhs.Type())
	}
	return l, r, nil
}

func mul(lhs, rhs value.Value, line int, m *Machine) (value.Value, error) {
	l, r, err := asNumbers(lhs, rhs, line, m, "*")
	if err != nil {
		return nil, err
	}
	return l * r, nil
}

// div implements true division. The divisor (rhs), not the dividend, is
// checked for zero, so both "5 / 0" and "0 / 0" are rejected.
func div(lhs, rhs value.Value, line int, m *Machine) (value.Value, error) {
	l, r, err := asNumbers(lhs, rhs, line, m, "/")
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, m.errf(line, "Division by 0")
	}
	return l / r, nil
}

func divFloor(lhs, rhs value.Value, line int, m *Machine) (value.Value, error) {
	l, r, err := asNumbers(lhs, rhs, line, m, "//")
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, m.errf(line, "Division by 0")
	}
	return value.Number(math.Floor(float64(l / r))), nil
}

func neg(v value.Value, line int, m *Machine) (value.Value, error) {
	switch v := v.(type) {
	case value.Number:
		return -v, nil
	case value.Boolean:
		return !v, nil
	default:
		return nil, m.errf(line, "Operator - or ! is not supported for %s", v.Type())
	}
}

func cmpEq(lhs, rhs value.Value) bool {
	switch l := lhs.(type) {
	case value.Number:
		r, ok := rhs.(value.Number)
		return ok && l == r
	case value.String:
		r, ok := rhs.(value.String)
		return ok && l == r
	case value.Boolean:
		r, ok := rhs.(value.Boolean)
		return ok && l == r
	case *value.Array:
		r, ok := rhs.(*value.Array)
		return ok && l == r
	case *value.Object:
		r, ok := rhs.(*value.Object)
		return ok && l == r
	case *value.Enum:
		r, ok := rhs.(*value.Enum)
		return ok && l == r
	default:
		return false
	}
}

func cmpOrder(lhs, rhs value.Value, line int, m *Machine, op string) (int, error) {
	switch l := lhs.(type) {
	case value.Number:
		r, ok := rhs.(value.Number)
		if !ok {
			return 0, m.errf(line, "Operator %s requires two numbers or two strings", op)
		}
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	case value.String:
		r, ok := rhs.(value.String)
		if !ok {
			return 0, m.errf(line, "Operator %s requires two numbers or two strings", op)
		}
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, m.errf(line, "Operator %s is not supported for %s", op, lhs.Type())
	}
}

func asBooleans(lhs, rhs value.Value, line int, m *Machine, op string) (value.Boolean, value.Boolean, error) {
	l, ok := lhs.(value.Boolean)
	if !ok {
		return false, false, m.errf(line, "Operator %s requires booleans, got %s", op, lhs.Type())
	}
	r, ok := rhs.(value.Boolean)
	if !ok {
		return false, false, m.errf(line, "Operator %s requires booleans, got %s", op, rhs.Type())
	}
	return l, r, nil
}
