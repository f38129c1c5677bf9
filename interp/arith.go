package interp

import (
	"fmt"

	"github.com/codeassociates/langcore/token"
	"github.com/codeassociates/langcore/value"
)

// applyBinaryOp implements the builtin arithmetic/comparison/equality
// table of spec.md §4.3: int⊗int → int, float⊗float → float, mixed
// int/float → float, string+string → concatenation; any other pairing
// is a RuntimeError. Integer division truncates toward zero; modulo
// follows truncated-division sign (Go's native / and % for int64
// already have exactly this behavior).
func applyBinaryOp(op token.Token, left, right value.Value) (value.Value, error) {
	switch op.Type {
	case token.EQUAL_EQUAL, token.IS:
		return value.Boolean(value.Equal(left, right)), nil
	case token.BANG_EQUAL:
		return value.Boolean(!value.Equal(left, right)), nil
	}

	if op.Type == token.PLUS {
		if ls, ok := left.(value.String); ok {
			if rs, ok := right.(value.String); ok {
				return ls + rs, nil
			}
		}
	}

	lf, lIsFloat, lok := numeric(left)
	rf, rIsFloat, rok := numeric(right)
	if !lok || !rok {
		return nil, &RuntimeError{Msg: fmt.Sprintf("operator %q requires numeric operands", op.Lexeme)}
	}

	if lIsFloat || rIsFloat {
		result, err := floatOp(op, lf, rf)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	li, _ := left.(value.Integer)
	ri, _ := right.(value.Integer)
	return intOp(op, li, ri)
}

func numeric(v value.Value) (f float64, isFloat bool, ok bool) {
	switch n := v.(type) {
	case value.Integer:
		return float64(n), false, true
	case value.Float:
		return float64(n), true, true
	}
	return 0, false, false
}

func intOp(op token.Token, l, r value.Integer) (value.Value, error) {
	switch op.Type {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, &RuntimeError{Line: op.Line, Msg: "division by zero"}
		}
		return l / r, nil
	case token.PERCENT:
		if r == 0 {
			return nil, &RuntimeError{Line: op.Line, Msg: "division by zero"}
		}
		return l % r, nil
	case token.AMP:
		return l & r, nil
	case token.PIPE:
		return l | r, nil
	case token.CARET:
		return l ^ r, nil
	case token.LESS_LESS:
		return l << uint(r), nil
	case token.GREATER_GREATER:
		return l >> uint(r), nil
	case token.LESS:
		return value.Boolean(l < r), nil
	case token.LESS_EQUAL:
		return value.Boolean(l <= r), nil
	case token.GREATER:
		return value.Boolean(l > r), nil
	case token.GREATER_EQUAL:
		return value.Boolean(l >= r), nil
	}
	return nil, &RuntimeError{Line: op.Line, Msg: fmt.Sprintf("unsupported integer operator %q", op.Lexeme)}
}

func floatOp(op token.Token, l, r float64) (value.Value, error) {
	switch op.Type {
	case token.PLUS:
		return value.Float(l + r), nil
	case token.MINUS:
		return value.Float(l - r), nil
	case token.STAR:
		return value.Float(l * r), nil
	case token.SLASH:
		if r == 0 {
			return nil, &RuntimeError{Line: op.Line, Msg: "division by zero"}
		}
		return value.Float(l / r), nil
	case token.LESS:
		return value.Boolean(l < r), nil
	case token.LESS_EQUAL:
		return value.Boolean(l <= r), nil
	case token.GREATER:
		return value.Boolean(l > r), nil
	case token.GREATER_EQUAL:
		return value.Boolean(l >= r), nil
	}
	return nil, &RuntimeError{Line: op.Line, Msg: fmt.Sprintf("unsupported float operator %q", op.Lexeme)}
}

// applyCompound desugars a compound-assignment token (+= -= *= /= %=)
// into the equivalent builtin binary application against the current
// and right-hand values.
func applyCompound(op token.Token, cur, rhs value.Value) (value.Value, error) {
	var plain token.Type
	switch op.Type {
	case token.PLUS_EQUAL:
		plain = token.PLUS
	case token.MINUS_EQUAL:
		plain = token.MINUS
	case token.STAR_EQUAL:
		plain = token.STAR
	case token.SLASH_EQUAL:
		plain = token.SLASH
	case token.PERCENT_EQUAL:
		plain = token.PERCENT
	default:
		return rhs, nil
	}
	return applyBinaryOp(token.Token{Type: plain, Lexeme: plain.String(), Line: op.Line}, cur, rhs)
}
