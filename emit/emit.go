package emit

import (
	"fmt"
	"strings"

	"polyglot/common"
	"polyglot/uast"
)

// Emitter projects a well-formed UAST function into one target's source text.
// Emitters are pure and stateless: the same function always produces
// byte-identical output, and a single emitter may be used concurrently.
type Emitter interface {
	// Target returns the target this emitter renders for.
	Target() common.Target

	// Emit renders the function as source text for the emitter's target.  It
	// is total over the closed node-kind set; the only possible error is an
	// *UnsupportedNodeError for a node kind with no rendering rule.
	Emit(fn *uast.Function) (string, error)
}

// UnsupportedNodeError indicates that an emitter encountered a node kind it
// has no rendering rule for.
type UnsupportedNodeError struct {
	Target common.Target
	Kind   string
}

func (une *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("%s emitter: unsupported node kind `%s`", une.Target, une.Kind)
}

// ForTarget returns the emitter for the given target.  The second return value
// is false for targets with no emitter.
func ForTarget(target common.Target) (Emitter, bool) {
	switch target {
	case common.TargetPython:
		return pythonEmitter{}, true
	case common.TargetCpp:
		return cppEmitter{}, true
	case common.TargetJavaScript:
		return jsEmitter{}, true
	case common.TargetLaTeX:
		return latexEmitter{}, true
	case common.TargetLLVM:
		return llvmEmitter{}, true
	}

	return nil, false
}

// kindName extracts a node kind name such as `BinOp` from a UAST node value.
func kindName(node interface{}) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", node), "*uast.")
}

// -----------------------------------------------------------------------------
// The operator set shares one precedence ladder across the executable text
// targets (tightest last): `or`, `and`, comparisons, additive, multiplicative,
// unary.  The ladder matches the native precedence of the rendered operators
// in Python, C++, and JavaScript, so one parenthesization rule serves all
// three.

const (
	precOr = iota + 1
	precAnd
	precCmp
	precAdd
	precMul
	precUnary
	precAtom
)

// binOpPrec returns the precedence level of a binary operator.
func binOpPrec(op uast.OpKind) int {
	switch op {
	case uast.OpOr:
		return precOr
	case uast.OpAnd:
		return precAnd
	case uast.OpAdd, uast.OpSub:
		return precAdd
	case uast.OpMul, uast.OpDiv, uast.OpMod:
		return precMul
	default:
		return precCmp
	}
}

// exprPrec returns the precedence level of an expression node as an operand.
func exprPrec(expr uast.Expr) int {
	switch v := expr.(type) {
	case *uast.BinOp:
		return binOpPrec(v.Op)
	case *uast.UnaryOp:
		return precUnary
	default:
		return precAtom
	}
}

// needsParens returns whether an operand must be parenthesized under a parent
// of the given precedence.  All binary operators here are left-associative, so
// equal precedence forces parentheses on the right operand only — except at
// the comparison level, where equal precedence always forces parentheses
// (Python chains bare `a == b == c` with different semantics).
func needsParens(operand uast.Expr, parentPrec int, right bool) bool {
	operandPrec := exprPrec(operand)

	if operandPrec < parentPrec {
		return true
	}

	if operandPrec == parentPrec {
		return right || parentPrec == precCmp
	}

	return false
}
