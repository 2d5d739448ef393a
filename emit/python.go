package emit

import (
	"strconv"
	"strings"

	"polyglot/common"
	"polyglot/uast"
	"polyglot/util"
)

// pythonEmitter renders a UAST function as Python source.  Python is the
// reference target: its surface maps one-to-one onto the UAST except that
// integer division must be spelled `//` (bare `/` is float division) and
// declared parameter types become runtime `TypeError` checks at function
// entry.
type pythonEmitter struct{}

func (pythonEmitter) Target() common.Target {
	return common.TargetPython
}

func (pythonEmitter) Emit(fn *uast.Function) (string, error) {
	g := &pyGen{w: &sourceWriter{}, types: uast.TypesOf(fn)}

	paramNames := util.Map(fn.Params, func(p uast.Param) string { return p.Name })
	g.w.line("def %s(%s):", fn.Name, strings.Join(paramNames, ", "))

	g.w.indented(func() {
		for _, param := range fn.Params {
			g.paramCheck(param)
		}

		if len(fn.Params) == 0 && len(fn.Body) == 0 {
			g.w.line("pass")
		} else {
			g.block(fn.Body)
		}
	})

	// A nullary function gets a script entry point so the emitted file is
	// runnable as-is during validation.
	if fn.Nullary() {
		g.w.blank()
		g.w.blank()
		g.w.line(`if __name__ == "__main__":`)
		g.w.indented(func() {
			if fn.ReturnType == uast.TypeVoid {
				g.w.line("%s()", fn.Name)
			} else {
				g.w.line("print(%s())", fn.Name)
			}
		})
	}

	return g.w.result()
}

// pyGen holds the state of a single Python emission.
type pyGen struct {
	w     *sourceWriter
	types *uast.Types
}

// paramCheck emits the runtime type assertion for one declared parameter.
func (g *pyGen) paramCheck(param uast.Param) {
	var cond string
	switch param.Type {
	case uast.TypeInt:
		// bool is a subclass of int in Python, so it must be excluded
		// explicitly for an int-tagged parameter.
		cond = "not isinstance(" + param.Name + ", int) or isinstance(" + param.Name + ", bool)"
	case uast.TypeFloat:
		cond = "not isinstance(" + param.Name + ", float)"
	case uast.TypeBool:
		cond = "not isinstance(" + param.Name + ", bool)"
	case uast.TypeString:
		cond = "not isinstance(" + param.Name + ", str)"
	default:
		g.w.fail(&UnsupportedNodeError{Target: common.TargetPython, Kind: "Param<" + param.Type.String() + ">"})
		return
	}

	g.w.line("if %s:", cond)
	g.w.indented(func() {
		g.w.line(`raise TypeError("%s must be %s")`, param.Name, param.Type)
	})
}

// block emits a statement sequence, substituting `pass` for an empty one.
func (g *pyGen) block(block []uast.Stmt) {
	if len(block) == 0 {
		g.w.line("pass")
		return
	}

	for _, stmt := range block {
		g.stmt(stmt)
	}
}

func (g *pyGen) stmt(stmt uast.Stmt) {
	switch v := stmt.(type) {
	case *uast.Assign:
		g.w.line("%s = %s", v.Target, g.expr(v.Value))
	case *uast.Return:
		if v.Value == nil {
			g.w.line("return")
		} else {
			g.w.line("return %s", g.expr(v.Value))
		}
	case *uast.If:
		g.w.line("if %s:", g.expr(v.Cond))
		g.w.indented(func() { g.block(v.Then) })

		if v.Else != nil {
			g.w.line("else:")
			g.w.indented(func() { g.block(v.Else) })
		}
	case *uast.While:
		g.w.line("while %s:", g.expr(v.Cond))
		g.w.indented(func() { g.block(v.Body) })
	case *uast.ExprStmt:
		g.w.line("%s", g.expr(v.Expr))
	default:
		g.w.fail(&UnsupportedNodeError{Target: common.TargetPython, Kind: kindName(stmt)})
	}
}

// pyBinOps maps each binary operator to its Python spelling.
var pyBinOps = map[uast.OpKind]string{
	uast.OpAdd:   "+",
	uast.OpSub:   "-",
	uast.OpMul:   "*",
	uast.OpDiv:   "/",
	uast.OpMod:   "%",
	uast.OpEq:    "==",
	uast.OpNotEq: "!=",
	uast.OpLt:    "<",
	uast.OpLtEq:  "<=",
	uast.OpGt:    ">",
	uast.OpGtEq:  ">=",
	uast.OpAnd:   "and",
	uast.OpOr:    "or",
}

func (g *pyGen) expr(expr uast.Expr) string {
	switch v := expr.(type) {
	case *uast.Literal:
		return g.literal(v)
	case *uast.VarRef:
		return v.Name
	case *uast.BinOp:
		op := pyBinOps[v.Op]
		if g.types.IntDiv(v) {
			op = "//"
		}

		prec := binOpPrec(v.Op)
		return g.operand(v.Lhs, prec, false) + " " + op + " " + g.operand(v.Rhs, prec, true)
	case *uast.UnaryOp:
		if v.Op == uast.OpNot {
			return "not " + g.operand(v.Operand, precUnary, false)
		}

		return "-" + g.operand(v.Operand, precUnary, false)
	case *uast.Call:
		args := util.Map(v.Args, g.expr)
		return v.Callee + "(" + strings.Join(args, ", ") + ")"
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetPython, Kind: kindName(expr)})
	return ""
}

// operand renders a sub-expression, parenthesizing as the precedence ladder
// requires.
func (g *pyGen) operand(expr uast.Expr, parentPrec int, right bool) string {
	rendered := g.expr(expr)

	if g.needsParens(expr, parentPrec, right) {
		return "(" + rendered + ")"
	}

	return rendered
}

// needsParens applies the shared ladder with one Python deviation: `not`
// binds looser than comparisons and arithmetic here, not tighter like `!` in
// the other targets, so a `not` operand under any of those parents must be
// parenthesized to keep the operand's meaning.
func (g *pyGen) needsParens(expr uast.Expr, parentPrec int, right bool) bool {
	if u, ok := expr.(*uast.UnaryOp); ok && u.Op == uast.OpNot && parentPrec >= precCmp {
		return true
	}

	return needsParens(expr, parentPrec, right)
}

func (g *pyGen) literal(lit *uast.Literal) string {
	switch lit.Type {
	case uast.TypeInt:
		return strconv.FormatInt(lit.IntVal, 10)
	case uast.TypeFloat:
		return formatFloat(lit.FloatVal)
	case uast.TypeBool:
		if lit.BoolVal {
			return "True"
		}

		return "False"
	case uast.TypeString:
		// Every escape strconv.Quote emits (\a, \xXX, \uXXXX, \UXXXXXXXX)
		// reads identically in a Python double-quoted string.
		return strconv.Quote(lit.StringVal)
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetPython, Kind: "Literal<" + lit.Type.String() + ">"})
	return ""
}
