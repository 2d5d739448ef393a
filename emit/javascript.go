package emit

import (
	"fmt"
	"strconv"
	"strings"

	"polyglot/common"
	"polyglot/uast"
	"polyglot/util"
)

// jsEmitter renders a UAST function as JavaScript source.  JavaScript is
// dynamically typed, so declared parameter types become `TypeError` throws at
// function entry, and int-on-int division must be wrapped in `Math.trunc`
// since the native `/` always divides in floating point.
type jsEmitter struct{}

func (jsEmitter) Target() common.Target {
	return common.TargetJavaScript
}

func (jsEmitter) Emit(fn *uast.Function) (string, error) {
	g := &jsGen{w: &sourceWriter{}, types: uast.TypesOf(fn)}

	paramNames := util.Map(fn.Params, func(p uast.Param) string { return p.Name })
	g.w.line("function %s(%s) {", fn.Name, strings.Join(paramNames, ", "))

	g.w.indented(func() {
		for _, param := range fn.Params {
			g.paramCheck(param)
		}

		for _, local := range localNames(fn) {
			g.w.line("let %s;", local)
		}

		g.block(fn.Body)
	})
	g.w.line("}")

	if fn.Nullary() {
		g.w.blank()
		if fn.ReturnType == uast.TypeVoid {
			g.w.line("%s();", fn.Name)
		} else {
			g.w.line("console.log(%s());", fn.Name)
		}
	}

	return g.w.result()
}

// jsGen holds the state of a single JavaScript emission.
type jsGen struct {
	w     *sourceWriter
	types *uast.Types
}

// paramCheck emits the runtime type assertion for one declared parameter.
func (g *jsGen) paramCheck(param uast.Param) {
	var cond string
	switch param.Type {
	case uast.TypeInt:
		cond = "!Number.isInteger(" + param.Name + ")"
	case uast.TypeFloat:
		cond = "typeof " + param.Name + ` !== "number"`
	case uast.TypeBool:
		cond = "typeof " + param.Name + ` !== "boolean"`
	case uast.TypeString:
		cond = "typeof " + param.Name + ` !== "string"`
	default:
		g.w.fail(&UnsupportedNodeError{Target: common.TargetJavaScript, Kind: "Param<" + param.Type.String() + ">"})
		return
	}

	g.w.line(`if (%s) throw new TypeError("%s must be %s");`, cond, param.Name, param.Type)
}

func (g *jsGen) block(block []uast.Stmt) {
	for _, stmt := range block {
		g.stmt(stmt)
	}
}

func (g *jsGen) stmt(stmt uast.Stmt) {
	switch v := stmt.(type) {
	case *uast.Assign:
		g.w.line("%s = %s;", v.Target, g.expr(v.Value))
	case *uast.Return:
		if v.Value == nil {
			g.w.line("return;")
		} else {
			g.w.line("return %s;", g.expr(v.Value))
		}
	case *uast.If:
		g.w.line("if (%s) {", g.expr(v.Cond))
		g.w.indented(func() { g.block(v.Then) })

		if v.Else != nil {
			g.w.line("} else {")
			g.w.indented(func() { g.block(v.Else) })
		}

		g.w.line("}")
	case *uast.While:
		g.w.line("while (%s) {", g.expr(v.Cond))
		g.w.indented(func() { g.block(v.Body) })
		g.w.line("}")
	case *uast.ExprStmt:
		g.w.line("%s;", g.expr(v.Expr))
	default:
		g.w.fail(&UnsupportedNodeError{Target: common.TargetJavaScript, Kind: kindName(stmt)})
	}
}

// jsBinOps maps each binary operator to its JavaScript spelling.
var jsBinOps = map[uast.OpKind]string{
	uast.OpAdd:   "+",
	uast.OpSub:   "-",
	uast.OpMul:   "*",
	uast.OpDiv:   "/",
	uast.OpMod:   "%",
	uast.OpEq:    "===",
	uast.OpNotEq: "!==",
	uast.OpLt:    "<",
	uast.OpLtEq:  "<=",
	uast.OpGt:    ">",
	uast.OpGtEq:  ">=",
	uast.OpAnd:   "&&",
	uast.OpOr:    "||",
}

func (g *jsGen) expr(expr uast.Expr) string {
	switch v := expr.(type) {
	case *uast.Literal:
		return g.literal(v)
	case *uast.VarRef:
		return v.Name
	case *uast.BinOp:
		if g.types.IntDiv(v) {
			// Native / always yields a float; truncate toward zero to keep
			// integer-division semantics for int operands.
			return "Math.trunc(" + g.operand(v.Lhs, precMul, false) + " / " + g.operand(v.Rhs, precMul, true) + ")"
		}

		prec := binOpPrec(v.Op)
		return g.operand(v.Lhs, prec, false) + " " + jsBinOps[v.Op] + " " + g.operand(v.Rhs, prec, true)
	case *uast.UnaryOp:
		if v.Op == uast.OpNot {
			return "!" + g.operand(v.Operand, precUnary, true)
		}

		return "-" + g.operand(v.Operand, precUnary, true)
	case *uast.Call:
		args := util.Map(v.Args, g.expr)
		return v.Callee + "(" + strings.Join(args, ", ") + ")"
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetJavaScript, Kind: kindName(expr)})
	return ""
}

func (g *jsGen) operand(expr uast.Expr, parentPrec int, right bool) string {
	rendered := g.expr(expr)

	if needsParens(expr, parentPrec, right) {
		return "(" + rendered + ")"
	}

	return rendered
}

func (g *jsGen) literal(lit *uast.Literal) string {
	switch lit.Type {
	case uast.TypeInt:
		return strconv.FormatInt(lit.IntVal, 10)
	case uast.TypeFloat:
		return formatFloat(lit.FloatVal)
	case uast.TypeBool:
		if lit.BoolVal {
			return "true"
		}

		return "false"
	case uast.TypeString:
		return jsQuote(lit.StringVal)
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetJavaScript, Kind: "Literal<" + lit.Type.String() + ">"})
	return ""
}

// jsQuote renders a string as a JavaScript double-quoted literal.  Go's
// strconv.Quote cannot be reused here: it emits escapes JavaScript does not
// have (`\a` reads as a plain `a`, `\Uxxxxxxxx` is a syntax error).
func jsQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			switch {
			case strconv.IsPrint(r):
				sb.WriteRune(r)
			case r > 0xffff:
				fmt.Fprintf(&sb, `\u{%x}`, r)
			default:
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}
