package emit

import (
	"strconv"
	"strings"

	"polyglot/common"
	"polyglot/uast"
	"polyglot/util"
)

// latexEmitter renders a UAST function as a LaTeX algorithm block in the
// style of the `algorithm`/`algorithmic` packages: a captioned header with
// the typed parameter list, `\STATE $x \gets e$` for assignment, `\IF`/
// `\ELSE`/`\ENDIF` and `\WHILE`/`\ENDWHILE` for control flow, and `\RETURN`
// for return.  The output is typeset notation, not an executable program, so
// its validator never runs a toolchain.
type latexEmitter struct{}

func (latexEmitter) Target() common.Target {
	return common.TargetLaTeX
}

func (latexEmitter) Emit(fn *uast.Function) (string, error) {
	g := &latexGen{w: &sourceWriter{}, types: uast.TypesOf(fn)}

	params := util.Map(fn.Params, func(p uast.Param) string {
		return p.Name + " : \\mathrm{" + p.Type.String() + "}"
	})

	caption := "$" + fn.Name + "(" + strings.Join(params, ", ") + ")"
	if fn.ReturnType != uast.TypeVoid {
		caption += " \\rightarrow \\mathrm{" + fn.ReturnType.String() + "}"
	}
	caption += "$"

	g.w.line(`\begin{algorithm}`)
	g.w.line(`\caption{%s}`, caption)
	g.w.line(`\begin{algorithmic}`)
	g.block(fn.Body)
	g.w.line(`\end{algorithmic}`)
	g.w.line(`\end{algorithm}`)

	return g.w.result()
}

// latexGen holds the state of a single LaTeX emission.
type latexGen struct {
	w     *sourceWriter
	types *uast.Types
}

func (g *latexGen) block(block []uast.Stmt) {
	for _, stmt := range block {
		g.stmt(stmt)
	}
}

func (g *latexGen) stmt(stmt uast.Stmt) {
	switch v := stmt.(type) {
	case *uast.Assign:
		g.w.line(`\STATE $%s \gets %s$`, v.Target, g.expr(v.Value))
	case *uast.Return:
		if v.Value == nil {
			g.w.line(`\RETURN`)
		} else {
			g.w.line(`\RETURN $%s$`, g.expr(v.Value))
		}
	case *uast.If:
		g.w.line(`\IF{$%s$}`, g.expr(v.Cond))
		g.w.indented(func() { g.block(v.Then) })

		if v.Else != nil {
			g.w.line(`\ELSE`)
			g.w.indented(func() { g.block(v.Else) })
		}

		g.w.line(`\ENDIF`)
	case *uast.While:
		g.w.line(`\WHILE{$%s$}`, g.expr(v.Cond))
		g.w.indented(func() { g.block(v.Body) })
		g.w.line(`\ENDWHILE`)
	case *uast.ExprStmt:
		g.w.line(`\STATE $%s$`, g.expr(v.Expr))
	default:
		g.w.fail(&UnsupportedNodeError{Target: common.TargetLaTeX, Kind: kindName(stmt)})
	}
}

// latexBinOps maps each binary operator to its mathematical notation.
var latexBinOps = map[uast.OpKind]string{
	uast.OpAdd:   "+",
	uast.OpSub:   "-",
	uast.OpMul:   `\cdot`,
	uast.OpDiv:   "/",
	uast.OpMod:   `\bmod`,
	uast.OpEq:    "=",
	uast.OpNotEq: `\neq`,
	uast.OpLt:    "<",
	uast.OpLtEq:  `\leq`,
	uast.OpGt:    ">",
	uast.OpGtEq:  `\geq`,
	uast.OpAnd:   `\wedge`,
	uast.OpOr:    `\vee`,
}

func (g *latexGen) expr(expr uast.Expr) string {
	switch v := expr.(type) {
	case *uast.Literal:
		return g.literal(v)
	case *uast.VarRef:
		return v.Name
	case *uast.BinOp:
		if g.types.IntDiv(v) {
			// Integer division typesets as a floored quotient.
			return `\lfloor ` + g.expr(v.Lhs) + " / " + g.expr(v.Rhs) + ` \rfloor`
		}

		prec := binOpPrec(v.Op)
		return g.operand(v.Lhs, prec, false) + " " + latexBinOps[v.Op] + " " + g.operand(v.Rhs, prec, true)
	case *uast.UnaryOp:
		if v.Op == uast.OpNot {
			return `\neg ` + g.operand(v.Operand, precUnary, true)
		}

		return "-" + g.operand(v.Operand, precUnary, true)
	case *uast.Call:
		args := util.Map(v.Args, g.expr)
		return v.Callee + "(" + strings.Join(args, ", ") + ")"
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetLaTeX, Kind: kindName(expr)})
	return ""
}

func (g *latexGen) operand(expr uast.Expr, parentPrec int, right bool) string {
	rendered := g.expr(expr)

	if needsParens(expr, parentPrec, right) {
		return `\left(` + rendered + `\right)`
	}

	return rendered
}

func (g *latexGen) literal(lit *uast.Literal) string {
	switch lit.Type {
	case uast.TypeInt:
		return strconv.FormatInt(lit.IntVal, 10)
	case uast.TypeFloat:
		return formatFloat(lit.FloatVal)
	case uast.TypeBool:
		return `\mathrm{` + strconv.FormatBool(lit.BoolVal) + `}`
	case uast.TypeString:
		return "\\text{``" + lit.StringVal + "''}"
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetLaTeX, Kind: "Literal<" + lit.Type.String() + ">"})
	return ""
}
