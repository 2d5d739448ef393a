package emit

import (
	"strconv"
	"strings"

	"polyglot/common"
	"polyglot/uast"
	"polyglot/util"
)

// cppEmitter renders a UAST function as a self-contained C++ translation unit.
// C++ is statically typed, so declared type tags map onto native primitives
// and no entry checks are needed.  Native `/` already truncates on two ints
// and promotes to double when either operand is floating, which is exactly the
// UAST division semantics.  For a nullary function the unit also contains a
// `main` that calls the function and prints its result; otherwise the unit has
// no entry point and is only compiled, never run.
type cppEmitter struct{}

func (cppEmitter) Target() common.Target {
	return common.TargetCpp
}

// cppTypes maps each type tag to its nearest C++ primitive.
var cppTypes = map[uast.TypeTag]string{
	uast.TypeInt:    "int",
	uast.TypeFloat:  "double",
	uast.TypeBool:   "bool",
	uast.TypeString: "std::string",
	uast.TypeVoid:   "void",
}

func (cppEmitter) Emit(fn *uast.Function) (string, error) {
	g := &cppGen{w: &sourceWriter{}, types: uast.TypesOf(fn)}

	g.w.line("#include <iostream>")
	g.w.line("#include <string>")
	g.w.blank()

	params := util.Map(fn.Params, func(p uast.Param) string {
		return cppTypes[p.Type] + " " + p.Name
	})
	g.w.line("%s %s(%s) {", cppTypes[fn.ReturnType], fn.Name, strings.Join(params, ", "))
	g.w.indented(func() {
		// The UAST gives the whole function one flat scope, so every local is
		// declared up front: a name first assigned inside a branch must stay
		// visible after it.
		for _, local := range localNames(fn) {
			typ, ok := cppTypes[g.types.ExprType(&uast.VarRef{Name: local})]
			if !ok {
				typ = "int"
			}

			g.w.line("%s %s{};", typ, local)
		}

		g.block(fn.Body)
	})
	g.w.line("}")

	if fn.Nullary() {
		g.w.blank()
		g.w.line("int main() {")
		g.w.indented(func() {
			if fn.ReturnType == uast.TypeVoid {
				g.w.line("%s();", fn.Name)
			} else {
				g.w.line("std::cout << %s() << std::endl;", fn.Name)
			}

			g.w.line("return 0;")
		})
		g.w.line("}")
	}

	return g.w.result()
}

// cppGen holds the state of a single C++ emission.
type cppGen struct {
	w     *sourceWriter
	types *uast.Types
}

func (g *cppGen) block(block []uast.Stmt) {
	for _, stmt := range block {
		g.stmt(stmt)
	}
}

func (g *cppGen) stmt(stmt uast.Stmt) {
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
		g.w.fail(&UnsupportedNodeError{Target: common.TargetCpp, Kind: kindName(stmt)})
	}
}

// localNames collects the assignment targets of a function that are not
// parameters, in first-assignment order.
func localNames(fn *uast.Function) []string {
	params := util.Map(fn.Params, func(p uast.Param) string { return p.Name })

	var locals []string

	var visit func(block []uast.Stmt)
	visit = func(block []uast.Stmt) {
		for _, stmt := range block {
			switch v := stmt.(type) {
			case *uast.Assign:
				if !util.Contains(params, v.Target) && !util.Contains(locals, v.Target) {
					locals = append(locals, v.Target)
				}
			case *uast.If:
				visit(v.Then)
				visit(v.Else)
			case *uast.While:
				visit(v.Body)
			}
		}
	}

	visit(fn.Body)
	return locals
}

// cppBinOps maps each binary operator to its C++ spelling.
var cppBinOps = map[uast.OpKind]string{
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
	uast.OpAnd:   "&&",
	uast.OpOr:    "||",
}

func (g *cppGen) expr(expr uast.Expr) string {
	switch v := expr.(type) {
	case *uast.Literal:
		return g.literal(v)
	case *uast.VarRef:
		return v.Name
	case *uast.BinOp:
		prec := binOpPrec(v.Op)
		return g.operand(v.Lhs, prec, false) + " " + cppBinOps[v.Op] + " " + g.operand(v.Rhs, prec, true)
	case *uast.UnaryOp:
		if v.Op == uast.OpNot {
			return "!" + g.operand(v.Operand, precUnary, true)
		}

		// Force parens on a nested negation so `-(-x)` never lexes as `--x`.
		return "-" + g.operand(v.Operand, precUnary, true)
	case *uast.Call:
		args := util.Map(v.Args, g.expr)
		return v.Callee + "(" + strings.Join(args, ", ") + ")"
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetCpp, Kind: kindName(expr)})
	return ""
}

func (g *cppGen) operand(expr uast.Expr, parentPrec int, right bool) string {
	rendered := g.expr(expr)

	if needsParens(expr, parentPrec, right) {
		return "(" + rendered + ")"
	}

	return rendered
}

func (g *cppGen) literal(lit *uast.Literal) string {
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
		// Every escape strconv.Quote emits is also a valid C++ escape
		// (\a, \xXX, and the \u/\U universal character names).
		return "std::string(" + strconv.Quote(lit.StringVal) + ")"
	}

	g.w.fail(&UnsupportedNodeError{Target: common.TargetCpp, Kind: "Literal<" + lit.Type.String() + ">"})
	return ""
}
