package emit

import (
	"fmt"

	"polyglot/common"
	"polyglot/uast"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// llvmEmitter renders a UAST function as textual LLVM IR.  Locals live in
// entry-block allocas so assignment maps onto store and reference onto load;
// `If` and `While` lower onto conditional branches between labeled blocks.
// Because the IR is typed, the one call form the emitter can render is
// self-recursion: any other callee has an unknown signature and reports
// UnsupportedNode.
type llvmEmitter struct{}

func (llvmEmitter) Target() common.Target {
	return common.TargetLLVM
}

// llvmTypes maps each type tag to its LLVM rendering.
var llvmTypes = map[uast.TypeTag]types.Type{
	uast.TypeInt:    types.I64,
	uast.TypeFloat:  types.Double,
	uast.TypeBool:   types.I1,
	uast.TypeString: types.I8Ptr,
	uast.TypeVoid:   types.Void,
}

func (llvmEmitter) Emit(fn *uast.Function) (string, error) {
	g := &llvmGen{
		fn:     fn,
		types:  uast.TypesOf(fn),
		mod:    ir.NewModule(),
		locals: make(map[string]*ir.InstAlloca),
	}

	params := make([]*ir.Param, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = ir.NewParam(param.Name, llvmTypes[param.Type])
	}

	g.llFunc = g.mod.NewFunc(fn.Name, llvmTypes[fn.ReturnType], params...)
	g.block = g.llFunc.NewBlock("entry")

	// Spill every parameter and local into an entry-block alloca so that the
	// whole function shares one flat scope.
	for i, param := range fn.Params {
		local := g.block.NewAlloca(llvmTypes[param.Type])
		g.block.NewStore(params[i], local)
		g.locals[param.Name] = local
	}

	for _, name := range localNames(fn) {
		typ, ok := llvmTypes[g.types.ExprType(&uast.VarRef{Name: name})]
		if !ok || typ.Equal(types.Void) {
			typ = types.I64
		}

		g.locals[name] = g.block.NewAlloca(typ)
	}

	g.genBlock(fn.Body)

	// Terminate any open fall-through path.
	if g.block.Term == nil {
		if fn.ReturnType == uast.TypeVoid {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(zeroValue(fn.ReturnType))
		}
	}

	if fn.Nullary() {
		mainFunc := g.mod.NewFunc("main", types.I32)
		mainBlock := mainFunc.NewBlock("entry")
		mainBlock.NewCall(g.llFunc)
		mainBlock.NewRet(constant.NewInt(types.I32, 0))
	}

	if g.err != nil {
		return "", g.err
	}

	return g.mod.String(), nil
}

// llvmGen holds the state of a single LLVM IR emission.
type llvmGen struct {
	fn    *uast.Function
	types *uast.Types

	mod    *ir.Module
	llFunc *ir.Func

	// block is the block instructions are currently appended to.
	block *ir.Block

	// locals maps every parameter and assignment target to its alloca.
	locals map[string]*ir.InstAlloca

	// blockCounter numbers the generated control-flow blocks so labels are
	// deterministic.
	blockCounter int

	// strCounter numbers interned string literal globals.
	strCounter int

	err error
}

func (g *llvmGen) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// appendBlock creates a new labeled block in the current function.
func (g *llvmGen) appendBlock(kind string) *ir.Block {
	g.blockCounter++
	return g.llFunc.NewBlock(fmt.Sprintf("%s.%d", kind, g.blockCounter))
}

// genBlock generates a statement sequence into the current block.  Statements
// after a return are unreachable on that path and are not generated.
func (g *llvmGen) genBlock(block []uast.Stmt) {
	for _, stmt := range block {
		if g.err != nil || g.block.Term != nil {
			return
		}

		g.genStmt(stmt)
	}
}

func (g *llvmGen) genStmt(stmt uast.Stmt) {
	switch v := stmt.(type) {
	case *uast.Assign:
		val := g.genExpr(v.Value)
		if g.err == nil {
			g.block.NewStore(val, g.locals[v.Target])
		}
	case *uast.Return:
		if v.Value == nil {
			g.block.NewRet(nil)
		} else {
			val := g.genExpr(v.Value)
			if g.err == nil {
				g.block.NewRet(g.promote(val, g.types.ExprType(v.Value), g.fn.ReturnType))
			}
		}
	case *uast.If:
		condVal := g.genExpr(v.Cond)
		if g.err != nil {
			return
		}

		thenBlock := g.appendBlock("if.then")
		endBlock := g.appendBlock("if.end")

		elseBlock := endBlock
		if v.Else != nil {
			elseBlock = g.appendBlock("if.else")
		}

		g.block.NewCondBr(condVal, thenBlock, elseBlock)

		g.block = thenBlock
		g.genBlock(v.Then)
		if g.block.Term == nil {
			g.block.NewBr(endBlock)
		}

		if v.Else != nil {
			g.block = elseBlock
			g.genBlock(v.Else)
			if g.block.Term == nil {
				g.block.NewBr(endBlock)
			}
		}

		g.block = endBlock
	case *uast.While:
		headerBlock := g.appendBlock("while.cond")
		bodyBlock := g.appendBlock("while.body")
		endBlock := g.appendBlock("while.end")

		g.block.NewBr(headerBlock)

		g.block = headerBlock
		condVal := g.genExpr(v.Cond)
		if g.err != nil {
			return
		}
		g.block.NewCondBr(condVal, bodyBlock, endBlock)

		g.block = bodyBlock
		g.genBlock(v.Body)
		if g.block.Term == nil {
			g.block.NewBr(headerBlock)
		}

		g.block = endBlock
	case *uast.ExprStmt:
		g.genExpr(v.Expr)
	default:
		g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: kindName(stmt)})
	}
}

func (g *llvmGen) genExpr(expr uast.Expr) value.Value {
	switch v := expr.(type) {
	case *uast.Literal:
		return g.genLiteral(v)
	case *uast.VarRef:
		local, ok := g.locals[v.Name]
		if !ok {
			g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: "VarRef<" + v.Name + ">"})
			return zeroValue(uast.TypeInt)
		}

		return g.block.NewLoad(local.ElemType, local)
	case *uast.BinOp:
		return g.genBinOp(v)
	case *uast.UnaryOp:
		operand := g.genExpr(v.Operand)
		if g.err != nil {
			return zeroValue(uast.TypeInt)
		}

		switch {
		case v.Op == uast.OpNot:
			return g.block.NewXor(operand, constant.NewBool(true))
		case g.types.ExprType(v.Operand) == uast.TypeFloat:
			return g.block.NewFSub(constant.NewFloat(types.Double, 0), operand)
		default:
			return g.block.NewSub(constant.NewInt(types.I64, 0), operand)
		}
	case *uast.Call:
		if v.Callee != g.fn.Name {
			g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: "Call<" + v.Callee + ">"})
			return zeroValue(uast.TypeInt)
		}

		args := make([]value.Value, len(v.Args))
		for i, arg := range v.Args {
			argVal := g.genExpr(arg)
			if g.err != nil {
				return zeroValue(uast.TypeInt)
			}

			if i < len(g.fn.Params) {
				argVal = g.promote(argVal, g.types.ExprType(arg), g.fn.Params[i].Type)
			}

			args[i] = argVal
		}

		return g.block.NewCall(g.llFunc, args...)
	}

	g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: kindName(expr)})
	return zeroValue(uast.TypeInt)
}

// intPreds and floatPreds map comparison operators onto icmp/fcmp predicates.
var intPreds = map[uast.OpKind]enum.IPred{
	uast.OpEq:    enum.IPredEQ,
	uast.OpNotEq: enum.IPredNE,
	uast.OpLt:    enum.IPredSLT,
	uast.OpLtEq:  enum.IPredSLE,
	uast.OpGt:    enum.IPredSGT,
	uast.OpGtEq:  enum.IPredSGE,
}

var floatPreds = map[uast.OpKind]enum.FPred{
	uast.OpEq:    enum.FPredOEQ,
	uast.OpNotEq: enum.FPredONE,
	uast.OpLt:    enum.FPredOLT,
	uast.OpLtEq:  enum.FPredOLE,
	uast.OpGt:    enum.FPredOGT,
	uast.OpGtEq:  enum.FPredOGE,
}

func (g *llvmGen) genBinOp(binop *uast.BinOp) value.Value {
	lhsType := g.types.ExprType(binop.Lhs)
	rhsType := g.types.ExprType(binop.Rhs)

	lhs := g.genExpr(binop.Lhs)
	rhs := g.genExpr(binop.Rhs)
	if g.err != nil {
		return zeroValue(uast.TypeInt)
	}

	if binop.Op.Logical() {
		if binop.Op == uast.OpAnd {
			return g.block.NewAnd(lhs, rhs)
		}

		return g.block.NewOr(lhs, rhs)
	}

	// Anything involving a float operand is computed in double precision.
	floating := lhsType == uast.TypeFloat || rhsType == uast.TypeFloat
	if floating {
		lhs = g.promote(lhs, lhsType, uast.TypeFloat)
		rhs = g.promote(rhs, rhsType, uast.TypeFloat)
	}

	if binop.Op.Comparison() {
		if floating {
			return g.block.NewFCmp(floatPreds[binop.Op], lhs, rhs)
		}

		return g.block.NewICmp(intPreds[binop.Op], lhs, rhs)
	}

	if lhsType == uast.TypeString || rhsType == uast.TypeString {
		g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: "BinOp<string>"})
		return zeroValue(uast.TypeInt)
	}

	if floating {
		switch binop.Op {
		case uast.OpAdd:
			return g.block.NewFAdd(lhs, rhs)
		case uast.OpSub:
			return g.block.NewFSub(lhs, rhs)
		case uast.OpMul:
			return g.block.NewFMul(lhs, rhs)
		case uast.OpDiv:
			return g.block.NewFDiv(lhs, rhs)
		case uast.OpMod:
			return g.block.NewFRem(lhs, rhs)
		}
	}

	switch binop.Op {
	case uast.OpAdd:
		return g.block.NewAdd(lhs, rhs)
	case uast.OpSub:
		return g.block.NewSub(lhs, rhs)
	case uast.OpMul:
		return g.block.NewMul(lhs, rhs)
	case uast.OpDiv:
		// Two int operands: integer division by definition.
		return g.block.NewSDiv(lhs, rhs)
	case uast.OpMod:
		return g.block.NewSRem(lhs, rhs)
	}

	g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: "BinOp<" + binop.Op.String() + ">"})
	return zeroValue(uast.TypeInt)
}

func (g *llvmGen) genLiteral(lit *uast.Literal) value.Value {
	switch lit.Type {
	case uast.TypeInt:
		return constant.NewInt(types.I64, lit.IntVal)
	case uast.TypeFloat:
		return constant.NewFloat(types.Double, lit.FloatVal)
	case uast.TypeBool:
		return constant.NewBool(lit.BoolVal)
	case uast.TypeString:
		strConst := constant.NewCharArrayFromString(lit.StringVal + "\x00")
		glob := g.mod.NewGlobalDef(fmt.Sprintf("strlit.%d", g.strCounter), strConst)
		g.strCounter++

		zero := constant.NewInt(types.I64, 0)
		return constant.NewGetElementPtr(strConst.Typ, glob, zero, zero)
	}

	g.fail(&UnsupportedNodeError{Target: common.TargetLLVM, Kind: "Literal<" + lit.Type.String() + ">"})
	return zeroValue(uast.TypeInt)
}

// promote converts an int value to double when the context expects a float.
func (g *llvmGen) promote(val value.Value, from, to uast.TypeTag) value.Value {
	if from == uast.TypeInt && to == uast.TypeFloat {
		return g.block.NewSIToFP(val, types.Double)
	}

	return val
}

// zeroValue returns the zero constant for a type tag.
func zeroValue(tag uast.TypeTag) constant.Constant {
	switch tag {
	case uast.TypeFloat:
		return constant.NewFloat(types.Double, 0)
	case uast.TypeBool:
		return constant.NewBool(false)
	case uast.TypeString:
		return constant.NewNull(types.I8Ptr)
	default:
		return constant.NewInt(types.I64, 0)
	}
}
