package uast

// Types resolves the inferred types of expressions within one well-formed
// function.  Emitters use it to decide type-sensitive renderings, most
// importantly whether a `/` is integer or floating-point division.  A Types is
// read-only over its function and safe for concurrent use by multiple
// emitters.
type Types struct {
	fn *Function

	// scope maps every name the function binds to its inferred type.
	scope map[string]TypeTag
}

// TypesOf builds the type resolution table for a function.  The function is
// assumed to have passed CheckWellFormed: unresolved names simply infer as
// unknown here rather than being reported.
func TypesOf(fn *Function) *Types {
	t := &Types{fn: fn, scope: make(map[string]TypeTag)}

	for _, param := range fn.Params {
		t.scope[param.Name] = param.Type
	}

	t.bindBlock(fn.Body)
	return t
}

// bindBlock records the inferred type of every assignment target in a
// statement sequence, walking nested branches in statement order.
func (t *Types) bindBlock(block []Stmt) {
	for _, stmt := range block {
		switch v := stmt.(type) {
		case *Assign:
			if _, ok := t.scope[v.Target]; !ok {
				t.scope[v.Target] = t.ExprType(v.Value)
			}
		case *If:
			t.bindBlock(v.Then)
			t.bindBlock(v.Else)
		case *While:
			t.bindBlock(v.Body)
		}
	}
}

// ExprType returns the inferred type of an expression, or TypeUnknown when no
// type can be determined.
func (t *Types) ExprType(expr Expr) TypeTag {
	switch v := expr.(type) {
	case *Literal:
		return v.Type
	case *VarRef:
		if typ, ok := t.scope[v.Name]; ok {
			return typ
		}

		return TypeUnknown
	case *BinOp:
		if v.Op.Comparison() || v.Op.Logical() {
			return TypeBool
		}

		return arithmeticResult(t.ExprType(v.Lhs), t.ExprType(v.Rhs))
	case *UnaryOp:
		if v.Op == OpNot {
			return TypeBool
		}

		return t.ExprType(v.Operand)
	case *Call:
		if v.Callee == t.fn.Name {
			return t.fn.ReturnType
		}

		return TypeUnknown
	}

	return TypeUnknown
}

// IntDiv returns whether a division node divides two int-typed operands and
// must therefore render as integer division in every target.
func (t *Types) IntDiv(div *BinOp) bool {
	return div.Op == OpDiv &&
		t.ExprType(div.Lhs) == TypeInt &&
		t.ExprType(div.Rhs) == TypeInt
}
