package uast

import "fmt"

// CheckWellFormed structurally validates a function against the UAST
// invariants: every name reference resolves, no identifier changes type across
// assignments, a non-void function has at least one reachable return, and
// parameter names are unique.  It returns one human-readable description per
// violated invariant; an empty result means the function is safe to hand to
// the emitters.  The check is pure: it never mutates the function.
func CheckWellFormed(fn *Function) []string {
	c := &checker{fn: fn, scope: make(map[string]TypeTag)}

	c.checkParams()
	c.checkBlock(fn.Body)

	if fn.ReturnType != TypeVoid && !blockReturns(fn.Body) {
		c.violation("non-void function `%s` has no reachable return", fn.Name)
	}

	return c.violations
}

// checker holds the state of a single well-formedness pass.
type checker struct {
	// fn is the function being checked.
	fn *Function

	// scope maps every name visible so far (parameters plus assignment
	// targets, accumulated in statement order) to its inferred type.
	scope map[string]TypeTag

	// violations is the list of invariant violations found so far.
	violations []string
}

func (c *checker) violation(msg string, args ...interface{}) {
	c.violations = append(c.violations, fmt.Sprintf(msg, args...))
}

// checkParams validates parameter name uniqueness and seeds the scope with the
// declared parameter types.
func (c *checker) checkParams() {
	for _, param := range c.fn.Params {
		if _, ok := c.scope[param.Name]; ok {
			c.violation("duplicate parameter name `%s`", param.Name)
			continue
		}

		c.scope[param.Name] = param.Type
	}
}

// checkBlock checks a statement sequence in order.  Names introduced inside
// nested branches stay in scope for the statements that follow them.
func (c *checker) checkBlock(block []Stmt) {
	for _, stmt := range block {
		switch v := stmt.(type) {
		case *Assign:
			valueType := c.inferExpr(v.Value)

			if prevType, ok := c.scope[v.Target]; ok {
				if prevType != TypeUnknown && valueType != TypeUnknown && prevType != valueType {
					c.violation(
						"type-changing reassignment of `%s`: first %s, then %s",
						v.Target, prevType, valueType,
					)
				}
			} else {
				c.scope[v.Target] = valueType
			}
		case *Return:
			if c.fn.ReturnType == TypeVoid {
				if v.Value != nil {
					c.violation("void function `%s` returns a value", c.fn.Name)
					c.inferExpr(v.Value)
				}
			} else if v.Value == nil {
				c.violation("return without a value in non-void function `%s`", c.fn.Name)
			} else {
				c.inferExpr(v.Value)
			}
		case *If:
			c.inferExpr(v.Cond)
			c.checkBlock(v.Then)
			c.checkBlock(v.Else)
		case *While:
			c.inferExpr(v.Cond)
			c.checkBlock(v.Body)
		case *ExprStmt:
			c.inferExpr(v.Expr)
		}
	}
}

// inferExpr determines the type of an expression, reporting any name
// resolution violations it encounters along the way.
func (c *checker) inferExpr(expr Expr) TypeTag {
	switch v := expr.(type) {
	case *Literal:
		return v.Type
	case *VarRef:
		if typ, ok := c.scope[v.Name]; ok {
			return typ
		}

		c.violation(
			"unresolved identifier `%s`: not a parameter or prior assignment target",
			v.Name,
		)
		return TypeUnknown
	case *BinOp:
		lhsType := c.inferExpr(v.Lhs)
		rhsType := c.inferExpr(v.Rhs)

		if v.Op.Comparison() || v.Op.Logical() {
			return TypeBool
		}

		return arithmeticResult(lhsType, rhsType)
	case *UnaryOp:
		operandType := c.inferExpr(v.Operand)

		if v.Op == OpNot {
			return TypeBool
		}

		return operandType
	case *Call:
		for _, arg := range v.Args {
			c.inferExpr(arg)
		}

		// Self-recursion is the one call whose result type is known.
		if v.Callee == c.fn.Name {
			return c.fn.ReturnType
		}

		if _, ok := c.scope[v.Callee]; ok {
			return TypeUnknown
		}

		c.violation(
			"unresolved callee `%s`: not a parameter, prior assignment target, or the function itself",
			v.Callee,
		)
		return TypeUnknown
	}

	return TypeUnknown
}

// arithmeticResult computes the result type of an arithmetic binary operation:
// two ints stay int (including `/`, which is integer division on int operands),
// any float operand promotes the result to float.
func arithmeticResult(lhs, rhs TypeTag) TypeTag {
	if lhs == TypeUnknown || rhs == TypeUnknown {
		return TypeUnknown
	}

	if lhs == TypeInt && rhs == TypeInt {
		return TypeInt
	}

	if lhs == TypeFloat || rhs == TypeFloat {
		return TypeFloat
	}

	if lhs == rhs {
		return lhs
	}

	return TypeUnknown
}

// blockReturns returns whether a statement sequence contains a return
// reachable on at least one control path.  Since every branch and loop body is
// structurally feasible, this is containment of any Return node.
func blockReturns(block []Stmt) bool {
	for _, stmt := range block {
		switch v := stmt.(type) {
		case *Return:
			return true
		case *If:
			if blockReturns(v.Then) || blockReturns(v.Else) {
				return true
			}
		case *While:
			if blockReturns(v.Body) {
				return true
			}
		}
	}

	return false
}
