package uast

import (
	"strings"
	"testing"
)

// sumToN builds a well-formed reference function:
//
//	def sum_to(n: int) -> int:
//	    total = 0
//	    while n > 0:
//	        total = total + n
//	        n = n - 1
//	    return total
func sumToN() *Function {
	return &Function{
		Name:       "sum_to",
		Params:     []Param{{Name: "n", Type: TypeInt}},
		ReturnType: TypeInt,
		Body: []Stmt{
			&Assign{Target: "total", Value: IntLit(0)},
			&While{
				Cond: &BinOp{Op: OpGt, Lhs: &VarRef{Name: "n"}, Rhs: IntLit(0)},
				Body: []Stmt{
					&Assign{Target: "total", Value: &BinOp{Op: OpAdd, Lhs: &VarRef{Name: "total"}, Rhs: &VarRef{Name: "n"}}},
					&Assign{Target: "n", Value: &BinOp{Op: OpSub, Lhs: &VarRef{Name: "n"}, Rhs: IntLit(1)}},
				},
			},
			&Return{Value: &VarRef{Name: "total"}},
		},
	}
}

func TestCheckWellFormedAcceptsValidFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   *Function
	}{
		{"sum loop", sumToN()},
		{
			"constant return",
			&Function{
				Name:       "f",
				ReturnType: TypeInt,
				Body: []Stmt{
					&Return{Value: &BinOp{Op: OpAdd, Lhs: IntLit(1), Rhs: IntLit(2)}},
				},
			},
		},
		{
			"void function with bare call",
			&Function{
				Name:       "loop",
				Params:     []Param{{Name: "n", Type: TypeInt}},
				ReturnType: TypeVoid,
				Body: []Stmt{
					&ExprStmt{Expr: &Call{Callee: "loop", Args: []Expr{&VarRef{Name: "n"}}}},
				},
			},
		},
		{
			"return inside branch only",
			&Function{
				Name:       "sign",
				Params:     []Param{{Name: "x", Type: TypeInt}},
				ReturnType: TypeInt,
				Body: []Stmt{
					&If{
						Cond: &BinOp{Op: OpLt, Lhs: &VarRef{Name: "x"}, Rhs: IntLit(0)},
						Then: []Stmt{&Return{Value: &UnaryOp{Op: OpNeg, Operand: IntLit(1)}}},
					},
				},
			},
		},
		{
			"branch assignment visible afterwards",
			&Function{
				Name:       "clamped",
				Params:     []Param{{Name: "x", Type: TypeInt}},
				ReturnType: TypeInt,
				Body: []Stmt{
					&If{
						Cond: &BinOp{Op: OpGt, Lhs: &VarRef{Name: "x"}, Rhs: IntLit(10)},
						Then: []Stmt{&Assign{Target: "y", Value: IntLit(10)}},
						Else: []Stmt{&Assign{Target: "y", Value: &VarRef{Name: "x"}}},
					},
					&Return{Value: &VarRef{Name: "y"}},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if violations := CheckWellFormed(tc.fn); len(violations) != 0 {
				t.Fatalf("expected no violations, got %v", violations)
			}
		})
	}
}

func TestCheckWellFormedReportsViolations(t *testing.T) {
	tests := []struct {
		name    string
		fn      *Function
		contain string
	}{
		{
			"unresolved variable reference",
			&Function{
				Name:       "f",
				ReturnType: TypeInt,
				Body:       []Stmt{&Return{Value: &VarRef{Name: "y"}}},
			},
			"`y`",
		},
		{
			"unresolved callee",
			&Function{
				Name:       "f",
				ReturnType: TypeInt,
				Body: []Stmt{
					&Return{Value: &Call{Callee: "g", Args: nil}},
				},
			},
			"`g`",
		},
		{
			"type changing reassignment",
			&Function{
				Name:       "f",
				ReturnType: TypeInt,
				Body: []Stmt{
					&Assign{Target: "x", Value: IntLit(1)},
					&Assign{Target: "x", Value: FloatLit(2.5)},
					&Return{Value: IntLit(0)},
				},
			},
			"type-changing reassignment of `x`",
		},
		{
			"missing return",
			&Function{
				Name:       "f",
				Params:     []Param{{Name: "n", Type: TypeInt}},
				ReturnType: TypeInt,
				Body: []Stmt{
					&Assign{Target: "m", Value: &VarRef{Name: "n"}},
				},
			},
			"no reachable return",
		},
		{
			"duplicate parameter names",
			&Function{
				Name: "f",
				Params: []Param{
					{Name: "a", Type: TypeInt},
					{Name: "a", Type: TypeFloat},
				},
				ReturnType: TypeInt,
				Body:       []Stmt{&Return{Value: IntLit(0)}},
			},
			"duplicate parameter name `a`",
		},
		{
			"void function returning a value",
			&Function{
				Name:       "f",
				ReturnType: TypeVoid,
				Body:       []Stmt{&Return{Value: IntLit(1)}},
			},
			"void function `f` returns a value",
		},
		{
			"valueless return in non-void function",
			&Function{
				Name:       "f",
				ReturnType: TypeInt,
				Body:       []Stmt{&Return{}},
			},
			"return without a value",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations := CheckWellFormed(tc.fn)
			if len(violations) == 0 {
				t.Fatal("expected violations, got none")
			}

			for _, violation := range violations {
				if strings.Contains(violation, tc.contain) {
					return
				}
			}

			t.Fatalf("no violation mentions %q: %v", tc.contain, violations)
		})
	}
}

func TestCheckWellFormedReportsEveryViolation(t *testing.T) {
	// One function, two independent violations: both must be named.
	fn := &Function{
		Name:       "f",
		ReturnType: TypeInt,
		Body: []Stmt{
			&Assign{Target: "x", Value: &VarRef{Name: "missing"}},
		},
	}

	violations := CheckWellFormed(fn)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(violations), violations)
	}
}

func TestExprTypeInference(t *testing.T) {
	fn := sumToN()
	types := TypesOf(fn)

	tests := []struct {
		name string
		expr Expr
		want TypeTag
	}{
		{"int literal", IntLit(3), TypeInt},
		{"float literal", FloatLit(1.5), TypeFloat},
		{"parameter reference", &VarRef{Name: "n"}, TypeInt},
		{"assigned local", &VarRef{Name: "total"}, TypeInt},
		{"comparison is bool", &BinOp{Op: OpLt, Lhs: IntLit(1), Rhs: IntLit(2)}, TypeBool},
		{"int division stays int", &BinOp{Op: OpDiv, Lhs: IntLit(7), Rhs: IntLit(2)}, TypeInt},
		{"mixed division is float", &BinOp{Op: OpDiv, Lhs: IntLit(7), Rhs: FloatLit(2)}, TypeFloat},
		{"int float promotion", &BinOp{Op: OpAdd, Lhs: IntLit(1), Rhs: FloatLit(2)}, TypeFloat},
		{"not is bool", &UnaryOp{Op: OpNot, Operand: BoolLit(true)}, TypeBool},
		{"self call yields return type", &Call{Callee: "sum_to", Args: []Expr{IntLit(1)}}, TypeInt},
		{"unknown reference", &VarRef{Name: "ghost"}, TypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := types.ExprType(tc.expr); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIntDivDetection(t *testing.T) {
	types := TypesOf(&Function{Name: "f", ReturnType: TypeInt})

	intDiv := &BinOp{Op: OpDiv, Lhs: IntLit(7), Rhs: IntLit(2)}
	if !types.IntDiv(intDiv) {
		t.Fatal("7 / 2 with int operands must be integer division")
	}

	floatDiv := &BinOp{Op: OpDiv, Lhs: FloatLit(7), Rhs: IntLit(2)}
	if types.IntDiv(floatDiv) {
		t.Fatal("7.0 / 2 must not be integer division")
	}

	mul := &BinOp{Op: OpMul, Lhs: IntLit(7), Rhs: IntLit(2)}
	if types.IntDiv(mul) {
		t.Fatal("multiplication must never register as integer division")
	}
}
