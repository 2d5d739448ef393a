package uast

// Expr represents an expression simple or complex.  All expression nodes
// implement the `Expr` interface.  The set of expression kinds is closed: no
// node kind outside this file ever reaches an emitter.
type Expr interface {
	exprNode()
}

// Literal represents a typed literal value.  Only the field selected by Type
// is meaningful.
type Literal struct {
	Type TypeTag

	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string
}

// VarRef represents a reference to a parameter or assigned variable.
type VarRef struct {
	Name string
}

// BinOp represents a binary operator application.
type BinOp struct {
	Op       OpKind
	Lhs, Rhs Expr
}

// UnaryOp represents a unary operator application (arithmetic negation or
// logical not).
type UnaryOp struct {
	Op      OpKind
	Operand Expr
}

// Call represents a call to a named function with ordered arguments.
type Call struct {
	Callee string
	Args   []Expr
}

func (l *Literal) exprNode() {}
func (v *VarRef) exprNode()  {}
func (b *BinOp) exprNode()   {}
func (u *UnaryOp) exprNode() {}
func (c *Call) exprNode()    {}

// -----------------------------------------------------------------------------

// IntLit creates an int-tagged literal.
func IntLit(v int64) *Literal {
	return &Literal{Type: TypeInt, IntVal: v}
}

// FloatLit creates a float-tagged literal.
func FloatLit(v float64) *Literal {
	return &Literal{Type: TypeFloat, FloatVal: v}
}

// BoolLit creates a bool-tagged literal.
func BoolLit(v bool) *Literal {
	return &Literal{Type: TypeBool, BoolVal: v}
}

// StringLit creates a string-tagged literal.
func StringLit(v string) *Literal {
	return &Literal{Type: TypeString, StringVal: v}
}
