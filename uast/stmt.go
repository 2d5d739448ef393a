package uast

// Stmt represents a statement in a function body.  All statement nodes
// implement the `Stmt` interface.
type Stmt interface {
	stmtNode()
}

// Assign represents an assignment to a named variable.  The first assignment
// to a name introduces it into scope; later assignments must preserve its
// inferred type.
type Assign struct {
	Target string
	Value  Expr
}

// Return represents a return statement.  Value is nil when the enclosing
// function's return type is void.
type Return struct {
	Value Expr
}

// If represents a conditional statement.  Else is nil when there is no else
// branch.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// While represents a condition-guarded loop.
type While struct {
	Cond Expr
	Body []Stmt
}

// ExprStmt represents a bare expression used as a statement (eg. a call whose
// result is discarded).
type ExprStmt struct {
	Expr Expr
}

func (a *Assign) stmtNode()   {}
func (r *Return) stmtNode()   {}
func (i *If) stmtNode()       {}
func (w *While) stmtNode()    {}
func (e *ExprStmt) stmtNode() {}
