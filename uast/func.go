package uast

// Param represents a single declared function parameter.
type Param struct {
	Name string
	Type TypeTag
}

// Function is the root node of a UAST: one named, self-contained function.  A
// Function is constructed once by the input layer, checked with
// CheckWellFormed, and then treated as immutable for the lifetime of a
// pipeline run.
type Function struct {
	Name       string
	Params     []Param
	ReturnType TypeTag
	Body       []Stmt
}

// Nullary returns whether the function takes no parameters.  Only nullary
// functions can be executed under the no-argument entry convention during
// validation.
func (fn *Function) Nullary() bool {
	return len(fn.Params) == 0
}
