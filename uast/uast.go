package uast

// TypeTag labels the declared type of a parameter, literal, or return value.
// The set of tags is closed: parameters draw from the first four tags; TypeVoid
// is only meaningful in return position.
type TypeTag int

// TypeUnknown is the inferred type of an expression whose type cannot be
// determined (eg. a call through a parameter name).  Unknown types never
// produce consistency violations on their own.
const TypeUnknown TypeTag = -1

// Enumeration of the different type tags.
const (
	TypeInt TypeTag = iota
	TypeFloat
	TypeBool
	TypeString
	TypeVoid
)

// typeTagNames maps each type tag to its canonical name.
var typeTagNames = map[TypeTag]string{
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeString: "string",
	TypeVoid:   "void",
}

func (tt TypeTag) String() string {
	return typeTagNames[tt]
}

// -----------------------------------------------------------------------------

// OpKind identifies an operator usable in a BinOp or UnaryOp node.
type OpKind int

// Enumeration of the binary operators followed by the unary operators.
const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAnd
	OpOr

	OpNeg
	OpNot
)

// opNames maps each operator kind to its canonical (source-level) spelling.
var opNames = map[OpKind]string{
	OpAdd:   "+",
	OpSub:   "-",
	OpMul:   "*",
	OpDiv:   "/",
	OpMod:   "%",
	OpEq:    "==",
	OpNotEq: "!=",
	OpLt:    "<",
	OpLtEq:  "<=",
	OpGt:    ">",
	OpGtEq:  ">=",
	OpAnd:   "and",
	OpOr:    "or",
	OpNeg:   "-",
	OpNot:   "not",
}

func (op OpKind) String() string {
	return opNames[op]
}

// Comparison returns whether the operator is one of the six comparison
// operators (which always yield bool regardless of operand type).
func (op OpKind) Comparison() bool {
	return OpEq <= op && op <= OpGtEq
}

// Logical returns whether the operator is `and` or `or`.
func (op OpKind) Logical() bool {
	return op == OpAnd || op == OpOr
}
