package sem

import "kielo/typing"

// Operator represents a built-in operator: its surface name and its
// signature.  Kielo has a fixed operator set, so the tables are spelled out
// below.  `==` and `!=` are overloaded (they accept two Ints or two Bools), so
// they are not in the tables: the walker resolves them itself.
type Operator struct {
	// Name is the name of the operator as a string
	Name string

	// Signature is the operator's type as a function over its operands
	Signature *typing.FuncType
}

var (
	intT  = typing.PrimType(typing.PrimKindInt)
	boolT = typing.PrimType(typing.PrimKindBool)
)

// binaryFunc builds the signature of a homogeneous binary operator
func binaryFunc(operand, result typing.DataType) *typing.FuncType {
	return &typing.FuncType{Params: []typing.DataType{operand, operand}, Result: result}
}

// BinaryOperators is the table of non-overloaded binary operators
var BinaryOperators = map[string]*Operator{
	"+":   {Name: "+", Signature: binaryFunc(intT, intT)},
	"-":   {Name: "-", Signature: binaryFunc(intT, intT)},
	"*":   {Name: "*", Signature: binaryFunc(intT, intT)},
	"/":   {Name: "/", Signature: binaryFunc(intT, intT)},
	"%":   {Name: "%", Signature: binaryFunc(intT, intT)},
	"<":   {Name: "<", Signature: binaryFunc(intT, boolT)},
	"<=":  {Name: "<=", Signature: binaryFunc(intT, boolT)},
	">":   {Name: ">", Signature: binaryFunc(intT, boolT)},
	">=":  {Name: ">=", Signature: binaryFunc(intT, boolT)},
	"and": {Name: "and", Signature: binaryFunc(boolT, boolT)},
	"or":  {Name: "or", Signature: binaryFunc(boolT, boolT)},
}

// UnaryOperators is the table of unary operators
var UnaryOperators = map[string]*Operator{
	"-":   {Name: "-", Signature: &typing.FuncType{Params: []typing.DataType{intT}, Result: intT}},
	"not": {Name: "not", Signature: &typing.FuncType{Params: []typing.DataType{boolT}, Result: boolT}},
}
