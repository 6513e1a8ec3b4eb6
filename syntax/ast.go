package syntax

import (
	"kielo/logging"
	"kielo/typing"
)

// Expr is the interface for all expression nodes of the AST.  Every node
// carries its source position and a mutable type slot that is filled in by
// the walker during type checking.
type Expr interface {
	// Position should span the entire node (meaningfully)
	Position() *logging.TextPosition

	// Type returns the data type yielded by the expression.  It is nil until
	// the walker has checked the node.
	Type() typing.DataType

	// SetType fills the node's type slot
	SetType(dt typing.DataType)
}

// ExprBase is the base struct for all expression nodes
type ExprBase struct {
	pos *logging.TextPosition
	dt  typing.DataType
}

func NewExprBase(pos *logging.TextPosition) ExprBase {
	return ExprBase{pos: pos}
}

func (eb *ExprBase) Position() *logging.TextPosition {
	return eb.pos
}

func (eb *ExprBase) Type() typing.DataType {
	return eb.dt
}

func (eb *ExprBase) SetType(dt typing.DataType) {
	eb.dt = dt
}

// TextPositionOfSpan takes two positions and returns a position spanning them
func TextPositionOfSpan(start, end *logging.TextPosition) *logging.TextPosition {
	return &logging.TextPosition{
		StartLn:  start.StartLn,
		StartCol: start.StartCol,
		EndLn:    end.EndLn,
		EndCol:   end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// IntLit is an integer literal
type IntLit struct {
	ExprBase

	Value int64
}

// BoolLit is a boolean literal (`true` or `false`)
type BoolLit struct {
	ExprBase

	Value bool
}

// Identifier is a reference to a bound name
type Identifier struct {
	ExprBase

	Name string
}

// BinaryOp is the application of a binary operator.  `and` and `or` also
// parse to BinaryOps; they are distinguished during IR generation where they
// lower to conditional jumps instead of calls.
type BinaryOp struct {
	ExprBase

	Op          string
	Left, Right Expr

	// OpPos is the position of the operator token itself (for diagnostics)
	OpPos *logging.TextPosition
}

// UnaryOp is the application of a prefix operator (`-` or `not`)
type UnaryOp struct {
	ExprBase

	Op      string
	Operand Expr
}

// Assign assigns a new value to a bound name.  Assignment is
// right-associative and its target must be an identifier.
type Assign struct {
	ExprBase

	Target *Identifier
	Value  Expr
}

// IfExpr is a conditional expression.  Else may be nil, in which case the
// expression's type is Unit.
type IfExpr struct {
	ExprBase

	Cond Expr
	Then Expr
	Else Expr
}

// WhileLoop is a loop expression.  Its type is the type carried by its
// `break` values (Unit when no break carries a value).
type WhileLoop struct {
	ExprBase

	Cond Expr
	Body Expr
}

// BreakStmt exits the innermost enclosing loop, optionally carrying the
// loop's result value
type BreakStmt struct {
	ExprBase

	Value Expr
}

// ContinueStmt jumps back to the start of the innermost enclosing loop
type ContinueStmt struct {
	ExprBase
}

// VarDecl introduces a new name in the enclosing block scope.  TypeName is
// the optional declared type annotation (empty when inferred).
type VarDecl struct {
	ExprBase

	Name     string
	NamePos  *logging.TextPosition
	TypeName string
	TypePos  *logging.TextPosition
	Init     Expr
}

// Block is a `{ ... }` expression: a sequence of statements followed by an
// optional trailing result expression.  Its value is the trailing expression
// or Unit.
type Block struct {
	ExprBase

	Stmts  []Expr
	Result Expr
}

// Call is a call to a user-defined or built-in function
type Call struct {
	ExprBase

	Name    string
	NamePos *logging.TextPosition
	Args    []Expr
}

// ReturnStmt returns from the enclosing function, optionally with a value
type ReturnStmt struct {
	ExprBase

	Value Expr
}

// -----------------------------------------------------------------------------

// Param is a function parameter: a name and a type annotation
type Param struct {
	Name     string
	NamePos  *logging.TextPosition
	TypeName string
	TypePos  *logging.TextPosition
}

// FuncDef is a user-defined function
type FuncDef struct {
	Name       string
	NamePos    *logging.TextPosition
	Params     []*Param
	ReturnType string
	ReturnPos  *logging.TextPosition
	Body       *Block
}

// Module is a single compilation unit: its function definitions and the
// top-level code.  TopLevel is nil for an empty program; otherwise it is the
// implicit block formed by the top-level statements.
type Module struct {
	Funcs    []*FuncDef
	TopLevel *Block
}
