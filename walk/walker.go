package walk

import (
	"kielo/logging"
	"kielo/sem"
	"kielo/typing"
)

// Walker is the construct responsible for performing semantic analysis on a
// module: it checks every expression, fills in the type slot of every AST
// node, and reports type errors
type Walker struct {
	lctx *logging.LogContext

	// scopes is the stack of lexical scopes; scopes[0] is the global scope
	// pre-populated with the built-in function signatures
	scopes []map[string]*sem.Symbol

	// returnTypes is the stack of declared return types of the enclosing
	// functions; it is empty at the top level
	returnTypes []typing.DataType

	// loopFrames is the stack of enclosing loops used to check `break` and
	// `continue` and to accumulate the type carried by `break` values
	loopFrames []*loopFrame
}

// loopFrame tracks the `break` typing state of one enclosing loop
type loopFrame struct {
	// breakType is the common type of the loop's `break` values.  It is nil
	// until the loop's first `break`; a valueless `break` fixes it to Unit.
	breakType typing.DataType

	// breakPos is the position of the `break` that fixed breakType (for
	// diagnostics on later disagreeing breaks)
	breakPos *logging.TextPosition
}

// NewWalker creates a new walker whose global scope holds the built-in
// function signatures
func NewWalker(lctx *logging.LogContext) *Walker {
	return &Walker{
		lctx:   lctx,
		scopes: []map[string]*sem.Symbol{sem.NewBuiltinGlobals()},
	}
}
