package ir

import (
	"strings"

	"kielo/typing"
)

// Function is the IR of a single function: its parameters (in declaration
// order), its flat instruction list, and the side table giving the type of
// every IR variable it owns.  The entry label is implicit (the function's own
// symbol); every path through Instructions ends in a Return.
type Function struct {
	Name string

	Params []IRVar

	Instructions []Instruction

	// VarTypes is the side table mapping each of the function's IR variables
	// to its type
	VarTypes map[IRVar]typing.DataType
}

// Program is the IR of a whole compilation unit.  The synthesized `main`
// function (the module's top-level code) is always the last entry.
type Program struct {
	Functions []*Function
}

// Dump renders a function's IR one instruction per line (used by tests and
// the REPL's :ir command)
func (fn *Function) Dump() string {
	sb := strings.Builder{}

	for _, instr := range fn.Instructions {
		sb.WriteString(instr.String())
		sb.WriteRune('\n')
	}

	return sb.String()
}
