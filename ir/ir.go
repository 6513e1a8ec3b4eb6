package ir

import (
	"fmt"
	"strings"

	"kielo/logging"
)

// IRVar is the symbolic name of a memory location.  Each IR variable is
// owned by the function that produced it; names are unique within one
// function.
type IRVar string

func (v IRVar) String() string {
	return string(v)
}

// Instruction is the interface for all three-address IR instructions
type Instruction interface {
	fmt.Stringer

	// Pos returns the source position the instruction was generated from (nil
	// for synthetic instructions)
	Pos() *logging.TextPosition
}

// InstrBase is the base struct for all IR instructions
type InstrBase struct {
	pos *logging.TextPosition
}

func NewInstrBase(pos *logging.TextPosition) InstrBase {
	return InstrBase{pos: pos}
}

func (ib *InstrBase) Pos() *logging.TextPosition {
	return ib.pos
}

// -----------------------------------------------------------------------------

// LoadIntConst loads a constant integer into a variable
type LoadIntConst struct {
	InstrBase

	Value int64
	Dest  IRVar
}

func (in *LoadIntConst) String() string {
	return fmt.Sprintf("LoadIntConst(%d, %s)", in.Value, in.Dest)
}

// LoadBoolConst loads a constant boolean into a variable
type LoadBoolConst struct {
	InstrBase

	Value bool
	Dest  IRVar
}

func (in *LoadBoolConst) String() string {
	return fmt.Sprintf("LoadBoolConst(%t, %s)", in.Value, in.Dest)
}

// Copy copies a value between two variables
type Copy struct {
	InstrBase

	Source IRVar
	Dest   IRVar
}

func (in *Copy) String() string {
	return fmt.Sprintf("Copy(%s, %s)", in.Source, in.Dest)
}

// Call calls a function or intrinsic by name with already-materialized
// argument variables and stores the result.  User functions, built-ins, and
// lowered operators (eg. `+`, `eq_i64`, `unary_-`) all take this form.
type Call struct {
	InstrBase

	Fun  string
	Args []IRVar
	Dest IRVar
}

func (in *Call) String() string {
	args := make([]string, len(in.Args))
	for i, a := range in.Args {
		args[i] = string(a)
	}

	return fmt.Sprintf("Call(%s, [%s], %s)", in.Fun, strings.Join(args, ", "), in.Dest)
}

// Jump transfers control unconditionally to a label
type Jump struct {
	InstrBase

	Label string
}

func (in *Jump) String() string {
	return fmt.Sprintf("Jump(%s)", in.Label)
}

// CondJump transfers control to ThenLabel when Cond is true and to ElseLabel
// otherwise
type CondJump struct {
	InstrBase

	Cond      IRVar
	ThenLabel string
	ElseLabel string
}

func (in *CondJump) String() string {
	return fmt.Sprintf("CondJump(%s, %s, %s)", in.Cond, in.ThenLabel, in.ElseLabel)
}

// Label marks a jump target.  Labels are unique within a function.
type Label struct {
	InstrBase

	Name string
}

func (in *Label) String() string {
	return fmt.Sprintf("Label(%s)", in.Name)
}

// Return exits the enclosing function.  HasValue is false for Unit returns,
// in which case Source is meaningless.
type Return struct {
	InstrBase

	Source   IRVar
	HasValue bool
}

func (in *Return) String() string {
	if in.HasValue {
		return fmt.Sprintf("Return(%s)", in.Source)
	}

	return "Return()"
}
