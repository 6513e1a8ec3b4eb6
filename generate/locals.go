package generate

import (
	"fmt"

	"kielo/ir"
	"kielo/logging"
)

// Locals knows the memory location of every IR variable in one function's
// stack frame.  Allocation is naive: every variable gets its own 8-byte slot
// for the function's entire lifetime, indexed downward from -8(%rbp).
type Locals struct {
	varToLocation map[ir.IRVar]string
	stackUsed     int
}

// newLocals assigns a frame slot to every IR variable of the function
func newLocals(fn *ir.Function) *Locals {
	l := &Locals{varToLocation: make(map[ir.IRVar]string)}

	offset := 8
	for _, v := range collectVars(fn) {
		l.varToLocation[v] = fmt.Sprintf("-%d(%%rbp)", offset)
		offset += 8
	}

	// round the frame up to a multiple of 16 so call boundaries stay aligned
	l.stackUsed = offset - 8
	if l.stackUsed%16 != 0 {
		l.stackUsed += 8
	}

	return l
}

// Ref returns an assembly reference like `-24(%rbp)` for the memory location
// that stores the given variable
func (l *Locals) Ref(v ir.IRVar) string {
	loc, ok := l.varToLocation[v]
	if !ok {
		logging.LogFatal("assembly generation saw an unallocated IR variable: " + string(v))
	}

	return loc
}

// StackUsed returns the number of bytes of stack space needed for the frame
func (l *Locals) StackUsed() int {
	return l.stackUsed
}

// collectVars returns all IR variables used in the function in a
// deterministic order: parameters, the unit variable, then first use
func collectVars(fn *ir.Function) []ir.IRVar {
	var vars []ir.IRVar
	seen := make(map[ir.IRVar]struct{})

	add := func(v ir.IRVar) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			vars = append(vars, v)
		}
	}

	for _, p := range fn.Params {
		add(p)
	}

	add(ir.IRVar("unit"))

	for _, instr := range fn.Instructions {
		switch in := instr.(type) {
		case *ir.LoadIntConst:
			add(in.Dest)
		case *ir.LoadBoolConst:
			add(in.Dest)
		case *ir.Copy:
			add(in.Source)
			add(in.Dest)
		case *ir.Call:
			for _, a := range in.Args {
				add(a)
			}
			add(in.Dest)
		case *ir.CondJump:
			add(in.Cond)
		case *ir.Return:
			if in.HasValue {
				add(in.Source)
			}
		}
	}

	return vars
}
