package irgen

import (
	"fmt"

	"kielo/ir"
	"kielo/logging"
	"kielo/syntax"
	"kielo/typing"
)

// Generator lowers a type-checked module to IR.  It threads two pieces of
// context through the recursion: the symbol table mapping source names to IR
// variables and the stack of enclosing loops (for `break`/`continue`).
type Generator struct {
	prog *ir.Program

	// fn is the function currently being generated
	fn *ir.Function

	// varCount and labelCount are per-function counters for fresh names
	varCount   int
	labelCount int

	// unit is the function's well-known Unit variable: statements that
	// produce no value still produce `unit` to keep the model uniform
	unit ir.IRVar

	// scopes maps source variable names to IR variables
	scopes []map[string]ir.IRVar

	// loops is the LIFO of enclosing loops
	loops []*loopCtx
}

// loopCtx carries one loop's labels and its lazily-allocated result variable
// (created by the loop's first `break` with a value)
type loopCtx struct {
	startLabel string
	endLabel   string
	result     ir.IRVar
}

// NewGenerator creates a new IR generator
func NewGenerator() *Generator {
	return &Generator{prog: &ir.Program{}}
}

// Generate lowers a module: every user function followed by the synthesized
// `main` holding the module's top-level code.  The module must have been
// walked successfully first; an untyped node is an internal compiler error.
func (g *Generator) Generate(mod *syntax.Module) *ir.Program {
	for _, fd := range mod.Funcs {
		g.genFunction(fd)
	}

	g.genMain(mod.TopLevel)

	return g.prog
}

// -----------------------------------------------------------------------------

// beginFunction resets the per-function generation state
func (g *Generator) beginFunction(name string) {
	g.fn = &ir.Function{Name: name, VarTypes: make(map[ir.IRVar]typing.DataType)}
	g.varCount = 0
	g.labelCount = 0
	g.scopes = []map[string]ir.IRVar{make(map[string]ir.IRVar)}
	g.loops = nil

	g.unit = ir.IRVar("unit")
	g.fn.VarTypes[g.unit] = typing.PrimType(typing.PrimKindUnit)
}

// genFunction generates the IR for one user-defined function
func (g *Generator) genFunction(fd *syntax.FuncDef) {
	g.beginFunction(fd.Name)

	for _, param := range fd.Params {
		pt, ok := typing.PrimTypeByName(param.TypeName)
		if !ok {
			logging.LogFatal("IR generation saw an unresolved parameter type")
		}

		v := g.newVar(pt)
		g.fn.Params = append(g.fn.Params, v)
		g.declare(param.Name, v)
	}

	bodyVar := g.visit(fd.Body)

	// emit the trailing return for when control falls off the end of the
	// body; it is dead code behind any explicit `return`
	retType, _ := typing.PrimTypeByName(fd.ReturnType)
	if typing.Equals(retType, typing.PrimType(typing.PrimKindUnit)) {
		g.emit(&ir.Return{InstrBase: ir.NewInstrBase(nil), Source: g.unit, HasValue: false})
	} else {
		g.emit(&ir.Return{InstrBase: ir.NewInstrBase(nil), Source: bodyVar, HasValue: true})
	}

	g.prog.Functions = append(g.prog.Functions, g.fn)
}

// genMain synthesizes the `main` function from the module's top-level code
func (g *Generator) genMain(topLevel *syntax.Block) {
	g.beginFunction("main")

	if topLevel != nil {
		g.visit(topLevel)
	}

	g.emit(&ir.Return{InstrBase: ir.NewInstrBase(nil), Source: g.unit, HasValue: false})

	g.prog.Functions = append(g.prog.Functions, g.fn)
}

// -----------------------------------------------------------------------------

// visit lowers one expression and returns the IR variable holding its value
func (g *Generator) visit(expr syntax.Expr) ir.IRVar {
	if expr.Type() == nil {
		logging.LogFatal("IR generation visited an untyped AST node")
	}

	pos := expr.Position()

	switch v := expr.(type) {
	case *syntax.IntLit:
		dest := g.newVar(v.Type())
		g.emit(&ir.LoadIntConst{InstrBase: ir.NewInstrBase(pos), Value: v.Value, Dest: dest})
		return dest
	case *syntax.BoolLit:
		dest := g.newVar(v.Type())
		g.emit(&ir.LoadBoolConst{InstrBase: ir.NewInstrBase(pos), Value: v.Value, Dest: dest})
		return dest
	case *syntax.Identifier:
		return g.lookup(v.Name)
	case *syntax.BinaryOp:
		if v.Op == "and" || v.Op == "or" {
			return g.visitShortCircuit(v)
		}

		left := g.visit(v.Left)
		right := g.visit(v.Right)

		dest := g.newVar(v.Type())
		g.emit(&ir.Call{
			InstrBase: ir.NewInstrBase(pos),
			Fun:       binaryCallee(v.Op, v.Left.Type()),
			Args:      []ir.IRVar{left, right},
			Dest:      dest,
		})
		return dest
	case *syntax.UnaryOp:
		operand := g.visit(v.Operand)

		callee := "not"
		if v.Op == "-" {
			callee = "unary_-"
		}

		dest := g.newVar(v.Type())
		g.emit(&ir.Call{InstrBase: ir.NewInstrBase(pos), Fun: callee, Args: []ir.IRVar{operand}, Dest: dest})
		return dest
	case *syntax.Assign:
		value := g.visit(v.Value)
		target := g.lookup(v.Target.Name)
		g.emit(&ir.Copy{InstrBase: ir.NewInstrBase(pos), Source: value, Dest: target})
		return target
	case *syntax.VarDecl:
		init := g.visit(v.Init)

		dest := g.newVar(v.Init.Type())
		g.declare(v.Name, dest)
		g.emit(&ir.Copy{InstrBase: ir.NewInstrBase(pos), Source: init, Dest: dest})
		return g.unit
	case *syntax.Block:
		g.pushScope()
		defer g.popScope()

		for _, stmt := range v.Stmts {
			g.visit(stmt)
		}

		if v.Result == nil {
			return g.unit
		}

		return g.visit(v.Result)
	case *syntax.IfExpr:
		return g.visitIf(v)
	case *syntax.WhileLoop:
		return g.visitWhile(v)
	case *syntax.BreakStmt:
		if len(g.loops) == 0 {
			logging.LogFatal("IR generation saw a break outside of a loop")
		}

		loop := g.loops[len(g.loops)-1]
		if v.Value != nil {
			value := g.visit(v.Value)
			if loop.result == "" {
				loop.result = g.newVar(v.Value.Type())
			}

			g.emit(&ir.Copy{InstrBase: ir.NewInstrBase(pos), Source: value, Dest: loop.result})
		}

		g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: loop.endLabel})
		return g.unit
	case *syntax.ContinueStmt:
		if len(g.loops) == 0 {
			logging.LogFatal("IR generation saw a continue outside of a loop")
		}

		g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: g.loops[len(g.loops)-1].startLabel})
		return g.unit
	case *syntax.Call:
		args := make([]ir.IRVar, len(v.Args))
		for i, arg := range v.Args {
			args[i] = g.visit(arg)
		}

		dest := g.newVar(v.Type())
		g.emit(&ir.Call{InstrBase: ir.NewInstrBase(pos), Fun: v.Name, Args: args, Dest: dest})
		return dest
	case *syntax.ReturnStmt:
		if v.Value != nil {
			value := g.visit(v.Value)
			g.emit(&ir.Return{InstrBase: ir.NewInstrBase(pos), Source: value, HasValue: true})
		} else {
			g.emit(&ir.Return{InstrBase: ir.NewInstrBase(pos), Source: g.unit, HasValue: false})
		}

		return g.unit
	default:
		logging.LogFatal("IR generation visited an unsupported expression node")
		return g.unit
	}
}

// visitShortCircuit lowers `and`/`or` to conditional jumps so the right
// operand is only evaluated when it can affect the result
func (g *Generator) visitShortCircuit(v *syntax.BinaryOp) ir.IRVar {
	pos := v.Position()

	dest := g.newVar(v.Type())
	left := g.visit(v.Left)

	rightLabel := g.newLabel()
	skipLabel := g.newLabel()
	endLabel := g.newLabel()

	if v.Op == "and" {
		// false left operand decides an `and` without evaluating the right
		g.emit(&ir.CondJump{InstrBase: ir.NewInstrBase(pos), Cond: left, ThenLabel: rightLabel, ElseLabel: skipLabel})
	} else {
		// true left operand decides an `or`
		g.emit(&ir.CondJump{InstrBase: ir.NewInstrBase(pos), Cond: left, ThenLabel: skipLabel, ElseLabel: rightLabel})
	}

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: rightLabel})
	right := g.visit(v.Right)
	g.emit(&ir.Copy{InstrBase: ir.NewInstrBase(pos), Source: right, Dest: dest})
	g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: endLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: skipLabel})
	g.emit(&ir.LoadBoolConst{InstrBase: ir.NewInstrBase(pos), Value: v.Op == "or", Dest: dest})
	g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: endLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: endLabel})
	return dest
}

// visitIf lowers a conditional; when the branches produce values, each branch
// copies its value into a fresh merged destination before jumping to the end
func (g *Generator) visitIf(v *syntax.IfExpr) ir.IRVar {
	pos := v.Position()
	cond := g.visit(v.Cond)

	if v.Else == nil {
		thenLabel := g.newLabel()
		endLabel := g.newLabel()

		g.emit(&ir.CondJump{InstrBase: ir.NewInstrBase(pos), Cond: cond, ThenLabel: thenLabel, ElseLabel: endLabel})
		g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: thenLabel})
		g.visit(v.Then)
		g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: endLabel})
		g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: endLabel})

		return g.unit
	}

	merge := !typing.Equals(v.Type(), typing.PrimType(typing.PrimKindUnit))

	var dest ir.IRVar = g.unit
	if merge {
		dest = g.newVar(v.Type())
	}

	thenLabel := g.newLabel()
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(&ir.CondJump{InstrBase: ir.NewInstrBase(pos), Cond: cond, ThenLabel: thenLabel, ElseLabel: elseLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: thenLabel})
	thenVar := g.visit(v.Then)
	if merge {
		g.emit(&ir.Copy{InstrBase: ir.NewInstrBase(pos), Source: thenVar, Dest: dest})
	}
	g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: endLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: elseLabel})
	elseVar := g.visit(v.Else)
	if merge {
		g.emit(&ir.Copy{InstrBase: ir.NewInstrBase(pos), Source: elseVar, Dest: dest})
	}
	g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: endLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: endLabel})
	return dest
}

// visitWhile lowers a loop, pushing its label pair for `break`/`continue`
func (g *Generator) visitWhile(v *syntax.WhileLoop) ir.IRVar {
	pos := v.Position()

	startLabel := g.newLabel()
	bodyLabel := g.newLabel()
	endLabel := g.newLabel()

	loop := &loopCtx{startLabel: startLabel, endLabel: endLabel}
	g.loops = append(g.loops, loop)

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: startLabel})
	cond := g.visit(v.Cond)
	g.emit(&ir.CondJump{InstrBase: ir.NewInstrBase(pos), Cond: cond, ThenLabel: bodyLabel, ElseLabel: endLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: bodyLabel})
	g.visit(v.Body)
	g.emit(&ir.Jump{InstrBase: ir.NewInstrBase(pos), Label: startLabel})

	g.emit(&ir.Label{InstrBase: ir.NewInstrBase(pos), Name: endLabel})

	g.loops = g.loops[:len(g.loops)-1]

	if loop.result != "" {
		return loop.result
	}

	return g.unit
}

// -----------------------------------------------------------------------------

// binaryCallee maps a binary operator to its canonical IR callee name.
// Equality is specialized by operand type so the assembly generator has no
// polymorphism left to resolve.
func binaryCallee(op string, operandType typing.DataType) string {
	isBool := typing.Equals(operandType, typing.PrimType(typing.PrimKindBool))

	switch op {
	case "==":
		if isBool {
			return "eq_bool"
		}

		return "eq_i64"
	case "!=":
		if isBool {
			return "ne_bool"
		}

		return "ne_i64"
	default:
		return op
	}
}

// emit appends an instruction to the current function
func (g *Generator) emit(instr ir.Instruction) {
	g.fn.Instructions = append(g.fn.Instructions, instr)
}

// newVar produces a fresh IR variable of the given type
func (g *Generator) newVar(t typing.DataType) ir.IRVar {
	g.varCount++
	v := ir.IRVar(fmt.Sprintf("x%d", g.varCount))
	g.fn.VarTypes[v] = t
	return v
}

// newLabel produces a fresh function-unique label name
func (g *Generator) newLabel() string {
	g.labelCount++
	return fmt.Sprintf("L%d", g.labelCount)
}

// -----------------------------------------------------------------------------

// lookup resolves a source name to its IR variable
func (g *Generator) lookup(name string) ir.IRVar {
	for i := len(g.scopes) - 1; i > -1; i-- {
		if v, ok := g.scopes[i][name]; ok {
			return v
		}
	}

	logging.LogFatal("IR generation saw an unbound name: " + name)
	return ""
}

// declare binds a source name to an IR variable in the innermost scope
func (g *Generator) declare(name string, v ir.IRVar) {
	g.scopes[len(g.scopes)-1][name] = v
}

// pushScope opens a new lexical scope
func (g *Generator) pushScope() {
	g.scopes = append(g.scopes, make(map[string]ir.IRVar))
}

// popScope closes the innermost lexical scope
func (g *Generator) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}
