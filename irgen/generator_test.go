package irgen

import (
	"strings"
	"testing"

	"kielo/ir"
	"kielo/logging"
	"kielo/syntax"
	"kielo/walk"

	"github.com/nalgeon/be"
)

// lowerSource runs the front half of the pipeline and lowers the module to IR
func lowerSource(t *testing.T, src string) *ir.Program {
	t.Helper()
	logging.Initialize("silent")

	lctx := &logging.LogContext{}
	tokens, ok := syntax.NewScannerFromString(src, lctx).ScanAll()
	be.True(t, ok)

	mod, ok := syntax.NewParser(tokens, lctx).Parse()
	be.True(t, ok)

	_, ok = walk.NewWalker(lctx).WalkModule(mod)
	be.True(t, ok)

	return NewGenerator().Generate(mod)
}

// mainOf returns the synthesized main function of a lowered program
func mainOf(t *testing.T, prog *ir.Program) *ir.Function {
	t.Helper()

	fn := prog.Functions[len(prog.Functions)-1]
	be.Equal(t, fn.Name, "main")
	return fn
}

func TestLiteralAndCallLowering(t *testing.T) {
	prog := lowerSource(t, "print_int(1 + 2 * 3);")
	main := mainOf(t, prog)

	be.Equal(t, strings.TrimRight(main.Dump(), "\n"), strings.Join([]string{
		"LoadIntConst(1, x1)",
		"LoadIntConst(2, x2)",
		"LoadIntConst(3, x3)",
		"Call(*, [x2, x3], x4)",
		"Call(+, [x1, x4], x5)",
		"Call(print_int, [x5], x6)",
		"Return()",
	}, "\n"))
}

func TestEqualityLowersTypeSpecialized(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var r = 1 == 2;"))
	be.True(t, strings.Contains(main.Dump(), "Call(eq_i64, [x1, x2], x3)"))

	main = mainOf(t, lowerSource(t, "var r = true != false;"))
	be.True(t, strings.Contains(main.Dump(), "Call(ne_bool, [x1, x2], x3)"))
}

func TestUnaryLowering(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var a = -1; var b = not true;"))
	dump := main.Dump()
	be.True(t, strings.Contains(dump, "Call(unary_-, [x1], x2)"))
	be.True(t, strings.Contains(dump, "Call(not, ["))
}

func TestAssignCopiesIntoTarget(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var x = 1; x = 2;"))

	// x lives in x2 (x1 holds the initializer); the assignment copies into it
	be.True(t, strings.Contains(main.Dump(), "Copy(x3, x2)"))
}

func TestShortCircuitAndLowersToJumps(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var r = false and read_int() == 1;"))
	dump := main.Dump()

	// no call named `and` may remain
	be.True(t, !strings.Contains(dump, "Call(and"))

	// the right operand is guarded by a conditional jump and the skip path
	// loads the constant result
	be.True(t, strings.Contains(dump, "CondJump(x2, L1, L2)"))
	be.True(t, strings.Contains(dump, "LoadBoolConst(false, x1)"))
	be.True(t, strings.Contains(dump, "Call(read_int, [], x3)"))
}

func TestShortCircuitOrSkipLoadsTrue(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var r = true or false;"))
	dump := main.Dump()

	be.True(t, !strings.Contains(dump, "Call(or"))
	be.True(t, strings.Contains(dump, "LoadBoolConst(true, x1)"))
}

func TestIfWithValueMerges(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var r = if true then 1 else 2;"))
	dump := main.Dump()

	// both branches copy into the merged destination
	be.True(t, strings.Contains(dump, "CondJump(x1, L1, L2)"))
	be.Equal(t, strings.Count(dump, "Copy(x3, x2)"), 1)
	be.Equal(t, strings.Count(dump, "Copy(x4, x2)"), 1)
}

func TestIfWithoutElseProducesUnit(t *testing.T) {
	main := mainOf(t, lowerSource(t, "if true then print_int(1);"))
	dump := main.Dump()

	be.True(t, strings.Contains(dump, "CondJump(x1, L1, L2)"))
	be.True(t, strings.Contains(dump, "Label(L2)"))
}

func TestWhileShape(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var i = 0; while (i < 3) { i = i + 1; }"))

	be.Equal(t, strings.TrimRight(main.Dump(), "\n"), strings.Join([]string{
		"LoadIntConst(0, x1)",
		"Copy(x1, x2)",
		"Label(L1)",
		"LoadIntConst(3, x3)",
		"Call(<, [x2, x3], x4)",
		"CondJump(x4, L2, L3)",
		"Label(L2)",
		"LoadIntConst(1, x5)",
		"Call(+, [x2, x5], x6)",
		"Copy(x6, x2)",
		"Jump(L1)",
		"Label(L3)",
		"Return()",
	}, "\n"))
}

func TestBreakJumpsToLoopEnd(t *testing.T) {
	main := mainOf(t, lowerSource(t, "while (true) { break; }"))
	dump := main.Dump()

	// L1 start, L2 body, L3 end: break jumps straight to L3
	be.True(t, strings.Contains(dump, "Jump(L3)"))
}

func TestContinueJumpsToLoopStart(t *testing.T) {
	main := mainOf(t, lowerSource(t, "while (true) { continue; }"))
	dump := main.Dump()

	be.Equal(t, strings.Count(dump, "Jump(L1)"), 2)
}

func TestBreakWithValueCopiesLoopResult(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var r = while (true) { break 7; };"))
	dump := main.Dump()

	// x1 is the loop condition; the break materializes 7 into x2, copies it
	// into the lazily-created loop result x3, and jumps out
	be.True(t, strings.Contains(dump, "LoadIntConst(7, x2)"))
	be.True(t, strings.Contains(dump, "Copy(x2, x3)"))
	be.True(t, strings.Contains(dump, "Jump(L3)"))

	// the declared variable receives the loop result
	be.True(t, strings.Contains(dump, "Copy(x3, x4)"))
}

func TestNestedLoopsBindInnermost(t *testing.T) {
	main := mainOf(t, lowerSource(t, `
while (true) {
    while (false) { continue; };
    break;
}`))
	dump := main.Dump()

	// the inner continue targets the inner loop's start label (L4), the
	// outer break targets the outer end label (L3)
	be.True(t, strings.Contains(dump, "Jump(L4)"))
	be.True(t, strings.Contains(dump, "Jump(L3)"))
}

func TestFunctionsLowerSeparately(t *testing.T) {
	prog := lowerSource(t, "fun sq(x: Int): Int { return x*x; } print_int(sq(3));")
	be.Equal(t, len(prog.Functions), 2)

	sq := prog.Functions[0]
	be.Equal(t, sq.Name, "sq")
	be.Equal(t, len(sq.Params), 1)

	// the parameter is bound to the first fresh variable and the explicit
	// return carries the product
	be.True(t, strings.Contains(sq.Dump(), "Call(*, [x1, x1], x2)"))
	be.True(t, strings.Contains(sq.Dump(), "Return(x2)"))

	main := mainOf(t, prog)
	be.True(t, strings.Contains(main.Dump(), "Call(sq, [x1], x2)"))
}

func TestUnitFunctionGetsTrailingReturn(t *testing.T) {
	prog := lowerSource(t, "fun hello(): Unit { print_int(1); }")
	hello := prog.Functions[0]

	instrs := hello.Instructions
	ret, ok := instrs[len(instrs)-1].(*ir.Return)
	be.True(t, ok)
	be.True(t, !ret.HasValue)
}

func TestVarTypesSideTable(t *testing.T) {
	main := mainOf(t, lowerSource(t, "var x = 1; var b = true;"))

	be.Equal(t, main.VarTypes[ir.IRVar("x2")].Repr(), "Int")
	be.Equal(t, main.VarTypes[ir.IRVar("x4")].Repr(), "Bool")
	be.Equal(t, main.VarTypes[ir.IRVar("unit")].Repr(), "Unit")
}
