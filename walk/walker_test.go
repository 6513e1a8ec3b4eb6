package walk

import (
	"testing"

	"kielo/logging"
	"kielo/syntax"
	"kielo/typing"

	"github.com/nalgeon/be"
)

// checkSource runs scanning, parsing, and walking over a source string,
// returning the module, the top-level type, and whether checking succeeded
func checkSource(t *testing.T, src string) (*syntax.Module, typing.DataType, bool) {
	t.Helper()
	logging.Initialize("silent")

	lctx := &logging.LogContext{}
	tokens, ok := syntax.NewScannerFromString(src, lctx).ScanAll()
	be.True(t, ok)

	mod, ok := syntax.NewParser(tokens, lctx).Parse()
	be.True(t, ok)

	topType, ok := NewWalker(lctx).WalkModule(mod)
	return mod, topType, ok
}

// checkOk asserts the source type-checks and returns its top-level type
func checkOk(t *testing.T, src string) typing.DataType {
	t.Helper()

	_, topType, ok := checkSource(t, src)
	be.True(t, ok)
	return topType
}

// checkFails asserts the source is rejected by the walker
func checkFails(t *testing.T, src string) {
	t.Helper()

	_, _, ok := checkSource(t, src)
	be.True(t, !ok)
}

func TestLiteralAndOperatorTypes(t *testing.T) {
	be.Equal(t, checkOk(t, "1 + 2 * 3").Repr(), "Int")
	be.Equal(t, checkOk(t, "1 < 2").Repr(), "Bool")
	be.Equal(t, checkOk(t, "true and not false").Repr(), "Bool")
	be.Equal(t, checkOk(t, "-5 % 3").Repr(), "Int")
}

func TestEqualityOverloads(t *testing.T) {
	be.Equal(t, checkOk(t, "1 == 2").Repr(), "Bool")
	be.Equal(t, checkOk(t, "true != false").Repr(), "Bool")

	// mixed operand types are rejected
	checkFails(t, "1 == true")
	checkFails(t, "false != 0")
}

func TestOperatorOperandTypes(t *testing.T) {
	checkFails(t, "1 + true")
	checkFails(t, "true < false")
	checkFails(t, "1 and 2")
	checkFails(t, "not 1")
	checkFails(t, "-true")
}

func TestVarDeclAndAssign(t *testing.T) {
	be.Equal(t, checkOk(t, "var x = 1; x = x + 1").Repr(), "Int")
	be.Equal(t, checkOk(t, "var b: Bool = true; b").Repr(), "Bool")

	checkFails(t, "var x: Int = true;")
	checkFails(t, "var x = 1; x = true;")
	checkFails(t, "x = 1;")          // unbound
	checkFails(t, "var x = 1; y")    // unbound
	checkFails(t, "read_int = 1;")   // not a value
	checkFails(t, "var x: Bogus = 1;")
}

func TestScopeDiscipline(t *testing.T) {
	// shadowing in an inner scope is allowed
	be.Equal(t, checkOk(t, "var x = 1; { var x = true; print_bool(x); } x").Repr(), "Int")

	// redeclaring in the same scope is not
	checkFails(t, "var x = 1; var x = 2;")
	checkFails(t, "{ var x = 1; var x = 2; };")

	// block-local names do not leak
	checkFails(t, "{ var x = 1; }; x")
}

func TestIfTyping(t *testing.T) {
	be.Equal(t, checkOk(t, "if true then 1 else 2").Repr(), "Int")
	be.Equal(t, checkOk(t, "if true then print_int(1)").Repr(), "Unit")

	checkFails(t, "if 1 then 2 else 3")
	checkFails(t, "if true then 1 else false")
}

func TestWhileTyping(t *testing.T) {
	be.Equal(t, checkOk(t, "while (false) { print_int(1); }").Repr(), "Unit")
	checkFails(t, "while 1 do print_int(1)")
}

func TestBreakValueFixesLoopType(t *testing.T) {
	be.Equal(t, checkOk(t, "while (true) { break 5; }").Repr(), "Int")
	be.Equal(t, checkOk(t, "while (true) { break; }").Repr(), "Unit")

	// two agreeing breaks
	be.Equal(t, checkOk(t, "while (true) { if true then break 1; break 2; }").Repr(), "Int")
}

func TestInconsistentBreaksRejected(t *testing.T) {
	checkFails(t, "while (true) { if true then break 1; break true; }")
	checkFails(t, "while (true) { if true then break 1; break; }")
	checkFails(t, "while (true) { if true then break; break 1; }")
}

func TestBreakBindsToInnermostLoop(t *testing.T) {
	// the inner loop's break does not disturb the outer loop's type
	be.Equal(t, checkOk(t, `
while (true) {
    while (true) { break true; };
    break 1;
}`).Repr(), "Int")
}

func TestBreakContinueOutsideLoop(t *testing.T) {
	checkFails(t, "break;")
	checkFails(t, "continue;")
	checkFails(t, "if true then break;")
	checkFails(t, "fun f(): Unit { break; }")
}

func TestCalls(t *testing.T) {
	be.Equal(t, checkOk(t, "read_int()").Repr(), "Int")
	be.Equal(t, checkOk(t, "print_int(1)").Repr(), "Unit")

	checkFails(t, "print_int()")
	checkFails(t, "print_int(1, 2)")
	checkFails(t, "print_int(true)")
	checkFails(t, "nope(1)")
	checkFails(t, "var x = 1; x(2)")
}

func TestFuncDefs(t *testing.T) {
	be.Equal(t, checkOk(t, "fun sq(x: Int): Int { x * x } print_int(sq(3))").Repr(), "Unit")

	// bodies may exit through explicit returns instead of a trailing value
	checkOk(t, "fun sq(x: Int): Int { return x * x; }")

	// definition order does not matter
	checkOk(t, "fun f(): Int { g() } fun g(): Int { 1 }")

	// recursion works
	checkOk(t, "fun fact(n: Int): Int { if n < 2 then return 1; n * fact(n - 1) }")
}

func TestFuncDefErrors(t *testing.T) {
	checkFails(t, "fun f(): Int { true }")
	checkFails(t, "fun f(): Int { }")
	checkFails(t, "fun f(x: Int, x: Int): Int { x }")
	checkFails(t, "fun f(): Int { 1 } fun f(): Int { 2 }")
	checkFails(t, "fun print_int(x: Int): Unit { }")
	checkFails(t, "fun f(x: Bogus): Int { 1 }")
	checkFails(t, "fun f(): Int { return true; }")
	checkFails(t, "fun f(): Unit { return 1; }")
	checkFails(t, "return 1;")
}

func TestParamsAreBoundInBody(t *testing.T) {
	checkOk(t, "fun add(a: Int, b: Int): Int { a + b }")
	checkFails(t, "fun add(a: Int, b: Int): Int { c }")
}

// collectExprs gathers every expression node reachable from a module
func collectExprs(mod *syntax.Module) []syntax.Expr {
	var out []syntax.Expr

	var visit func(e syntax.Expr)
	visit = func(e syntax.Expr) {
		if e == nil {
			return
		}

		out = append(out, e)

		switch v := e.(type) {
		case *syntax.BinaryOp:
			visit(v.Left)
			visit(v.Right)
		case *syntax.UnaryOp:
			visit(v.Operand)
		case *syntax.Assign:
			visit(v.Target)
			visit(v.Value)
		case *syntax.IfExpr:
			visit(v.Cond)
			visit(v.Then)
			visit(v.Else)
		case *syntax.WhileLoop:
			visit(v.Cond)
			visit(v.Body)
		case *syntax.BreakStmt:
			visit(v.Value)
		case *syntax.VarDecl:
			visit(v.Init)
		case *syntax.Block:
			for _, s := range v.Stmts {
				visit(s)
			}
			visit(v.Result)
		case *syntax.Call:
			for _, a := range v.Args {
				visit(a)
			}
		case *syntax.ReturnStmt:
			visit(v.Value)
		}
	}

	for _, fd := range mod.Funcs {
		visit(fd.Body)
	}
	visit(mod.TopLevel)

	return out
}

func TestTypingTotality(t *testing.T) {
	// after a successful walk, every AST node carries a type
	mod, _, ok := checkSource(t, `
fun sq(x: Int): Int { return x*x; }

var i: Int = 0;
while (i < 3) {
    if (i == 1) then print_bool(true) else print_int(sq(i));
    i = i + 1;
}
var r: Int = while (true) { break sq(2); };
print_int(r = r + 1);
`)
	be.True(t, ok)

	for _, e := range collectExprs(mod) {
		be.True(t, e.Type() != nil)
	}
}
