package syntax

import (
	"fmt"
	"strings"
	"testing"

	"kielo/logging"

	"github.com/nalgeon/be"
)

// parseSource scans and parses a source string into a module
func parseSource(t *testing.T, src string) *Module {
	t.Helper()
	logging.Initialize("silent")

	sc := NewScannerFromString(src, &logging.LogContext{})
	tokens, ok := sc.ScanAll()
	be.True(t, ok)

	mod, ok := NewParser(tokens, &logging.LogContext{}).Parse()
	be.True(t, ok)
	return mod
}

// parseFails asserts that parsing the source reports a syntax error
func parseFails(t *testing.T, src string) {
	t.Helper()
	logging.Initialize("silent")

	sc := NewScannerFromString(src, &logging.LogContext{})
	tokens, ok := sc.ScanAll()
	be.True(t, ok)

	_, ok = NewParser(tokens, &logging.LogContext{}).Parse()
	be.True(t, !ok)
}

// parseExprFrom parses a source string consisting of one trailing expression
func parseExprFrom(t *testing.T, src string) Expr {
	t.Helper()

	mod := parseSource(t, src)
	be.True(t, mod.TopLevel != nil)
	be.True(t, mod.TopLevel.Result != nil)
	return mod.TopLevel.Result
}

// sexpr renders an expression as an s-expression for shape comparison
func sexpr(e Expr) string {
	switch v := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", v.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", v.Value)
	case *Identifier:
		return v.Name
	case *BinaryOp:
		return fmt.Sprintf("(%s %s %s)", v.Op, sexpr(v.Left), sexpr(v.Right))
	case *UnaryOp:
		return fmt.Sprintf("(%s %s)", v.Op, sexpr(v.Operand))
	case *Assign:
		return fmt.Sprintf("(= %s %s)", v.Target.Name, sexpr(v.Value))
	case *Call:
		parts := make([]string, 0, len(v.Args)+1)
		parts = append(parts, v.Name)
		for _, a := range v.Args {
			parts = append(parts, sexpr(a))
		}
		return "(call " + strings.Join(parts, " ") + ")"
	case *IfExpr:
		if v.Else == nil {
			return fmt.Sprintf("(if %s %s)", sexpr(v.Cond), sexpr(v.Then))
		}
		return fmt.Sprintf("(if %s %s %s)", sexpr(v.Cond), sexpr(v.Then), sexpr(v.Else))
	case *WhileLoop:
		return fmt.Sprintf("(while %s %s)", sexpr(v.Cond), sexpr(v.Body))
	case *BreakStmt:
		if v.Value == nil {
			return "(break)"
		}
		return fmt.Sprintf("(break %s)", sexpr(v.Value))
	case *ContinueStmt:
		return "(continue)"
	case *ReturnStmt:
		if v.Value == nil {
			return "(return)"
		}
		return fmt.Sprintf("(return %s)", sexpr(v.Value))
	case *VarDecl:
		return fmt.Sprintf("(var %s %s)", v.Name, sexpr(v.Init))
	case *Block:
		parts := make([]string, 0, len(v.Stmts)+1)
		for _, s := range v.Stmts {
			parts = append(parts, sexpr(s))
		}
		if v.Result != nil {
			parts = append(parts, sexpr(v.Result))
		}
		return "(block " + strings.Join(parts, " ") + ")"
	default:
		return "?"
	}
}

// -----------------------------------------------------------------------------

// opPrecedence mirrors the parser's precedence table, loosest first
var opPrecedence = map[string]int{
	"or": 1, "and": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func TestBinaryOperatorPrecedenceGrid(t *testing.T) {
	// for every operator pair, `x a y b z` must group by the table: the
	// tighter operator binds first; equal levels associate to the left
	for a, pa := range opPrecedence {
		for b, pb := range opPrecedence {
			src := fmt.Sprintf("x %s y %s z", a, b)

			var want string
			if pa < pb {
				want = fmt.Sprintf("(%s x (%s y z))", a, b)
			} else {
				want = fmt.Sprintf("(%s (%s x y) z)", b, a)
			}

			got := sexpr(parseExprFrom(t, src))
			be.Equal(t, got, want)
		}
	}
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "-x + y")), "(+ (- x) y)")
	be.Equal(t, sexpr(parseExprFrom(t, "not a and b")), "(and (not a) b)")
	be.Equal(t, sexpr(parseExprFrom(t, "- -x")), "(- (- x))")
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "(x + y) * z")), "(* (+ x y) z)")
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "a = b = c")), "(= a (= b c))")
}

func TestAssignmentBindsLoosest(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "a = b or c")), "(= a (or b c))")
}

func TestAssignmentTargetMustBeIdentifier(t *testing.T) {
	parseFails(t, "a + b = c;")
	parseFails(t, "1 = 2;")
}

func TestCallArguments(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "f(1, g(x), 2 + 3)")), "(call f 1 (call g x) (+ 2 3))")
	be.Equal(t, sexpr(parseExprFrom(t, "f()")), "(call f)")
}

func TestIfThenElse(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "if c then a else b")), "(if c a b)")
	be.Equal(t, sexpr(parseExprFrom(t, "if c then a")), "(if c a)")

	// `else` binds to the if as a whole expression
	be.Equal(t, sexpr(parseExprFrom(t, "1 + if c then 2 else 3")), "(+ 1 (if c 2 3))")
}

func TestIfBlockFormNeedsNoThen(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "if c { a }")), "(if c (block a))")
	be.Equal(t, sexpr(parseExprFrom(t, "if c { a } else { b }")), "(if c (block a) (block b))")

	// `then` followed by a block is also fine: a block is an expression
	be.Equal(t, sexpr(parseExprFrom(t, "if c then { a }")), "(if c (block a))")
}

func TestIfWithoutThenOrBlockRejected(t *testing.T) {
	parseFails(t, "if c a;")
}

func TestWhileForms(t *testing.T) {
	be.Equal(t, sexpr(parseExprFrom(t, "while c do f()")), "(while c (call f))")
	be.Equal(t, sexpr(parseExprFrom(t, "while (i < 3) { f(); }")), "(while (< i 3) (block (call f)))")
}

func TestWhileWithoutDoOrBlockRejected(t *testing.T) {
	parseFails(t, "while c f();")
}

func TestBreakAndContinue(t *testing.T) {
	mod := parseSource(t, "while (true) { break; }")
	loop := mod.TopLevel.Result.(*WhileLoop)
	be.Equal(t, sexpr(loop.Body), "(block (break))")

	mod = parseSource(t, "while (true) { break n * n; }")
	loop = mod.TopLevel.Result.(*WhileLoop)
	be.Equal(t, sexpr(loop.Body), "(block (break (* n n)))")

	mod = parseSource(t, "while (true) { continue; }")
	loop = mod.TopLevel.Result.(*WhileLoop)
	be.Equal(t, sexpr(loop.Body), "(block (continue))")
}

func TestVarDecl(t *testing.T) {
	mod := parseSource(t, "var x = 1;")
	vd := mod.TopLevel.Stmts[0].(*VarDecl)
	be.Equal(t, vd.Name, "x")
	be.Equal(t, vd.TypeName, "")

	mod = parseSource(t, "var x: Int = f();")
	vd = mod.TopLevel.Stmts[0].(*VarDecl)
	be.Equal(t, vd.TypeName, "Int")
	be.Equal(t, sexpr(vd.Init), "(call f)")
}

func TestVarDeclRequiresInitializer(t *testing.T) {
	parseFails(t, "var x: Int;")
}

func TestBlockStatementAndTrailingExpr(t *testing.T) {
	// a trailing expression without `;` is the block's result
	block := parseExprFrom(t, "{ f(); g() }").(*Block)
	be.Equal(t, len(block.Stmts), 1)
	be.True(t, block.Result != nil)

	// with the final `;` there is no result
	mod := parseSource(t, "{ f(); g(); };")
	block = mod.TopLevel.Stmts[0].(*Block)
	be.Equal(t, len(block.Stmts), 2)
	be.True(t, block.Result == nil)

	// empty block
	block = parseExprFrom(t, "{ }").(*Block)
	be.Equal(t, len(block.Stmts), 0)
	be.True(t, block.Result == nil)
}

func TestBlockAsStatementNeedsNoSemicolon(t *testing.T) {
	mod := parseSource(t, "while (true) { f(); } g();")
	be.Equal(t, len(mod.TopLevel.Stmts), 2)

	mod = parseSource(t, "if c { f(); } g();")
	be.Equal(t, len(mod.TopLevel.Stmts), 2)

	// the trailing `;` after `}` stays optional, not forbidden
	mod = parseSource(t, "while (true) { f(); }; g();")
	be.Equal(t, len(mod.TopLevel.Stmts), 2)
}

func TestFuncDef(t *testing.T) {
	mod := parseSource(t, "fun sq(x: Int): Int { return x*x; }")
	be.Equal(t, len(mod.Funcs), 1)
	be.True(t, mod.TopLevel == nil)

	fd := mod.Funcs[0]
	be.Equal(t, fd.Name, "sq")
	be.Equal(t, len(fd.Params), 1)
	be.Equal(t, fd.Params[0].Name, "x")
	be.Equal(t, fd.Params[0].TypeName, "Int")
	be.Equal(t, fd.ReturnType, "Int")
	be.Equal(t, sexpr(fd.Body), "(block (return (* x x)))")
}

func TestFuncDefsInterleaveWithTopLevel(t *testing.T) {
	mod := parseSource(t, `
print_int(1);
fun f(): Unit { }
print_int(2);
fun g(a: Int, b: Bool): Bool { b }
`)
	be.Equal(t, len(mod.Funcs), 2)
	be.Equal(t, len(mod.TopLevel.Stmts), 2)
	be.Equal(t, len(mod.Funcs[1].Params), 2)
}

func TestEmptyInputIsEmptyModule(t *testing.T) {
	mod := parseSource(t, "")
	be.Equal(t, len(mod.Funcs), 0)
	be.True(t, mod.TopLevel == nil)

	mod = parseSource(t, "// only a comment\n")
	be.True(t, mod.TopLevel == nil)
}

func TestPrematureEndOfInput(t *testing.T) {
	parseFails(t, "{ 1;")
	parseFails(t, "f(1, 2")
	parseFails(t, "var x = ;")
	parseFails(t, "fun f(: Int): Int { }")
}

func TestMissingSemicolonBetweenStatements(t *testing.T) {
	parseFails(t, "f() g();")
}
