package walk

import (
	"fmt"

	"kielo/logging"
	"kielo/sem"
	"kielo/syntax"
	"kielo/typing"
)

// walkExpr checks a single expression node, fills in its type slot, and
// returns its type.  Every node reachable from a successfully walked
// expression has a non-nil type afterwards.
func (w *Walker) walkExpr(expr syntax.Expr) (typing.DataType, bool) {
	unitT := typing.PrimType(typing.PrimKindUnit)
	boolT := typing.PrimType(typing.PrimKindBool)

	var t typing.DataType

	switch v := expr.(type) {
	case *syntax.IntLit:
		t = typing.PrimType(typing.PrimKindInt)
	case *syntax.BoolLit:
		t = boolT
	case *syntax.Identifier:
		sym, ok := w.lookup(v.Name)
		if !ok {
			w.logError(fmt.Sprintf("unbound identifier `%s`", v.Name), logging.LMKName, v.Position())
			return nil, false
		}

		t = sym.Type
	case *syntax.BinaryOp:
		lt, ok := w.walkExpr(v.Left)
		if !ok {
			return nil, false
		}

		rt, ok := w.walkExpr(v.Right)
		if !ok {
			return nil, false
		}

		if t, ok = w.checkBinaryOp(v.Op, lt, rt, v.OpPos); !ok {
			return nil, false
		}
	case *syntax.UnaryOp:
		ot, ok := w.walkExpr(v.Operand)
		if !ok {
			return nil, false
		}

		if t, ok = w.checkUnaryOp(v.Op, ot, v.Position()); !ok {
			return nil, false
		}
	case *syntax.Assign:
		sym, ok := w.lookup(v.Target.Name)
		if !ok {
			w.logError(fmt.Sprintf("unbound identifier `%s`", v.Target.Name), logging.LMKName, v.Target.Position())
			return nil, false
		}

		if sym.DefKind != sem.DefKindValueDef {
			w.logError(fmt.Sprintf("cannot assign to `%s`", v.Target.Name), logging.LMKUsage, v.Target.Position())
			return nil, false
		}

		vt, ok := w.walkExpr(v.Value)
		if !ok {
			return nil, false
		}

		if !typing.Equals(vt, sym.Type) {
			w.logError(
				fmt.Sprintf("cannot assign a value of type %s to `%s` of type %s", vt.Repr(), sym.Name, sym.Type.Repr()),
				logging.LMKTyping,
				v.Position(),
			)
			return nil, false
		}

		v.Target.SetType(sym.Type)
		t = sym.Type
	case *syntax.VarDecl:
		it, ok := w.walkExpr(v.Init)
		if !ok {
			return nil, false
		}

		if v.TypeName != "" {
			declared, ok := w.resolveType(v.TypeName, v.TypePos)
			if !ok {
				return nil, false
			}

			if !typing.Equals(declared, it) {
				w.logError(
					fmt.Sprintf("`%s` is declared as %s, but its initializer has type %s", v.Name, declared.Repr(), it.Repr()),
					logging.LMKTyping,
					v.Position(),
				)
				return nil, false
			}
		}

		if !w.define(&sem.Symbol{
			Name:     v.Name,
			Type:     it,
			DefKind:  sem.DefKindValueDef,
			Position: v.NamePos,
		}) {
			return nil, false
		}

		t = unitT
	case *syntax.IfExpr:
		ct, ok := w.walkExpr(v.Cond)
		if !ok {
			return nil, false
		}

		if !typing.Equals(ct, boolT) {
			w.logError(fmt.Sprintf("if condition must be Bool, got %s", ct.Repr()), logging.LMKTyping, v.Cond.Position())
			return nil, false
		}

		tt, ok := w.walkExpr(v.Then)
		if !ok {
			return nil, false
		}

		if v.Else != nil {
			et, ok := w.walkExpr(v.Else)
			if !ok {
				return nil, false
			}

			if !typing.Equals(tt, et) {
				w.logError(
					fmt.Sprintf("branches of if must have the same type, got %s and %s", tt.Repr(), et.Repr()),
					logging.LMKTyping,
					v.Position(),
				)
				return nil, false
			}

			t = tt
		} else {
			// with no else branch the expression's value is Unit; the
			// then-branch's value is discarded
			t = unitT
		}
	case *syntax.WhileLoop:
		ct, ok := w.walkExpr(v.Cond)
		if !ok {
			return nil, false
		}

		if !typing.Equals(ct, boolT) {
			w.logError(fmt.Sprintf("while condition must be Bool, got %s", ct.Repr()), logging.LMKTyping, v.Cond.Position())
			return nil, false
		}

		w.loopFrames = append(w.loopFrames, &loopFrame{})

		if _, ok = w.walkExpr(v.Body); !ok {
			return nil, false
		}

		frame := w.loopFrames[len(w.loopFrames)-1]
		w.loopFrames = w.loopFrames[:len(w.loopFrames)-1]

		// the loop's value is what its breaks carry; a loop whose breaks are
		// all valueless (or that has none) is Unit
		if frame.breakType != nil {
			t = frame.breakType
		} else {
			t = unitT
		}
	case *syntax.BreakStmt:
		if len(w.loopFrames) == 0 {
			w.logError("break used outside of a loop", logging.LMKUsage, v.Position())
			return nil, false
		}

		bt := typing.DataType(unitT)
		if v.Value != nil {
			var ok bool
			if bt, ok = w.walkExpr(v.Value); !ok {
				return nil, false
			}
		}

		frame := w.loopFrames[len(w.loopFrames)-1]
		if frame.breakType == nil {
			frame.breakType = bt
			frame.breakPos = v.Position()
		} else if !typing.Equals(frame.breakType, bt) {
			w.logError(
				fmt.Sprintf(
					"break value of type %s disagrees with this loop's earlier break of type %s (line %d)",
					bt.Repr(), frame.breakType.Repr(), frame.breakPos.StartLn,
				),
				logging.LMKTyping,
				v.Position(),
			)
			return nil, false
		}

		t = unitT
	case *syntax.ContinueStmt:
		if len(w.loopFrames) == 0 {
			w.logError("continue used outside of a loop", logging.LMKUsage, v.Position())
			return nil, false
		}

		t = unitT
	case *syntax.Block:
		var ok bool
		if t, ok = w.walkBlock(v); !ok {
			return nil, false
		}
	case *syntax.Call:
		sym, ok := w.lookup(v.Name)
		if !ok {
			w.logError(fmt.Sprintf("unbound identifier `%s`", v.Name), logging.LMKName, v.NamePos)
			return nil, false
		}

		ft, isFunc := sym.Type.(*typing.FuncType)
		if !isFunc {
			w.logError(fmt.Sprintf("`%s` is not a function", v.Name), logging.LMKUsage, v.NamePos)
			return nil, false
		}

		if len(v.Args) != len(ft.Params) {
			w.logError(
				fmt.Sprintf("`%s` expects %d argument(s), got %d", v.Name, len(ft.Params), len(v.Args)),
				logging.LMKArg,
				v.Position(),
			)
			return nil, false
		}

		for i, arg := range v.Args {
			at, ok := w.walkExpr(arg)
			if !ok {
				return nil, false
			}

			if !typing.Equals(at, ft.Params[i]) {
				w.logError(
					fmt.Sprintf("argument %d of `%s` must be %s, got %s", i+1, v.Name, ft.Params[i].Repr(), at.Repr()),
					logging.LMKArg,
					arg.Position(),
				)
				return nil, false
			}
		}

		t = ft.Result
	case *syntax.ReturnStmt:
		if len(w.returnTypes) == 0 {
			w.logError("return used outside of a function", logging.LMKUsage, v.Position())
			return nil, false
		}

		expected := w.returnTypes[len(w.returnTypes)-1]

		rt := typing.DataType(unitT)
		if v.Value != nil {
			var ok bool
			if rt, ok = w.walkExpr(v.Value); !ok {
				return nil, false
			}
		}

		if !typing.Equals(rt, expected) {
			w.logError(
				fmt.Sprintf("returning a value of type %s from a function that declares %s", rt.Repr(), expected.Repr()),
				logging.LMKTyping,
				v.Position(),
			)
			return nil, false
		}

		t = unitT
	default:
		logging.LogFatal("type checking visited an unsupported expression node")
	}

	expr.SetType(t)
	return t, true
}

// walkBlock checks a block's statements in a fresh scope; the block's type is
// its trailing expression's type or Unit
func (w *Walker) walkBlock(block *syntax.Block) (typing.DataType, bool) {
	w.pushScope()
	defer w.popScope()

	for _, stmt := range block.Stmts {
		if _, ok := w.walkExpr(stmt); !ok {
			return nil, false
		}
	}

	if block.Result == nil {
		return typing.PrimType(typing.PrimKindUnit), true
	}

	return w.walkExpr(block.Result)
}
