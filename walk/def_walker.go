package walk

import (
	"fmt"

	"kielo/logging"
	"kielo/sem"
	"kielo/syntax"
	"kielo/typing"
)

// WalkModule performs semantic analysis on a whole module: all function
// definitions are declared up front (so definition order does not matter),
// then every function body and finally the top-level code is checked.  It
// returns the type of the top-level expression.
func (w *Walker) WalkModule(mod *syntax.Module) (typing.DataType, bool) {
	fnTypes := make([]*typing.FuncType, len(mod.Funcs))
	for i, fd := range mod.Funcs {
		ft, ok := w.declareFunc(fd)
		if !ok {
			return nil, false
		}

		fnTypes[i] = ft
	}

	for i, fd := range mod.Funcs {
		if !w.walkFuncDef(fd, fnTypes[i]) {
			return nil, false
		}
	}

	if mod.TopLevel == nil {
		return typing.PrimType(typing.PrimKindUnit), true
	}

	return w.walkExpr(mod.TopLevel)
}

// declareFunc resolves a function definition's signature and binds it in the
// global scope.  Function names are globally unique (built-ins included);
// parameter names must be unique within the function.
func (w *Walker) declareFunc(fd *syntax.FuncDef) (*typing.FuncType, bool) {
	paramTypes := make([]typing.DataType, len(fd.Params))
	seen := make(map[string]struct{}, len(fd.Params))

	for i, param := range fd.Params {
		if _, ok := seen[param.Name]; ok {
			w.logError(
				fmt.Sprintf("function `%s` has multiple parameters named `%s`", fd.Name, param.Name),
				logging.LMKDef,
				param.NamePos,
			)
			return nil, false
		}
		seen[param.Name] = struct{}{}

		pt, ok := w.resolveType(param.TypeName, param.TypePos)
		if !ok {
			return nil, false
		}

		paramTypes[i] = pt
	}

	retType, ok := w.resolveType(fd.ReturnType, fd.ReturnPos)
	if !ok {
		return nil, false
	}

	ft := &typing.FuncType{Params: paramTypes, Result: retType}

	if !w.defineGlobal(&sem.Symbol{
		Name:     fd.Name,
		Type:     ft,
		DefKind:  sem.DefKindFuncDef,
		Position: fd.NamePos,
	}) {
		return nil, false
	}

	return ft, true
}

// walkFuncDef checks a function body in a fresh scope seeded with the
// function's parameters
func (w *Walker) walkFuncDef(fd *syntax.FuncDef, ft *typing.FuncType) bool {
	w.pushScope()
	defer w.popScope()

	for i, param := range fd.Params {
		if !w.define(&sem.Symbol{
			Name:     param.Name,
			Type:     ft.Params[i],
			DefKind:  sem.DefKindValueDef,
			Position: param.NamePos,
		}) {
			return false
		}
	}

	w.returnTypes = append(w.returnTypes, ft.Result)
	defer func() {
		w.returnTypes = w.returnTypes[:len(w.returnTypes)-1]
	}()

	bodyType, ok := w.walkExpr(fd.Body)
	if !ok {
		return false
	}

	// the body's trailing expression must produce the declared return type; a
	// body that instead exits through explicit `return` statements is exempt
	// from the trailing check
	if !typing.Equals(bodyType, ft.Result) && !containsReturn(fd.Body) {
		w.logError(
			fmt.Sprintf("function `%s` declares return type %s, but its body has type %s", fd.Name, ft.Result.Repr(), bodyType.Repr()),
			logging.LMKTyping,
			fd.NamePos,
		)
		return false
	}

	return true
}

// resolveType resolves a type annotation from source code
func (w *Walker) resolveType(name string, pos *logging.TextPosition) (typing.DataType, bool) {
	dt, ok := typing.PrimTypeByName(name)
	if !ok {
		w.logError(fmt.Sprintf("unknown type `%s`", name), logging.LMKTyping, pos)
		return nil, false
	}

	return dt, true
}

// containsReturn scans an expression for a `return` statement on any
// syntactic path (blocks, branches, and loop bodies)
func containsReturn(expr syntax.Expr) bool {
	switch v := expr.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.Block:
		for _, stmt := range v.Stmts {
			if containsReturn(stmt) {
				return true
			}
		}

		return v.Result != nil && containsReturn(v.Result)
	case *syntax.IfExpr:
		if containsReturn(v.Then) {
			return true
		}

		return v.Else != nil && containsReturn(v.Else)
	case *syntax.WhileLoop:
		return containsReturn(v.Body)
	default:
		return false
	}
}
