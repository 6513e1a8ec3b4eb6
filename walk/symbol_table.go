package walk

import (
	"fmt"

	"kielo/logging"
	"kielo/sem"
)

// lookup looks up a symbol and returns it if it exists.
func (w *Walker) lookup(name string) (*sem.Symbol, bool) {
	// iterate through scopes backwards to facilitate shadowing
	for i := len(w.scopes) - 1; i > -1; i-- {
		if sym, ok := w.scopes[i][name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// define defines a symbol in the current scope.  It returns false and logs an
// appropriate error if the name already exists in that scope: redeclaration
// within one scope is an error, shadowing an outer scope is not.
func (w *Walker) define(sym *sem.Symbol) bool {
	currScope := w.scopes[len(w.scopes)-1]
	if _, ok := currScope[sym.Name]; ok {
		w.logError(
			fmt.Sprintf("symbol `%s` is already defined in this scope", sym.Name),
			logging.LMKName,
			sym.Position,
		)
		return false
	}

	currScope[sym.Name] = sym
	return true
}

// defineGlobal defines a symbol in the global scope (function definitions).
// It fails on any name collision, including with the built-ins.
func (w *Walker) defineGlobal(sym *sem.Symbol) bool {
	if _, ok := w.scopes[0][sym.Name]; ok {
		w.logError(
			fmt.Sprintf("symbol `%s` is already defined", sym.Name),
			logging.LMKDef,
			sym.Position,
		)
		return false
	}

	w.scopes[0][sym.Name] = sym
	return true
}

// -----------------------------------------------------------------------------

// pushScope opens a new lexical scope
func (w *Walker) pushScope() {
	w.scopes = append(w.scopes, make(map[string]*sem.Symbol))
}

// popScope closes the innermost lexical scope
func (w *Walker) popScope() {
	if len(w.scopes) == 1 {
		logging.LogFatal("attempted to pop the global scope")
	}

	w.scopes = w.scopes[:len(w.scopes)-1]
}
