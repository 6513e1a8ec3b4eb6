package sem

import (
	"kielo/logging"
	"kielo/typing"
)

// Symbol represents a named symbol (globally or locally)
type Symbol struct {
	// Name is the name of the symbol (as it is referenced in source code)
	Name string

	// Type stores the data type of this symbol
	Type typing.DataType

	// DefKind is the kind of definition that produced this symbol.  This must
	// be one of the enumerated definition kinds below
	DefKind int

	// Position is the text position where this symbol is defined
	Position *logging.TextPosition
}

// Enumeration of symbol definition kinds
const (
	DefKindFuncDef  = iota // User function definitions
	DefKindValueDef        // Variables and parameters
	DefKindBuiltin         // Built-in functions provided by the runtime
)

// NewBuiltinGlobals produces the global scope that every compilation unit
// starts from: the signatures of the runtime's built-in functions
func NewBuiltinGlobals() map[string]*Symbol {
	intT := typing.PrimType(typing.PrimKindInt)
	boolT := typing.PrimType(typing.PrimKindBool)
	unitT := typing.PrimType(typing.PrimKindUnit)

	builtins := map[string]*typing.FuncType{
		"print_int":  {Params: []typing.DataType{intT}, Result: unitT},
		"print_bool": {Params: []typing.DataType{boolT}, Result: unitT},
		"read_int":   {Params: []typing.DataType{}, Result: intT},
	}

	globals := make(map[string]*Symbol, len(builtins))
	for name, signature := range builtins {
		globals[name] = &Symbol{
			Name:     name,
			Type:     signature,
			DefKind:  DefKindBuiltin,
			Position: logging.BuiltinPosition,
		}
	}

	return globals
}
