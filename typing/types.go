package typing

import "strings"

// PrimType represents a primitive Kielo type.  Its value must be one of the
// enumerated primitive kinds below
type PrimType uint

// Enumeration of primitive types
const (
	PrimKindInt = iota
	PrimKindBool
	PrimKindUnit
)

// equals for primitives is an integer comparison
func (pt PrimType) equals(other DataType) bool {
	if opt, ok := other.(PrimType); ok {
		return pt == opt
	}

	return false
}

// Repr of a primitive type is just its corresponding type name
func (pt PrimType) Repr() string {
	switch pt {
	case PrimKindInt:
		return "Int"
	case PrimKindBool:
		return "Bool"
	default:
		return "Unit"
	}
}

// -----------------------------------------------------------------------------

// FuncType represents the type of a function: its parameter types and its
// result type.  Built-in operators also carry FuncTypes.
type FuncType struct {
	Params []DataType
	Result DataType
}

func (ft *FuncType) equals(other DataType) bool {
	oft, ok := other.(*FuncType)
	if !ok || len(ft.Params) != len(oft.Params) {
		return false
	}

	for i, p := range ft.Params {
		if !Equals(p, oft.Params[i]) {
			return false
		}
	}

	return Equals(ft.Result, oft.Result)
}

func (ft *FuncType) Repr() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, p := range ft.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Repr())
	}

	sb.WriteString(") => ")
	sb.WriteString(ft.Result.Repr())
	return sb.String()
}

// -----------------------------------------------------------------------------

// PrimTypeByName maps a type annotation in source code to a primitive type.
// The second return value is false if the name does not denote a type.
func PrimTypeByName(name string) (DataType, bool) {
	switch name {
	case "Int":
		return PrimType(PrimKindInt), true
	case "Bool":
		return PrimType(PrimKindBool), true
	case "Unit":
		return PrimType(PrimKindUnit), true
	default:
		return nil, false
	}
}
