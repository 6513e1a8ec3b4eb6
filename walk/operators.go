package walk

import (
	"fmt"

	"kielo/logging"
	"kielo/sem"
	"kielo/typing"
)

// checkBinaryOp resolves a binary operator application against the built-in
// operator table and returns the result type.  `==` and `!=` are overloaded:
// they require both operands to have the same type, either Int or Bool.
func (w *Walker) checkBinaryOp(op string, lhs, rhs typing.DataType, pos *logging.TextPosition) (typing.DataType, bool) {
	if op == "==" || op == "!=" {
		if !typing.Equals(lhs, rhs) {
			w.logError(
				fmt.Sprintf("operator `%s` requires operands of the same type, got %s and %s", op, lhs.Repr(), rhs.Repr()),
				logging.LMKTyping,
				pos,
			)
			return nil, false
		}

		if !typing.Equals(lhs, typing.PrimType(typing.PrimKindInt)) && !typing.Equals(lhs, typing.PrimType(typing.PrimKindBool)) {
			w.logError(
				fmt.Sprintf("operator `%s` is not defined for operands of type %s", op, lhs.Repr()),
				logging.LMKTyping,
				pos,
			)
			return nil, false
		}

		return typing.PrimType(typing.PrimKindBool), true
	}

	operator, ok := sem.BinaryOperators[op]
	if !ok {
		logging.LogFatal("unknown binary operator: " + op)
	}

	signature := operator.Signature
	if !typing.Equals(lhs, signature.Params[0]) || !typing.Equals(rhs, signature.Params[1]) {
		w.logError(
			fmt.Sprintf(
				"operator `%s` requires operands of type %s, got %s and %s",
				op, signature.Params[0].Repr(), lhs.Repr(), rhs.Repr(),
			),
			logging.LMKTyping,
			pos,
		)
		return nil, false
	}

	return signature.Result, true
}

// checkUnaryOp resolves a unary operator application against the built-in
// operator table and returns the result type
func (w *Walker) checkUnaryOp(op string, operand typing.DataType, pos *logging.TextPosition) (typing.DataType, bool) {
	operator, ok := sem.UnaryOperators[op]
	if !ok {
		logging.LogFatal("unknown unary operator: " + op)
	}

	signature := operator.Signature
	if !typing.Equals(operand, signature.Params[0]) {
		w.logError(
			fmt.Sprintf("unary operator `%s` requires an operand of type %s, got %s", op, signature.Params[0].Repr(), operand.Repr()),
			logging.LMKTyping,
			pos,
		)
		return nil, false
	}

	return signature.Result, true
}
