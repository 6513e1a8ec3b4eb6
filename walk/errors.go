package walk

import "kielo/logging"

// logError logs a compile error in the current file
func (w *Walker) logError(msg string, kind int, pos *logging.TextPosition) {
	logging.LogCompileError(
		w.lctx,
		msg,
		kind,
		pos,
	)
}
