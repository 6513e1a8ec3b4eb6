package logging

// logger is a global reference to a shared Logger (created/initialized with the
// compiler, but separated for general usage)
var logger Logger

// Initialize initializes the global logger with the provided log level.  It
// may be called more than once: each call resets the error and warning state
// (the REPL and the test suites rely on this).
func Initialize(loglevelname string) {
	var loglevel int
	switch loglevelname {
	case "silent":
		loglevel = LogLevelSilent
	case "error":
		loglevel = LogLevelError
	case "warning":
		loglevel = LogLevelWarning
	// everything else (including invalid log levels) should default to verbose
	default:
		loglevel = LogLevelVerbose
	}

	logger = newLogger(loglevel)
}

// ShouldProceed indicates whether or not the log module has encountered any
// errors.  The CLI checks this after a run to decide the exit status; the
// phases themselves stop on their own failure results.
func ShouldProceed() bool {
	return logger.errorCount == 0
}

// ErrorCount returns the number of errors encountered so far
func ErrorCount() int {
	return logger.errorCount
}

// -----------------------------------------------------------------------------
// NOTE: All log functions will only display if the appropriate log level is
// set.  Most log functions will simply fail silently if below their appropriate
// log level.

// LogCompileError logs a compilation error (user-induced, bad code)
func LogCompileError(lctx *LogContext, message string, kind int, pos *TextPosition) {
	logger.handleMsg(&CompileMessage{
		Message:  message,
		Kind:     kind,
		Position: pos,
		Context:  lctx,
		IsError:  true,
	})
}

// LogCompileWarning logs a compilation warning (user-induced, problematic code)
func LogCompileWarning(lctx *LogContext, message string, kind int, pos *TextPosition) {
	logger.handleMsg(&CompileMessage{
		Message:  message,
		Kind:     kind,
		Position: pos,
		Context:  lctx,
		IsError:  false,
	})
}

// LogConfigError logs an error related to CLI or manifest configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogBuildError logs an error in the assemble/link step
func LogBuildError(kind, message string) {
	logger.handleMsg(&BuildError{Kind: kind, Message: message})
}

// LogFatal logs a fatal compilation error that was not expected: ie. the
// compiler did something it wasn't supposed to.  It panics so that the top
// level of the application can recover and exit with a failure status.
func LogFatal(message string) {
	displayEndPhase(false)
	displayFatalError(message)
	panic(fatalPanic{message})
}

// fatalPanic is the panic payload produced by LogFatal
type fatalPanic struct {
	message string
}

// IsFatalPanic checks whether a recovered panic value came from LogFatal
func IsFatalPanic(v interface{}) bool {
	_, ok := v.(fatalPanic)
	return ok
}

// -----------------------------------------------------------------------------

// LogCompileHeader displays the compiler version and build target before
// compilation begins (verbose only)
func LogCompileHeader(target string) {
	if logger.LogLevel == LogLevelVerbose {
		displayCompileHeader(target)
	}
}

// LogBeginPhase displays the beginning of a compilation phase (verbose only)
func LogBeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// LogEndPhase displays the end of the current compilation phase (verbose only)
func LogEndPhase() {
	if logger.LogLevel == LogLevelVerbose {
		displayEndPhase(true)
	}
}

// LogFinished displays the closing compilation message along with the final
// error and warning counts.  It also flushes any deferred warnings.
func LogFinished() {
	warningCount := len(logger.warnings)
	logger.flushWarnings()

	if logger.LogLevel > LogLevelSilent {
		displayCompilationFinished(logger.errorCount == 0, logger.errorCount, warningCount)
	}
}
