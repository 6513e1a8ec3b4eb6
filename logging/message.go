package logging

// TextPosition represents the span of source text that a diagnostic refers
// to.  Lines and columns are 1-indexed; the end column is exclusive.
type TextPosition struct {
	StartLn, StartCol int
	EndLn, EndCol     int
}

// BuiltinPosition is the sentinel position used for synthetic nodes (such as
// the built-in function signatures) that have no place in the source text
var BuiltinPosition = &TextPosition{StartLn: -1, StartCol: -1, EndLn: -1, EndCol: -1}

// IsBuiltin indicates whether this position is the synthetic sentinel
func (tp *TextPosition) IsBuiltin() bool {
	return tp.StartLn == -1
}

// LogContext is the context in which a compile message occurred: it is
// used to label diagnostics with the file they came from
type LogContext struct {
	// FilePath is the path to the file being compiled.  It may be empty when
	// compiling from a string (REPL, serve mode) in which case no code
	// selection is displayed
	FilePath string
}

// LogMessage is the interface for all messages the logger can process
type LogMessage interface {
	display()
	isError() bool
}

// Enumeration of compile message kinds
const (
	LMKToken  = iota // lexical errors
	LMKSyntax        // parse errors
	LMKTyping        // type errors
	LMKName          // unbound or duplicate names
	LMKDef           // definition errors (duplicate functions, params)
	LMKArg           // call arity/argument errors
	LMKUsage         // misused constructs (break outside loop, etc.)
)

// CompileMessage is a diagnostic produced from user source code
type CompileMessage struct {
	Message string
	Kind    int

	// Position is the text position the message refers to; it may be nil when
	// no meaningful position exists
	Position *TextPosition

	Context *LogContext
	IsError bool
}

func (cm *CompileMessage) isError() bool {
	return cm.IsError
}

// ConfigError is an error related to the CLI, project manifest, or any other
// configuration concern.  It carries no source position.
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool {
	return true
}

// BuildError is an error produced while driving the external assembler or
// linker (non-zero tool exit, output I/O failure)
type BuildError struct {
	Kind    string
	Message string
}

func (be *BuildError) isError() bool {
	return true
}
