package build

import (
	"kielo/generate"
	"kielo/ir"
	"kielo/irgen"
	"kielo/logging"
	"kielo/syntax"
	"kielo/typing"
	"kielo/walk"
)

// Options carries the driver-level knobs of a compilation
type Options struct {
	// Toolchain selects the external assembler/linker ("ld" or "gcc")
	Toolchain string

	// KeepAsm keeps the generated `.s` file beside the output executable
	KeepAsm bool
}

// Compiler is the data structure responsible for maintaining all high-level
// state of a single compilation: one source in, one executable out
type Compiler struct {
	// srcPath is the source file being compiled; it is empty when compiling
	// from an in-memory string (REPL, serve mode, tests)
	srcPath string

	// source is the in-memory source text when srcPath is empty
	source string

	outputPath string
	opts       Options

	lctx *logging.LogContext
}

// NewCompiler creates a compiler for a source file on disk
func NewCompiler(srcPath, outputPath string, opts Options) *Compiler {
	return &Compiler{
		srcPath:    srcPath,
		outputPath: outputPath,
		opts:       opts,
		lctx:       &logging.LogContext{FilePath: srcPath},
	}
}

// NewCompilerFromString creates a compiler for in-memory source text
func NewCompilerFromString(source, outputPath string, opts Options) *Compiler {
	return &Compiler{
		source:     source,
		outputPath: outputPath,
		opts:       opts,
		lctx:       &logging.LogContext{},
	}
}

// Compile runs the full compilation algorithm and produces the output
// executable.  It handles all compilation errors appropriately and returns
// whether compilation succeeded.
func (c *Compiler) Compile() bool {
	mod, _, ok := c.Analyze()
	if !ok {
		return false
	}

	// an empty module produces no executable
	if len(mod.Funcs) == 0 && mod.TopLevel == nil {
		logging.PrintInfoMessage("Build", "empty program; no output written")
		return true
	}

	asmText, ok := c.lower(mod)
	if !ok {
		return false
	}

	logging.LogBeginPhase("Assembling")
	if !assemble(asmText, c.outputPath, c.opts.Toolchain, c.opts.KeepAsm) {
		return false
	}
	logging.LogEndPhase()

	return true
}

// Analyze runs just the analysis portion of the pipeline: scanning, parsing,
// and type checking.  This is exported for usage in the CLI (`check`) and
// the REPL.  It returns the module and the type of its top-level expression.
func (c *Compiler) Analyze() (*syntax.Module, typing.DataType, bool) {
	logging.LogBeginPhase("Scanning")

	var sc *syntax.Scanner
	if c.srcPath != "" {
		var ok bool
		if sc, ok = syntax.NewScanner(c.srcPath, c.lctx); !ok {
			return nil, nil, false
		}
	} else {
		sc = syntax.NewScannerFromString(c.source, c.lctx)
	}

	tokens, ok := sc.ScanAll()
	if !ok {
		return nil, nil, false
	}
	logging.LogEndPhase()

	logging.LogBeginPhase("Parsing")
	mod, ok := syntax.NewParser(tokens, c.lctx).Parse()
	if !ok {
		return nil, nil, false
	}
	logging.LogEndPhase()

	logging.LogBeginPhase("Checking")
	topType, ok := walk.NewWalker(c.lctx).WalkModule(mod)
	if !ok {
		return nil, nil, false
	}
	logging.LogEndPhase()

	return mod, topType, true
}

// GenerateIR runs the pipeline through IR generation (used by the REPL's
// :ir command and the tests)
func (c *Compiler) GenerateIR() (*ir.Program, bool) {
	mod, _, ok := c.Analyze()
	if !ok {
		return nil, false
	}

	logging.LogBeginPhase("Lowering")
	prog := irgen.NewGenerator().Generate(mod)
	logging.LogEndPhase()

	return prog, true
}

// GenerateAsm runs the pipeline through assembly text generation without
// invoking the external toolchain
func (c *Compiler) GenerateAsm() (string, bool) {
	mod, _, ok := c.Analyze()
	if !ok {
		return "", false
	}

	return c.lower(mod)
}

// lower converts an analyzed module into assembly text (the Lowering and
// Generating phases)
func (c *Compiler) lower(mod *syntax.Module) (string, bool) {
	logging.LogBeginPhase("Lowering")
	prog := irgen.NewGenerator().Generate(mod)
	logging.LogEndPhase()

	logging.LogBeginPhase("Generating")
	asmText := generate.NewGenerator(prog).Generate()
	logging.LogEndPhase()

	return asmText, true
}
