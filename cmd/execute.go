package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kielo/build"
	"kielo/common"
	"kielo/config"
	"kielo/logging"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `kielo` application
func Execute() {
	// internal compiler errors surface as fatal panics; exit non-zero after
	// they have been displayed
	defer func() {
		if v := recover(); v != nil {
			if logging.IsFatalPanic(v) {
				os.Exit(1)
			}

			panic(v)
		}
	}()

	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("kielo", "kielo is the compiler for the Kielo language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warning", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a source file to a native executable", true)
	buildCmd.AddPrimaryArg("source-path", "the path to the source file to compile", true)
	buildCmd.AddStringArg("output", "o", "the path of the output executable", false)
	buildCmd.AddStringArg("toolchain", "tc", "the assembler/linker toolchain (ld or gcc)", false)
	buildCmd.AddFlag("keep-asm", "ka", "keep the generated assembly file beside the output")

	checkCmd := cli.AddSubcommand("check", "parse and type-check a source file without generating code", true)
	checkCmd.AddPrimaryArg("source-path", "the path to the source file to check", true)

	cli.AddSubcommand("repl", "start an interactive session", false)

	serveCmd := cli.AddSubcommand("serve", "run a TCP compile server", true)
	serveCmd.AddStringArg("host", "h", "the host to bind (default 127.0.0.1)", false)
	serveCmd.AddStringArg("port", "p", "the port to bind (default 3000)", false)

	cli.AddSubcommand("version", "print the Kielo version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	// process the inputed command line
	ok := true
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		ok = execBuildCommand(subResult, result.Arguments["loglevel"].(string))
	case "check":
		ok = execCheckCommand(subResult, result.Arguments["loglevel"].(string))
	case "repl":
		ok = execReplCommand()
	case "serve":
		ok = execServeCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Kielo Version", common.KieloVersion)
	}

	if !ok {
		os.Exit(1)
	}
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, loglevel string) bool {
	srcRelPath, _ := result.PrimaryArg()

	srcPath, err := filepath.Abs(srcRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return false
	}

	// the optional project manifest supplies defaults; CLI flags override it
	manifest, err := config.LoadManifest(srcPath)
	if err != nil {
		logging.PrintErrorMessage("Manifest Error", err)
		return false
	}

	opts := build.Options{Toolchain: config.ToolchainLD}
	outputPath := defaultOutputPath(srcPath)

	if manifest != nil {
		if manifest.Output != "" {
			outputPath = manifest.Output
		}

		if manifest.Toolchain != "" {
			opts.Toolchain = manifest.Toolchain
		}

		opts.KeepAsm = manifest.KeepAsm

		// the manifest log level applies only when the CLI selector holds its
		// default value `verbose` (an explicit `verbose` is replaced as well)
		if manifest.LogLevel != "" && loglevel == "verbose" {
			loglevel = manifest.LogLevel
		}
	}

	if outArgVal, argOk := result.Arguments["output"]; argOk {
		outputPath = outArgVal.(string)
	}

	if tcArgVal, argOk := result.Arguments["toolchain"]; argOk {
		tc := tcArgVal.(string)
		if tc != config.ToolchainLD && tc != config.ToolchainGCC {
			logging.Initialize(loglevel)
			logging.LogConfigError("Toolchain", "unknown toolchain `"+tc+"` (expected `ld` or `gcc`)")
			return false
		}

		opts.Toolchain = tc
	}

	if result.HasFlag("keep-asm") {
		opts.KeepAsm = true
	}

	// initialize the logger and run the pipeline
	logging.Initialize(loglevel)
	logging.LogCompileHeader("x86_64-linux (" + opts.Toolchain + ")")

	c := build.NewCompiler(srcPath, outputPath, opts)
	ok := c.Compile()
	logging.LogFinished()

	return ok && logging.ShouldProceed()
}

// execCheckCommand executes the check subcommand: analysis only, no output
func execCheckCommand(result *olive.ArgParseResult, loglevel string) bool {
	srcRelPath, _ := result.PrimaryArg()

	srcPath, err := filepath.Abs(srcRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return false
	}

	logging.Initialize(loglevel)

	c := build.NewCompiler(srcPath, "", build.Options{})
	_, _, ok := c.Analyze()
	logging.LogFinished()

	return ok && logging.ShouldProceed()
}

// execServeCommand executes the serve subcommand
func execServeCommand(result *olive.ArgParseResult) bool {
	host := "127.0.0.1"
	if hostArgVal, argOk := result.Arguments["host"]; argOk {
		host = hostArgVal.(string)
	}

	port := 3000
	if portArgVal, argOk := result.Arguments["port"]; argOk {
		var err error
		if port, err = strconv.Atoi(portArgVal.(string)); err != nil {
			logging.PrintErrorMessage("Serve Error", fmt.Errorf("invalid port: %s", portArgVal.(string)))
			return false
		}
	}

	logging.Initialize("silent")

	if err := runServer(host, port); err != nil {
		logging.PrintErrorMessage("Serve Error", err)
		return false
	}

	return true
}

// defaultOutputPath derives the output executable path from the source file:
// the source stem suffixed with `_out`, beside the source
func defaultOutputPath(srcPath string) string {
	stem := strings.TrimSuffix(filepath.Base(srcPath), common.SrcFileExtension)
	return filepath.Join(filepath.Dir(srcPath), stem+common.OutputSuffix)
}
