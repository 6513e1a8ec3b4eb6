package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kielo/build"
	"kielo/common"
	"kielo/logging"

	"github.com/peterh/liner"
)

const historyFile = ".kielo_history"

const replHelp = `Commands:
  :ir     show the IR of the session so far
  :asm    show the generated assembly of the session so far
  :reset  forget everything entered so far
  :quit   exit the session`

// execReplCommand runs the interactive session.  Each accepted input is
// appended to the session buffer and the whole buffer is recompiled, so names
// declared by earlier inputs stay bound.  Inputs that fail to compile are
// reported and dropped from the buffer.
func execReplCommand() bool {
	fmt.Printf("kielo v%s -- interactive session (:help for commands)\n", common.KieloVersion)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	var buffer []string

	for {
		line, err := ln.Prompt(">>> ")
		if err != nil {
			// EOF or Ctrl-C ends the session
			fmt.Println()
			return true
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if !replCommand(trimmed, &buffer) {
				return true
			}

			continue
		}

		candidate := append(append([]string{}, buffer...), line)

		// reset the logger so earlier inputs' error counts do not linger
		logging.Initialize("error")

		c := build.NewCompilerFromString(strings.Join(candidate, "\n"), "", build.Options{})
		_, topType, ok := c.Analyze()
		if !ok {
			continue
		}

		buffer = candidate
		ln.AppendHistory(line)
		fmt.Println(topType.Repr())
	}
}

// replCommand handles a `:` command; it returns false when the session
// should end
func replCommand(cmd string, buffer *[]string) bool {
	switch strings.ToLower(cmd) {
	case ":quit":
		return false
	case ":reset":
		*buffer = nil
	case ":help":
		fmt.Println(replHelp)
	case ":ir":
		if len(*buffer) == 0 {
			fmt.Println("(empty session)")
			break
		}

		logging.Initialize("error")

		c := build.NewCompilerFromString(strings.Join(*buffer, "\n"), "", build.Options{})
		if prog, ok := c.GenerateIR(); ok {
			for _, fn := range prog.Functions {
				fmt.Printf("%s:\n%s", fn.Name, fn.Dump())
			}
		}
	case ":asm":
		if len(*buffer) == 0 {
			fmt.Println("(empty session)")
			break
		}

		logging.Initialize("error")

		c := build.NewCompilerFromString(strings.Join(*buffer, "\n"), "", build.Options{})
		if asmText, ok := c.GenerateAsm(); ok {
			fmt.Print(asmText)
		}
	default:
		fmt.Println("unknown command. Type :quit to exit.")
	}

	return true
}
