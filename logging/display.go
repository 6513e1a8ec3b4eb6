package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"kielo/common"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// NOTE: All diagnostics are written to stderr; progress output (the compile
// header, phase spinners, and the closing summary) goes to stdout.

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	fmt.Fprint(os.Stderr, ErrorStyleBG.Sprint(tag))
	fmt.Fprintln(os.Stderr, ErrorColorFG.Sprint(" "+err.Error()))
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	fmt.Fprint(os.Stderr, WarnStyleBG.Sprint(tag))
	fmt.Fprintln(os.Stderr, WarnColorFG.Sprint(" "+msg))
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// This section contains all the display functions for the different kinds of
// errors that can be logged -- these functions are called to print the error to
// the screen.

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", fmt.Errorf("%s", ce.Message))
}

func (be *BuildError) display() {
	PrintErrorMessage(be.Kind+" Error", fmt.Errorf("%s", be.Message))
}

var compileMsgStrings = map[int]string{
	LMKToken:  "Token",
	LMKSyntax: "Syntax",
	LMKTyping: "Type",
	LMKName:   "Name",
	LMKDef:    "Definition",
	LMKArg:    "Argument",
	LMKUsage:  "Usage",
}

func (cm *CompileMessage) display() {
	cm.displayBanner()
	fmt.Fprintln(os.Stderr, cm.Message)

	if cm.Position != nil && !cm.Position.IsBuiltin() && cm.Context != nil && cm.Context.FilePath != "" {
		cm.displayCodeSelection()
	}
}

// displayBanner displays the banner on top of all compilation messages
func (cm *CompileMessage) displayBanner() {
	fmt.Fprint(os.Stderr, "\n\n-- ")
	kindStr := compileMsgStrings[cm.Kind]
	kindLen := len(kindStr)
	if cm.isError() {
		fmt.Fprint(os.Stderr, ErrorStyleBG.Sprint(kindStr+" Error"))
		kindLen += 7
	} else {
		fmt.Fprint(os.Stderr, WarnStyleBG.Sprint(kindStr+" Warning"))
		kindLen += 9
	}

	fmt.Fprint(os.Stderr, " ")

	fileName := "(source)"
	if cm.Context != nil && cm.Context.FilePath != "" {
		fileName = filepath.Base(cm.Context.FilePath)
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(fileName) - kindLen - 1
	if dashCount < 1 {
		dashCount = 1
	}

	fmt.Fprint(os.Stderr, strings.Repeat("-", dashCount)+" ")
	fmt.Fprintln(os.Stderr, InfoColorFG.Sprint(fileName))
}

// displayCodeSelection displays the erroneous code (with line numbers) and
// highlights the appropriate sections
func (cm *CompileMessage) displayCodeSelection() {
	fmt.Fprintln(os.Stderr)

	// the source file may no longer be readable; skip the selection rather
	// than fail the error report itself
	f, err := os.Open(cm.Context.FilePath)
	if err != nil {
		return
	}
	defer f.Close()

	// read the file line by line, capturing the selected lines
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanLines)
	lines := make([]string, cm.Position.EndLn-cm.Position.StartLn+1)
	for lineNumber := 1; sc.Scan(); lineNumber++ {
		if lineNumber >= cm.Position.StartLn && lineNumber <= cm.Position.EndLn {
			lines[lineNumber-cm.Position.StartLn] = sc.Text()
		}
	}

	// calculate the amount to pad line numbers by and use it to build a padding
	// format string (so we can use it to print out line numbers neatly)
	maxLineNumberWidth := len(strconv.Itoa(cm.Position.EndLn)) + 1
	lineNumberFmtStr := "%-" + strconv.Itoa(maxLineNumberWidth) + "v"

	// print each line followed by the line of selecting carets
	for i, line := range lines {
		lineNo := i + cm.Position.StartLn
		line = strings.ReplaceAll(line, "\t", "    ")

		fmt.Fprint(os.Stderr, InfoColorFG.Sprint(fmt.Sprintf(lineNumberFmtStr, lineNo)))
		fmt.Fprint(os.Stderr, "|  ")
		fmt.Fprintln(os.Stderr, line)

		fmt.Fprint(os.Stderr, strings.Repeat(" ", maxLineNumberWidth), "|  ")

		startCol, endCol := 1, len(line)+1
		if i == 0 {
			startCol = cm.Position.StartCol
		}
		if i == len(lines)-1 {
			endCol = cm.Position.EndCol
		}
		if startCol < 1 {
			startCol = 1
		}
		if endCol <= startCol {
			endCol = startCol + 1
		}

		fmt.Fprint(os.Stderr, strings.Repeat(" ", startCol-1))
		fmt.Fprintln(os.Stderr, ErrorColorFG.Sprint(strings.Repeat("^", endCol-startCol)))
	}

	fmt.Fprintln(os.Stderr)
}

const fatalErrorPostlude = `
This is likely a bug in the compiler.
Please open an issue on Github: github.com/rikubrandt/kielo`

func displayFatalError(msg string) {
	fmt.Fprint(os.Stderr, "\n\n")
	fmt.Fprint(os.Stderr, ErrorStyleBG.Sprint("Fatal Error "))
	fmt.Fprintln(os.Stderr, ErrorColorFG.Sprint(msg))
	fmt.Fprintln(os.Stderr, InfoColorFG.Sprint(fatalErrorPostlude))
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays all the compiler information before starting compilation
func displayCompileHeader(target string) {
	fmt.Print("kielo ")
	InfoColorFG.Print("v" + common.KieloVersion)
	fmt.Print(" -- target: ")
	InfoColorFG.Println(target)
}

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Generating")

// displayBeginPhase displays the beginning of a compilation phase
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner, _ = phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2))
		}

		phaseSpinner = nil
	}
}

// displayCompilationFinished displays a compilation finished message
func displayCompilationFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}
}
