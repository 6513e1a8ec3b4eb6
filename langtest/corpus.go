// Package langtest extracts end-to-end test programs from Markdown corpus
// documents.  A corpus file contains one section per program:
//
//	# Test: print sum
//
//	```kielo-program
//	print_int(1 + 2);
//	```
//
//	```stdout
//	3
//	```
//
// with optional `stdin` input and `compile-error` in place of `stdout` for
// programs that must be rejected.
package langtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages recognized in corpus documents
const (
	FenceProgram      = "kielo-program"
	FenceStdin        = "stdin"
	FenceStdout       = "stdout"
	FenceCompileError = "compile-error"
)

// Program represents one test program extracted from a corpus document
type Program struct {
	// Name is the program name from the heading (after "Test: ")
	Name string

	// Source is the program source text
	Source string

	// Stdin is the input fed to the program when it runs (may be empty)
	Stdin string

	// Stdout is the output the program must produce
	Stdout string

	// CompileError marks a program that the compiler must reject
	CompileError bool
}

// ExtractPrograms parses a Markdown corpus document and extracts all test
// programs from it
func ExtractPrograms(markdownContent string) ([]Program, error) {
	md := goldmark.New()
	source := []byte(markdownContent)

	doc := md.Parser().Parse(text.NewReader(source))

	var programs []Program
	var current *Program
	sawStdout := false

	flush := func() error {
		if current == nil {
			return nil
		}

		if current.Source == "" {
			return fmt.Errorf("test '%s' has no %s fence", current.Name, FenceProgram)
		}

		if !sawStdout && !current.CompileError {
			return fmt.Errorf("test '%s' has neither a %s nor a %s fence", current.Name, FenceStdout, FenceCompileError)
		}

		programs = append(programs, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if strings.HasPrefix(headingText, "Test: ") {
				if err := flush(); err != nil {
					return ast.WalkStop, err
				}

				current = &Program{Name: strings.TrimPrefix(headingText, "Test: ")}
				sawStdout = false
			}
		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)

			switch language {
			case FenceProgram, FenceStdin, FenceStdout, FenceCompileError:
				if current == nil {
					return ast.WalkStop, fmt.Errorf("%s fence found outside of a test section", language)
				}
			default:
				// prose code blocks are allowed anywhere
				return ast.WalkContinue, nil
			}

			switch language {
			case FenceProgram:
				if current.Source != "" {
					return ast.WalkStop, fmt.Errorf("test '%s' has multiple %s fences", current.Name, FenceProgram)
				}

				current.Source = content
			case FenceStdin:
				current.Stdin = content
			case FenceStdout:
				current.Stdout = content
				sawStdout = true
			case FenceCompileError:
				current.CompileError = true
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return programs, nil
}

// extractTextFromNode collects the text content of an inline container node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}

	return buf.String()
}

// extractCodeBlockContent collects the raw lines of a fenced code block
func extractCodeBlockContent(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}

	return buf.String()
}
