package langtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

const sampleCorpus = `# Corpus

## Test: simple print

Some prose about the program.

` + "```kielo-program\nprint_int(1);\n```\n\n```stdout\n1\n```" + `

## Test: with input

` + "```kielo-program\nprint_int(read_int());\n```\n\n```stdin\n5\n```\n\n```stdout\n5\n```" + `

## Test: rejected

` + "```kielo-program\nbreak;\n```\n\n```compile-error\n```\n"

func TestExtractPrograms(t *testing.T) {
	programs, err := ExtractPrograms(sampleCorpus)
	be.Err(t, err, nil)
	be.Equal(t, len(programs), 3)

	be.Equal(t, programs[0].Name, "simple print")
	be.Equal(t, programs[0].Source, "print_int(1);\n")
	be.Equal(t, programs[0].Stdout, "1\n")
	be.Equal(t, programs[0].Stdin, "")
	be.True(t, !programs[0].CompileError)

	be.Equal(t, programs[1].Stdin, "5\n")

	be.Equal(t, programs[2].Name, "rejected")
	be.True(t, programs[2].CompileError)
}

func TestProgramWithoutSourceRejected(t *testing.T) {
	_, err := ExtractPrograms("# Doc\n\n## Test: empty\n\n```stdout\n1\n```\n")
	be.Err(t, err)
}

func TestProgramWithoutExpectationRejected(t *testing.T) {
	_, err := ExtractPrograms("## Test: aimless\n\n```kielo-program\nprint_int(1);\n```\n")
	be.Err(t, err)
}

func TestFenceOutsideTestRejected(t *testing.T) {
	_, err := ExtractPrograms("# Doc\n\n```kielo-program\nprint_int(1);\n```\n")
	be.Err(t, err)
}

func TestProseCodeBlocksAllowed(t *testing.T) {
	doc := "# Doc\n\n```\njust an example\n```\n\n## Test: ok\n\n```kielo-program\nprint_int(1);\n```\n\n```stdout\n1\n```\n"
	programs, err := ExtractPrograms(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(programs), 1)
}

func TestCorpusFileIsWellFormed(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "programs.md"))
	be.Err(t, err, nil)

	programs, err := ExtractPrograms(string(data))
	be.Err(t, err, nil)
	be.True(t, len(programs) >= 7)
}
