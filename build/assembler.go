package build

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"kielo/config"
	"kielo/logging"
)

// assemble turns assembly text into a native executable by driving the
// external toolchain: `as --64` + `ld -m elf_x86_64` with the freestanding
// runtime, or a single `gcc` invocation.  On failure any partial output file
// is removed.
func assemble(asmText, outputPath, toolchain string, keepAsm bool) bool {
	full := runtimeHelpers + "\n" + asmText
	if toolchain != config.ToolchainGCC {
		full += startStub
	}

	asmFile, err := os.CreateTemp("", "kielo-*.s")
	if err != nil {
		logging.LogBuildError("Assembler", "failed to create temporary assembly file: "+err.Error())
		return false
	}
	asmPath := asmFile.Name()
	objPath := asmPath + ".o"

	defer func() {
		os.Remove(asmPath)
		os.Remove(objPath)
	}()

	if _, err = asmFile.WriteString(full); err != nil {
		asmFile.Close()
		logging.LogBuildError("Assembler", "failed to write assembly file: "+err.Error())
		return false
	}
	asmFile.Close()

	if keepAsm {
		if err = os.WriteFile(outputPath+".s", []byte(full), 0644); err != nil {
			logging.LogBuildError("Assembler", "failed to keep assembly file: "+err.Error())
			return false
		}
	}

	if toolchain == config.ToolchainGCC {
		if !runTool("Linker", "gcc", "-no-pie", "-o", outputPath, asmPath) {
			os.Remove(outputPath)
			return false
		}
	} else {
		if !runTool("Assembler", "as", "--64", "-o", objPath, asmPath) {
			return false
		}

		if !runTool("Linker", "ld", "-m", "elf_x86_64", "-e", "_start", "-o", outputPath, objPath) {
			os.Remove(outputPath)
			return false
		}
	}

	if err = os.Chmod(outputPath, 0755); err != nil {
		logging.LogBuildError("Linker", "failed to mark output executable: "+err.Error())
		return false
	}

	return true
}

// runTool runs one external tool and reports its failure output through the
// build error channel
func runTool(kind string, name string, args ...string) bool {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		msg := fmt.Sprintf("`%s` failed: %s", name, err.Error())
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			msg += "\n" + trimmed
		}

		logging.LogBuildError(kind, msg)
		return false
	}

	return true
}
