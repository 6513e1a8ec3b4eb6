package config

import (
	"fmt"
	"os"
	"path/filepath"

	"kielo/common"

	"github.com/pelletier/go-toml"
)

// tomlManifestFile represents the project manifest as it is encoded in TOML
type tomlManifestFile struct {
	Project *tomlProject `toml:"project"`
}

// tomlProject represents the `[project]` table of a manifest
type tomlProject struct {
	Name      string `toml:"name"`
	Output    string `toml:"output,omitempty"`
	Toolchain string `toml:"toolchain,omitempty"`
	KeepAsm   bool   `toml:"keep-asm"`
	LogLevel  string `toml:"log-level,omitempty"`
}

// Manifest is the validated, extracted form of a `kielo.toml` project file.
// Every field except Name may be overridden by a command line flag.
type Manifest struct {
	// Name is the project name (required when a manifest exists)
	Name string

	// Output is the output executable path; empty means derive it from the
	// source file stem
	Output string

	// Toolchain selects how the generated assembly is turned into an
	// executable: "ld" (as + ld with the freestanding runtime) or "gcc"
	Toolchain string

	// KeepAsm requests that the generated `.s` file be kept beside the output
	KeepAsm bool

	// LogLevel is the default log level (overridden by the CLI selector)
	LogLevel string
}

// Toolchain names accepted in a manifest (and by the CLI selector)
const (
	ToolchainLD  = "ld"
	ToolchainGCC = "gcc"
)

// LoadManifest looks for a `kielo.toml` next to the given source file and
// loads it if present.  The manifest is optional: (nil, nil) means there was
// none, which is not an error.
func LoadManifest(srcPath string) (*Manifest, error) {
	manifestPath := filepath.Join(filepath.Dir(srcPath), common.ManifestFileName)

	buff, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	return ParseManifest(buff)
}

// ParseManifest unmarshals and validates manifest contents
func ParseManifest(buff []byte) (*Manifest, error) {
	tmf := &tomlManifestFile{}
	if err := toml.Unmarshal(buff, tmf); err != nil {
		return nil, err
	}

	if tmf.Project == nil {
		return nil, fmt.Errorf("missing [project] table in %s", common.ManifestFileName)
	}

	manifest := &Manifest{
		Name:      tmf.Project.Name,
		Output:    tmf.Project.Output,
		Toolchain: tmf.Project.Toolchain,
		KeepAsm:   tmf.Project.KeepAsm,
		LogLevel:  tmf.Project.LogLevel,
	}

	if err := validateManifest(manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

// validateManifest checks that the manifest contents are usable
func validateManifest(manifest *Manifest) error {
	if manifest.Name == "" {
		return fmt.Errorf("missing project name in %s", common.ManifestFileName)
	}

	switch manifest.Toolchain {
	case "", ToolchainLD, ToolchainGCC:
	default:
		return fmt.Errorf("unknown toolchain `%s` (expected `%s` or `%s`)", manifest.Toolchain, ToolchainLD, ToolchainGCC)
	}

	return nil
}
