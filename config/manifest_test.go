package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseManifest(t *testing.T) {
	manifest, err := ParseManifest([]byte(`
[project]
name = "demo"
output = "bin/demo"
toolchain = "gcc"
keep-asm = true
log-level = "warning"
`))
	be.Err(t, err, nil)
	be.Equal(t, manifest.Name, "demo")
	be.Equal(t, manifest.Output, "bin/demo")
	be.Equal(t, manifest.Toolchain, ToolchainGCC)
	be.True(t, manifest.KeepAsm)
	be.Equal(t, manifest.LogLevel, "warning")
}

func TestParseManifestDefaults(t *testing.T) {
	manifest, err := ParseManifest([]byte("[project]\nname = \"demo\"\n"))
	be.Err(t, err, nil)
	be.Equal(t, manifest.Output, "")
	be.Equal(t, manifest.Toolchain, "")
	be.True(t, !manifest.KeepAsm)
}

func TestParseManifestErrors(t *testing.T) {
	// missing [project] table
	_, err := ParseManifest([]byte("name = \"demo\"\n"))
	be.Err(t, err)

	// missing name
	_, err = ParseManifest([]byte("[project]\noutput = \"x\"\n"))
	be.Err(t, err)

	// bogus toolchain
	_, err = ParseManifest([]byte("[project]\nname = \"demo\"\ntoolchain = \"nasm\"\n"))
	be.Err(t, err)

	// not TOML at all
	_, err = ParseManifest([]byte("{ not toml"))
	be.Err(t, err)
}

func TestLoadManifestIsOptional(t *testing.T) {
	dir := t.TempDir()

	manifest, err := LoadManifest(filepath.Join(dir, "prog.ki"))
	be.Err(t, err, nil)
	be.True(t, manifest == nil)
}

func TestLoadManifestBesideSource(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "kielo.toml")
	be.Err(t, os.WriteFile(manifestPath, []byte("[project]\nname = \"demo\"\n"), 0644), nil)

	manifest, err := LoadManifest(filepath.Join(dir, "prog.ki"))
	be.Err(t, err, nil)
	be.True(t, manifest != nil)
	be.Equal(t, manifest.Name, "demo")
}
