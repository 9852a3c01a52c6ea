package project

import (
	"os"
	"path/filepath"
	"testing"

	"stubdoc/internal/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeManifest(t, `
module = "netCDF4._netCDF4"
version = "1.6.5"
stubs = ["netCDF4-stubs/_netCDF4.pyi"]
docstrings = "docstrings/netCDF4._netCDF4.1.6.5_docstrings.json"
pipeline = "pipeline.yaml"
override = false
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Module != "netCDF4._netCDF4" {
		t.Errorf("Module = %q", m.Module)
	}
	if m.Version != "1.6.5" {
		t.Errorf("Version = %q", m.Version)
	}

	stubs := m.StubPaths()
	if len(stubs) != 1 || stubs[0] != filepath.Join(dir, "netCDF4-stubs/_netCDF4.pyi") {
		t.Errorf("StubPaths() = %v", stubs)
	}
	if got := m.Resolve(m.Docstrings); got != filepath.Join(dir, "docstrings/netCDF4._netCDF4.1.6.5_docstrings.json") {
		t.Errorf("Resolve(docstrings) = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing module", `stubs = ["a.pyi"]`},
		{"no stubs", `module = "m"`},
		{"bad toml", `module = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeManifest(t, tt.content)
			_, err := Load(dir)
			if !errors.Is(err, errors.ConfigError) {
				t.Errorf("want ConfigError, got %v", err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		if !errors.Is(err, errors.ConfigError) {
			t.Errorf("want ConfigError, got %v", err)
		}
	})
}

func TestResolveAbsolute(t *testing.T) {
	m := &Manifest{dir: "/proj"}
	if got := m.Resolve("/abs/path.pyi"); got != "/abs/path.pyi" {
		t.Errorf("Resolve(abs) = %q", got)
	}
	if got := m.Resolve(""); got != "" {
		t.Errorf("Resolve(empty) = %q", got)
	}
}
