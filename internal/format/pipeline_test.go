package format

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"stubdoc/internal/errors"
	"stubdoc/internal/logging"
)

func quietLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
}

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writePipeline(t, `
pre:
  - name: format
    command: ["ruff", "format", "{file}"]
post:
  - name: format
    command: ["ruff", "format", "{file}"]
  - name: fix ellipsis
    command: ["ruff", "check", "--fix-only", "--fixable", "PIE790,D209,D212", "-s", "{file}"]
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Pre) != 1 || len(p.Post) != 2 {
		t.Errorf("pipeline shape: pre=%d post=%d", len(p.Pre), len(p.Post))
	}
	if p.Post[1].Name != "fix ellipsis" {
		t.Errorf("step name = %q", p.Post[1].Name)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, errors.ConfigError) {
			t.Errorf("want ConfigError, got %v", err)
		}
	})

	t.Run("empty command", func(t *testing.T) {
		path := writePipeline(t, "pre:\n  - name: broken\n")
		_, err := Load(path)
		if !errors.Is(err, errors.ConfigError) {
			t.Errorf("want ConfigError, got %v", err)
		}
	})
}

func TestExpand(t *testing.T) {
	got := expand([]string{"ruff", "format", "{file}"}, "stubs/_netCDF4.pyi")
	want := []string{"ruff", "format", "stubs/_netCDF4.pyi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expand() = %v, want %v", got, want)
	}
}

func TestRunSteps(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}

	t.Run("success", func(t *testing.T) {
		p := &Pipeline{Pre: []Step{{Name: "noop", Command: []string{"sh", "-c", "true"}}}}
		if err := p.RunPre(context.Background(), quietLogger(), "mod.pyi"); err != nil {
			t.Errorf("RunPre: %v", err)
		}
	})

	t.Run("failure", func(t *testing.T) {
		p := &Pipeline{Post: []Step{{Name: "fail", Command: []string{"sh", "-c", "echo boom >&2; exit 3"}}}}
		err := p.RunPost(context.Background(), quietLogger(), "mod.pyi")
		if !errors.Is(err, errors.FormatterFailed) {
			t.Fatalf("want FormatterFailed, got %v", err)
		}
	})

	t.Run("placeholder reaches command", func(t *testing.T) {
		dir := t.TempDir()
		marker := filepath.Join(dir, "seen")
		p := &Pipeline{Pre: []Step{{Name: "touch", Command: []string{"cp", "{file}", marker}}}}

		stub := filepath.Join(dir, "mod.pyi")
		if err := os.WriteFile(stub, []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := p.RunPre(context.Background(), quietLogger(), stub); err != nil {
			t.Fatalf("RunPre: %v", err)
		}
		if _, err := os.Stat(marker); err != nil {
			t.Errorf("placeholder was not expanded: %v", err)
		}
	})
}
