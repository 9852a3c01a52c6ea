package docmap

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stubdoc/internal/errors"
)

func TestRoundTrip(t *testing.T) {
	m := Map{
		"netCDF4._netCDF4":               "Top module doc.",
		"netCDF4._netCDF4.Dataset":       "A netCDF Dataset.",
		"netCDF4._netCDF4.Dataset.close": "Close the dataset.",
	}

	path := filepath.Join(t.TempDir(), "docstrings.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Errorf("round trip mismatch:\n  saved:  %v\n  loaded: %v", m, loaded)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		if !errors.Is(err, errors.ConfigError) {
			t.Errorf("want ConfigError, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, errors.ConfigError) {
			t.Errorf("want ConfigError, got %v", err)
		}
	})
}

func TestKeys(t *testing.T) {
	m := Map{"b.y": "2", "a.x": "1", "c.z": "3"}
	want := []string{"a.x", "b.y", "c.z"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestUnused(t *testing.T) {
	m := Map{
		"mod":                       "doc",
		"mod.Dataset":               "doc",
		"mod.GhostType.ghostMethod": "doc",
	}
	used := map[string]bool{"mod": true, "mod.Dataset": true}

	want := []string{"mod.GhostType.ghostMethod"}
	if got := m.Unused(used); !reflect.DeepEqual(got, want) {
		t.Errorf("Unused() = %v, want %v", got, want)
	}

	if got := m.Unused(map[string]bool{"mod": true, "mod.Dataset": true, "mod.GhostType.ghostMethod": true}); got != nil {
		t.Errorf("Unused() with all used = %v, want nil", got)
	}
}
