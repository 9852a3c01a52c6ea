package snapshot

import (
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"stubdoc/internal/docmap"
	"stubdoc/internal/errors"
	"stubdoc/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	docs := docmap.Map{
		"netCDF4._netCDF4":         "Top module doc.",
		"netCDF4._netCDF4.Dataset": "A netCDF Dataset.",
	}

	id, err := store.Save("netCDF4._netCDF4", "1.6.5", docs)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Error("Save returned empty id")
	}

	loaded, err := store.Load("netCDF4._netCDF4", "1.6.5")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(docs, loaded) {
		t.Errorf("round trip mismatch: %v", loaded)
	}
}

func TestSaveReplacesVersion(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Save("mod", "1.0", docmap.Map{"mod": "old"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("mod", "1.0", docmap.Map{"mod": "new"}); err != nil {
		t.Fatalf("Save over existing version: %v", err)
	}

	loaded, err := store.Load("mod", "1.0")
	if err != nil {
		t.Fatal(err)
	}
	if loaded["mod"] != "new" {
		t.Errorf("loaded doc = %q, want new", loaded["mod"])
	}

	infos, err := store.List("mod")
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("List returned %d snapshots, want 1", len(infos))
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load("mod", "9.9")
	if !errors.Is(err, errors.SnapshotMissing) {
		t.Errorf("want SnapshotMissing, got %v", err)
	}
}

func TestList(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Save("mod", "1.0", docmap.Map{"mod": "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("mod", "1.1", docmap.Map{"mod": "b", "mod.X": "c"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("other", "2.0", docmap.Map{"other": "d"}); err != nil {
		t.Fatal(err)
	}

	infos, err := store.List("mod")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List(mod) returned %d snapshots, want 2", len(infos))
	}
	for _, info := range infos {
		if info.Module != "mod" {
			t.Errorf("List(mod) returned module %q", info.Module)
		}
	}

	all, err := store.List("")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(\"\") returned %d snapshots, want 3", len(all))
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Save("mod", "1.0", docmap.Map{"mod": "a"}); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("mod", "1.0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete("mod", "1.0"); !errors.Is(err, errors.SnapshotMissing) {
		t.Errorf("second Delete: want SnapshotMissing, got %v", err)
	}
}
