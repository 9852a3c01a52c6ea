// Package testutil provides golden-file helpers shared by package tests.
package testutil

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -update
var updateGolden = flag.Bool("update", false, "update golden files")

// CompareGolden compares got against the golden file, failing with
// both texts on mismatch. If -update is set, the golden file is
// rewritten instead.
func CompareGolden(t *testing.T, goldenPath string, got []byte) {
	t.Helper()

	if *updateGolden {
		if err := os.WriteFile(goldenPath, got, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		t.Fatalf("Golden mismatch for %s:\n--- want ---\n%s\n--- got ---\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			goldenPath, string(expected), string(got), t.Name())
	}
}
