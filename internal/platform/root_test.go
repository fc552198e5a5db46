package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	t.Run("Finds System Dir Upwards", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, ".harrow"), 0755); err != nil {
			t.Fatal(err)
		}
		nested := filepath.Join(root, "topics", "deep")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatal(err)
		}

		got, err := FindRoot(nested)
		if err != nil {
			t.Fatalf("FindRoot failed: %v", err)
		}
		if got != root {
			t.Errorf("expected %s, got %s", root, got)
		}
	})

	t.Run("Finds Taxonomy Marker", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "_meta"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, "_meta", "TAXONOMY.md"), []byte("- `a`\n"), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := FindRoot(root)
		if err != nil {
			t.Fatalf("FindRoot failed: %v", err)
		}
		if got != root {
			t.Errorf("expected %s, got %s", root, got)
		}
	})

	t.Run("Errors When No Indicator", func(t *testing.T) {
		// A bare temp dir has no indicators; unless a parent happens to
		// carry one, we expect an error. Guard against CI homes with .git.
		dir := t.TempDir()
		got, err := FindRoot(dir)
		if err == nil && got == dir {
			t.Errorf("bare directory should not be its own root")
		}
	})
}
