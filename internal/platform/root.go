package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks upwards from startDir looking for a corpus root
// indicator: a .harrow directory, a _meta/TAXONOMY.md file, or a .git
// directory. Returns the absolute path of the first directory carrying
// one, or an error when the filesystem root is reached.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".harrow") || hasFile(dir, filepath.Join("_meta", "TAXONOMY.md")) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("corpus root not found above %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
