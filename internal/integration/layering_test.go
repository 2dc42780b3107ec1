package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crmcore/testutil"
)

// TestLayering keeps storage backends independent of each other and the
// public packages free of internal wiring.
func TestLayering(t *testing.T) {
	repoRoot, err := findRepositoryRoot()
	if err != nil {
		t.Fatalf("find repository root: %v", err)
	}

	t.Run("backends do not import each other", func(t *testing.T) {
		base := filepath.Join(repoRoot, "internal", "infra", "persistence")
		entries, err := os.ReadDir(base)
		if err != nil {
			t.Fatalf("read %s: %v", base, err)
		}
		var backends []string
		for _, e := range entries {
			if e.IsDir() {
				backends = append(backends, e.Name())
			}
		}
		for _, name := range backends {
			var siblings []string
			for _, other := range backends {
				if other != name {
					siblings = append(siblings, "crmcore/internal/infra/persistence/"+other)
				}
			}
			testutil.AssertNoDirectImports(t, filepath.Join(base, name), testutil.ImportPrefixForbidden(siblings...), name+" must stand alone")
		}
	})

	t.Run("public packages stay internal free", func(t *testing.T) {
		for _, pkg := range []string{"domain", "filter"} {
			testutil.AssertNoDirectImports(t, filepath.Join(repoRoot, "pkg", pkg),
				testutil.ImportPrefixForbidden("crmcore/internal/", "crmcore/cmd/"), "pkg/"+pkg+" is importable by anyone")
		}
	})

	t.Run("cli goes through core packages", func(t *testing.T) {
		testutil.AssertNoDirectImports(t, filepath.Join(repoRoot, "cmd", "snapshot-to-sql"), func(path string) bool {
			return strings.HasPrefix(path, "gorm.io/") || strings.HasPrefix(path, "modernc.org/")
		}, "drivers are wired by the storage packages")
	})
}

func findRepositoryRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find go.mod file")
}
