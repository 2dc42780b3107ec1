package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, _ ...any) { r.msg = format }

func TestDirectImportViolationsIgnoresTestFiles(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport \"gorm.io/gorm\"\nvar _ = gorm.Open\n")
	if err := os.WriteFile(filepath.Join(dir, "x_test.go"), src, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.go"), []byte("package tmp\nimport \"fmt\"\nvar _ = fmt.Sprint\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	viols, err := directImportViolations(dir, ImportPrefixForbidden("gorm.io/"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 0 {
		t.Fatalf("expected no violations, got %v", viols)
	}
}

func TestDirectImportViolationsReportsFile(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport \"gorm.io/gorm\"\nvar _ = gorm.Open\n")
	if err := os.WriteFile(filepath.Join(dir, "repo.go"), src, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	viols, err := directImportViolations(dir, ImportPrefixForbidden("zap", "gorm.io/"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.Contains(viols[0], "repo.go") {
		t.Fatalf("unexpected violations %v", viols)
	}

	rec := &recordingFatal{}
	failIfDirectViolations(rec, "no orm", viols)
	if rec.msg == "" {
		t.Fatalf("expected failure to be reported")
	}
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), ImportPrefixForbidden("x")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
