package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateDirLayout(t *testing.T) {
	root := "/tmp/project"

	if got := StateDir(root); got != filepath.Join(root, ".relog") {
		t.Errorf("StateDir = %s", got)
	}
	if got := JournalPath(root); got != filepath.Join(root, ".relog", "journal.json") {
		t.Errorf("JournalPath = %s", got)
	}
	if got := BackupDir(root); got != filepath.Join(root, ".relog", "backups") {
		t.Errorf("BackupDir = %s", got)
	}
	if got := HistoryDBPath(root); got != filepath.Join(root, ".relog", "history.db") {
		t.Errorf("HistoryDBPath = %s", got)
	}
}

func TestEnsureStateDir(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureStateDir(root)
	if err != nil {
		t.Fatalf("EnsureStateDir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("state dir not created: %v", err)
	}

	// Idempotent
	if _, err := EnsureStateDir(root); err != nil {
		t.Fatalf("second EnsureStateDir failed: %v", err)
	}
}

func TestCanonicalizePath(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "src")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	abs := filepath.Join(sub, "a.cpp")
	if err := os.WriteFile(abs, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rel, err := CanonicalizePath(abs, root)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}
	if rel != "src/a.cpp" {
		t.Errorf("rel = %s, want src/a.cpp", rel)
	}
}

func TestCanonicalizePathNonexistent(t *testing.T) {
	root := t.TempDir()

	rel, err := CanonicalizePath(filepath.Join(root, "missing.cpp"), root)
	if err != nil {
		t.Fatalf("nonexistent path should canonicalize as-is: %v", err)
	}
	if rel != "missing.cpp" {
		t.Errorf("rel = %s", rel)
	}
}

func TestCanonicalizePathResolvesSymlinks(t *testing.T) {
	root := t.TempDir()
	real := filepath.Join(root, "real.cpp")
	if err := os.WriteFile(real, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "link.cpp")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	rel, err := CanonicalizePath(link, root)
	if err != nil {
		t.Fatal(err)
	}
	if rel != "real.cpp" {
		t.Errorf("symlink should resolve to its target, got %s", rel)
	}
}

func TestIsWithinRoot(t *testing.T) {
	root := t.TempDir()

	if !IsWithinRoot(filepath.Join(root, "src", "a.cpp"), root) {
		t.Error("path inside root reported outside")
	}
	if IsWithinRoot(filepath.Join(root, "..", "elsewhere.cpp"), root) {
		t.Error("path outside root reported inside")
	}
}

func TestJoinRootPath(t *testing.T) {
	got := JoinRootPath("/tmp/project", "src/a.cpp")
	if got != filepath.Join("/tmp/project", "src", "a.cpp") {
		t.Errorf("JoinRootPath = %s", got)
	}

	// Backslash input is normalized
	got = JoinRootPath("/tmp/project", `src\b.cpp`)
	if got != filepath.Join("/tmp/project", "src", "b.cpp") {
		t.Errorf("JoinRootPath backslash = %s", got)
	}
}
