package engine

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"relog/internal/classify"
	"relog/internal/config"
	"relog/internal/journal"
	"relog/internal/lock"
	"relog/internal/logging"
	"relog/internal/paths"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
}

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	return New(root, config.DefaultConfig(), classify.DefaultRules(), testLogger()), root
}

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return abs
}

func readSource(t *testing.T, abs string) string {
	t.Helper()
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

const wallToolPathsSource = `#include "WallToolPaths.h"
#include <vector>

void compute() {
    spdlog::debug("compute wall width");
    spdlog::info("progress update");
}
`

func TestApplyFileRewritesDebugCall(t *testing.T) {
	e, root := newTestEngine(t)
	abs := writeSource(t, root, "src/WallToolPaths.cpp", wallToolPathsSource)

	outcome := e.ApplyFile(abs)
	if outcome.Status != StatusModified {
		t.Fatalf("status = %s (%s), want modified", outcome.Status, outcome.Reason)
	}
	if outcome.Path != "src/WallToolPaths.cpp" {
		t.Errorf("path = %s", outcome.Path)
	}

	got := readSource(t, abs)
	want := `#include "WallToolPaths.h"
#include <vector>
#include "utils/DebugManager.h"

void compute() {
    CURA_DEBUG(WALL_COMPUTATION, "compute wall width");
    spdlog::info("progress update");
}
`
	if got != want {
		t.Errorf("rewritten content:\n%s\nwant:\n%s", got, want)
	}

	txn := outcome.Txn
	if txn == nil {
		t.Fatal("expected a transaction")
	}
	if txn.Category != "WALL_COMPUTATION" {
		t.Errorf("category = %s", txn.Category)
	}
	if txn.ModificationCount != 2 {
		t.Errorf("modification count = %d, want 2 (rewrite + header)", txn.ModificationCount)
	}
	if txn.Modifications[0].Kind != journal.KindCallRewrite || txn.Modifications[0].LineNumber != 5 {
		t.Errorf("first modification = %+v", txn.Modifications[0])
	}
	if txn.Modifications[1].Kind != journal.KindHeaderInsertion || txn.Modifications[1].LineNumber != 3 {
		t.Errorf("second modification = %+v", txn.Modifications[1])
	}

	// Backup must be a byte-identical pre-mutation copy
	if txn.BackupPath != ".relog/backups/src/WallToolPaths.cpp" {
		t.Errorf("backup path = %s", txn.BackupPath)
	}
	backup := readSource(t, paths.JoinRootPath(root, txn.BackupPath))
	if backup != wallToolPathsSource {
		t.Error("backup differs from original content")
	}
	if hashBytes([]byte(backup)) != txn.OriginalHash {
		t.Error("original hash does not match backup content")
	}
	if hashBytes([]byte(got)) != txn.NewHash {
		t.Error("new hash does not match rewritten content")
	}
}

func TestApplyFileInfoOnlyIsUntouched(t *testing.T) {
	e, root := newTestEngine(t)

	source := `#include <vector>

void save() {
    spdlog::info("export complete");
    spdlog::warn("low disk space");
}
`
	abs := writeSource(t, root, "src/exporter.cpp", source)

	outcome := e.ApplyFile(abs)
	if outcome.Status != StatusSkipped {
		t.Fatalf("status = %s, want skipped", outcome.Status)
	}
	if outcome.Txn != nil {
		t.Error("skipped file must not produce a transaction")
	}
	if got := readSource(t, abs); got != source {
		t.Error("info-only file must stay byte-identical")
	}

	// The provisional backup is discarded on a no-op
	backupAbs := filepath.Join(paths.BackupDir(root), "src", "exporter.cpp")
	if _, err := os.Stat(backupAbs); !os.IsNotExist(err) {
		t.Error("no-op backup should have been removed")
	}
}

func TestApplyFileNonexistent(t *testing.T) {
	e, root := newTestEngine(t)

	outcome := e.ApplyFile(filepath.Join(root, "missing.cpp"))
	if outcome.Status != StatusSkipped {
		t.Fatalf("status = %s, want skipped", outcome.Status)
	}
	if outcome.Reason != "file does not exist" {
		t.Errorf("reason = %q", outcome.Reason)
	}
}

func TestApplyFileDenylist(t *testing.T) {
	e, root := newTestEngine(t)
	abs := writeSource(t, root, "utils/DebugManager.h", `#define CURA_DEBUG(cat, ...) spdlog::debug(__VA_ARGS__)`)

	outcome := e.ApplyFile(abs)
	if outcome.Status != StatusSkipped {
		t.Fatalf("status = %s, want skipped", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "denylisted") {
		t.Errorf("reason = %q", outcome.Reason)
	}
}

func TestApplyFileNoCandidate(t *testing.T) {
	e, root := newTestEngine(t)
	abs := writeSource(t, root, "src/plain.cpp", "int add(int a, int b) { return a + b; }\n")

	outcome := e.ApplyFile(abs)
	if outcome.Status != StatusSkipped || outcome.Reason != "no candidate logging calls" {
		t.Fatalf("outcome = %s (%s)", outcome.Status, outcome.Reason)
	}
}

func debugSource(message string) string {
	return "#include <vector>\n\nvoid f() {\n    spdlog::debug(\"" + message + "\");\n}\n"
}

func TestProcessAndUndoRoundTrip(t *testing.T) {
	e, root := newTestEngine(t)

	originals := map[string]string{
		"src/WallToolPaths.cpp": debugSource("compute wall width"),
		"src/infill.cpp":        debugSource("generating infill paths"),
		"src/slicer.cpp":        debugSource("slicing layer geometry"),
	}
	for rel, content := range originals {
		writeSource(t, root, rel, content)
	}

	summary, err := e.Process(nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Modified != 3 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.TotalModifications != 6 {
		t.Errorf("total modifications = %d, want 6 (rewrite + header per file)", summary.TotalModifications)
	}

	j, err := journal.Load(root)
	if err != nil {
		t.Fatalf("journal not persisted: %v", err)
	}
	if j.RunID != summary.RunID {
		t.Errorf("journal run ID %s != summary run ID %s", j.RunID, summary.RunID)
	}
	if j.EndTime == "" || j.TotalProcessed != 3 {
		t.Errorf("journal not finalized: end=%q total=%d", j.EndTime, j.TotalProcessed)
	}
	// WalkDir is lexical, so journal order is deterministic
	wantOrder := []string{"src/WallToolPaths.cpp", "src/infill.cpp", "src/slicer.cpp"}
	for i, want := range wantOrder {
		if j.CompletedFiles[i] != want {
			t.Errorf("completed[%d] = %s, want %s", i, j.CompletedFiles[i], want)
		}
	}

	// Every file actually changed
	for rel, content := range originals {
		if readSource(t, filepath.Join(root, filepath.FromSlash(rel))) == content {
			t.Errorf("%s was not rewritten", rel)
		}
	}

	result, err := e.UndoAll()
	if err != nil {
		t.Fatalf("UndoAll failed: %v", err)
	}
	if result.Restored != 3 || len(result.Failed) != 0 || !result.CleanedUp {
		t.Fatalf("undo result = %+v", result)
	}

	// Byte-identical restoration, journal and backups gone
	for rel, content := range originals {
		if readSource(t, filepath.Join(root, filepath.FromSlash(rel))) != content {
			t.Errorf("%s not restored byte-identical", rel)
		}
	}
	if journal.Exists(root) {
		t.Error("journal should be deleted after a full undo")
	}
	if _, err := os.Stat(paths.BackupDir(root)); !os.IsNotExist(err) {
		t.Error("backup store should be deleted after a full undo")
	}
}

func TestProcessSecondRunSkipsCompleted(t *testing.T) {
	e, root := newTestEngine(t)
	writeSource(t, root, "src/WallToolPaths.cpp", wallToolPathsSource)

	if _, err := e.Process(nil); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	summary, err := e.Process(nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Modified != 0 || summary.Failed != 0 {
		t.Fatalf("second run summary = %+v", summary)
	}

	j, err := journal.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(j.Modifications) != 1 {
		t.Errorf("resume duplicated transactions: %d", len(j.Modifications))
	}
}

func TestProcessResumeDetectsDrift(t *testing.T) {
	e, root := newTestEngine(t)
	abs := writeSource(t, root, "src/WallToolPaths.cpp", wallToolPathsSource)

	if _, err := e.Process(nil); err != nil {
		t.Fatal(err)
	}

	// Edit the completed file behind the engine's back
	if err := os.WriteFile(abs, []byte("// rewritten externally\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := e.Process(nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 1 failed", summary)
	}

	j, err := journal.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range j.FailedFiles {
		if f == "src/WallToolPaths.cpp" {
			found = true
		}
	}
	if !found {
		t.Errorf("drifted file not in failed list: %v", j.FailedFiles)
	}
}

func TestProcessExplicitList(t *testing.T) {
	e, root := newTestEngine(t)
	writeSource(t, root, "a.cpp", debugSource("first"))
	untouched := debugSource("second")
	absB := writeSource(t, root, "b.cpp", untouched)

	summary, err := e.Process([]string{"a.cpp"})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Scanned != 1 || summary.Modified != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if readSource(t, absB) != untouched {
		t.Error("file outside the explicit list was modified")
	}
}

func TestProcessSkipsExcludedDirs(t *testing.T) {
	e, root := newTestEngine(t)
	writeSource(t, root, "src/ok.cpp", debugSource("checked geometry"))
	excluded := debugSource("built artifact")
	absExcluded := writeSource(t, root, "build/gen.cpp", excluded)

	summary, err := e.Process(nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Modified != 1 {
		t.Fatalf("summary = %+v, want exactly one modified file", summary)
	}
	if readSource(t, absExcluded) != excluded {
		t.Error("file in excluded directory was modified")
	}
}

func TestProcessLockedRoot(t *testing.T) {
	e, root := newTestEngine(t)
	writeSource(t, root, "a.cpp", debugSource("held"))

	lk, err := lock.Acquire(root)
	if err != nil {
		t.Fatal(err)
	}
	defer lk.Release()

	if _, err := e.Process(nil); err == nil {
		t.Fatal("Process should fail while the root is locked")
	}
}

func TestUndoPartialKeepsJournalAndBackups(t *testing.T) {
	e, root := newTestEngine(t)
	writeSource(t, root, "a.cpp", debugSource("first path"))
	writeSource(t, root, "b.cpp", debugSource("second path"))

	if _, err := e.Process(nil); err != nil {
		t.Fatal(err)
	}

	// Sabotage one backup so its restoration must fail
	if err := os.Remove(filepath.Join(paths.BackupDir(root), "b.cpp")); err != nil {
		t.Fatal(err)
	}

	result, err := e.UndoAll()
	if err != nil {
		t.Fatalf("UndoAll returned a run-level error: %v", err)
	}
	if result.Restored != 1 || len(result.Failed) != 1 || result.Failed[0] != "b.cpp" {
		t.Fatalf("undo result = %+v", result)
	}
	if result.CleanedUp {
		t.Error("partial undo must not clean up")
	}
	if !journal.Exists(root) {
		t.Error("partial undo must keep the journal")
	}
	if _, err := os.Stat(filepath.Join(paths.BackupDir(root), "a.cpp")); err != nil {
		t.Error("partial undo must keep remaining backups")
	}
}

func TestUndoRejectsCorruptBackup(t *testing.T) {
	e, root := newTestEngine(t)
	abs := writeSource(t, root, "a.cpp", debugSource("path check"))

	if _, err := e.Process(nil); err != nil {
		t.Fatal(err)
	}
	rewritten := readSource(t, abs)

	// Corrupt the backup; the recorded hash-before must catch it
	if err := os.WriteFile(filepath.Join(paths.BackupDir(root), "a.cpp"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := e.UndoAll()
	if err != nil {
		t.Fatal(err)
	}
	if result.Restored != 0 || len(result.Failed) != 1 {
		t.Fatalf("undo result = %+v", result)
	}
	if readSource(t, abs) != rewritten {
		t.Error("live file must not be overwritten from a corrupt backup")
	}
}

func TestUndoWithoutJournal(t *testing.T) {
	e, _ := newTestEngine(t)

	result, err := e.UndoAll()
	if err != nil {
		t.Fatalf("UndoAll failed: %v", err)
	}
	if result.Total != 0 || result.Restored != 0 || result.CleanedUp {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestReadStatus(t *testing.T) {
	e, root := newTestEngine(t)

	report, err := ReadStatus(root)
	if err != nil || report != nil {
		t.Fatalf("fresh root: report=%v err=%v, want nil/nil", report, err)
	}

	for i := 0; i < 7; i++ {
		writeSource(t, root, "src/file"+string(rune('a'+i))+".cpp", debugSource("compute pass"))
	}
	summary, err := e.Process(nil)
	if err != nil {
		t.Fatal(err)
	}

	report, err = ReadStatus(root)
	if err != nil {
		t.Fatal(err)
	}
	if report == nil {
		t.Fatal("expected a report after processing")
	}
	if report.RunID != summary.RunID {
		t.Errorf("run ID mismatch")
	}
	if report.ProcessedFiles != 7 {
		t.Errorf("processed = %d, want 7", report.ProcessedFiles)
	}
	if len(report.RecentFiles) != 5 {
		t.Errorf("recent files = %d, want capped at 5", len(report.RecentFiles))
	}
	// The recent list is the tail of the processing order
	if report.RecentFiles[4].Filepath != "src/fileg.cpp" {
		t.Errorf("last recent file = %s", report.RecentFiles[4].Filepath)
	}
}

func TestCheckpointIntervalPersistsJournalMidRun(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CheckpointInterval = 1
	e := New(root, cfg, classify.DefaultRules(), testLogger())

	writeSource(t, root, "a.cpp", debugSource("checkpointed path"))
	if _, err := e.Process(nil); err != nil {
		t.Fatal(err)
	}

	j, err := journal.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(j.Modifications) != 1 {
		t.Errorf("journal transactions = %d", len(j.Modifications))
	}
}
