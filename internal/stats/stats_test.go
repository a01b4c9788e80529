package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendFile_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.csv")

	rec1 := Record{RunID: NewRunID(), Algorithm: "dynamosa", Seed: 1, Iterations: 10, Coverage: 0.9, ArchiveSize: 4, MutationScore: 0.5, WallTime: 2 * time.Second, ConfigJSON: "{}"}
	rec2 := Record{RunID: NewRunID(), Algorithm: "mio", Seed: 2, Iterations: 20, Coverage: 1.0, ArchiveSize: 6, MutationScore: 0.8, WallTime: 3 * time.Second, ConfigJSON: "{}"}

	if err := AppendFile(path, rec1); err != nil {
		t.Fatal(err)
	}
	if err := AppendFile(path, rec2); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != strings.Join(header, ",") {
		t.Errorf("want header row %q, got %q", strings.Join(header, ","), lines[0])
	}
	if !strings.Contains(lines[1], "dynamosa") || !strings.Contains(lines[2], "mio") {
		t.Errorf("want both algorithm names present, got %q", lines)
	}
}

func TestNewRunID_ProducesDistinctIDs(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Error("want two distinct run ids")
	}
}

func TestSnapshotConfig_MarshalsToJSON(t *testing.T) {
	snap, err := SnapshotConfig(struct{ Algorithm string }{"mosa"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(snap, "mosa") {
		t.Errorf("want snapshot to mention algorithm, got %q", snap)
	}
}
