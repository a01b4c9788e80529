// Package stats implements spec.md §6's run statistics output: "a
// statistics record (CSV-appendable) keyed by run id with fields including
// final coverage, archive size, iterations, mutation score, wall time, and
// the configuration snapshot... one row per run, header on first write."
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewRunID mints a fresh run id, the uuid.New().String() idiom the example
// pack reaches for whenever it needs a unique identifier (e.g.
// theRebelliousNerd-codenerd's campaign IDs) rather than a hand-rolled
// counter or hash.
func NewRunID() string { return uuid.New().String() }

// Record is one run's summary row.
type Record struct {
	RunID         string
	Algorithm     string
	Seed          int64
	Iterations    int
	Coverage      float64
	ArchiveSize   int
	MutationScore float64
	WallTime      time.Duration
	ConfigJSON    string // marshaled config snapshot, spec.md §6 "configuration snapshot"
}

var header = []string{
	"run_id", "algorithm", "seed", "iterations", "coverage",
	"archive_size", "mutation_score", "wall_time_ms", "config_json",
}

func (r Record) row() []string {
	return []string{
		r.RunID,
		r.Algorithm,
		strconv.FormatInt(r.Seed, 10),
		strconv.Itoa(r.Iterations),
		strconv.FormatFloat(r.Coverage, 'f', -1, 64),
		strconv.Itoa(r.ArchiveSize),
		strconv.FormatFloat(r.MutationScore, 'f', -1, 64),
		strconv.FormatInt(r.WallTime.Milliseconds(), 10),
		r.ConfigJSON,
	}
}

// SnapshotConfig marshals any configuration value (typically *config.Config)
// to a single-line JSON string suitable for Record.ConfigJSON, so this
// package doesn't need to import internal/config and create a cycle with
// whatever eventually imports stats.
func SnapshotConfig(cfg any) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("stats: snapshot config: %w", err)
	}
	return string(data), nil
}

// AppendFile appends rec as one CSV row to path, writing the header first
// if the file doesn't exist yet or is empty (spec.md §6 "header on first
// write").
func AppendFile(path string, rec Record) error {
	needsHeader, err := fileNeedsHeader(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("stats: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("stats: write header: %w", err)
		}
	}
	if err := w.Write(rec.row()); err != nil {
		return fmt.Errorf("stats: write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func fileNeedsHeader(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stats: stat %s: %w", path, err)
	}
	return info.Size() == 0, nil
}
