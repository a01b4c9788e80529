// Package main is the suitegen CLI: compile a target, search for a covering
// test suite, and emit the generated tests plus run statistics.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/config"
	"github.com/ormasoftchile/suitegen/internal/errs"
	"github.com/ormasoftchile/suitegen/internal/mcpserver"
	"github.com/ormasoftchile/suitegen/internal/progress"
	"github.com/ormasoftchile/suitegen/internal/repl"
	"github.com/ormasoftchile/suitegen/internal/runner"
	"github.com/ormasoftchile/suitegen/internal/stats"
	"github.com/ormasoftchile/suitegen/internal/tui"
	"github.com/ormasoftchile/suitegen/internal/unparser"
)

// Version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		code := 1
		var kindErr *errs.Error
		if errors.As(err, &kindErr) {
			code = kindErr.Kind.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}

func now() time.Time { return time.Now() }

func sinceNow(start time.Time) time.Duration { return time.Since(start) }

var rootCmd = &cobra.Command{
	Use:   "suitegen",
	Short: "Search-based test suite generator",
	Long:  "suitegen searches for a test suite covering a target module, following the same DynaMOSA/MOSA/MIO/Whole-Suite/Random family Pynguin popularized.",
}

// --- run ---

var (
	runConfigPath string
	runModule     string
	runOut        string
	runStatsPath  string
	runDashboard  bool
	runInspect    bool
)

var runCmd = &cobra.Command{
	Use:   "run [target.lang]",
	Short: "Search for a covering test suite against a target source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := runner.CheckConsent(); err != nil {
		return errs.Fatal("cmd.run", err)
	}

	cfg := config.Default()
	if runConfigPath != "" {
		loaded, validationErrs := config.ValidateFile(runConfigPath)
		if err := config.AsError(validationErrs); err != nil {
			return err
		}
		cfg = *loaded
	}

	moduleName := runModule
	if moduleName == "" {
		base := filepath.Base(args[0])
		moduleName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	startedAt := now()

	arch := archive.NewMIOArchive()
	var observer progress.Observer
	var model tui.Model
	var dashboardErrCh chan error
	if runDashboard {
		model = tui.NewModel(arch)
		observer = model.Observer()
		dashboardErrCh = make(chan error, 1)
		go func() { dashboardErrCh <- tui.Run(model) }()
	}

	run, err := runner.Execute(cmd.Context(), args[0], moduleName, &cfg, observer, arch)
	if runDashboard {
		model.Complete(runIfOK(run), err)
		if derr := <-dashboardErrCh; derr != nil {
			fmt.Fprintf(os.Stderr, "dashboard: %v\n", derr)
		}
	}
	if err != nil {
		return errs.Setup("cmd.run", err)
	}

	fmt.Printf("algorithm: %s\n", run.Algorithm)
	fmt.Printf("iterations: %d\n", run.Iterations)
	fmt.Printf("coverage: %.1f%%\n", run.Coverage*100)
	if run.MutationScore > 0 {
		fmt.Printf("mutation score: %.2f\n", run.MutationScore)
	}

	if runOut != "" {
		if err := unparser.WriteFile(run.Suite, runOut); err != nil {
			return fmt.Errorf("write suite: %w", err)
		}
		fmt.Printf("suite written: %s\n", runOut)
	}

	if runStatsPath != "" {
		cfgJSON, err := stats.SnapshotConfig(&cfg)
		if err != nil {
			return err
		}
		rec := stats.Record{
			RunID:         stats.NewRunID(),
			Algorithm:     run.Algorithm,
			Seed:          seedValue(cfg.Seed),
			Iterations:    run.Iterations,
			Coverage:      run.Coverage,
			ArchiveSize:   archiveSize(run),
			MutationScore: run.MutationScore,
			WallTime:      sinceNow(startedAt),
			ConfigJSON:    cfgJSON,
		}
		if err := stats.AppendFile(runStatsPath, rec); err != nil {
			return err
		}
	}

	if runInspect {
		return repl.New(run.Suite, run.Archive).Run()
	}
	return nil
}

func runIfOK(run *runner.Run) float64 {
	if run == nil {
		return 0
	}
	return run.MutationScore
}

func seedValue(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

func archiveSize(run *runner.Run) int {
	if run.Archive == nil {
		return 0
	}
	return run.Archive.Total()
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the last run's status/archive (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := mcpserver.NewStatusObserver()
		s := mcpserver.NewServer(version, status, nil)
		return server.ServeStdio(s)
	},
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Configuration schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run-configuration JSON Schema to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.GenerateJSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [config.yaml]",
	Short: "Validate a run-configuration YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, validationErrs := config.ValidateFile(args[0])
		if err := config.AsError(validationErrs); err != nil {
			return err
		}
		fmt.Println("valid")
		return nil
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("suitegen %s\n", version)
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to a run configuration YAML file (default: built-in defaults)")
	runCmd.Flags().StringVar(&runModule, "module", "", "Module name to compile the target as (default: file base name)")
	runCmd.Flags().StringVar(&runOut, "out", "", "Write the generated suite as source text to this path")
	runCmd.Flags().StringVar(&runStatsPath, "stats", "", "Append a run-statistics row to this CSV file")
	runCmd.Flags().BoolVar(&runDashboard, "dashboard", false, "Show a live Bubble Tea dashboard while the search runs")
	runCmd.Flags().BoolVar(&runInspect, "inspect", false, "Drop into an interactive REPL over the finished suite/archive")

	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
