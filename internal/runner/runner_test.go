package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ormasoftchile/suitegen/internal/config"
)

const classifySrc = `
func classify(a, b) {
	if a == b {
		return 1
	}
	return 0
}
`

func writeFixture(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "target.lang")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.PopulationSize = 6
	cfg.Stopping.MaxIterations = 5
	cfg.AssertionStrategy = "none"
	seed := int64(1)
	cfg.Seed = &seed
	return &cfg
}

func TestCheckConsent_FailsWithoutEnvVar(t *testing.T) {
	t.Setenv(ConsentEnvVar, "")
	if err := CheckConsent(); err != ErrNoConsent {
		t.Errorf("want ErrNoConsent, got %v", err)
	}
}

func TestExecute_RequiresConsent(t *testing.T) {
	t.Setenv(ConsentEnvVar, "")
	path := writeFixture(t, classifySrc)
	_, err := Execute(context.Background(), path, "target", testConfig(), nil, nil)
	if err != ErrNoConsent {
		t.Errorf("want ErrNoConsent, got %v", err)
	}
}

func TestExecute_RunsDynaMOSAToCompletion(t *testing.T) {
	t.Setenv(ConsentEnvVar, "1")
	path := writeFixture(t, classifySrc)
	cfg := testConfig()
	cfg.Algorithm = "DynaMOSA"

	run, err := Execute(context.Background(), path, "target", cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if run.Iterations < cfg.Stopping.MaxIterations {
		t.Errorf("want at least %d iterations, got %d", cfg.Stopping.MaxIterations, run.Iterations)
	}
	if run.Algorithm != "dynamosa" {
		t.Errorf("want algorithm name dynamosa, got %q", run.Algorithm)
	}
	if run.Suite == nil {
		t.Fatal("want a non-nil suite")
	}
}

func TestExecute_MIOPopulatesSharedArchive(t *testing.T) {
	t.Setenv(ConsentEnvVar, "1")
	path := writeFixture(t, classifySrc)
	cfg := testConfig()
	cfg.Algorithm = "MIO"

	run, err := Execute(context.Background(), path, "target", cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if run.Archive == nil || run.Archive.Total() == 0 {
		t.Errorf("want the run's archive populated with goals, got %+v", run.Archive)
	}
}

func TestExecute_UnknownAlgorithmErrors(t *testing.T) {
	t.Setenv(ConsentEnvVar, "1")
	path := writeFixture(t, classifySrc)
	cfg := testConfig()
	cfg.Algorithm = "bogus"

	if _, err := Execute(context.Background(), path, "target", cfg, nil, nil); err == nil {
		t.Error("want an error for an unknown algorithm")
	}
}
