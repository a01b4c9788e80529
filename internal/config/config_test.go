package config

import (
	"strings"
	"testing"
)

func TestLoad_AppliesDefaultsForOmittedFields(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
algorithm: MOSA
population_size: 20
max_test_length: 10
max_suite_length: 50
crossover_probability: 0.8
assertion_strategy: simple
timeouts:
  per_statement: 2s
  per_test: 4s
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "MOSA" {
		t.Errorf("want MOSA, got %s", cfg.Algorithm)
	}
	if cfg.Selection.Kind != "rank" {
		t.Errorf("want default selection kind rank, got %s", cfg.Selection.Kind)
	}
	if cfg.Mutation.SeedRatios.Random == 0 {
		t.Error("want a default seed ratio carried forward")
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	_, err := Load(strings.NewReader(`
algorithm: MOSA
population_size: 20
max_test_length: 10
max_suite_length: 50
crossover_probability: 0.8
assertion_strategy: simple
timeouts: {per_statement: 1s, per_test: 1s}
bogus_field: true
`))
	if err == nil {
		t.Fatal("want an error for an unknown field")
	}
}

func TestValidateDomain_FlagsOverAllocatedMutationProbabilities(t *testing.T) {
	cfg := Default()
	cfg.Mutation.Probabilities = MutationProbabilities{Insert: 0.6, Change: 0.6, Delete: 0.1}
	errs := ValidateDomain(&cfg)
	if len(errs) == 0 {
		t.Fatal("want a domain error for probabilities summing above 1")
	}
}

func TestValidateDomain_FlagsUnknownAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.Algorithm = "Bogus"
	errs := ValidateDomain(&cfg)
	found := false
	for _, e := range errs {
		if e.Path == "algorithm" {
			found = true
		}
	}
	if !found {
		t.Error("want an algorithm domain error")
	}
}

func TestValidateDomain_FlagsUnknownMutationOperator(t *testing.T) {
	cfg := Default()
	cfg.Mutation.Operators = []string{"not-a-real-operator"}
	errs := ValidateDomain(&cfg)
	if len(errs) == 0 {
		t.Fatal("want a domain error for an unrecognized mutation operator")
	}
}

func TestValidateDomain_AcceptsDefaultConfig(t *testing.T) {
	cfg := Default()
	if errs := ValidateDomain(&cfg); len(errs) != 0 {
		t.Errorf("want the default config to pass domain validation, got %v", errs)
	}
}

func TestGenerateJSONSchema_ProducesValidJSON(t *testing.T) {
	data, err := GenerateJSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("want a non-empty schema document")
	}
}
