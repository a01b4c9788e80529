// Package config defines the Go struct types for suitegen's run
// configuration and provides strict YAML parsing (spec.md §6 "Configuration
// options"), following the teacher's own config-loading shape in
// pkg/schema: a plain Go struct tagged for both yaml.v3 and
// invopop/jsonschema, decoded with KnownFields(true) so a typo'd option
// name fails loudly instead of being silently ignored.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ormasoftchile/suitegen/internal/factory"
)

// MutationProbabilities mirrors factory.MutationProbabilities in wire form
// (spec.md §6 "mutation_probabilities: {insert, change, delete} (sum ≤ 1,
// residual = no-op)").
type MutationProbabilities struct {
	Insert float64 `yaml:"insert" json:"insert"`
	Change float64 `yaml:"change" json:"change"`
	Delete float64 `yaml:"delete" json:"delete"`
}

// ToFactory converts the wire probabilities to factory.MutationProbabilities.
func (p MutationProbabilities) ToFactory() factory.MutationProbabilities {
	return factory.MutationProbabilities{Insert: p.Insert, Change: p.Change, Delete: p.Delete}
}

// MutationConfig bundles the config knobs that feed the factory's primitive
// synthesis and the assertgen mutation-analysis pass: SeedRatios is the
// `config.Config.Mutation.SeedRatios` SPEC_FULL.md §4.3 names as the source
// of the factory's random/pool/mutated draw ratio.
type MutationConfig struct {
	SeedRatios   factory.SeedRatios `yaml:"seed_ratios,omitempty" json:"seed_ratios,omitempty"`
	Probabilities MutationProbabilities `yaml:"probabilities,omitempty" json:"probabilities,omitempty"`
	Operators    []string           `yaml:"operators,omitempty" json:"operators,omitempty" jsonschema:"description=subset of the mutation operator catalog"`
}

// SelectionConfig names the selection strategy (spec.md §6 "selection:
// {rank, tournament(k)}; rank_bias; tournament_size").
type SelectionConfig struct {
	Kind           string  `yaml:"kind" json:"kind" jsonschema:"enum=rank,enum=tournament"`
	RankBias       float64 `yaml:"rank_bias,omitempty" json:"rank_bias,omitempty"`
	TournamentSize int     `yaml:"tournament_size,omitempty" json:"tournament_size,omitempty"`
}

// StoppingConfig names one or more stopping conditions combined with
// logical OR (spec.md §4.7), plus the `[FULL]` expr-lang escape hatch
// (SPEC_FULL.md §4.7).
type StoppingConfig struct {
	MaxIterations           int      `yaml:"max_iterations,omitempty" json:"max_iterations,omitempty"`
	MaxWallClock            Duration `yaml:"max_wall_clock,omitempty" json:"max_wall_clock,omitempty"`
	MaxStatementExecutions  int      `yaml:"max_statement_executions,omitempty" json:"max_statement_executions,omitempty"`
	MaxTestExecutions       int      `yaml:"max_test_executions,omitempty" json:"max_test_executions,omitempty"`
	MaxCoverage             float64  `yaml:"max_coverage,omitempty" json:"max_coverage,omitempty"`
	CoveragePlateau         int      `yaml:"coverage_plateau,omitempty" json:"coverage_plateau,omitempty"`
	MaxResidentMemoryMB     float64  `yaml:"max_resident_memory_mb,omitempty" json:"max_resident_memory_mb,omitempty"`
	Expr                    string   `yaml:"expr,omitempty" json:"expr,omitempty" jsonschema:"description=boolean expr-lang/expr expression over run statistics"`
}

// Timeouts bounds statement, test, and total run wall-clock time (spec.md
// §6 "timeouts: per-statement, per-test, total").
type Timeouts struct {
	PerStatement Duration `yaml:"per_statement,omitempty" json:"per_statement,omitempty"`
	PerTest      Duration `yaml:"per_test,omitempty" json:"per_test,omitempty"`
	Total        Duration `yaml:"total,omitempty" json:"total,omitempty"`
}

// Config is the top-level run configuration spec.md §6 names, loaded from
// YAML and validated before any target code is instrumented.
type Config struct {
	Algorithm      string   `yaml:"algorithm" json:"algorithm" jsonschema:"required,enum=DynaMOSA,enum=MOSA,enum=MIO,enum=WholeSuite,enum=Random,enum=RandomSearch"`
	CoverageMetrics []string `yaml:"coverage_metrics,omitempty" json:"coverage_metrics,omitempty" jsonschema:"description=subset of branch,line,checked"`

	PopulationSize int `yaml:"population_size" json:"population_size" jsonschema:"required,minimum=1"`
	MaxTestLength  int `yaml:"max_test_length" json:"max_test_length" jsonschema:"required,minimum=1"`
	MaxSuiteLength int `yaml:"max_suite_length" json:"max_suite_length" jsonschema:"required,minimum=1"`

	Mutation           MutationConfig  `yaml:"mutation,omitempty" json:"mutation,omitempty"`
	CrossoverProbability float64       `yaml:"crossover_probability" json:"crossover_probability"`

	Selection SelectionConfig `yaml:"selection,omitempty" json:"selection,omitempty"`
	Stopping  StoppingConfig  `yaml:"stopping" json:"stopping" jsonschema:"required"`

	Seed *int64 `yaml:"seed,omitempty" json:"seed,omitempty" jsonschema:"description=unset means auto-seed, logged"`

	AssertionStrategy string `yaml:"assertion_strategy" json:"assertion_strategy" jsonschema:"required,enum=simple,enum=mutation,enum=none"`

	Timeouts Timeouts `yaml:"timeouts" json:"timeouts" jsonschema:"required"`

	Subprocess bool `yaml:"subprocess,omitempty" json:"subprocess,omitempty"`

	IncludeMethods []string `yaml:"include_methods,omitempty" json:"include_methods,omitempty"`
	ExcludeMethods []string `yaml:"exclude_methods,omitempty" json:"exclude_methods,omitempty"`
	ExcludeModules []string `yaml:"exclude_modules,omitempty" json:"exclude_modules,omitempty"`
}

// Default returns the baseline configuration the CLI falls back to absent
// an explicit YAML file, matching the teacher's style of keeping a single
// exported zero-config default rather than scattering literals across
// call sites.
func Default() Config {
	return Config{
		Algorithm:            "DynaMOSA",
		CoverageMetrics:      []string{"branch"},
		PopulationSize:       50,
		MaxTestLength:        40,
		MaxSuiteLength:       200,
		Mutation:             MutationConfig{SeedRatios: factory.DefaultSeedRatios, Probabilities: MutationProbabilities{Insert: 0.1, Change: 0.1, Delete: 0.1}},
		CrossoverProbability: 0.75,
		Selection:            SelectionConfig{Kind: "rank", RankBias: 1.7},
		Stopping:             StoppingConfig{MaxIterations: 200},
		AssertionStrategy:    "mutation",
		Timeouts:             Timeouts{PerStatement: Duration(5 * time.Second), PerTest: Duration(10 * time.Second), Total: Duration(5 * time.Minute)},
	}
}

// LoadFile reads and strictly parses a YAML config file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a configuration document from r with strict unknown-field
// rejection, seeded from Default() so unset optional sections keep their
// baseline values.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
