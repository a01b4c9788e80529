package config

import (
	"encoding/json"
	"fmt"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ormasoftchile/suitegen/internal/errs"
	"github.com/ormasoftchile/suitegen/internal/ga"
	"github.com/ormasoftchile/suitegen/internal/mutate"
)

// ValidationError is one configuration problem, tagged with the validation
// phase it was caught in — the same structural/semantic/domain split and
// shape as the teacher's pkg/schema.ValidationError, retargeted from
// runbook steps to run-configuration fields.
type ValidationError struct {
	Phase   string // structural, semantic, domain
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// ValidateFile runs the full 3-phase validation pipeline on a config file:
// Phase 1 structural (strict YAML decode), Phase 2 semantic (JSON Schema),
// Phase 3 domain (custom Go rules) — spec.md §6's configuration options
// checked as a whole, not just individually well-typed.
func ValidateFile(path string) (*Config, []*ValidationError) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{Phase: "structural", Message: err.Error()}}
	}
	var all []*ValidationError
	all = append(all, validateSemantic(cfg)...)
	all = append(all, ValidateDomain(cfg)...)
	if len(all) > 0 {
		return cfg, all
	}
	return cfg, nil
}

func validateSemantic(cfg *Config) []*ValidationError {
	data, err := json.Marshal(cfg)
	if err != nil {
		return []*ValidationError{{Phase: "semantic", Message: fmt.Sprintf("marshal for schema validation: %v", err)}}
	}
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return []*ValidationError{{Phase: "semantic", Message: fmt.Sprintf("generate schema: %v", err)}}
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{{Phase: "semantic", Message: fmt.Sprintf("unmarshal schema: %v", err)}}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("config-v1.json", schemaDoc); err != nil {
		return []*ValidationError{{Phase: "semantic", Message: fmt.Sprintf("add schema resource: %v", err)}}
	}
	sch, err := c.Compile("config-v1.json")
	if err != nil {
		return []*ValidationError{{Phase: "semantic", Message: fmt.Sprintf("compile schema: %v", err)}}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{{Phase: "semantic", Message: fmt.Sprintf("unmarshal document: %v", err)}}
	}

	if err := sch.Validate(doc); err != nil {
		var out []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				out = append(out, &ValidationError{
					Phase:   "semantic",
					Path:    strings.Join(cause.InstanceLocation, "/"),
					Message: fmt.Sprintf("%v", cause.ErrorKind),
				})
			}
		} else {
			out = append(out, &ValidationError{Phase: "semantic", Message: err.Error()})
		}
		return out
	}
	return nil
}

func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// mutationOperatorCatalog is the set of operator names config.Operators may
// name, drawn straight from mutate.All() so the catalog can never drift out
// of sync with the actual operator set.
func mutationOperatorCatalog() map[string]bool {
	out := map[string]bool{}
	for _, op := range mutate.All() {
		out[op.Name()] = true
	}
	return out
}

func algorithmCatalog() map[string]bool {
	return map[string]bool{
		ga.DynaMOSA{}.Name():     true,
		ga.MOSA{}.Name():         true,
		ga.MIO{}.Name():          true,
		ga.WholeSuite{}.Name():   true,
		ga.Random{}.Name():       true,
		ga.RandomSearch{}.Name(): true,
	}
}

// ValidateDomain performs Phase 3 domain-level validation: cross-field
// rules a JSON Schema alone can't express (sums, enum membership against a
// Go-defined catalog, mutually exclusive options).
func ValidateDomain(cfg *Config) []*ValidationError {
	var out []*ValidationError

	algos := algorithmCatalog()
	if !algos[strings.ToLower(cfg.Algorithm)] {
		out = append(out, &ValidationError{Phase: "domain", Path: "algorithm",
			Message: fmt.Sprintf("unrecognized algorithm %q", cfg.Algorithm)})
	}

	sum := cfg.Mutation.Probabilities.Insert + cfg.Mutation.Probabilities.Change + cfg.Mutation.Probabilities.Delete
	if sum > 1.0+1e-9 {
		out = append(out, &ValidationError{Phase: "domain", Path: "mutation.probabilities",
			Message: fmt.Sprintf("insert+change+delete must sum to at most 1, got %v", sum)})
	}

	if cfg.CrossoverProbability < 0 || cfg.CrossoverProbability > 1 {
		out = append(out, &ValidationError{Phase: "domain", Path: "crossover_probability",
			Message: fmt.Sprintf("must be in [0,1], got %v", cfg.CrossoverProbability)})
	}

	switch cfg.Selection.Kind {
	case "rank":
		if cfg.Selection.RankBias < 0 {
			out = append(out, &ValidationError{Phase: "domain", Path: "selection.rank_bias",
				Message: "rank_bias must be non-negative"})
		}
	case "tournament":
		if cfg.Selection.TournamentSize < 1 {
			out = append(out, &ValidationError{Phase: "domain", Path: "selection.tournament_size",
				Message: "tournament selection requires tournament_size >= 1"})
		}
	case "":
		// unset is allowed; callers default to rank selection.
	default:
		out = append(out, &ValidationError{Phase: "domain", Path: "selection.kind",
			Message: fmt.Sprintf("unrecognized selection kind %q", cfg.Selection.Kind)})
	}

	catalog := mutationOperatorCatalog()
	for _, name := range cfg.Mutation.Operators {
		if !catalog[name] {
			out = append(out, &ValidationError{Phase: "domain", Path: "mutation.operators",
				Message: fmt.Sprintf("unrecognized mutation operator %q", name)})
		}
	}

	for _, m := range cfg.CoverageMetrics {
		if m != "branch" && m != "line" && m != "checked" {
			out = append(out, &ValidationError{Phase: "domain", Path: "coverage_metrics",
				Message: fmt.Sprintf("unrecognized coverage metric %q", m)})
		}
	}

	if cfg.Timeouts.PerStatement <= 0 {
		out = append(out, &ValidationError{Phase: "domain", Path: "timeouts.per_statement", Message: "must be positive"})
	}
	if cfg.Timeouts.PerTest <= 0 {
		out = append(out, &ValidationError{Phase: "domain", Path: "timeouts.per_test", Message: "must be positive"})
	}

	excluded := map[string]bool{}
	for _, m := range cfg.ExcludeMethods {
		excluded[m] = true
	}
	for _, m := range cfg.IncludeMethods {
		if excluded[m] {
			out = append(out, &ValidationError{Phase: "domain", Path: "include_methods",
				Message: fmt.Sprintf("method %q appears in both include_methods and exclude_methods", m)})
		}
	}

	return out
}

// AsError joins a ValidateFile/ValidateDomain error slice into one
// errs.KindConfiguration error for the CLI boundary, matching spec.md §7's
// "Configuration: surfaced immediately, exit 1."
func AsError(validationErrs []*ValidationError) error {
	if len(validationErrs) == 0 {
		return nil
	}
	msgs := make([]string, len(validationErrs))
	for i, e := range validationErrs {
		msgs[i] = e.Error()
	}
	return errs.Wrap(errs.KindConfiguration, "config.Validate", fmt.Errorf("%s", strings.Join(msgs, "; ")))
}
