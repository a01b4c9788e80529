package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from the
// Go Config struct, the same invopop/jsonschema reflection the teacher uses
// in pkg/schema/export.go's GenerateJSONSchema for its Runbook type.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Config{})
	s.ID = "https://github.com/ormasoftchile/suitegen/schemas/config-v1.json"
	s.Title = "suitegen run configuration"
	s.Description = "Schema for suitegen's YAML run configuration (spec.md §6)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: marshal schema: %w", err)
	}
	return data, nil
}
