package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config YAML can spell timeouts the way a
// human would ("5s", "2m30s") instead of raw nanosecond integers — yaml.v3
// has no built-in hook for time.Duration, so this package supplies one the
// way the teacher's own schema package supplies custom (Un)MarshalJSON for
// TreeNode's irregular shape (pkg/schema/schema.go).
type Duration time.Duration

// Duration returns the wrapped value as a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
