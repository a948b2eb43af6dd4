package config

import (
	"bytes"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// ApplyOverrides applies option overrides keyed by their configuration names
// (for example "site_url" or "blog_auto_permalink") on top of c. Nested
// sections take nested maps ("output": {"directory": "out"}). Unknown keys are
// rejected. It must be called before the build starts.
func (c *Config) ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	data, err := yaml.Marshal(maps.Clone(overrides))
	if err != nil {
		return fmt.Errorf("marshal overrides: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}

	c.normalize()
	return c.Validate()
}
