package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// RemapRules is the ordered remap section. It accepts either a list of
// {from, to} entries or a mapping of from: to, keeping the order written
// in the file in both cases.
type RemapRules []resolver.RemapRule

// UnmarshalYAML decodes the remap section from a yaml node
func (r *RemapRules) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var rules []resolver.RemapRule
		if err := value.Decode(&rules); err != nil {
			return err
		}
		*r = rules
		return nil
	case yaml.MappingNode:
		rules := make([]resolver.RemapRule, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: remap entries must map a prefix to a prefix", key.Line)
			}
			rules = append(rules, resolver.RemapRule{From: key.Value, To: val.Value})
		}
		*r = rules
		return nil
	default:
		return fmt.Errorf("line %d: remap must be a list or a mapping", value.Line)
	}
}

// Rules returns the rules as resolver input
func (r RemapRules) Rules() []resolver.RemapRule {
	out := make([]resolver.RemapRule, len(r))
	copy(out, r)
	return out
}
