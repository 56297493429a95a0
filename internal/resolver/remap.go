package resolver

import (
	"regexp"
	"strings"
)

// driveLetterPattern matches a Windows drive prefix such as "C:"
var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:`)

// RemapRule rewrites an absolute import prefix to another prefix
type RemapRule struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// RemapTable is an ordered, read-only list of remap rules. Every stored
// prefix ends in "/" so a rule only matches at a segment boundary.
type RemapTable struct {
	rules  []RemapRule
	tracer Tracer
}

// NewRemapTable validates and normalizes rules, keeping their order.
func NewRemapTable(rules []RemapRule) (*RemapTable, error) {
	cleaned := make([]RemapRule, 0, len(rules))
	for _, rule := range rules {
		if err := validatePrefix("remap.from", rule.From); err != nil {
			return nil, err
		}
		if err := validatePrefix("remap.to", rule.To); err != nil {
			return nil, err
		}
		cleaned = append(cleaned, RemapRule{
			From: withTrailingSlash(rule.From),
			To:   withTrailingSlash(rule.To),
		})
	}
	return &RemapTable{rules: cleaned, tracer: NopTracer{}}, nil
}

// Remap rewrites specifier with the first rule whose From is a literal
// prefix of it. Specifiers that match no rule are returned unchanged.
func (t *RemapTable) Remap(specifier string) string {
	for _, rule := range t.rules {
		t.tracer.TryPrefix(rule.From)
		if strings.HasPrefix(specifier, rule.From) {
			return rule.To + specifier[len(rule.From):]
		}
	}
	return specifier
}

// Rules returns a copy of the normalized rules in match order
func (t *RemapTable) Rules() []RemapRule {
	out := make([]RemapRule, len(t.rules))
	copy(out, t.rules)
	return out
}

func (t *RemapTable) withTracer(tracer Tracer) *RemapTable {
	return &RemapTable{rules: t.rules, tracer: tracer}
}

func validatePrefix(field, prefix string) error {
	switch {
	case prefix == "":
		return newConfigError(field, prefix, "prefix cannot be empty")
	case strings.Contains(prefix, `\`):
		return newConfigError(field, prefix, "prefix must use POSIX separators")
	case driveLetterPattern.MatchString(prefix):
		return newConfigError(field, prefix, "prefix must not contain a drive letter")
	}
	return nil
}

func withTrailingSlash(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
