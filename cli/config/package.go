package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// Package holds the package.json fields a release bundle reads
type Package struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Module     string `json:"module"`
	Main       string `json:"main"`
	DevRelease bool   `json:"DEV_RELEASE"`

	// Dependencies in the order they appear in the file
	Dependencies []Dependency `json:"-"`
}

// Dependency is one entry of the dependencies object
type Dependency struct {
	Name  string
	Value string
}

// LoadPackage reads a package.json file
func LoadPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package file: %w", err)
	}
	return ParsePackage(data)
}

// ParsePackage decodes package.json content
func ParsePackage(data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package file: %w", err)
	}

	var raw struct {
		Dependencies json.RawMessage `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse package file: %w", err)
	}
	deps, err := orderedStringMap(raw.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("failed to parse package dependencies: %w", err)
	}
	pkg.Dependencies = deps

	return &pkg, nil
}

// RemapRules turns the dependencies into remap rules, one per entry
func (p *Package) RemapRules() []resolver.RemapRule {
	rules := make([]resolver.RemapRule, 0, len(p.Dependencies))
	for _, dep := range p.Dependencies {
		rules = append(rules, resolver.RemapRule{From: dep.Name, To: dep.Value})
	}
	return rules
}

// orderedStringMap decodes a JSON object of strings, keeping key order
func orderedStringMap(data json.RawMessage) ([]Dependency, error) {
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var deps []Dependency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("dependency %q: %w", key, err)
		}
		deps = append(deps, Dependency{Name: key, Value: value})
	}

	return deps, nil
}
