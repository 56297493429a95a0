// Package config provides configuration management for the absref CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// DefaultConfigName is the config file name looked up in the project
const DefaultConfigName = "absref.yaml"

// Config represents the absref configuration file
type Config struct {
	// WorkingDirectory is the directory the resolver starts from. Relative
	// values are taken relative to the config file's directory.
	WorkingDirectory string `yaml:"working_directory,omitempty"`

	// RelativeOffsetToRoot locates the absolute import root from WorkingDirectory
	RelativeOffsetToRoot string `yaml:"relative_offset_to_root,omitempty"`

	// Remap rules, tried in file order
	Remap RemapRules `yaml:"remap,omitempty"`

	// RemapFromPackage names a package.json whose dependencies are appended
	// to Remap as additional rules
	RemapFromPackage string `yaml:"remap_from_package,omitempty"`

	// Bundle settings for the bundle and analyze commands
	Bundle BundleConfig `yaml:"bundle,omitempty"`

	// dir is the directory relative paths in this file are resolved against
	dir string
}

// BundleConfig describes a release bundle
type BundleConfig struct {
	// Entry is the entry module, relative to the config directory
	Entry string `yaml:"entry,omitempty"`

	// OutDir receives the bundle outputs. Empty derives a release folder
	// from ReleasesDir and the package metadata.
	OutDir string `yaml:"out_dir,omitempty"`

	// ReleasesDir is the parent of the derived release folders
	ReleasesDir string `yaml:"releases_dir,omitempty"`

	// ESMFile and CJSFile name the two outputs
	ESMFile string `yaml:"esm_file,omitempty"`
	CJSFile string `yaml:"cjs_file,omitempty"`

	Version    string `yaml:"version,omitempty"`
	DevRelease bool   `yaml:"dev_release,omitempty"`
	Copyright  string `yaml:"copyright,omitempty"`
	License    string `yaml:"license,omitempty"`

	// CopyFiles are copied into OutDir next to the bundle
	CopyFiles []string `yaml:"copy_files,omitempty"`

	// Package names a package.json supplying version, output names and the
	// dev release flag when they are not set here. Defaults to
	// RemapFromPackage.
	Package string `yaml:"package,omitempty"`
}

// New creates a configuration rooted at dir
func New(dir string) *Config {
	return &Config{dir: dir}
}

// Load reads configuration from the specified path
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to locate config file: %w", err)
	}
	cfg.dir = filepath.Dir(abs)

	return &cfg, nil
}

// LoadOrDefault reads path, falling back to an empty configuration rooted
// at the current directory when no file exists there
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cwd, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", wdErr)
	}
	return New(cwd), nil
}

// Save writes the configuration to the specified path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Dir returns the directory relative paths are resolved against
func (c *Config) Dir() string {
	return c.dir
}

// Abs resolves p against the config directory
func (c *Config) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// ResolverOptions converts the file settings into resolver options. Rules
// from RemapFromPackage follow the explicit Remap rules.
func (c *Config) ResolverOptions() (resolver.Options, error) {
	wd := c.WorkingDirectory
	if wd == "" {
		wd = c.dir
	}
	wd = c.Abs(wd)

	rules := c.Remap.Rules()
	if c.RemapFromPackage != "" {
		pkg, err := LoadPackage(c.Abs(c.RemapFromPackage))
		if err != nil {
			return resolver.Options{}, err
		}
		rules = append(rules, pkg.RemapRules()...)
	}

	return resolver.Options{
		WorkingDirectory:     filepath.ToSlash(wd),
		RelativeOffsetToRoot: filepath.ToSlash(c.RelativeOffsetToRoot),
		RemapRules:           rules,
	}, nil
}

// NewResolver builds a resolver from the configuration
func (c *Config) NewResolver(opts ...resolver.Option) (*resolver.Resolver, error) {
	resolverOpts, err := c.ResolverOptions()
	if err != nil {
		return nil, err
	}
	r, err := resolver.New(resolverOpts, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return r, nil
}

// PackagePath returns the package.json used for bundle metadata, or ""
func (c *Config) PackagePath() string {
	if c.Bundle.Package != "" {
		return c.Abs(c.Bundle.Package)
	}
	return c.Abs(c.RemapFromPackage)
}

// LoadEnvFile loads environment variables from the first .env file found
// in dir. A missing file is not an error.
func LoadEnvFile(dir string) error {
	locations := []string{
		".env",
		".env.local",
	}

	for _, location := range locations {
		full := filepath.Join(dir, location)
		if _, err := os.Stat(full); err == nil {
			if err := godotenv.Load(full); err != nil {
				return fmt.Errorf("error loading .env file from %s: %w", full, err)
			}
			log.Debug().Str("file", full).Msg(".env file loaded")
			return nil
		}
	}

	return nil
}
