// Package resolver maps import specifiers to the files a bundler should load.
//
// Absolute specifiers ("/lib/x") are rewritten through an ordered prefix
// remap table and anchored to a fixed base directory. Relative specifiers
// are joined onto the importing file's directory. Every result carries the
// module extension. Resolution is pure string computation: no file is read
// or stat'ed, so a *Resolver can be shared by concurrent callers.
package resolver

import (
	"path"
	"regexp"
)

// Default external override. Imports of this exact specifier are left to
// the runtime instead of being bundled.
const (
	DefaultExternalSpecifier = "/apogeebase/FieldObject.js"
	DefaultExternalID        = "xxx/apogeebase/FieldObject.js"
)

var absolutePattern = regexp.MustCompile(`^[\\/]`)

// Kind tells which variant a Reference holds
type Kind int

const (
	KindUnresolved Kind = iota
	KindPath
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindExternal:
		return "external"
	default:
		return "unresolved"
	}
}

// MarshalText lets output encoders print the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Reference is the outcome of a single resolution
type Reference struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
}

// IsExternal reports whether the module must not be bundled
func (r Reference) IsExternal() bool { return r.Kind == KindExternal }

// IsUnresolved reports whether the caller should fall back to its own identity
func (r Reference) IsUnresolved() bool { return r.Kind == KindUnresolved }

func (r Reference) String() string {
	switch r.Kind {
	case KindPath:
		return r.Path
	case KindExternal:
		return "external:" + r.ID
	default:
		return "<unresolved>"
	}
}

// Options is the construction-time configuration of a Resolver
type Options struct {
	// WorkingDirectory is the absolute directory the resolver starts from
	WorkingDirectory string

	// RelativeOffsetToRoot locates the absolute import root relative to
	// WorkingDirectory. Empty means WorkingDirectory itself.
	RelativeOffsetToRoot string

	// RemapRules are tried in order; the first matching prefix wins
	RemapRules []RemapRule
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithTracer reports resolution steps to tracer
func WithTracer(tracer Tracer) Option {
	return func(r *Resolver) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithExternalOverride replaces the default external override
func WithExternalOverride(specifier, id string) Option {
	return func(r *Resolver) {
		r.externalSpecifier = specifier
		r.externalID = id
	}
}

// Resolver resolves import edges. It is immutable after New.
type Resolver struct {
	base              BaseDir
	table             *RemapTable
	tracer            Tracer
	externalSpecifier string
	externalID        string
}

// New validates opts and builds a resolver. Any malformed option yields a
// *ConfigError and a nil resolver.
func New(opts Options, options ...Option) (*Resolver, error) {
	base, err := NewBaseDir(opts.WorkingDirectory, opts.RelativeOffsetToRoot)
	if err != nil {
		return nil, err
	}
	table, err := NewRemapTable(opts.RemapRules)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		base:              base,
		tracer:            NopTracer{},
		externalSpecifier: DefaultExternalSpecifier,
		externalID:        DefaultExternalID,
	}
	for _, opt := range options {
		opt(r)
	}
	r.table = table.withTracer(r.tracer)

	return r, nil
}

// Resolve maps specifier, imported from importingFile, to a Reference. An
// empty importingFile denotes the bundle entry point and yields an
// unresolved reference.
func (r *Resolver) Resolve(specifier, importingFile string) Reference {
	if r.externalSpecifier != "" && specifier == r.externalSpecifier {
		ref := Reference{Kind: KindExternal, ID: r.externalID}
		r.tracer.Resolved(specifier, ref)
		return ref
	}

	r.tracer.Resolving(specifier, importingFile)

	if importingFile == "" {
		ref := Reference{Kind: KindUnresolved}
		r.tracer.Resolved(specifier, ref)
		return ref
	}

	var raw string
	if IsAbsolute(specifier) {
		remapped := r.table.Remap(specifier)
		if remapped != specifier {
			r.tracer.Remapped(specifier, remapped)
		}
		raw = r.base.Anchor(remapped)
	} else {
		raw = path.Join(path.Dir(importingFile), specifier)
	}

	ref := Reference{Kind: KindPath, Path: Normalize(raw)}
	r.tracer.Resolved(specifier, ref)
	return ref
}

// IsAbsolute reports whether specifier starts with a path separator
func IsAbsolute(specifier string) bool {
	return absolutePattern.MatchString(specifier)
}

// BaseDir returns the directory absolute specifiers are anchored to
func (r *Resolver) BaseDir() string {
	return r.base.String()
}

// Rules returns the normalized remap rules in match order
func (r *Resolver) Rules() []RemapRule {
	return r.table.Rules()
}
