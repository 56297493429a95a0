package bundler

// Metafile mirrors the JSON esbuild writes when BuildOptions.Metafile is set
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput is one source module
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
	Format  string           `json:"format,omitempty"`
}

// MetafileImport is one import edge. Original holds the specifier as
// written in the source; Path is where it resolved to.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// MetafileOutput is one generated file
type MetafileOutput struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	Imports    []MetafileImport        `json:"imports"`
	Exports    []string                `json:"exports"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
}

// InputContrib is the share of an input inside an output
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// AnalysisResult summarizes a bundle
type AnalysisResult struct {
	Name            string       `json:"name" yaml:"name"`
	TotalBytes      int          `json:"total_bytes" yaml:"total_bytes"`
	Modules         []ModuleSize `json:"modules" yaml:"modules"`
	Edges           []ImportEdge `json:"edges" yaml:"edges"`
	ExternalImports []string     `json:"external_imports,omitempty" yaml:"external_imports,omitempty"`
	Warnings        []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ModuleSize is the contribution of one module to the bundle
type ModuleSize struct {
	Path          string  `json:"path" yaml:"path"`
	Bytes         int     `json:"bytes" yaml:"bytes"`
	BytesInOutput int     `json:"bytes_in_output" yaml:"bytes_in_output"`
	Percentage    float64 `json:"percentage" yaml:"percentage"`
	ImportCount   int     `json:"import_count" yaml:"import_count"`
}

// ImportEdge records how one written specifier was resolved
type ImportEdge struct {
	Importer  string `json:"importer" yaml:"importer"`
	Specifier string `json:"specifier" yaml:"specifier"`
	Resolved  string `json:"resolved" yaml:"resolved"`
	External  bool   `json:"external,omitempty" yaml:"external,omitempty"`
	Absolute  bool   `json:"absolute,omitempty" yaml:"absolute,omitempty"`
}
