package bundler

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// Analyzer turns an esbuild metafile into a size and import report
type Analyzer struct {
	baseDir string
}

// NewAnalyzer creates an analyzer that prints paths relative to baseDir
func NewAnalyzer(baseDir string) *Analyzer {
	return &Analyzer{baseDir: baseDir}
}

// Analyze parses metafile and summarizes it under name
func (a *Analyzer) Analyze(name, metafile string) (*AnalysisResult, error) {
	meta, err := decodeMetafile(metafile)
	if err != nil {
		return nil, err
	}
	return a.analyzeMetafile(meta, name), nil
}

func (a *Analyzer) analyzeMetafile(meta *Metafile, name string) *AnalysisResult {
	result := &AnalysisResult{Name: name}

	var entry string
	if output, ok := entryOutput(meta); ok {
		result.TotalBytes = output.Bytes
		entry = output.EntryPoint

		for _, imp := range output.Imports {
			if imp.External {
				result.ExternalImports = append(result.ExternalImports, imp.Path)
			}
		}

		for inputPath, contrib := range output.Inputs {
			inputInfo, ok := meta.Inputs[inputPath]
			if !ok {
				continue
			}

			percentage := 0.0
			if result.TotalBytes > 0 {
				percentage = float64(contrib.BytesInOutput) / float64(result.TotalBytes) * 100
			}

			result.Modules = append(result.Modules, ModuleSize{
				Path:          a.displayPath(inputPath, entry),
				Bytes:         inputInfo.Bytes,
				BytesInOutput: contrib.BytesInOutput,
				Percentage:    percentage,
				ImportCount:   len(inputInfo.Imports),
			})
		}
	}

	for inputPath, input := range meta.Inputs {
		for _, imp := range input.Imports {
			if imp.Original == "" {
				continue
			}
			resolved := imp.Path
			if !imp.External {
				resolved = a.displayPath(imp.Path, entry)
			}
			result.Edges = append(result.Edges, ImportEdge{
				Importer:  a.displayPath(inputPath, entry),
				Specifier: imp.Original,
				Resolved:  resolved,
				External:  imp.External,
				Absolute:  resolver.IsAbsolute(imp.Original),
			})
		}
	}

	sort.Slice(result.Modules, func(i, j int) bool {
		return result.Modules[i].BytesInOutput > result.Modules[j].BytesInOutput
	})
	sort.Slice(result.Edges, func(i, j int) bool {
		if result.Edges[i].Importer != result.Edges[j].Importer {
			return result.Edges[i].Importer < result.Edges[j].Importer
		}
		return result.Edges[i].Specifier < result.Edges[j].Specifier
	})
	sort.Strings(result.ExternalImports)

	return result
}

// entryOutput returns the output built from the entry point. Chunks carry
// no entry point; ties are broken by output path.
func entryOutput(meta *Metafile) (MetafileOutput, bool) {
	paths := make([]string, 0, len(meta.Outputs))
	for p := range meta.Outputs {
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return MetafileOutput{}, false
	}
	sort.Strings(paths)

	for _, p := range paths {
		if meta.Outputs[p].EntryPoint != "" {
			return meta.Outputs[p], true
		}
	}
	return meta.Outputs[paths[0]], true
}

// displayPath shortens metafile paths, which esbuild writes relative to
// the working directory
func (a *Analyzer) displayPath(p, entry string) string {
	if p == entry {
		return "<entry>"
	}
	if filepath.IsAbs(p) && a.baseDir != "" {
		if rel, err := filepath.Rel(a.baseDir, p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}
