package bundler

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// maxListedModules bounds the breakdown unless details are requested
const maxListedModules = 10

// DisplayAnalysis prints a bundle analysis. With showDetails every module
// and every import edge is listed; otherwise only the largest modules and
// the absolute imports.
func DisplayAnalysis(w io.Writer, result *AnalysisResult, showDetails bool) {
	_, _ = fmt.Fprintf(w, "\n=== Bundle Analysis: %s ===\n", result.Name)
	_, _ = fmt.Fprintf(w, "Total bundle size: %s\n", formatBytesHuman(result.TotalBytes))

	if len(result.ExternalImports) > 0 {
		_, _ = fmt.Fprintln(w, "\nExternal modules (not bundled):")
		for _, imp := range result.ExternalImports {
			_, _ = fmt.Fprintf(w, "  - %s\n", imp)
		}
	}

	if len(result.Modules) > 0 {
		_, _ = fmt.Fprintln(w, "\nModules:")

		limit := maxListedModules
		if showDetails {
			limit = len(result.Modules)
		}
		shown := result.Modules
		if len(shown) > limit {
			shown = shown[:limit]
		}

		width := 0
		for _, m := range shown {
			if n := len(truncatePath(m.Path, 50)); n > width {
				width = n
			}
		}
		for _, m := range shown {
			p := truncatePath(m.Path, 50)
			_, _ = fmt.Fprintf(w, "  %s%s  %8s  %5.1f%%\n",
				p, strings.Repeat(" ", width-len(p)),
				formatBytesHuman(m.BytesInOutput), m.Percentage)
		}
		if rest := len(result.Modules) - len(shown); rest > 0 {
			_, _ = fmt.Fprintf(w, "  ... and %d more modules\n", rest)
		}
	}

	var edges []ImportEdge
	for _, e := range result.Edges {
		if showDetails || e.Absolute {
			edges = append(edges, e)
		}
	}
	if len(edges) > 0 {
		_, _ = fmt.Fprintln(w, "\nResolved imports:")
		for _, e := range edges {
			target := e.Resolved
			if e.External {
				target += " (external)"
			}
			_, _ = fmt.Fprintf(w, "  %s: %s -> %s\n", e.Importer, e.Specifier, target)
		}
	}

	if len(result.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range result.Warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", warn)
		}
	}

	_, _ = fmt.Fprintln(w)
}

// DisplaySummary prints one line per analyzed entry, largest first
func DisplaySummary(w io.Writer, results []*AnalysisResult) {
	if len(results) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w, "\n=== Bundle Size Summary ===")

	sort.Slice(results, func(i, j int) bool {
		return results[i].TotalBytes > results[j].TotalBytes
	})

	nameWidth := len("ENTRY")
	for _, r := range results {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
	}

	_, _ = fmt.Fprintf(w, "ENTRY%s  BUNDLE SIZE  MODULES  EXTERNALS\n", strings.Repeat(" ", nameWidth-5))
	_, _ = fmt.Fprintf(w, "%s  -----------  -------  ---------\n", strings.Repeat("-", nameWidth))

	var total int
	for _, r := range results {
		total += r.TotalBytes
		_, _ = fmt.Fprintf(w, "%s%s  %11s  %7d  %9d\n",
			r.Name, strings.Repeat(" ", nameWidth-len(r.Name)),
			formatBytesHuman(r.TotalBytes), len(r.Modules), len(r.ExternalImports))
	}

	_, _ = fmt.Fprintf(w, "%s  -----------  -------  ---------\n", strings.Repeat("-", nameWidth))
	_, _ = fmt.Fprintf(w, "TOTAL%s  %11s\n", strings.Repeat(" ", nameWidth-5), formatBytesHuman(total))
	_, _ = fmt.Fprintln(w)
}

func formatBytesHuman(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
