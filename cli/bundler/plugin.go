package bundler

import (
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// PluginName identifies the resolver plugin in esbuild messages
const PluginName = "absolute-ref"

// Plugin adapts r to esbuild's resolve hook. Unresolved references, such as
// the entry point, fall through to esbuild's own resolution.
func Plugin(r *resolver.Resolver) api.Plugin {
	return api.Plugin{
		Name: PluginName,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`, Namespace: "file"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return toResolveResult(r.Resolve(args.Path, filepath.ToSlash(args.Importer))), nil
				})
		},
	}
}

func toResolveResult(ref resolver.Reference) api.OnResolveResult {
	switch ref.Kind {
	case resolver.KindExternal:
		return api.OnResolveResult{
			Path:     ref.ID,
			External: true,
		}
	case resolver.KindPath:
		return api.OnResolveResult{
			Path: filepath.FromSlash(ref.Path),
		}
	default:
		return api.OnResolveResult{}
	}
}
