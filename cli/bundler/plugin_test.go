package bundler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// writeProject lays out a small project with an absolute and a relative import
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(full), 0750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func defaultProject() map[string]string {
	return map[string]string{
		"src/index.js": `import { foo } from "/libs/foo";
import FieldObject from "/apogeebase/FieldObject.js";
import { util } from "./util";
export default function run() { return [foo, util, FieldObject]; }
`,
		"src/util.js":        `export const util = "util-value";`,
		"vendor/libs/foo.js": `export const foo = "foo-value";`,
		"build/.keep":        ``,
		"package.json":       `{"name": "demo", "version": "1.0.0"}`,
	}
}

func newProjectResolver(t *testing.T, root string) *resolver.Resolver {
	t.Helper()
	r, err := resolver.New(resolver.Options{
		WorkingDirectory:     filepath.ToSlash(filepath.Join(root, "build")),
		RelativeOffsetToRoot: "..",
		RemapRules:           []resolver.RemapRule{{From: "/libs", To: "/vendor/libs"}},
	})
	if err != nil {
		t.Fatalf("resolver.New: %v", err)
	}
	return r
}

func TestPlugin_ResolvesThroughEsbuild(t *testing.T) {
	root := writeProject(t, defaultProject())
	r := newProjectResolver(t, root)

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{filepath.Join(root, "src", "index.js")},
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Format:        api.FormatESModule,
		AbsWorkingDir: root,
		Plugins:       []api.Plugin{Plugin(r)},
	})
	if len(result.Errors) > 0 {
		t.Fatalf("build failed: %s", formatMessages(result.Errors))
	}
	if len(result.OutputFiles) != 1 {
		t.Fatalf("expected one output file, got %d", len(result.OutputFiles))
	}

	out := string(result.OutputFiles[0].Contents)
	for _, want := range []string{"foo-value", "util-value", `"xxx/apogeebase/FieldObject.js"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s, got:\n%s", want, out)
		}
	}

	if !strings.Contains(result.Metafile, "vendor/libs/foo.js") {
		t.Errorf("expected remapped module in metafile, got: %s", result.Metafile)
	}
}

func TestPlugin_MissingModuleIsReportedByEsbuild(t *testing.T) {
	files := defaultProject()
	files["src/index.js"] = `import { gone } from "/libs/missing";
export default gone;
`
	root := writeProject(t, files)

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{filepath.Join(root, "src", "index.js")},
		Bundle:        true,
		Write:         false,
		AbsWorkingDir: root,
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{Plugin(newProjectResolver(t, root))},
	})
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a module that does not exist")
	}
}

func TestToResolveResult(t *testing.T) {
	tests := []struct {
		name     string
		ref      resolver.Reference
		path     string
		external bool
	}{
		{"path", resolver.Reference{Kind: resolver.KindPath, Path: "/proj/a.js"}, filepath.FromSlash("/proj/a.js"), false},
		{"external", resolver.Reference{Kind: resolver.KindExternal, ID: "xxx/a.js"}, "xxx/a.js", true},
		{"unresolved", resolver.Reference{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toResolveResult(tt.ref)
			if got.Path != tt.path {
				t.Errorf("Path = %q, want %q", got.Path, tt.path)
			}
			if got.External != tt.external {
				t.Errorf("External = %v, want %v", got.External, tt.external)
			}
		})
	}
}
