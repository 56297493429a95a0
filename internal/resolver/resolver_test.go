package resolver

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, opts Options, options ...Option) *Resolver {
	t.Helper()
	r, err := New(opts, options...)
	require.NoError(t, err)
	return r
}

func TestResolve_AbsoluteWithRemapAndOffset(t *testing.T) {
	r := newTestResolver(t, Options{
		WorkingDirectory:     "/proj/build",
		RelativeOffsetToRoot: "..",
		RemapRules:           []RemapRule{{From: "/libs", To: "/vendor/libs"}},
	})

	assert.Equal(t, "/proj", r.BaseDir())

	ref := r.Resolve("/libs/foo", "/proj/src/app.js")
	assert.Equal(t, Reference{Kind: KindPath, Path: "/proj/vendor/libs/foo.js"}, ref)
}

func TestResolve_OffsetClimbingToFilesystemRoot(t *testing.T) {
	r := newTestResolver(t, Options{
		WorkingDirectory:     "/proj/build",
		RelativeOffsetToRoot: "../..",
		RemapRules:           []RemapRule{{From: "/libs", To: "/vendor/libs"}},
	})

	assert.Equal(t, "/", r.BaseDir())
	assert.Equal(t, "/vendor/libs/foo.js", r.Resolve("/libs/foo", "/proj/src/app.js").Path)
}

func TestResolve_Relative(t *testing.T) {
	r := newTestResolver(t, Options{
		WorkingDirectory: "/proj",
		RemapRules:       []RemapRule{{From: "/libs", To: "/vendor/libs"}},
	})

	tests := []struct {
		name      string
		specifier string
		importer  string
		expected  string
	}{
		{name: "sibling", specifier: "./util", importer: "/proj/src/app.js", expected: "/proj/src/util.js"},
		{name: "parent", specifier: "../lib/x.js", importer: "/proj/src/app.js", expected: "/proj/lib/x.js"},
		{name: "nested", specifier: "./a/b", importer: "/proj/src/app.js", expected: "/proj/src/a/b.js"},
		{name: "remap not consulted", specifier: "libs/foo", importer: "/proj/src/app.js", expected: "/proj/src/libs/foo.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := r.Resolve(tt.specifier, tt.importer)
			assert.Equal(t, KindPath, ref.Kind)
			assert.Equal(t, tt.expected, ref.Path)
		})
	}
}

func TestResolve_AbsoluteIgnoresImporterDirectory(t *testing.T) {
	r := newTestResolver(t, Options{WorkingDirectory: "/root"})

	ref := r.Resolve("/a/b.js", "/x/y.js")
	assert.Equal(t, "/root/a/b.js", ref.Path)

	other := r.Resolve("/a/b.js", "/deep/nested/dir/z.js")
	assert.Equal(t, ref, other)
}

func TestResolve_BackslashLeadIsAbsolute(t *testing.T) {
	r := newTestResolver(t, Options{WorkingDirectory: "/root"})

	assert.True(t, IsAbsolute(`\a\b`))
	assert.Equal(t, KindPath, r.Resolve(`\a`, "/x/y.js").Kind)
	assert.Equal(t, "/root/a.js", r.Resolve(`\a`, "/x/y.js").Path)
}

func TestResolve_ExternalOverride(t *testing.T) {
	r := newTestResolver(t, Options{
		WorkingDirectory: "/proj",
		RemapRules:       []RemapRule{{From: "/apogeebase", To: "/somewhere/else"}},
	})

	for _, importer := range []string{"/proj/src/app.js", ""} {
		ref := r.Resolve(DefaultExternalSpecifier, importer)
		assert.True(t, ref.IsExternal())
		assert.Equal(t, DefaultExternalID, ref.ID)
		assert.Empty(t, ref.Path)
	}

	// Only the exact specifier is external.
	ref := r.Resolve("/apogeebase/Other.js", "/proj/src/app.js")
	assert.Equal(t, "/proj/somewhere/else/Other.js", ref.Path)
}

func TestResolve_CustomExternalOverride(t *testing.T) {
	r := newTestResolver(t, Options{WorkingDirectory: "/proj"},
		WithExternalOverride("/cdn/react.js", "react"))

	assert.Equal(t, Reference{Kind: KindExternal, ID: "react"}, r.Resolve("/cdn/react.js", "/proj/a.js"))
	assert.Equal(t, "/proj/apogeebase/FieldObject.js", r.Resolve(DefaultExternalSpecifier, "/proj/a.js").Path)
}

func TestResolve_EntryPointIsUnresolved(t *testing.T) {
	r := newTestResolver(t, Options{WorkingDirectory: "/proj"})

	for _, specifier := range []string{"./main", "/abs/main.js", "main"} {
		ref := r.Resolve(specifier, "")
		assert.True(t, ref.IsUnresolved(), specifier)
		assert.Equal(t, "<unresolved>", ref.String())
	}
}

func TestResolve_IsDeterministic(t *testing.T) {
	r := newTestResolver(t, Options{
		WorkingDirectory: "/proj",
		RemapRules:       []RemapRule{{From: "/libs", To: "/vendor/libs"}},
	})

	first := r.Resolve("/libs/foo", "/proj/src/app.js")
	second := r.Resolve("/libs/foo", "/proj/src/app.js")
	assert.Equal(t, first, second)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "relative working dir", opts: Options{WorkingDirectory: "proj"}},
		{name: "absolute offset", opts: Options{WorkingDirectory: "/proj", RelativeOffsetToRoot: "/x"}},
		{name: "empty prefix", opts: Options{WorkingDirectory: "/proj", RemapRules: []RemapRule{{From: "", To: "/x"}}}},
		{name: "windows prefix", opts: Options{WorkingDirectory: "/proj", RemapRules: []RemapRule{{From: `C:\libs`, To: "/x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.opts)
			assert.Nil(t, r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestResolve_TracerDoesNotAffectResult(t *testing.T) {
	opts := Options{
		WorkingDirectory: "/proj",
		RemapRules: []RemapRule{
			{From: "/shared", To: "/common"},
			{From: "/libs", To: "/vendor/libs"},
		},
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	plain := newTestResolver(t, opts)
	traced := newTestResolver(t, opts, WithTracer(NewLogTracer(logger)))

	inputs := [][2]string{
		{"/libs/foo", "/proj/src/app.js"},
		{"./util", "/proj/src/app.js"},
		{DefaultExternalSpecifier, "/proj/src/app.js"},
		{"./main", ""},
	}
	for _, in := range inputs {
		assert.Equal(t, plain.Resolve(in[0], in[1]), traced.Resolve(in[0], in[1]))
	}

	output := buf.String()
	assert.Contains(t, output, `"component":"resolver"`)
	assert.Contains(t, output, `"prefix":"/shared/"`)
	assert.Contains(t, output, `"prefix":"/libs/"`)
	assert.Contains(t, output, `"to":"/vendor/libs/foo"`)
	assert.Contains(t, output, `"kind":"external"`)
}

func TestResolve_ConcurrentCallers(t *testing.T) {
	r := newTestResolver(t, Options{
		WorkingDirectory: "/proj",
		RemapRules:       []RemapRule{{From: "/libs", To: "/vendor/libs"}},
	})
	want := r.Resolve("/libs/foo", "/proj/src/app.js")

	var wg sync.WaitGroup
	results := make([]Reference, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve("/libs/foo", "/proj/src/app.js")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestReference_String(t *testing.T) {
	assert.Equal(t, "/a.js", Reference{Kind: KindPath, Path: "/a.js"}.String())
	assert.Equal(t, "external:x", Reference{Kind: KindExternal, ID: "x"}.String())
	assert.Equal(t, "path", KindPath.String())

	text, err := KindExternal.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "external", string(text))
}
