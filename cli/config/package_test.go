package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackage(t *testing.T) {
	pkg, err := ParsePackage([]byte(`{
  "name": "apogeejs-util-lib",
  "version": "2.0.1",
  "module": "apogeeUtilLib.es.js",
  "main": "apogeeUtilLib.cjs.js",
  "DEV_RELEASE": true,
  "dependencies": {"/z": "/zz", "/a": "/aa"}
}`))
	require.NoError(t, err)

	assert.Equal(t, "2.0.1", pkg.Version)
	assert.Equal(t, "apogeeUtilLib.es.js", pkg.Module)
	assert.Equal(t, "apogeeUtilLib.cjs.js", pkg.Main)
	assert.True(t, pkg.DevRelease)
	assert.Equal(t, []Dependency{{Name: "/z", Value: "/zz"}, {Name: "/a", Value: "/aa"}}, pkg.Dependencies)
	assert.Len(t, pkg.RemapRules(), 2)
	assert.Equal(t, "/z", pkg.RemapRules()[0].From)
}

func TestParsePackage_NoDependencies(t *testing.T) {
	pkg, err := ParsePackage([]byte(`{"name": "x", "version": "1.0.0"}`))
	require.NoError(t, err)
	assert.Empty(t, pkg.Dependencies)
	assert.Empty(t, pkg.RemapRules())
}

func TestParsePackage_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `{`},
		{name: "dependencies not an object", input: `{"dependencies": ["a"]}`},
		{name: "non-string dependency", input: `{"dependencies": {"/a": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePackage([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}
