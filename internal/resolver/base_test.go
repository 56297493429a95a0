package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseDir(t *testing.T) {
	tests := []struct {
		name       string
		workingDir string
		offset     string
		expected   string
		wantErr    bool
	}{
		{name: "no offset keeps working dir verbatim", workingDir: "/proj/build", expected: "/proj/build"},
		{name: "one level up", workingDir: "/proj/build", offset: "..", expected: "/proj"},
		{name: "two levels up", workingDir: "/repo/proj/build", offset: "../..", expected: "/repo"},
		{name: "down into subdir", workingDir: "/proj", offset: "src", expected: "/proj/src"},
		{name: "relative working dir", workingDir: "proj/build", wantErr: true},
		{name: "empty working dir", workingDir: "", wantErr: true},
		{name: "absolute offset", workingDir: "/proj", offset: "/elsewhere", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := NewBaseDir(tt.workingDir, tt.offset)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, base.String())
		})
	}
}

func TestBaseDir_Anchor(t *testing.T) {
	base, err := NewBaseDir("/proj", "")
	require.NoError(t, err)

	tests := []struct {
		specifier string
		expected  string
	}{
		{"/vendor/libs/foo", "/proj/vendor/libs/foo"},
		{"/a/b.js", "/proj/a/b.js"},
		{"//double/slash", "/proj/double/slash"},
		{"/../escape/root", "/proj/escape/root"},
		{"/a/./b/../c", "/proj/a/c"},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Anchor(tt.specifier))
		})
	}
}
