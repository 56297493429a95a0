package resolver

import (
	"path"
	"strings"
)

// BaseDir is the directory absolute specifiers are anchored to.
type BaseDir struct {
	dir string
}

// NewBaseDir joins workingDir with an optional relative offset. With no
// offset the working directory is used verbatim.
func NewBaseDir(workingDir, offset string) (BaseDir, error) {
	if !path.IsAbs(workingDir) {
		return BaseDir{}, newConfigError("working_directory", workingDir, "must be an absolute path")
	}
	if offset == "" {
		return BaseDir{dir: workingDir}, nil
	}
	if path.IsAbs(offset) {
		return BaseDir{}, newConfigError("relative_offset_to_root", offset, "must be a relative path")
	}
	return BaseDir{dir: path.Join(workingDir, offset)}, nil
}

// Anchor treats specifier as relative to the filesystem root and joins it
// onto the base directory. Segments that would climb above the root are
// dropped before joining.
func (b BaseDir) Anchor(specifier string) string {
	rel := path.Clean("/" + strings.TrimLeft(specifier, `/\`))
	return path.Join(b.dir, rel)
}

func (b BaseDir) String() string {
	return b.dir
}
