package resolver

import "strings"

// ModuleExtension is the only extension the bundler loads modules by
const ModuleExtension = ".js"

// Normalize appends ModuleExtension unless p already ends with it
func Normalize(p string) string {
	if strings.HasSuffix(p, ModuleExtension) {
		return p
	}
	return p + ModuleExtension
}
