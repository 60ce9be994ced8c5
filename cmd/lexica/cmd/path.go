package cmd

import (
	"strings"

	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// parseFunctionPath reads a dotted path ("mod.sub.name") into a
// crate-rooted FunctionPath, the same convention internal/repl's
// resolveArgPath uses, since this tree has no surface-syntax parser to
// turn a typed path into a structured one.
func parseFunctionPath(token string) path.FunctionPath {
	parts := strings.Split(token, ".")
	name := parts[len(parts)-1]
	modules := parts[:len(parts)-1]
	return path.Function(path.New(path.RootCrate, modules, name))
}
