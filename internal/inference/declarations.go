package inference

import (
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// FunctionSignature is everything the driver needs from a callee it does
// not itself own: its parameter ascriptions (in declaration order, the
// receiver included for method paths), its return ascription, and the
// template parameter names those ascriptions may reference.
type FunctionSignature struct {
	Path       path.FunctionPath
	Parameters []node.TypeReference
	Return     node.TypeReference
	Templates  []string
}

// StructureSignature is a nominal structure's field ascriptions, looked up
// by field-access resolution and by structure-literal checking.
type StructureSignature struct {
	Path   path.StructurePath
	Fields map[string]node.TypeReference
}

// Declarations is the read-only view onto every other function and
// structure in scope; the driver never mutates it. A declaration registry
// (internal/declaration) implements this interface over a compiled module.
type Declarations interface {
	Function(p path.FunctionPath) (FunctionSignature, bool)
	Structure(p path.StructurePath) (StructureSignature, bool)
}
