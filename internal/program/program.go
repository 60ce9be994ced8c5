// Package program loads function declarations from a JSON description into
// the declaration registry cmd/lexica's subcommands and internal/repl
// operate over. Lexica has no surface-syntax parser (SPEC_FULL.md §4
// starts from an already-built node.FunctionContext), so this is the
// thinnest thing that lets the CLI load a runnable program from disk: a
// direct JSON encoding of the expression arena's own node kinds, not a
// language grammar of its own.
package program

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Techno-coder/lexica-sub000/internal/declaration"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/node"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

// File is the top-level JSON shape: a flat list of function declarations.
type File struct {
	Functions []Function `json:"functions"`
}

// Function describes one declaration: its path, parameter ascriptions,
// return ascription, template names, and body expression.
type Function struct {
	Name       string   `json:"name"`
	Modules    []string `json:"modules,omitempty"`
	Templates  []string `json:"templates,omitempty"`
	Parameters []Param  `json:"parameters,omitempty"`
	Return     *Type    `json:"return,omitempty"`
	Body       Expr     `json:"body"`
}

// Param is one parameter's bound name and type ascription.
type Param struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Type is a JSON-friendly node.TypeReference: Root names "intrinsic" for a
// builtin like u64/truth, or "crate" for a user-declared structure.
type Type struct {
	Root      string `json:"root"`
	Modules   []string `json:"modules,omitempty"`
	Name      string `json:"name"`
	Arguments []Type `json:"arguments,omitempty"`
}

func (t Type) reference() node.TypeReference {
	arguments := make([]node.TypeReference, len(t.Arguments))
	for i, a := range t.Arguments {
		arguments[i] = a.reference()
	}
	return node.TypeReference{Structure: path.Structure(path.New(t.root(), t.Modules, t.Name)), Arguments: arguments}
}

func (t Type) root() path.Root {
	if t.Root == "crate" {
		return path.RootCrate
	}
	return path.RootIntrinsic
}

// Expr is a JSON node mirroring one internal/node expression kind. Exactly
// one Kind's fields are populated; the loader does not validate that the
// others are absent.
type Expr struct {
	Kind string `json:"kind"`

	// int / truth literal
	Int    *uint64 `json:"int,omitempty"`
	Signed bool    `json:"signed,omitempty"`
	Truth  *bool   `json:"truth,omitempty"`

	// var
	Variable string `json:"variable,omitempty"`

	// let: binds Variable to Value, then Body continues in scope
	Value *Expr `json:"value,omitempty"`
	Body  *Expr `json:"body,omitempty"`

	// binary / unary
	Op      string `json:"op,omitempty"`
	Left    *Expr  `json:"left,omitempty"`
	Right   *Expr  `json:"right,omitempty"`
	Operand *Expr  `json:"operand,omitempty"`

	// call
	Function        string   `json:"function,omitempty"`
	FunctionModules []string `json:"function_modules,omitempty"`
	Compile         bool     `json:"compile,omitempty"`
	Method          bool     `json:"method,omitempty"`
	Receiver        *Expr    `json:"receiver,omitempty"`
	Arguments       []Expr   `json:"arguments,omitempty"`

	// field access (reuses Receiver)
	Field string `json:"field,omitempty"`

	// block
	Expressions []Expr `json:"expressions,omitempty"`

	// structure literal
	Structure       string          `json:"structure,omitempty"`
	StructureModules []string       `json:"structure_modules,omitempty"`
	Fields          map[string]Expr `json:"fields,omitempty"`
}

// Load reads and decodes a program file from disk.
func Load(p string) (*File, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read program %s: %w", p, err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse program %s: %w", p, err)
	}
	return &file, nil
}

// Register builds every function in f into registry, under a crate-rooted
// path, ready for inference/lowering/partial evaluation through the normal
// pipeline.
func (f *File) Register(registry *declaration.Registry) error {
	for _, fn := range f.Functions {
		if err := registerFunction(registry, fn); err != nil {
			return fmt.Errorf("function %s: %w", fn.Name, err)
		}
	}
	return nil
}

func registerFunction(registry *declaration.Registry, fn Function) error {
	b := &builder{scope: make(map[string]node.Variable)}

	parameters := make([]node.BindingPattern, len(fn.Parameters))
	signatureParameters := make([]node.TypeReference, len(fn.Parameters))
	for i, param := range fn.Parameters {
		v := node.NewVariable(param.Name)
		b.scope[param.Name] = v
		ascription := param.Type.reference()
		parameters[i] = node.Terminal(node.BindingVariable{Variable: v, Ascription: &ascription})
		signatureParameters[i] = ascription
	}

	var returnAscription *node.TypeReference
	var returnType node.TypeReference
	if fn.Return != nil {
		ref := fn.Return.reference()
		returnAscription = &ref
		returnType = ref
	}

	p := path.Function(path.New(path.RootCrate, fn.Modules, fn.Name))
	fc := node.NewFunctionContext(p, parameters, returnAscription, fn.Templates)
	b.fc = fc

	entry, err := b.build(fn.Body)
	if err != nil {
		return err
	}
	fc.Entry = entry

	registry.DefineFunction(p, &declaration.FunctionEntry{
		Context: fc,
		Signature: inference.FunctionSignature{
			Path:       p,
			Parameters: signatureParameters,
			Return:     returnType,
			Templates:  fn.Templates,
		},
	})
	return nil
}

// builder walks a JSON Expr tree, allocating into one function's arena and
// tracking which names are in scope as node.Variables.
type builder struct {
	fc    *node.FunctionContext
	scope map[string]node.Variable
}

func (b *builder) build(e Expr) (node.ExpressionKey, error) {
	switch e.Kind {
	case "int":
		if e.Int == nil {
			return 0, fmt.Errorf("int expression missing \"int\" value")
		}
		return b.fc.Alloc(node.IntegerLiteral{Value: *e.Int, Signed: e.Signed}), nil

	case "truth":
		if e.Truth == nil {
			return 0, fmt.Errorf("truth expression missing \"truth\" value")
		}
		return b.fc.Alloc(node.TruthLiteral{Value: *e.Truth}), nil

	case "var":
		v, ok := b.scope[e.Variable]
		if !ok {
			return 0, fmt.Errorf("undefined variable %q", e.Variable)
		}
		return b.fc.Alloc(node.VariableRef{Variable: v}), nil

	case "let":
		if e.Value == nil || e.Body == nil {
			return 0, fmt.Errorf("let expression requires \"value\" and \"body\"")
		}
		valueKey, err := b.build(*e.Value)
		if err != nil {
			return 0, err
		}
		v := node.NewVariable(e.Variable)
		letKey := b.fc.Alloc(node.Let{Pattern: node.Terminal(node.BindingVariable{Variable: v}), Value: valueKey})
		b.scope[e.Variable] = v
		bodyKey, err := b.build(*e.Body)
		if err != nil {
			return 0, err
		}
		return b.fc.Alloc(node.Block{Expressions: []node.ExpressionKey{letKey, bodyKey}}), nil

	case "binary":
		if e.Left == nil || e.Right == nil {
			return 0, fmt.Errorf("binary expression requires \"left\" and \"right\"")
		}
		left, err := b.build(*e.Left)
		if err != nil {
			return 0, err
		}
		right, err := b.build(*e.Right)
		if err != nil {
			return 0, err
		}
		return b.fc.Alloc(node.BinaryOp{Op: e.Op, Left: left, Right: right}), nil

	case "unary":
		if e.Operand == nil {
			return 0, fmt.Errorf("unary expression requires \"operand\"")
		}
		operand, err := b.build(*e.Operand)
		if err != nil {
			return 0, err
		}
		return b.fc.Alloc(node.UnaryOp{Op: e.Op, Operand: operand}), nil

	case "field":
		if e.Receiver == nil {
			return 0, fmt.Errorf("field expression requires \"receiver\"")
		}
		receiver, err := b.build(*e.Receiver)
		if err != nil {
			return 0, err
		}
		return b.fc.Alloc(node.FieldAccess{Receiver: receiver, Field: e.Field}), nil

	case "call":
		arguments := make([]node.ExpressionKey, len(e.Arguments))
		for i, arg := range e.Arguments {
			key, err := b.build(arg)
			if err != nil {
				return 0, err
			}
			arguments[i] = key
		}
		var receiverKey node.ExpressionKey
		if e.Method {
			if e.Receiver == nil {
				return 0, fmt.Errorf("method call requires \"receiver\"")
			}
			key, err := b.build(*e.Receiver)
			if err != nil {
				return 0, err
			}
			receiverKey = key
		}
		execution := node.Runtime
		if e.Compile {
			execution = node.Compile
		}
		callPath := path.Function(path.New(path.RootCrate, e.FunctionModules, e.Function))
		return b.fc.Alloc(node.Call{
			Function:       callPath,
			Method:         e.Method,
			MethodReceiver: receiverKey,
			Arguments:      arguments,
			Execution:      execution,
		}), nil

	case "block":
		keys := make([]node.ExpressionKey, len(e.Expressions))
		for i, child := range e.Expressions {
			key, err := b.build(child)
			if err != nil {
				return 0, err
			}
			keys[i] = key
		}
		return b.fc.Alloc(node.Block{Expressions: keys}), nil

	case "structure":
		fields := make(map[string]node.ExpressionKey, len(e.Fields))
		for name, child := range e.Fields {
			key, err := b.build(child)
			if err != nil {
				return 0, err
			}
			fields[name] = key
		}
		structurePath := path.Structure(path.New(path.RootCrate, e.StructureModules, e.Structure))
		return b.fc.Alloc(node.StructureLiteral{Structure: structurePath, Fields: fields}), nil
	}
	return 0, fmt.Errorf("unknown expression kind %q", e.Kind)
}
