// Package codegen implements the Statement & Expression Generator
// (spec.md §4.3, §4.4): the pass that walks a POU's Statement tree and
// emits LLVM IR through the irb.Builder facade, consulting an index.Index
// for variable/type/POU resolution and reporting problems through a
// diagnostics.Acceptor. It is grounded on rusty's
// codegen::generators::statement_generator module, adapted from Rust
// trait methods on StatementCodeGenerator into Go methods on *Generator.
package codegen

import (
	"tinygo.org/x/go-llvm"

	"stlcg/src/typesystem"
)

// FunctionContext scopes one POU's generation, mirroring
// FunctionContext in rusty's statement_generator.rs: the linking context
// used to qualify bare variable references, and the function currently
// being built.
type FunctionContext struct {
	// LinkingContext is the POU name variable references are first
	// qualified against, e.g. "MyProgram" so that a bare reference "x"
	// first resolves as "MyProgram.x" before falling back to a bare
	// lookup (spec.md §4.3).
	LinkingContext string
	// Function is the LLVM function this context is generating a body
	// for.
	Function llvm.Value
	// ReturnType is the TypeInfo of Function's declared return value, or
	// the zero value for a PROGRAM/FUNCTION_BLOCK which has none.
	ReturnType typesystem.TypeInfo
	// HasReturnType mirrors the Rust Option<DataTypeInformation>: false
	// for bodies with no return slot.
	HasReturnType bool
}
