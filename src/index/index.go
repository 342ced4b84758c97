// Package index implements the external Index contract (spec.md §6): the
// read-only lookup surface the code generator consults to resolve
// variable references, type names and callable POUs. Index is shareable
// read-only across the goroutine-per-POU worker pool (spec.md §5);
// MapIndex is the concrete in-memory reference implementation, grounded
// on the SymTab/Global symbol tables in vslc/src/ir/validate.go.
package index

import (
	"tinygo.org/x/go-llvm"

	"stlcg/src/typesystem"
)

// VariableDescriptor is what the Index returns for a resolved variable
// reference: the IR pointer generation stores into/loads from, and the
// variable's declared TypeInfo.
type VariableDescriptor struct {
	IRPointer llvm.Value
	Type      typesystem.TypeInfo
}

// PouDescriptor is what the Index returns for a resolved callable POU.
type PouDescriptor struct {
	Name          string
	Function      llvm.Value
	ParamOrder    []string
	ParamTypes    map[string]typesystem.TypeInfo
	ReturnType    typesystem.TypeInfo
	HasReturnType bool
}

// Index is the read-only lookup surface code generation depends on.
// Implementations must be safe for concurrent reads from multiple POU
// worker goroutines; spec.md §5 forbids concurrent writes during
// generation.
type Index interface {
	// FindVariable resolves a (possibly qualified) variable reference.
	// linkingContext is the enclosing POU's name; implementations first try
	// "<linkingContext>.<name>" and fall back to a bare "<name>" lookup
	// for globals, matching spec.md §4.3's reference resolution order.
	FindVariable(linkingContext, name string) (VariableDescriptor, bool)
	// FindType resolves an elementary or user-defined type name.
	FindType(name string) (typesystem.TypeInfo, bool)
	// FindPou resolves a callable PROGRAM/FUNCTION/FUNCTION_BLOCK by name.
	FindPou(name string) (PouDescriptor, bool)
}
