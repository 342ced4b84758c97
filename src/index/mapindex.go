package index

import (
	"sync"

	"tinygo.org/x/go-llvm"

	"stlcg/src/typesystem"
	"stlcg/src/util"
)

// scope is one entry on the builder's scope stack: the POU name it
// represents, and the variables declared directly inside it.
type scope struct {
	pou  string
	vars map[string]VariableDescriptor
}

// MapIndexBuilder constructs a MapIndex. It keeps an open scope per POU
// being declared on a util.Stack while walking declarations, the same
// nested-scope-stack shape vslc/src/ir/validate.go's SymTab uses while
// building its Global table, then bakes the result into flat maps so the
// finished MapIndex needs no locking for concurrent reads.
type MapIndexBuilder struct {
	scopes    util.Stack
	variables map[string]VariableDescriptor
	types     map[string]typesystem.TypeInfo
	pous      map[string]PouDescriptor
}

// NewMapIndexBuilder returns a builder pre-seeded with the elementary
// numeric types typesystem.Named knows.
func NewMapIndexBuilder() *MapIndexBuilder {
	b := &MapIndexBuilder{
		variables: make(map[string]VariableDescriptor),
		types:     make(map[string]typesystem.TypeInfo),
		pous:      make(map[string]PouDescriptor),
	}
	for _, name := range []string{
		"SINT", "INT", "DINT", "LINT",
		"USINT", "UINT", "UDINT", "ULINT",
		"BYTE", "WORD", "DWORD", "LWORD",
		"REAL", "LREAL", "BOOL",
	} {
		if t, ok := typesystem.Named(name); ok {
			b.types[name] = t
		}
	}
	return b
}

// EnterPou pushes a new open scope for pouName, used while its VAR blocks
// are being declared.
func (b *MapIndexBuilder) EnterPou(pouName string) {
	b.scopes.Push(&scope{pou: pouName, vars: make(map[string]VariableDescriptor)})
}

// ExitPou pops the current scope, flattening its variables into the
// builder's qualified "<pou>.<name>" namespace.
func (b *MapIndexBuilder) ExitPou() {
	s, ok := b.scopes.Pop().(*scope)
	if !ok {
		return
	}
	for name, v := range s.vars {
		b.variables[s.pou+"."+name] = v
	}
}

// DeclareVariable records a variable inside the currently open POU scope.
// It panics if called with no open scope, since that indicates a bug in
// the caller walking declarations, not a user-facing error.
func (b *MapIndexBuilder) DeclareVariable(name string, ptr llvm.Value, t typesystem.TypeInfo) {
	top, ok := b.scopes.Peek().(*scope)
	if !ok {
		panic("index: DeclareVariable called with no open POU scope")
	}
	top.vars[name] = VariableDescriptor{IRPointer: ptr, Type: t}
}

// DeclareGlobal records a variable visible without POU qualification, for
// GLOBAL VAR blocks.
func (b *MapIndexBuilder) DeclareGlobal(name string, ptr llvm.Value, t typesystem.TypeInfo) {
	b.variables[name] = VariableDescriptor{IRPointer: ptr, Type: t}
}

// DeclareType records a user-defined type alias or struct/array type.
func (b *MapIndexBuilder) DeclareType(name string, t typesystem.TypeInfo) {
	b.types[name] = t
}

// DeclarePou records a callable POU's signature.
func (b *MapIndexBuilder) DeclarePou(d PouDescriptor) {
	b.pous[d.Name] = d
}

// Build finalises the builder into an immutable, concurrency-safe Index.
func (b *MapIndexBuilder) Build() *MapIndex {
	return &MapIndex{
		variables: b.variables,
		types:     b.types,
		pous:      b.pous,
	}
}

// MapIndex is the in-memory reference Index implementation. Once built it
// is never mutated, so its map reads need no synchronisation even when
// shared across the worker-pool goroutines spec.md §5 describes; mu
// exists only to guard against a future mutator being added carelessly.
type MapIndex struct {
	mu        sync.RWMutex
	variables map[string]VariableDescriptor
	types     map[string]typesystem.TypeInfo
	pous      map[string]PouDescriptor
}

func (m *MapIndex) FindVariable(linkingContext, name string) (VariableDescriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if linkingContext != "" {
		if v, ok := m.variables[linkingContext+"."+name]; ok {
			return v, true
		}
	}
	v, ok := m.variables[name]
	return v, ok
}

func (m *MapIndex) FindType(name string) (typesystem.TypeInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.types[name]
	return t, ok
}

func (m *MapIndex) FindPou(name string) (PouDescriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pous[name]
	return p, ok
}
