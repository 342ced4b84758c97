package index

import (
	"testing"

	"tinygo.org/x/go-llvm"

	"stlcg/src/typesystem"
)

func TestMapIndexResolvesQualifiedBeforeGlobal(t *testing.T) {
	b := NewMapIndexBuilder()
	b.EnterPou("MyProgram")
	b.DeclareVariable("x", llvm.Value{}, typesystem.DINT)
	b.ExitPou()
	b.DeclareGlobal("x", llvm.Value{}, typesystem.REAL)

	idx := b.Build()

	v, ok := idx.FindVariable("MyProgram", "x")
	if !ok {
		t.Fatalf("expected MyProgram.x to resolve")
	}
	if !v.Type.Equal(typesystem.DINT) {
		t.Fatalf("expected qualified lookup to win over global, got %v", v.Type)
	}

	v, ok = idx.FindVariable("OtherProgram", "x")
	if !ok || !v.Type.Equal(typesystem.REAL) {
		t.Fatalf("expected global fallback for unrelated linking context, got %v ok=%v", v.Type, ok)
	}
}

func TestMapIndexFindTypeKnowsElementaryTypes(t *testing.T) {
	idx := NewMapIndexBuilder().Build()
	if _, ok := idx.FindType("DINT"); !ok {
		t.Fatalf("expected DINT to be a known elementary type")
	}
	if _, ok := idx.FindType("NOT_A_TYPE"); ok {
		t.Fatalf("did not expect NOT_A_TYPE to resolve")
	}
}

func TestMapIndexFindPou(t *testing.T) {
	b := NewMapIndexBuilder()
	b.DeclarePou(PouDescriptor{Name: "Add", ReturnType: typesystem.DINT, HasReturnType: true})
	idx := b.Build()

	p, ok := idx.FindPou("Add")
	if !ok || p.Name != "Add" {
		t.Fatalf("expected to resolve POU Add, got %v ok=%v", p, ok)
	}
}
