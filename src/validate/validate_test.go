package validate

import (
	"testing"

	"stlcg/src/ast"
	"stlcg/src/diagnostics"
)

func TestValidatePouReportsMissingReturnType(t *testing.T) {
	acc := diagnostics.NewCollector()
	v := NewValidator(acc)
	v.ValidatePou(ast.POU{Name: "DoThing", Kind: ast.KindFunction})

	if !acc.HasErrors() {
		t.Fatalf("expected an error for a FUNCTION without a return type")
	}
}

func TestValidatePouAcceptsProgramWithoutReturnType(t *testing.T) {
	acc := diagnostics.NewCollector()
	v := NewValidator(acc)
	v.ValidatePou(ast.POU{Name: "Main", Kind: ast.KindProgram})

	if acc.HasErrors() {
		t.Fatalf("did not expect an error for a PROGRAM without a return type")
	}
}

func TestValidateVariableBlockWarnsWhenEmpty(t *testing.T) {
	acc := diagnostics.NewCollector()
	v := NewValidator(acc)
	v.ValidatePou(ast.POU{
		Name: "Main",
		Kind: ast.KindProgram,
		VarBlocks: []ast.VarBlock{
			{Kind: ast.VarLocal},
		},
	})

	diags := acc.Diagnostics()
	if len(diags) != 1 || diags[0].Severity != diagnostics.SeverityWarning {
		t.Fatalf("expected exactly one warning diagnostic, got %v", diags)
	}
}

func TestValidateVariableBlockSilentWhenPopulated(t *testing.T) {
	acc := diagnostics.NewCollector()
	v := NewValidator(acc)
	v.ValidatePou(ast.POU{
		Name: "Main",
		Kind: ast.KindProgram,
		VarBlocks: []ast.VarBlock{
			{Kind: ast.VarLocal, Variables: []ast.VarDecl{{Name: "x", TypeName: "DINT"}}},
		},
	})

	if len(acc.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", acc.Diagnostics())
	}
}
