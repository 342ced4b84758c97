// Package validate implements a minimal pre-codegen validation pass,
// ported from rusty's validation.rs/pou_validator.rs/variable_validator.rs:
// a Validator holding a diagnostics.Acceptor plus sub-validators for POUs
// and VAR blocks, run once per POU before code generation.
package validate

import (
	"fmt"

	"stlcg/src/ast"
	"stlcg/src/diagnostics"
)

// Validator walks a POU's declaration, delegating to the POU- and
// variable-level checks, mirroring the Validator struct in validation.rs
// that owns a diagnostic sink plus its sub-validators.
type Validator struct {
	acc diagnostics.Acceptor
}

// NewValidator returns a Validator reporting through acc.
func NewValidator(acc diagnostics.Acceptor) *Validator {
	return &Validator{acc: acc}
}

// ValidatePou runs every sub-validator over pou, grounded on
// PouValidator.validate_pou and VariableValidator.validate_variable_block
// in pou_validator.rs/variable_validator.rs.
func (v *Validator) ValidatePou(pou ast.POU) {
	v.validatePouSignature(pou)
	for _, block := range pou.VarBlocks {
		v.validateVariableBlock(block)
	}
}

// validatePouSignature reports an error when a FUNCTION has no return
// type, the one structural check pou_validator.rs performs.
func (v *Validator) validatePouSignature(pou ast.POU) {
	if pou.Kind == ast.KindFunction && pou.ReturnType == nil {
		v.acc.Error(fmt.Sprintf("function %q is missing a return type", pou.Name), pou.Location)
	}
}

// validateVariableBlock reports a warning for an empty VAR block, the one
// check variable_validator.rs performs.
func (v *Validator) validateVariableBlock(block ast.VarBlock) {
	if len(block.Variables) == 0 {
		v.acc.Warning("VAR block declares no variables", block.Location)
	}
}
