package typesystem

import (
	"tinygo.org/x/go-llvm"

	"stlcg/src/ast"
	"stlcg/src/codegen/irb"
	"stlcg/src/diagnostics"
)

// CastKind names the single LLVM conversion instruction a cast between two
// TypeInfo values requires, per the table in spec.md §4.2.
type CastKind int

const (
	CastNone CastKind = iota
	CastSExt
	CastZExt
	CastTrunc
	CastSIToFP
	CastUIToFP
	CastFPToSI
	CastFPToUI
	CastFPExt
	CastFPTrunc
	CastBitCast
)

// CastKindFor decides which instruction (if any) converts a value of type
// from into type to, mirroring the cast rules spec.md §4.2 lists:
// sext/zext/trunc between integers, sitofp/uitofp/fptosi/fptoui between
// int and float, fpext/fptrunc between float widths, and bitcast between
// any two pointer/array/string types (their layouts are not compared).
func CastKindFor(from, to TypeInfo) (CastKind, bool) {
	if from.Equal(to) {
		return CastNone, true
	}
	switch {
	case from.Nature() == NatureInteger && to.Nature() == NatureInteger:
		switch {
		case to.Width > from.Width:
			if from.IsSigned() {
				return CastSExt, true
			}
			return CastZExt, true
		case to.Width < from.Width:
			return CastTrunc, true
		default:
			// Same width, signed vs unsigned (e.g. SINT <-> BYTE): the bit
			// pattern is unchanged, so no conversion instruction is needed.
			return CastNone, true
		}
	case from.Nature() == NatureInteger && to.Nature() == NatureReal:
		if from.IsSigned() {
			return CastSIToFP, true
		}
		return CastUIToFP, true
	case from.Nature() == NatureReal && to.Nature() == NatureInteger:
		if to.IsSigned() {
			return CastFPToSI, true
		}
		return CastFPToUI, true
	case from.Nature() == NatureReal && to.Nature() == NatureReal:
		if to.Width > from.Width {
			return CastFPExt, true
		}
		return CastFPTrunc, true
	case (from.Kind == Pointer || from.Kind == Array || from.Kind == String) &&
		(to.Kind == Pointer || to.Kind == Array || to.Kind == String):
		return CastBitCast, true
	default:
		return CastNone, false
	}
}

// EmitCast converts value (of type from) into type to, inserting the
// matching conversion instruction via b. Casts are unnamed ("") so LLVM
// assigns the automatic numeric temporaries visible in the expected IR
// fragments of spec.md §8 (e.g. "%1 = sext i8 %load_b to i32").
//
// An unconvertible pair (e.g. STRING to REAL) is reported as a
// TypeMismatch diagnostic through acc and returns value unchanged.
func EmitCast(b *irb.Builder, value llvm.Value, from, to TypeInfo, loc ast.SourceRange, acc diagnostics.Acceptor) llvm.Value {
	kind, ok := CastKindFor(from, to)
	if !ok {
		acc.Error(diagnostics.NewError(diagnostics.TypeMismatch, loc,
			"cannot convert %s to %s", from.Name, to.Name).Error(), loc)
		return value
	}
	target := LLVMType(b.Ctx, to)
	switch kind {
	case CastNone:
		return value
	case CastSExt:
		return b.SExt(value, target, "")
	case CastZExt:
		return b.ZExt(value, target, "")
	case CastTrunc:
		return b.Trunc(value, target, "")
	case CastSIToFP:
		return b.SIToFP(value, target, "")
	case CastUIToFP:
		return b.UIToFP(value, target, "")
	case CastFPToSI:
		return b.FPToSI(value, target, "")
	case CastFPToUI:
		return b.FPToUI(value, target, "")
	case CastFPExt:
		return b.FPExt(value, target, "")
	case CastFPTrunc:
		return b.FPTrunc(value, target, "")
	case CastBitCast:
		return b.BitCast(value, target, "")
	default:
		return value
	}
}
