package typesystem

import "testing"

// Scenarios below are pinned by typesystem_test.rs and spec.md §8.

func TestPromoteForBinarySameTypeIsIdentity(t *testing.T) {
	res, castL, castR := PromoteForBinary(SINT, SINT)
	if !res.Equal(SINT) || castL || castR {
		t.Fatalf("SINT+SINT: got %v castL=%v castR=%v, want SINT/false/false", res, castL, castR)
	}
}

func TestPromoteForBinarySmallerThanDintPromotedToDint(t *testing.T) {
	res, castL, castR := PromoteForBinary(SINT, DINT)
	if !res.Equal(DINT) || !castL || castR {
		t.Fatalf("SINT+DINT: got %v castL=%v castR=%v, want DINT/true/false", res, castL, castR)
	}
}

func TestPromoteForBinaryUnsignedSmallerThanDintPromotedToDint(t *testing.T) {
	res, castL, castR := PromoteForBinary(BYTE, DINT)
	if !res.Equal(DINT) || !castL || castR {
		t.Fatalf("BYTE+DINT: got %v castL=%v castR=%v, want DINT/true/false", res, castL, castR)
	}
}

func TestPromoteForBinaryBothBelowDintFloorToDint(t *testing.T) {
	// SINT (signed 8) and BYTE (unsigned 8): different kind, so the
	// same-type shortcut does not apply even though widths match; both
	// floor independently to DINT.
	res, castL, castR := PromoteForBinary(SINT, BYTE)
	if !res.Equal(DINT) || !castL || !castR {
		t.Fatalf("SINT+BYTE: got %v castL=%v castR=%v, want DINT/true/true", res, castL, castR)
	}
}

func TestPromoteForBinaryDintAndLint(t *testing.T) {
	res, castL, castR := PromoteForBinary(DINT, LINT)
	if !res.Equal(LINT) || !castL || castR {
		t.Fatalf("DINT+LINT: got %v castL=%v castR=%v, want LINT/true/false", res, castL, castR)
	}
}

func TestPromoteForBinaryIntSmallerOrEqualToFloatConvertedToFloat(t *testing.T) {
	// INT (16-bit) floors to DINT, then DINT+REAL -> REAL.
	res, castL, castR := PromoteForBinary(INT, REAL)
	if !res.Equal(REAL) || !castL || castR {
		t.Fatalf("INT+REAL: got %v castL=%v castR=%v, want REAL/true/false", res, castL, castR)
	}
}

func TestPromoteForBinaryIntBiggerThanFloatConvertedToDouble(t *testing.T) {
	// A 64-bit int paired with REAL always promotes to LREAL: REAL cannot
	// hold LINT's range.
	res, castL, castR := PromoteForBinary(LINT, REAL)
	if !res.Equal(LREAL) || !castL || !castR {
		t.Fatalf("LINT+REAL: got %v castL=%v castR=%v, want LREAL/true/true", res, castL, castR)
	}
}

func TestPromoteForBinaryFloatAndDoubleMix(t *testing.T) {
	res, castL, castR := PromoteForBinary(REAL, LREAL)
	if !res.Equal(LREAL) || !castL || castR {
		t.Fatalf("REAL+LREAL: got %v castL=%v castR=%v, want LREAL/true/false", res, castL, castR)
	}
}

func TestPromoteForBinaryDintAndDint(t *testing.T) {
	res, castL, castR := PromoteForBinary(DINT, DINT)
	if !res.Equal(DINT) || castL || castR {
		t.Fatalf("DINT+DINT: got %v castL=%v castR=%v, want DINT/false/false", res, castL, castR)
	}
}

func TestAliasedDatatypesRespectConversionRules(t *testing.T) {
	// An aliased DINT (same Kind/Width, different Name) behaves exactly
	// like DINT for promotion purposes.
	myDint := TypeInfo{Name: "MY_DINT", Kind: SignedInt, Width: 32}
	if !myDint.Equal(DINT) {
		t.Fatalf("aliased DINT should Equal built-in DINT")
	}
	res, castL, castR := PromoteForBinary(myDint, LINT)
	if !res.Equal(LINT) || !castL || castR {
		t.Fatalf("MY_DINT+LINT: got %v castL=%v castR=%v, want LINT/true/false", res, castL, castR)
	}
}

func TestRankOrdersByWidthThenKind(t *testing.T) {
	if Rank(SINT) >= Rank(INT) {
		t.Fatalf("Rank(SINT) should be below Rank(INT)")
	}
	if Rank(DINT) >= Rank(REAL) {
		t.Fatalf("Rank(DINT) should be below Rank(REAL): same width, float outranks int")
	}
	if Rank(LINT) <= Rank(REAL) {
		// Rank alone over-ranks LINT vs REAL; PromoteForBinary corrects
		// for this with the explicit LINT/REAL -> LREAL table entry.
		t.Fatalf("Rank(LINT) should exceed Rank(REAL) numerically, even though promotion still yields LREAL")
	}
}

func TestCastKindForIntegerWidening(t *testing.T) {
	if kind, ok := CastKindFor(SINT, DINT); !ok || kind != CastSExt {
		t.Fatalf("SINT->DINT: got %v/%v, want CastSExt", kind, ok)
	}
	if kind, ok := CastKindFor(BYTE, DWORD); !ok || kind != CastZExt {
		t.Fatalf("BYTE->DWORD: got %v/%v, want CastZExt", kind, ok)
	}
}

func TestCastKindForIntegerNarrowing(t *testing.T) {
	if kind, ok := CastKindFor(DINT, SINT); !ok || kind != CastTrunc {
		t.Fatalf("DINT->SINT: got %v/%v, want CastTrunc", kind, ok)
	}
}

func TestCastKindForIntFloatConversions(t *testing.T) {
	if kind, ok := CastKindFor(INT, REAL); !ok || kind != CastSIToFP {
		t.Fatalf("INT->REAL: got %v/%v, want CastSIToFP", kind, ok)
	}
	if kind, ok := CastKindFor(UINT, REAL); !ok || kind != CastUIToFP {
		t.Fatalf("UINT->REAL: got %v/%v, want CastUIToFP", kind, ok)
	}
	if kind, ok := CastKindFor(REAL, DINT); !ok || kind != CastFPToSI {
		t.Fatalf("REAL->DINT: got %v/%v, want CastFPToSI", kind, ok)
	}
	if kind, ok := CastKindFor(REAL, UDINT); !ok || kind != CastFPToUI {
		t.Fatalf("REAL->UDINT: got %v/%v, want CastFPToUI", kind, ok)
	}
}

func TestCastKindForFloatWidthConversions(t *testing.T) {
	if kind, ok := CastKindFor(REAL, LREAL); !ok || kind != CastFPExt {
		t.Fatalf("REAL->LREAL: got %v/%v, want CastFPExt", kind, ok)
	}
	if kind, ok := CastKindFor(LREAL, REAL); !ok || kind != CastFPTrunc {
		t.Fatalf("LREAL->REAL: got %v/%v, want CastFPTrunc", kind, ok)
	}
}

func TestCastKindForSameWidthSignednessChangeIsNoop(t *testing.T) {
	if kind, ok := CastKindFor(SINT, BYTE); !ok || kind != CastNone {
		t.Fatalf("SINT->BYTE: got %v/%v, want CastNone", kind, ok)
	}
}

func TestCastKindForIncompatibleKindsRejected(t *testing.T) {
	str := TypeInfo{Name: "STRING", Kind: String, Width: 0}
	if _, ok := CastKindFor(str, REAL); ok {
		t.Fatalf("STRING->REAL should be rejected")
	}
}

func TestAlignmentMatchesWidth(t *testing.T) {
	if SINT.Alignment() != 1 {
		t.Fatalf("SINT alignment: got %d, want 1", SINT.Alignment())
	}
	if LREAL.Alignment() != 8 {
		t.Fatalf("LREAL alignment: got %d, want 8", LREAL.Alignment())
	}
}
