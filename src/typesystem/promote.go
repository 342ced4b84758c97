package typesystem

// category is the post-DINT-floor bucket a numeric type falls into; the
// 4x4 promotion table below is keyed on this, not on the raw TypeInfo,
// because every width at or below DINT collapses into the DINT bucket
// before the table is ever consulted (spec.md §4.2).
type category int

const (
	catDINT category = iota
	catLINT
	catREAL
	catLREAL
)

func categoryOf(t TypeInfo) category {
	switch t.Nature() {
	case NatureReal:
		if t.Width > 32 {
			return catLREAL
		}
		return catREAL
	default:
		if t.Width > 32 {
			return catLINT
		}
		return catDINT
	}
}

func (c category) typeInfo() TypeInfo {
	switch c {
	case catLINT:
		return LINT
	case catREAL:
		return REAL
	case catLREAL:
		return LREAL
	default:
		return DINT
	}
}

// promotionTable is the 4x4 reduction of the 5x5 table in spec.md §4.2:
// the "<=INT" row/column never survives to this point because any operand
// ranked below DINT is floored to DINT first. Rows and columns are
// {DINT, LINT, REAL, LREAL} in that order.
var promotionTable = [4][4]category{
	catDINT:  {catDINT, catLINT, catREAL, catLREAL},
	catLINT:  {catLINT, catLINT, catLREAL, catLREAL},
	catREAL:  {catREAL, catLREAL, catREAL, catLREAL},
	catLREAL: {catLREAL, catLREAL, catLREAL, catLREAL},
}

// PromoteForBinary computes the common type two numeric operands must
// share before a binary operator applies, along with whether each operand
// needs casting to reach it. It implements the algorithm spec.md §3 and
// §4.2 describe:
//
//  1. If lhs and rhs already describe the identical type, no promotion
//     happens at all — this is the "same-width same-kind operands stay
//     as-is" shortcut (e.g. SINT + SINT = SINT).
//  2. Otherwise any operand whose rank is strictly below DINT's is first
//     floored to DINT, independently of the other operand.
//  3. If that floor alone makes both operands equal, that is the result.
//  4. Otherwise the remaining DINT/LINT/REAL/LREAL combination is resolved
//     via the table, which special-cases LINT combined with REAL: a
//     64-bit integer paired with a 32-bit float always promotes to LREAL,
//     since REAL cannot represent a LINT's range (int_bigger_than_float
//     scenario in spec.md §8).
func PromoteForBinary(lhs, rhs TypeInfo) (result TypeInfo, castLeft, castRight bool) {
	if lhs.Equal(rhs) {
		return lhs, false, false
	}

	floor := func(t TypeInfo) TypeInfo {
		if Rank(t) < Rank(DINT) {
			return DINT
		}
		return t
	}
	l, r := floor(lhs), floor(rhs)

	if l.Equal(r) {
		return l, !l.Equal(lhs), !r.Equal(rhs)
	}

	res := promotionTable[categoryOf(l)][categoryOf(r)].typeInfo()
	return res, !res.Equal(lhs), !res.Equal(rhs)
}
