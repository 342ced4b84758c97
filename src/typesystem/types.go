// Package typesystem implements the Type System component (spec.md §4.2):
// classifying numeric types, ranking them, computing the promoted type for
// a binary operation, and deciding + emitting the cast needed when
// assigning a value of one type into a location of another. It is the Go
// counterpart of rusty's codegen::typesystem module, whose behaviour is
// pinned by typesystem_test.rs.
package typesystem

import "tinygo.org/x/go-llvm"

// Kind classifies the nature of a TypeInfo.
type Kind int

const (
	SignedInt Kind = iota
	UnsignedInt
	Float
	Bool
	String
	Struct
	Array
	Pointer
	Void
)

// Nature groups a Kind into the three buckets spec.md §3 names.
type Nature int

const (
	NatureInteger Nature = iota
	NatureReal
	NatureOther
)

// TypeInfo tags every datum the generator produces, per spec.md §3.
type TypeInfo struct {
	Name   string // source type name, e.g. "SINT", "DINT", "BYTE", "REAL"
	Kind   Kind
	Width  int        // bit width for numerics: 8, 16, 32, 64
	Elem   *TypeInfo  // pointee/element type for Pointer/Array, else nil
}

// Nature reports whether t is an integer, a real, or neither.
func (t TypeInfo) Nature() Nature {
	switch t.Kind {
	case SignedInt, UnsignedInt:
		return NatureInteger
	case Float:
		return NatureReal
	default:
		return NatureOther
	}
}

// IsNumeric reports whether t participates in rank/promotion/cast at all.
func (t TypeInfo) IsNumeric() bool {
	return t.Kind == SignedInt || t.Kind == UnsignedInt || t.Kind == Float
}

// IsSigned reports whether t is a signed integer type.
func (t TypeInfo) IsSigned() bool { return t.Kind == SignedInt }

// Alignment derives byte alignment from bit width, matching the `align N`
// annotations LLVM prints next to every load/store/global in the expected
// IR fragments of typesystem_test.rs (e.g. "align 1" for i8, "align 8" for
// double).
func (t TypeInfo) Alignment() int {
	if t.Width <= 0 {
		return 1
	}
	return (t.Width + 7) / 8
}

// Equal reports whether two TypeInfo values describe the identical IR
// type: same Kind and Width, and for Pointer/Array also equal element
// types. Name and alias differences (e.g. a user type
// MYSINT aliasing SINT) are deliberately ignored, matching
// aliased_datatypes_respect_conversion_rules in typesystem_test.rs, which
// shows an aliased DINT behaving exactly like DINT.
func (t TypeInfo) Equal(other TypeInfo) bool {
	if t.Kind != other.Kind || t.Width != other.Width {
		return false
	}
	if t.Kind == Pointer || t.Kind == Array {
		if (t.Elem == nil) != (other.Elem == nil) {
			return false
		}
		if t.Elem != nil && !t.Elem.Equal(*other.Elem) {
			return false
		}
	}
	return true
}

// Built-in elementary numeric types (spec.md GLOSSARY).
var (
	SINT  = TypeInfo{Name: "SINT", Kind: SignedInt, Width: 8}
	INT   = TypeInfo{Name: "INT", Kind: SignedInt, Width: 16}
	DINT  = TypeInfo{Name: "DINT", Kind: SignedInt, Width: 32}
	LINT  = TypeInfo{Name: "LINT", Kind: SignedInt, Width: 64}
	USINT = TypeInfo{Name: "USINT", Kind: UnsignedInt, Width: 8}
	UINT  = TypeInfo{Name: "UINT", Kind: UnsignedInt, Width: 16}
	UDINT = TypeInfo{Name: "UDINT", Kind: UnsignedInt, Width: 32}
	ULINT = TypeInfo{Name: "ULINT", Kind: UnsignedInt, Width: 64}
	BYTE  = TypeInfo{Name: "BYTE", Kind: UnsignedInt, Width: 8}
	WORD  = TypeInfo{Name: "WORD", Kind: UnsignedInt, Width: 16}
	DWORD = TypeInfo{Name: "DWORD", Kind: UnsignedInt, Width: 32}
	LWORD = TypeInfo{Name: "LWORD", Kind: UnsignedInt, Width: 64}
	REAL  = TypeInfo{Name: "REAL", Kind: Float, Width: 32}
	LREAL = TypeInfo{Name: "LREAL", Kind: Float, Width: 64}
	BOOLT = TypeInfo{Name: "BOOL", Kind: Bool, Width: 1}
	VOID  = TypeInfo{Name: "VOID", Kind: Void, Width: 0}
)

// namedTypes is the lookup table backing Named; it only knows elementary
// numeric types plus BOOL, which is enough for the generator's own needs.
// An Index implementation is free to resolve user-defined aliases (e.g.
// "MYSINT") to one of these TypeInfo values itself.
var namedTypes = map[string]TypeInfo{
	"SINT": SINT, "INT": INT, "DINT": DINT, "LINT": LINT,
	"USINT": USINT, "UINT": UINT, "UDINT": UDINT, "ULINT": ULINT,
	"BYTE": BYTE, "WORD": WORD, "DWORD": DWORD, "LWORD": LWORD,
	"REAL": REAL, "LREAL": LREAL, "BOOL": BOOLT,
}

// Named resolves an elementary type name to its TypeInfo.
func Named(name string) (TypeInfo, bool) {
	t, ok := namedTypes[name]
	return t, ok
}

// Rank implements the total order over numeric types spec.md §3 defines:
// width first, then kind within equal width (Float > Int). Non-numeric
// types have no meaningful rank and return -1.
func Rank(t TypeInfo) int {
	if !t.IsNumeric() {
		return -1
	}
	kindRank := 0
	if t.Kind == Float {
		kindRank = 1
	}
	return t.Width*10 + kindRank
}

// LLVMType bridges a TypeInfo to the concrete IR type the facade's builder
// should use, grounded on genType in vslc/src/ir/llvm/transform.go.
func LLVMType(ctx llvm.Context, t TypeInfo) llvm.Type {
	switch t.Kind {
	case SignedInt, UnsignedInt:
		return ctx.IntType(t.Width)
	case Float:
		if t.Width == 64 {
			return ctx.DoubleType()
		}
		return ctx.FloatType()
	case Bool:
		return ctx.Int1Type()
	case Void:
		return ctx.VoidType()
	case Pointer:
		var elem llvm.Type
		if t.Elem != nil {
			elem = LLVMType(ctx, *t.Elem)
		} else {
			elem = ctx.Int8Type()
		}
		return llvm.PointerType(elem, 0)
	default:
		// Struct/Array and anything else is outside the numeric core;
		// callers resolve those through the Index instead.
		return ctx.Int8Type()
	}
}
