package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"stlcg/src/typesystem"
)

// stripUnderscores removes the digit-group separators IEC 61131-3 allows
// in numeric literals (e.g. "1_000_000").
func stripUnderscores(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

// ParseIntegerLiteral parses an INT literal's raw source text, which may
// be plain decimal or base-prefixed ("16#FF", "8#17", "2#1010") per
// spec.md §4.3. The returned value is unsigned; callers decide how to
// reinterpret the bit pattern based on the target type's signedness.
func ParseIntegerLiteral(text string) (uint64, error) {
	text = stripUnderscores(strings.TrimSpace(text))
	if idx := strings.IndexByte(text, '#'); idx >= 0 {
		base, err := strconv.Atoi(text[:idx])
		if err != nil {
			return 0, fmt.Errorf("invalid literal base in %q: %w", text, err)
		}
		v, err := strconv.ParseUint(text[idx+1:], base, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid base-%d literal %q: %w", base, text, err)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q: %w", text, err)
	}
	return v, nil
}

// integerLiteralType returns the smallest signed elementary type that can
// represent v without narrowing below DINT, per spec.md §4.3: "the
// smallest signed type into which the value fits, but not narrower than
// DINT in expression context."
func integerLiteralType(v uint64) (typesystem.TypeInfo, error) {
	switch {
	case v <= math.MaxInt32:
		return typesystem.DINT, nil
	case v <= math.MaxInt64:
		return typesystem.LINT, nil
	default:
		return typesystem.TypeInfo{}, fmt.Errorf("integer literal %d overflows LINT, the widest signed type", v)
	}
}

// ParseRealLiteral parses a REAL/LREAL literal's raw source text.
func ParseRealLiteral(text string) (float64, error) {
	text = stripUnderscores(strings.TrimSpace(text))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid real literal %q: %w", text, err)
	}
	return v, nil
}

// ParseBoolLiteral parses a BOOL literal's raw source text ("TRUE",
// "FALSE", or the legacy "0"/"1" spelling).
func ParseBoolLiteral(text string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "TRUE", "1":
		return true, nil
	case "FALSE", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool literal %q", text)
	}
}
