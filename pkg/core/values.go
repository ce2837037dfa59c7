package core

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// NormalizeValue converts driver-specific scan results into the canonical
// scalar forms used throughout dbdeck: []byte becomes string, everything else
// passes through.
func NormalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// ValuesEqual compares two scalar values structurally. Numeric values compare
// across int/float representations because drivers and JSON decoding disagree
// on which one they hand back for the same column.
func ValuesEqual(a, b any) bool {
	a = NormalizeValue(a)
	b = NormalizeValue(b)

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
		return false
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}

	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func formatScalar(v any) string {
	switch s := NormalizeValue(v).(type) {
	case nil:
		return "NULL"
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}
