package store

import (
	"fmt"
	"strings"
	"time"
)

// The comparison helpers below define the uniform filter semantics shared by
// every adapter that evaluates predicates in process (the document store, and
// the relation resolver's key maps). Values coming out of encoding/json or a
// BSON decoder carry mixed numeric types (float64, int32, int64), so numeric
// values of any Go type compare numerically; everything else compares
// strictly by type and value. A stored string "5" does not equal the number 5
// on any backend.

// Equal reports whether two stored values are equal under the unified
// equality semantics.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aok := ToFloat64(a)
	bf, bok := ToFloat64(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}
	if aok != bok {
		return false
	}
	return a == b
}

// Compare orders two stored values. It returns a negative, zero, or positive
// result, and ok=false when the values are not comparable (mixed or
// unsupported types). Numbers order numerically, strings lexicographically,
// times chronologically, and false before true.
func Compare(a, b any) (int, bool) {
	af, aok := ToFloat64(a)
	bf, bok := ToFloat64(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		default:
			return 0, true
		}
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

// ToFloat64 coerces any Go numeric type to float64.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
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
	default:
		return 0, false
	}
}

// ToInt64 coerces any Go numeric type to int64. Fractional values are
// truncated.
func ToInt64(v any) (int64, bool) {
	f, ok := ToFloat64(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// KeyOf returns a canonical map key for a stored value, so that int64(3),
// int32(3) and float64(3) group under the same key when building relation
// lookup maps.
func KeyOf(v any) any {
	if f, ok := ToFloat64(v); ok {
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
