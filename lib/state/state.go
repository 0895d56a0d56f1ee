package state

import (
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"
)

// State is a component's state: a flat map of keys to values.
//
// State values handed out by a Host must be treated as immutable. Updates
// always go through Host.SetState, which builds a new map.
type State map[string]any

// Clone returns a shallow copy of s. Cloning a nil State returns an empty one.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// With returns a shallow copy of s with patch applied on top.
func (s State) With(patch State) State {
	out := make(State, len(s)+len(patch))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Keys returns the keys of s in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Changed reports whether the value under key differs between prev and s.
//
// Scalars compare by value, and numbers compare by value across Go types,
// so int64(1) and float64(1) are equal. Slices, maps, pointers, channels and
// funcs compare by identity, so writing back the same slice is not a change
// while writing an equal copy is. A nil slice and an empty one differ, but
// two zero-capacity slices share one address and count as the same value.
func (s State) Changed(prev State, key string) bool {
	a, aok := prev[key]
	b, bok := s[key]
	if aok != bok {
		return true
	}
	return changed(a, b)
}

func changed(a, b any) bool {
	if a == nil || b == nil {
		return a != nil || b != nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if eq, ok := numberEqual(va, vb); ok {
		return !eq
	}
	if va.Type() != vb.Type() {
		return true
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.IsNil() != vb.IsNil() || va.Len() != vb.Len() || va.Pointer() != vb.Pointer()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() != vb.Pointer()
	}
	if va.Type().Comparable() {
		return !safeEqual(a, b)
	}
	return !reflect.DeepEqual(a, b)
}

// numberEqual compares two numbers of any Go numeric types by value. ok is
// false unless both are numbers.
func numberEqual(a, b reflect.Value) (eq, ok bool) {
	ka, kb := numberKind(a.Kind()), numberKind(b.Kind())
	if ka == 0 || kb == 0 {
		return false, false
	}
	switch {
	case ka == 'f' || kb == 'f':
		return toFloat(a) == toFloat(b), true
	case ka == 'i' && kb == 'i':
		return a.Int() == b.Int(), true
	case ka == 'u' && kb == 'u':
		return a.Uint() == b.Uint(), true
	case ka == 'i':
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint(), true
	default:
		return b.Int() >= 0 && a.Uint() == uint64(b.Int()), true
	}
}

func numberKind(k reflect.Kind) byte {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return 'i'
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return 'u'
	case reflect.Float32, reflect.Float64:
		return 'f'
	}
	return 0
}

func toFloat(v reflect.Value) float64 {
	switch numberKind(v.Kind()) {
	case 'i':
		return float64(v.Int())
	case 'u':
		return float64(v.Uint())
	}
	return v.Float()
}

// safeEqual compares two values of a comparable type. Structs holding
// interface fields with uncomparable dynamic values panic on ==, in which
// case DeepEqual decides.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
