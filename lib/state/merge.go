package state

import (
	"fmt"
	"math"
	"reflect"
)

type shape uint8

const (
	shapeOther shape = iota
	shapeArray
	shapeObject
)

func (s shape) String() string {
	switch s {
	case shapeArray:
		return "array"
	case shapeObject:
		return "object"
	default:
		return "scalar"
	}
}

func shapeOf(v any) shape {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return shapeArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return shapeObject
		}
	}
	return shapeOther
}

// mergeValues merges right into left without modifying either operand.
// Arrays concatenate in order, objects take right-hand values on conflict.
func mergeValues(left, right any) (any, error) {
	ls, rs := shapeOf(left), shapeOf(right)
	if ls == shapeOther || rs == shapeOther || ls != rs {
		return nil, fmt.Errorf("%w: cannot merge %s (%T) with %s (%T)", ErrMergeMismatch, ls, left, rs, right)
	}
	if ls == shapeArray {
		return concat(left, right), nil
	}
	return union(left, right), nil
}

func concat(left, right any) any {
	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	if lv.Kind() == reflect.Slice && lv.Type() == rv.Type() {
		out := reflect.MakeSlice(lv.Type(), 0, lv.Len()+rv.Len())
		out = reflect.AppendSlice(out, lv)
		out = reflect.AppendSlice(out, rv)
		return out.Interface()
	}
	out := make([]any, 0, lv.Len()+rv.Len())
	for i := 0; i < lv.Len(); i++ {
		out = append(out, lv.Index(i).Interface())
	}
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}

func union(left, right any) any {
	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	if lv.Type() == rv.Type() {
		out := reflect.MakeMapWithSize(lv.Type(), lv.Len()+rv.Len())
		for _, src := range []reflect.Value{lv, rv} {
			iter := src.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		return out.Interface()
	}
	out := make(map[string]any, lv.Len()+rv.Len())
	for _, src := range []reflect.Value{lv, rv} {
		iter := src.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
	}
	return out
}

// truthy reports whether v would be considered true when negated by a
// toggle on a non-boolean value.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
