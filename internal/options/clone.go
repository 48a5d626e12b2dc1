package options

import (
	"reflect"
	"time"
)

// Cloner is implemented by option values that know how to copy themselves.
// Clone must return a value that shares no mutable state with the receiver.
type Cloner interface {
	Clone() any
}

// cloneAny returns a deep copy of v. Primitives are returned as is; values
// implementing Cloner copy themselves; pointers, slices, maps, arrays and
// structs are copied reflectively.
func cloneAny(v any) any {
	switch t := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, time.Duration:
		return v
	case Cloner:
		return t.Clone()
	case Store:
		return t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Array, reflect.Struct, reflect.Interface:
		return cloneValue(rv, make(map[visit]reflect.Value)).Interface()
	default:
		return v
	}
}

// visit identifies a pointer or map already being copied. The type is part of
// the key because a struct and its first field share an address.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

// cloneValue copies v. seen maps pointers and maps to their copies so that
// cyclic values are copied with the same shape instead of recursing forever.
func cloneValue(v reflect.Value, seen map[visit]reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{v.Pointer(), v.Type()}
		if done, ok := seen[key]; ok {
			return done
		}
		clone := reflect.New(v.Type().Elem())
		seen[key] = clone
		clone.Elem().Set(cloneValue(v.Elem(), seen))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneValue(v.Elem(), seen))
		return out
	case reflect.Struct:
		// Copy the whole struct first so unexported fields survive, then
		// replace the exported ones with deep copies.
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i), seen))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{v.Pointer(), v.Type()}
		if done, ok := seen[key]; ok {
			return done
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		seen[key] = clone
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value(), seen))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i), seen))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i), seen))
		}
		return clone
	default:
		return v
	}
}
