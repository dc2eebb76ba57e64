// Package layering overlays settings values. A field left unset in a stronger
// layer (nil pointer, nil map, nil slice, nil interface) is filled from the
// next weaker layer; anything set wins outright.
package layering

import "reflect"

// MergeLayers merges layers ordered from strongest to weakest into a fresh
// value. Inputs are never modified and the result shares no pointers, maps
// or slices with them.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}
	typ := reflect.TypeOf(&zero).Elem()
	merged := deepCopy(reflect.ValueOf(&layers[len(layers)-1]).Elem())
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(reflect.ValueOf(&layers[i]).Elem(), merged)
	}
	out := reflect.New(typ).Elem()
	if merged.IsValid() {
		out.Set(merged)
	}
	return out.Interface().(T)
}

// Overlay applies over onto base. Set fields of over win.
func Overlay[T any](base, over T) T {
	return MergeLayers(over, base)
}

// unset reports whether v carries no explicit setting.
func unset(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func overlay(strong, weak reflect.Value) reflect.Value {
	if unset(strong) {
		if !weak.IsValid() {
			return deepCopy(strong)
		}
		return deepCopy(weak)
	}
	if !weak.IsValid() || weak.Type() != strong.Type() {
		return deepCopy(strong)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		if weak.IsNil() {
			return deepCopy(strong)
		}
		out := reflect.New(strong.Type().Elem())
		out.Elem().Set(overlay(strong.Elem(), weak.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.NumField(); i++ {
			if !out.Field(i).CanSet() {
				continue
			}
			out.Field(i).Set(overlay(strong.Field(i), weak.Field(i)))
		}
		return out
	case reflect.Map:
		out := reflect.MakeMapWithSize(strong.Type(), strong.Len()+weak.Len())
		for it := weak.MapRange(); it.Next(); {
			out.SetMapIndex(it.Key(), deepCopy(it.Value()))
		}
		for it := strong.MapRange(); it.Next(); {
			if prev := out.MapIndex(it.Key()); prev.IsValid() {
				out.SetMapIndex(it.Key(), overlay(it.Value(), prev))
				continue
			}
			out.SetMapIndex(it.Key(), deepCopy(it.Value()))
		}
		return out
	case reflect.Array:
		out := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.Len(); i++ {
			out.Index(i).Set(overlay(strong.Index(i), weak.Index(i)))
		}
		return out
	case reflect.Interface:
		inner := overlay(strong.Elem(), weak.Elem())
		out := reflect.New(strong.Type()).Elem()
		out.Set(inner)
		return out
	}
	// Slices and plain values are replaced whole.
	return deepCopy(strong)
}

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		out := reflect.New(v.Type()).Elem()
		if !v.IsNil() {
			out.Set(deepCopy(v.Elem()))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		for it := v.MapRange(); it.Next(); {
			out.SetMapIndex(it.Key(), deepCopy(it.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	}
	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	return out
}
