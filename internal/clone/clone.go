// Package clone deep copies plain data values (structs, pointers, maps,
// slices) so that a copy never shares mutable storage with its source.
package clone

import "reflect"

// Of returns a deep copy of v. Unexported struct fields are left at their
// zero value. Nil maps and slices stay nil.
func Of[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	out := reflect.New(rv.Type()).Elem()
	out.Set(value(rv))
	res, _ := out.Interface().(T)
	return res
}

// Any deep copies a value held in an interface, preserving its dynamic type.
func Any(v any) any {
	if v == nil {
		return nil
	}
	return value(reflect.ValueOf(v)).Interface()
}

func value(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		c := reflect.New(v.Type().Elem())
		c.Elem().Set(value(v.Elem()))
		return c
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := value(v.Elem())
		c := reflect.New(v.Type()).Elem()
		c.Set(elem)
		return c
	case reflect.Struct:
		c := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := c.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(value(v.Field(i)))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), value(iter.Value()))
		}
		return c
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(value(v.Index(i)))
		}
		return c
	case reflect.Array:
		c := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(value(v.Index(i)))
		}
		return c
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v
	default:
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		return c
	}
}
