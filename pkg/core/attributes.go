package core

import (
	"reflect"
	"strconv"
)

// Attribute is a named numeric parameter extracted from a model.
type Attribute struct {
	Name  string
	Value float64
}

// Attributes enumerates the numeric parameters of a model by walking its
// exported fields. Nested structs, interfaces, pointers, slices and
// arrays are walked recursively with dot-joined names; bools count as
// numeric (0 or 1) and non-numeric leaves are skipped. The resulting
// snapshot is used to detect parameter changes between calls, e.g. by
// lazily rebuilt sampling tables.
func Attributes(model any) []Attribute {
	return appendAttributes(nil, "", reflect.ValueOf(model))
}

// AttributesEqual reports whether two snapshots have identical names and values
func AttributesEqual(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func appendAttributes(attrs []Attribute, name string, v reflect.Value) []Attribute {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			attrs = appendAttributes(attrs, name, v.Elem())
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			attrs = appendAttributes(attrs, joinName(name, field.Name), v.Field(i))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			attrs = appendAttributes(attrs, joinName(name, strconv.Itoa(i)), v.Index(i))
		}
	case reflect.Float32, reflect.Float64:
		attrs = append(attrs, Attribute{Name: name, Value: v.Float()})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		attrs = append(attrs, Attribute{Name: name, Value: float64(v.Int())})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		attrs = append(attrs, Attribute{Name: name, Value: float64(v.Uint())})
	case reflect.Bool:
		value := 0.0
		if v.Bool() {
			value = 1.0
		}
		attrs = append(attrs, Attribute{Name: name, Value: value})
	}
	return attrs
}

func joinName(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}
