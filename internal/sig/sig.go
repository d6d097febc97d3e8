// Package sig describes the declared parameter lists of data-driven
// test functions.
//
// A signature can be parsed from a list of type names (the form case
// files use) or derived from a live function via reflection. Type
// names come from a closed scalar set plus slices of it; the final
// name may carry a "..." marker to declare a variadic signature.
package sig

import (
	"fmt"
	"reflect"
	"strings"
)

// Signature describes the declared parameters of a test function.
// For a variadic signature the final parameter is the slice type of
// the variadic component.
type Signature struct {
	Params   []reflect.Type
	Variadic bool
}

// typesByName is the closed set of scalar type names a case file may
// declare. byte and rune resolve to their builtin aliases.
var typesByName = map[string]reflect.Type{
	"bool":    reflect.TypeOf(false),
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"byte":    reflect.TypeOf(byte(0)),
	"rune":    reflect.TypeOf(rune(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
}

// ParseType resolves a type name from the closed scalar set, or a
// slice of one (e.g. "[]string").
func ParseType(name string) (reflect.Type, error) {
	if elem, ok := strings.CutPrefix(name, "[]"); ok {
		t, err := ParseType(elem)
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(t), nil
	}
	t, ok := typesByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return t, nil
}

// IsScalar reports whether t is one of the closed scalar types a case
// file row can populate directly.
func IsScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Parse builds a Signature from type names.
//
// The final name may use the "...T" marker, which declares a variadic
// signature whose final parameter is []T. A signature needs at least
// one parameter.
func Parse(names []string) (Signature, error) {
	if len(names) == 0 {
		return Signature{}, fmt.Errorf("signature requires at least one parameter type")
	}

	s := Signature{Params: make([]reflect.Type, len(names))}
	for i, name := range names {
		if elem, ok := strings.CutPrefix(name, "..."); ok {
			if i != len(names)-1 {
				return Signature{}, fmt.Errorf("parameter %d: variadic marker %q only allowed on the final parameter", i, name)
			}
			t, err := ParseType(elem)
			if err != nil {
				return Signature{}, fmt.Errorf("parameter %d: %w", i, err)
			}
			s.Params[i] = reflect.SliceOf(t)
			s.Variadic = true
			continue
		}

		t, err := ParseType(name)
		if err != nil {
			return Signature{}, fmt.Errorf("parameter %d: %w", i, err)
		}
		s.Params[i] = t
	}
	return s, nil
}

// Of derives the signature of fn via reflection.
func Of(fn any) (Signature, error) {
	if fn == nil {
		return Signature{}, fmt.Errorf("fn must not be nil")
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("fn must be a function, got %s", t)
	}

	s := Signature{
		Params:   make([]reflect.Type, t.NumIn()),
		Variadic: t.IsVariadic(),
	}
	for i := range s.Params {
		s.Params[i] = t.In(i)
	}
	return s, nil
}

// Fixed returns the number of non-variadic parameters.
func (s Signature) Fixed() int {
	if s.Variadic {
		return len(s.Params) - 1
	}
	return len(s.Params)
}

// String renders the signature in Go syntax, e.g. "(int, ...string)".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if s.Variadic && i == len(s.Params)-1 {
			b.WriteString("...")
			b.WriteString(p.Elem().String())
			continue
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}
