package convert

import "reflect"

// widenings maps a declared parameter kind to the argument kinds it
// accepts as value-preserving widenings. One direction only: narrowing
// is never admitted, and there is no chaining beyond the listed pairs.
//
// uint8 and uint16 appear only as sources, never as targets, and bool
// participates in no widening at all (exact or kind-alias match only).
// int is treated as 64-bit: it accepts everything int64 accepts except
// int64 itself, and it widens into int64 and the float kinds.
var widenings = map[reflect.Kind][]reflect.Kind{
	reflect.Int16: {reflect.Int8, reflect.Uint8},
	reflect.Int32: {reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16},
	reflect.Int:   {reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16},
	reflect.Int64: {reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Uint8, reflect.Uint16},
	reflect.Float32: {
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64,
		reflect.Uint8, reflect.Uint16,
	},
	reflect.Float64: {
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Float32,
	},
}

// isScalarKind reports whether k belongs to the closed scalar set a
// declared parameter can use for kind-alias matching.
func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isKindAlias reports whether arg's dynamic type has exactly the same
// scalar kind as the declared type. This accepts a defined type (e.g.
// time.Duration) wherever the builtin of its kind is declared, and the
// builtin wherever a defined type is declared.
func isKindAlias(declared, arg reflect.Type) bool {
	return isScalarKind(declared.Kind()) && declared.Kind() == arg.Kind()
}

// isWidening reports whether the widening table admits arg's kind for
// the declared kind.
func isWidening(declared, arg reflect.Type) bool {
	for _, k := range widenings[declared.Kind()] {
		if arg.Kind() == k {
			return true
		}
	}
	return false
}

// compatible reports whether a value of dynamic type arg may occupy a
// slot of the declared type: directly assignable, a scalar kind alias,
// or an admitted widening.
func compatible(declared, arg reflect.Type) bool {
	return arg.AssignableTo(declared) || isKindAlias(declared, arg) || isWidening(declared, arg)
}

// nilable reports whether the zero value of t can stand in for a nil
// row value.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}
