package rows

import (
	"fmt"
	"math"
	"reflect"
)

// Coerce converts a decoded YAML value to the target type.
//
// Coercion is strict: a value converts only when the target represents
// it exactly. An int fits an int8 slot only in range, 3.0 fits an int
// slot but 3.5 does not, and 0.1 does not fit a float32 slot. Lossy
// coercion here would mask the narrowing rules the argument validator
// enforces later.
//
// nil coerces to nil; lists coerce element-wise to slice targets.
func Coerce(v any, target reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return v, nil
	}

	if target.Kind() == reflect.Slice {
		list, ok := v.([]any)
		if !ok {
			return nil, coerceError(v, target)
		}
		out := reflect.MakeSlice(target, len(list), len(list))
		for i, elem := range list {
			ce, err := Coerce(elem, target.Elem())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			if ce == nil {
				continue // keep the zero value
			}
			out.Index(i).Set(reflect.ValueOf(ce))
		}
		return out.Interface(), nil
	}

	return coerceScalar(rv, target)
}

// coerceScalar converts a scalar value to the target kind when the
// conversion is exactly representable.
func coerceScalar(rv reflect.Value, target reflect.Type) (any, error) {
	out := reflect.New(target).Elem()

	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := rv.Int()
			if out.OverflowInt(i) {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetInt(i)
			return out.Interface(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetInt(int64(u))
			return out.Interface(), nil
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			i := int64(f)
			if float64(i) != f || out.OverflowInt(i) {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetInt(i)
			return out.Interface(), nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := rv.Int()
			if i < 0 || out.OverflowUint(uint64(i)) {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetUint(uint64(i))
			return out.Interface(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if out.OverflowUint(u) {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetUint(u)
			return out.Interface(), nil
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f < 0 {
				return nil, coerceError(rv.Interface(), target)
			}
			u := uint64(f)
			if float64(u) != f || out.OverflowUint(u) {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetUint(u)
			return out.Interface(), nil
		}

	case reflect.Float32, reflect.Float64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i := rv.Int()
			f := float64(i)
			if int64(f) != i {
				return nil, coerceError(rv.Interface(), target)
			}
			out.SetFloat(f)
			if out.Float() != f {
				return nil, coerceError(rv.Interface(), target)
			}
			return out.Interface(), nil
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			out.SetFloat(f)
			if out.Float() != f {
				return nil, coerceError(rv.Interface(), target)
			}
			return out.Interface(), nil
		}

	case reflect.String:
		if rv.Kind() == reflect.String {
			out.SetString(rv.String())
			return out.Interface(), nil
		}

	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			out.SetBool(rv.Bool())
			return out.Interface(), nil
		}
	}

	return nil, coerceError(rv.Interface(), target)
}

func coerceError(v any, target reflect.Type) error {
	return fmt.Errorf("cannot use %v (%T) as %s", v, v, target)
}
