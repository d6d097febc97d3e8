// Package convert adapts flat rows of test-case values into the exact
// argument lists required to invoke a test function through reflection.
//
// Two complications make this more than a copy: variadic trailing
// parameters, which must receive either a pre-built slice or a packed
// tail of the row; and defined-type/widening compatibility between
// supplied values and declared parameter types, which reflect.Call
// does not check on the caller's behalf.
//
// The package is stateless and synchronous. It is safe for concurrent
// use with distinct inputs; the only sharing it ever introduces is the
// reused variadic slice on the fast path, which callers must treat as
// read-only afterwards.
package convert

import "reflect"

// Arguments converts data into an argument list matching params.
//
// The first len(params)-1 values are copied positionally. For the
// final slot:
//   - fixed arity: the LAST value of data is used, regardless of how
//     long data is;
//   - variadic: the tail is packed per packVariadic, with the final
//     params entry being the declared slice type.
//
// Every slot of the result is validated against its declared type
// before returning. The result always has exactly len(params) entries.
func Arguments(data []any, variadic bool, params []reflect.Type) ([]any, error) {
	if len(params) == 0 {
		return nil, newNilInputError("parameter types")
	}

	result := make([]any, len(params))
	last := len(params) - 1

	if len(data) < last {
		return nil, newInsufficientDataError(len(data), last)
	}
	for i := 0; i < last; i++ {
		result[i] = data[i]
	}

	if variadic {
		packed, err := packVariadic(data, params[last], last)
		if err != nil {
			return nil, err
		}
		result[last] = packed
	} else {
		if len(data) == 0 {
			return nil, newInsufficientDataError(0, 1)
		}
		result[last] = data[len(data)-1]
	}

	if err := Check(result, params); err != nil {
		return nil, err
	}
	return result, nil
}

// packVariadic builds the final argument for a variadic signature.
//
// Fast path: if data's last value is already a slice whose element
// type exactly equals the declared component type, it is reused by
// reference. No copy is made, so the caller that supplied it must not
// mutate it afterwards. This supports rows that carry a pre-built
// variadic slice.
//
// Otherwise a new slice of the declared type is allocated with length
// len(data)-fixed and the tail of data is copied in positionally,
// converting kind-alias and widening values to the component type.
// A row with exactly fixed values yields an empty slice.
func packVariadic(data []any, sliceType reflect.Type, fixed int) (any, error) {
	if sliceType.Kind() != reflect.Slice {
		return nil, newTypeMismatchError(fixed, sliceType, nil)
	}
	component := sliceType.Elem()

	if len(data) > 0 {
		if tail := data[len(data)-1]; tail != nil {
			tailType := reflect.TypeOf(tail)
			if tailType.Kind() == reflect.Slice && tailType.Elem() == component {
				return tail, nil
			}
		}
	}

	n := len(data) - fixed
	if n < 0 {
		n = 0
	}
	packed := reflect.MakeSlice(sliceType, n, n)
	for i := 0; i < n; i++ {
		value := data[fixed+i]
		if value == nil {
			// Slot keeps the component's zero value.
			if !nilable(component) {
				return nil, newTypeMismatchError(fixed+i, component, nil)
			}
			continue
		}
		v := reflect.ValueOf(value)
		switch {
		case v.Type().AssignableTo(component):
			packed.Index(i).Set(v)
		case isKindAlias(component, v.Type()) || isWidening(component, v.Type()):
			packed.Index(i).Set(v.Convert(component))
		default:
			return nil, newTypeMismatchError(fixed+i, component, value)
		}
	}
	return packed.Interface(), nil
}

// Check validates args against the declared parameter types.
//
// A non-nil argument must satisfy at least one of:
//  1. its dynamic type is assignable to the declared type;
//  2. the declared type has scalar kind and the argument's dynamic
//     type has exactly the same kind (defined-type alias);
//  3. the widening table admits (declared kind <- argument kind).
//
// Nil arguments always pass: nil assignability to the slot is
// deliberately not verified here.
func Check(args []any, params []reflect.Type) error {
	if args == nil {
		return newNilInputError("arguments")
	}
	if params == nil {
		return newNilInputError("parameter types")
	}
	if len(params) != len(args) {
		return newArityError(len(params), len(args))
	}

	for i, arg := range args {
		if arg == nil {
			continue
		}
		if !compatible(params[i], reflect.TypeOf(arg)) {
			return newTypeMismatchError(i, params[i], arg)
		}
	}
	return nil
}
