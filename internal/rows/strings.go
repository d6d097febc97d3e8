package rows

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// splitRaw lexes a raw row into fields using the case file's
// separator and trim settings.
func (cf *CaseFile) splitRaw(raw string) []string {
	fields := strings.Split(raw, cf.split())
	if cf.trimEnabled() {
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
	}
	return fields
}

// convertField converts one raw-row field to the target type.
//
// The null token yields nil. Numeric fields parse with the target's
// exact bit size, so "300" into an int8 slot fails here rather than
// silently wrapping. String fields may be double-quoted to preserve
// leading or trailing whitespace through trimming.
func (cf *CaseFile) convertField(field string, target reflect.Type) (any, error) {
	if field == cf.nullToken() {
		return nil, nil
	}

	out := reflect.New(target).Elem()

	switch target.Kind() {
	case reflect.String:
		if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
			unquoted, err := strconv.Unquote(field)
			if err != nil {
				return nil, fmt.Errorf("malformed quoted field %s: %w", field, err)
			}
			field = unquoted
		}
		out.SetString(field)

	case reflect.Bool:
		b, err := strconv.ParseBool(field)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s: %w", field, target, err)
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(field, 10, target.Bits())
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s: %w", field, target, err)
		}
		out.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(field, 10, target.Bits())
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s: %w", field, target, err)
		}
		out.SetUint(u)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(field, target.Bits())
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s: %w", field, target, err)
		}
		out.SetFloat(f)

	default:
		return nil, fmt.Errorf("raw rows cannot populate parameters of type %s", target)
	}

	return out.Interface(), nil
}
