package rows

import (
	"fmt"
	"reflect"

	"github.com/rkistner/dataprov/internal/sig"
)

// DecodedRow is a row ready for argument conversion.
type DecodedRow struct {
	// Args is the flat value sequence for convert.Arguments. For a
	// variadic signature the tail values stay flat (or the final value
	// is a pre-built slice); packing is the converter's job.
	Args []any

	// Want carries expected return values, when the row declares them.
	Want []any
}

// Decode converts every row of the case file against the signature.
func (cf *CaseFile) Decode(s sig.Signature) ([]DecodedRow, error) {
	out := make([]DecodedRow, len(cf.Rows))
	for i, row := range cf.Rows {
		var (
			args []any
			err  error
		)
		if row.Raw != "" {
			args, err = cf.decodeRaw(row.Raw, s)
		} else {
			args, err = cf.decodeValues(row.Values, s)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = DecodedRow{Args: args, Want: row.Want}
	}
	return out, nil
}

// decodeRaw lexes a raw row and converts each field to its declared
// type. A variadic signature consumes all remaining fields into the
// component type; a fixed signature requires an exact field count.
func (cf *CaseFile) decodeRaw(raw string, s sig.Signature) ([]any, error) {
	fields := cf.splitRaw(raw)
	fixed := s.Fixed()

	if !s.Variadic && len(fields) != len(s.Params) {
		return nil, fmt.Errorf("raw row has %d fields but the signature declares %d parameters", len(fields), len(s.Params))
	}
	if s.Variadic && len(fields) < fixed {
		return nil, fmt.Errorf("raw row has %d fields but the signature requires at least %d", len(fields), fixed)
	}

	args := make([]any, len(fields))
	for i, field := range fields {
		target := cf.rawTarget(i, fixed, s)
		v, err := cf.convertField(field, target)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

// rawTarget picks the declared type for raw-row field i.
func (cf *CaseFile) rawTarget(i, fixed int, s sig.Signature) reflect.Type {
	if i < fixed {
		return s.Params[i]
	}
	if s.Variadic {
		return s.Params[len(s.Params)-1].Elem()
	}
	return s.Params[len(s.Params)-1]
}

// decodeValues coerces structured row values to their declared types.
// For a variadic signature, tail values coerce to the component type;
// a single list in the final position coerces to the declared slice so
// the converter's identity-preserving fast path applies.
func (cf *CaseFile) decodeValues(values []any, s sig.Signature) ([]any, error) {
	fixed := s.Fixed()
	args := make([]any, len(values))

	for i, v := range values {
		target := cf.valueTarget(i, len(values), fixed, v, s)
		cv, err := Coerce(v, target)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		args[i] = cv
	}
	return args, nil
}

// valueTarget picks the coercion target for structured value i.
func (cf *CaseFile) valueTarget(i, total, fixed int, v any, s sig.Signature) reflect.Type {
	last := s.Params[len(s.Params)-1]
	if i < fixed {
		return s.Params[i]
	}
	if !s.Variadic {
		// Extra trailing values on a fixed signature: only the last one
		// is used by the converter, all coerce against the final type.
		return last
	}
	if _, isList := v.([]any); isList && i == total-1 {
		return last // pre-built variadic slice
	}
	return last.Elem()
}
