// Package runner executes a test function once per data row.
//
// Rows come from Go code ([][]any), from explicit Cases, or from a
// case file. Each row becomes a subtest: the row is adapted to the
// function's parameter list by the convert package, the function is
// called through reflection, and a panic or a return-value mismatch
// fails that row's subtest without stopping the others.
package runner

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rkistner/dataprov/internal/convert"
	"github.com/rkistner/dataprov/internal/report"
	"github.com/rkistner/dataprov/internal/rows"
	"github.com/rkistner/dataprov/internal/sig"
)

// DefaultTemplate names row subtests with the row index and values.
// %i expands to the row index, %a to the comma-joined row values.
const DefaultTemplate = "%i: %a"

// Case is one data row, optionally with a name and expected returns.
type Case struct {
	// Name overrides the templated subtest name when set.
	Name string

	// Args is the flat value row handed to the argument converter.
	Args []any

	// Want, when non-nil, is compared against the function's return
	// values; any difference fails the row.
	Want []any
}

var testingTType = reflect.TypeOf((*testing.T)(nil))

// Each runs fn once per row as subtests of t.
func Each(t *testing.T, name string, fn any, rowData [][]any) {
	t.Helper()
	cases := make([]Case, len(rowData))
	for i, r := range rowData {
		cases[i] = Case{Args: r}
	}
	EachNamed(t, name, DefaultTemplate, fn, cases)
}

// EachCase runs fn once per case as subtests of t.
func EachCase(t *testing.T, name string, fn any, cases []Case) {
	t.Helper()
	EachNamed(t, name, DefaultTemplate, fn, cases)
}

// EachFile loads a case file and runs fn against its rows. The case
// file's declared signature governs row decoding; the function's own
// signature governs conversion, so an incompatible pairing fails with
// a type mismatch rather than a confusing call panic.
func EachFile(t *testing.T, path string, fn any) {
	t.Helper()

	cf, err := rows.LoadCaseFile(path)
	if err != nil {
		t.Fatalf("dataprov: %v", err)
	}
	declared, err := sig.Parse(cf.Signature)
	if err != nil {
		t.Fatalf("dataprov: %s: %v", path, err)
	}
	decoded, err := cf.Decode(declared)
	if err != nil {
		t.Fatalf("dataprov: %s: %v", path, err)
	}

	cases := make([]Case, len(decoded))
	for i, d := range decoded {
		cases[i] = Case{Args: d.Args, Want: d.Want}
	}
	EachNamed(t, cf.Name, DefaultTemplate, fn, cases)
}

// EachNamed runs fn once per case, naming subtests from the template.
func EachNamed(t *testing.T, name, template string, fn any, cases []Case) {
	t.Helper()

	dataSig, takesT, err := dataSignature(fn)
	if err != nil {
		t.Fatalf("dataprov: %v", err)
	}

	t.Run(name, func(t *testing.T) {
		for i, c := range cases {
			subName := c.Name
			if subName == "" {
				subName = expandTemplate(template, i, c.Args)
			}
			t.Run(subName, func(t *testing.T) {
				runCase(t, fn, dataSig, takesT, c)
			})
		}
	})
}

// dataSignature derives fn's data parameters. A leading *testing.T is
// the runner's concern, not part of the row data.
func dataSignature(fn any) (sig.Signature, bool, error) {
	s, err := sig.Of(fn)
	if err != nil {
		return sig.Signature{}, false, err
	}
	if len(s.Params) > 0 && s.Params[0] == testingTType {
		return sig.Signature{Params: s.Params[1:], Variadic: s.Variadic}, true, nil
	}
	return s, false, nil
}

// runCase converts one row, invokes fn, and checks expected returns.
func runCase(t *testing.T, fn any, s sig.Signature, takesT bool, c Case) {
	t.Helper()

	args, err := convert.Arguments(c.Args, s.Variadic, s.Params)
	if err != nil {
		t.Fatalf("argument conversion failed: %v", err)
	}

	in := make([]reflect.Value, 0, len(args)+1)
	if takesT {
		in = append(in, reflect.ValueOf(t))
	}
	for i, a := range args {
		if a == nil {
			in = append(in, reflect.Zero(s.Params[i]))
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(s.Params[i]) {
			// Admitted by the widening/alias check; reflect.Call still
			// needs the declared type.
			v = v.Convert(s.Params[i])
		}
		in = append(in, v)
	}

	out, err := call(fn, in)
	if err != nil {
		t.Fatalf("%v", err)
	}

	if c.Want != nil {
		checkReturns(t, out, c.Want)
	}
}

// call invokes fn, converting a panic into an error so one bad row
// does not take down the whole run. The variadic tail arrives already
// packed as a slice, so variadic functions go through CallSlice.
func call(fn any, in []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic invoking test function: %v", r)
		}
	}()
	fv := reflect.ValueOf(fn)
	if fv.Type().IsVariadic() {
		return fv.CallSlice(in), nil
	}
	return fv.Call(in), nil
}

// checkReturns compares fn's return values against the row's want
// list. Want values are coerced to the concrete return types first so
// case-file literals (int, float64) compare against sized returns.
func checkReturns(t *testing.T, out []reflect.Value, want []any) {
	t.Helper()

	if len(want) != len(out) {
		t.Fatalf("want declares %d values but the function returns %d", len(want), len(out))
	}

	got := make([]any, len(out))
	expected := make([]any, len(want))
	for i, v := range out {
		got[i] = v.Interface()
		expected[i] = want[i]
		if want[i] == nil {
			continue
		}
		if cw, err := rows.Coerce(want[i], v.Type()); err == nil {
			expected[i] = cw
		}
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

// Validate converts every decoded row against the signature without
// invoking anything. Used by the CLI to vet case files.
func Validate(s sig.Signature, decoded []rows.DecodedRow) []report.RowResult {
	results := make([]report.RowResult, len(decoded))
	for i, d := range decoded {
		res := report.RowResult{Index: i, Status: report.StatusOK}
		if _, err := convert.Arguments(d.Args, s.Variadic, s.Params); err != nil {
			res.Status = report.StatusError
			if convert.IsTypeMismatch(err) || convert.IsArityMismatch(err) {
				res.Status = report.StatusMismatch
			}
			res.Message = err.Error()
		}
		results[i] = res
	}
	return results
}

// expandTemplate fills a subtest-name template for one row.
func expandTemplate(template string, index int, args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	r := strings.NewReplacer(
		"%i", strconv.Itoa(index),
		"%a", strings.Join(parts, ", "),
	)
	return r.Replace(template)
}
