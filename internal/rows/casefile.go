// Package rows loads and decodes case files for data-driven tests.
//
// A case file is a YAML document declaring a parameter signature and a
// list of data rows. A row carries either structured values or a raw
// string that is split on a separator and converted field by field to
// the declared parameter types.
package rows

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Defaults for raw-row lexing.
const (
	DefaultSplit     = ","
	DefaultNullToken = "<null>"
)

//go:embed schema.cue
var schemaCUE string

// CaseFile defines a set of data rows for one test case.
type CaseFile struct {
	// Name uniquely identifies this case. Normalized to NFC on load so
	// the same visual name always produces the same golden-file and
	// store keys.
	Name string `yaml:"name"`

	// Description explains what the rows exercise.
	Description string `yaml:"description,omitempty"`

	// Signature lists the declared parameter type names, e.g.
	// ["int", "int", "...string"]. The final entry may carry the
	// variadic marker.
	Signature []string `yaml:"signature"`

	// Split is the separator for raw rows. Defaults to ",".
	Split string `yaml:"split,omitempty"`

	// NullToken is the raw-row field that stands for a nil value.
	// Defaults to "<null>".
	NullToken string `yaml:"null_token,omitempty"`

	// Trim controls whitespace trimming of raw-row fields.
	// Defaults to true.
	Trim *bool `yaml:"trim,omitempty"`

	// Rows holds the data rows. At least one is required.
	Rows []Row `yaml:"rows"`
}

// Row is a single data row. Exactly one of Values and Raw must be set.
type Row struct {
	// Values carries structured row values, coerced to the declared
	// parameter types on decode.
	Values []any `yaml:"values,omitempty"`

	// Raw carries the row as a single string, split and converted per
	// the case file's lexing settings.
	Raw string `yaml:"raw,omitempty"`

	// Want optionally carries expected return values for the test
	// function, compared by the runner when present.
	Want []any `yaml:"want,omitempty"`
}

// LoadCaseFile reads and parses a case file.
func LoadCaseFile(path string) (*CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	cf, err := ParseCaseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

// ParseCaseFile parses a case file from YAML.
//
// Parsing is strict: unknown fields are rejected (catches typos like
// "rows:" vs "row:"), the document is validated against the embedded
// CUE schema, and required fields are checked. The case name is
// NFC-normalized.
func ParseCaseFile(data []byte) (*CaseFile, error) {
	var cf CaseFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Schema validation works on the generic document, not the struct.
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	if err := validateCaseFile(&cf); err != nil {
		return nil, fmt.Errorf("invalid case file: %w", err)
	}

	cf.Name = norm.NFC.String(cf.Name)
	return &cf, nil
}

// validateSchema checks the decoded document against the embedded CUE
// schema. The schema guards document shape; precise semantic checks
// (variadic marker placement, value/raw exclusivity) stay in Go.
func validateSchema(doc map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#CaseFile"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to encode case file for validation: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("case file does not match schema:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}

// validateCaseFile checks that required fields are present and rows
// are well-formed.
func validateCaseFile(cf *CaseFile) error {
	if cf.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(cf.Signature) == 0 {
		return fmt.Errorf("signature is required and must be non-empty")
	}
	if len(cf.Rows) == 0 {
		return fmt.Errorf("rows list is required and must be non-empty")
	}

	for i, row := range cf.Rows {
		hasValues := row.Values != nil
		hasRaw := row.Raw != ""
		if hasValues && hasRaw {
			return fmt.Errorf("rows[%d]: values and raw are mutually exclusive", i)
		}
		if !hasValues && !hasRaw {
			return fmt.Errorf("rows[%d]: either values or raw is required (use values: [] for an empty row)", i)
		}
		if row.Want != nil && hasRaw {
			return fmt.Errorf("rows[%d]: want requires a values row", i)
		}
	}
	return nil
}

// trimEnabled reports whether raw-row fields should be trimmed.
func (cf *CaseFile) trimEnabled() bool {
	return cf.Trim == nil || *cf.Trim
}

// split returns the raw-row separator.
func (cf *CaseFile) split() string {
	if cf.Split == "" {
		return DefaultSplit
	}
	return cf.Split
}

// nullToken returns the raw-row nil marker.
func (cf *CaseFile) nullToken() string {
	if cf.NullToken == "" {
		return DefaultNullToken
	}
	return cf.NullToken
}
