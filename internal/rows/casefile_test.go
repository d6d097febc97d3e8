package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaseFile(t *testing.T) {
	cf, err := ParseCaseFile([]byte(`
name: addition
description: sums two ints
signature: ["int", "int", "int"]
rows:
  - values: [1, 2, 3]
  - raw: "4, 5, 9"
`))
	require.NoError(t, err)

	assert.Equal(t, "addition", cf.Name)
	assert.Equal(t, []string{"int", "int", "int"}, cf.Signature)
	require.Len(t, cf.Rows, 2)
	assert.Equal(t, []any{1, 2, 3}, cf.Rows[0].Values)
	assert.Equal(t, "4, 5, 9", cf.Rows[1].Raw)
}

func TestParseCaseFile_Defaults(t *testing.T) {
	cf, err := ParseCaseFile([]byte(`
name: defaults
signature: ["string"]
rows:
  - raw: "x"
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultSplit, cf.split())
	assert.Equal(t, DefaultNullToken, cf.nullToken())
	assert.True(t, cf.trimEnabled())
}

func TestParseCaseFile_NormalizesName(t *testing.T) {
	// "é" as e + combining acute accent normalizes to the precomposed form.
	cf, err := ParseCaseFile([]byte(`
name: "café"
signature: ["int"]
rows:
  - values: [1]
`))
	require.NoError(t, err)

	assert.Equal(t, "café", cf.Name)
}

func TestParseCaseFile_RejectsUnknownFields(t *testing.T) {
	_, err := ParseCaseFile([]byte(`
name: typo
signature: ["int"]
row:
  - values: [1]
`))
	require.Error(t, err)
}

func TestParseCaseFile_SchemaViolations(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"missing name", "signature: [\"int\"]\nrows:\n  - values: [1]\n"},
		{"empty name", "name: \"\"\nsignature: [\"int\"]\nrows:\n  - values: [1]\n"},
		{"missing signature", "name: x\nrows:\n  - values: [1]\n"},
		{"empty signature", "name: x\nsignature: []\nrows:\n  - values: [1]\n"},
		{"missing rows", "name: x\nsignature: [\"int\"]\n"},
		{"empty rows", "name: x\nsignature: [\"int\"]\nrows: []\n"},
		{"non-string signature entry", "name: x\nsignature: [1]\nrows:\n  - values: [1]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCaseFile([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseCaseFile_RowExclusivity(t *testing.T) {
	_, err := ParseCaseFile([]byte(`
name: both
signature: ["int"]
rows:
  - values: [1]
    raw: "1"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = ParseCaseFile([]byte(`
name: neither
signature: ["int"]
rows:
  - want: [1]
`))
	require.Error(t, err)
}

func TestLoadCaseFile(t *testing.T) {
	cf, err := LoadCaseFile("testdata/join.yaml")
	require.NoError(t, err)

	assert.Equal(t, "join", cf.Name)
	assert.Len(t, cf.Rows, 3)
}

func TestLoadCaseFile_MissingFile(t *testing.T) {
	_, err := LoadCaseFile("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read case file")
}
