package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkistner/dataprov/internal/sig"
)

func mustParseCaseFile(t *testing.T, doc string) *CaseFile {
	t.Helper()
	cf, err := ParseCaseFile([]byte(doc))
	require.NoError(t, err)
	return cf
}

func TestDecode_ValueRows(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: widen
signature: ["int8", "float64", "string"]
rows:
  - values: [5, 2, "x"]
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)

	require.Len(t, decoded, 1)
	assert.Equal(t, []any{int8(5), float64(2), "x"}, decoded[0].Args)
}

func TestDecode_ValueRowOutOfRange(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: overflow
signature: ["int8"]
rows:
  - values: [300]
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	_, err = cf.Decode(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
}

func TestDecode_RawRows(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: raw
signature: ["int", "bool", "string"]
rows:
  - raw: "42, true, hello"
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, []any{42, true, "hello"}, decoded[0].Args)
}

func TestDecode_RawRowNullAndQuoting(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: raw
signature: ["string", "string"]
rows:
  - raw: '<null>, " padded "'
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, " padded "}, decoded[0].Args)
}

func TestDecode_RawRowCustomLexing(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: raw
signature: ["string", "string"]
split: "|"
null_token: "NIL"
trim: false
rows:
  - raw: "a |NIL"
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, []any{"a ", nil}, decoded[0].Args)
}

func TestDecode_RawRowArity(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: raw
signature: ["int", "int"]
rows:
  - raw: "1, 2, 3"
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	_, err = cf.Decode(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 fields")
}

func TestDecode_RawRowBadLiteral(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: raw
signature: ["int8"]
rows:
  - raw: "300"
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	_, err = cf.Decode(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "int8")
}

func TestDecode_VariadicTail(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: join
signature: ["string", "...string"]
rows:
  - values: ["-", "a", "b"]
  - raw: "+, x, y, z"
  - values: [":"]
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)

	assert.Equal(t, []any{"-", "a", "b"}, decoded[0].Args)
	assert.Equal(t, []any{"+", "x", "y", "z"}, decoded[1].Args)
	assert.Equal(t, []any{":"}, decoded[2].Args)
}

func TestDecode_VariadicPrebuiltList(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: sum
signature: ["int", "...int"]
rows:
  - values: [1, [2, 3]]
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)

	require.Len(t, decoded[0].Args, 2)
	assert.Equal(t, 1, decoded[0].Args[0])
	assert.Equal(t, []int{2, 3}, decoded[0].Args[1])
}

func TestDecode_WantCarriedThrough(t *testing.T) {
	cf := mustParseCaseFile(t, `
name: add
signature: ["int", "int"]
rows:
  - values: [1, 2]
    want: [3]
`)
	s, err := sig.Parse(cf.Signature)
	require.NoError(t, err)

	decoded, err := cf.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, decoded[0].Want)
}
