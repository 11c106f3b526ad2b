package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEncodesJSON(t *testing.T) {
	v, err := JSONStrings{"go", "sql"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["go","sql"]`, v)
}

func TestNilValueIsEmptyArray(t *testing.T) {
	var s JSONStrings
	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestScanFromBytesAndString(t *testing.T) {
	var s JSONStrings
	require.NoError(t, s.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, JSONStrings{"a", "b"}, s)

	require.NoError(t, s.Scan(`["c"]`))
	assert.Equal(t, JSONStrings{"c"}, s)
}

func TestScanNullAndEmpty(t *testing.T) {
	var s JSONStrings
	require.NoError(t, s.Scan(nil))
	require.NotNil(t, s)
	assert.Empty(t, s)

	require.NoError(t, s.Scan(""))
	assert.Empty(t, s)

	require.NoError(t, s.Scan("null"))
	require.NotNil(t, s)
	assert.Empty(t, s)
}

func TestScanRejectsUnsupportedType(t *testing.T) {
	var s JSONStrings
	assert.Error(t, s.Scan(42))
}
