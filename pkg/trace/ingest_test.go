package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
)

func TestParseDecodesHexColumns(t *testing.T) {
	data := []byte(`{"m": {"a": ["0x1", "0xa", "0x0"]}}`)

	raw, err := Parse(data)
	require.NoError(t, err)

	require.Contains(t, raw, "m")
	require.Contains(t, raw["m"], "a")

	got := raw["m"]["a"]
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(bls12377.NewElement(1)))
	assert.True(t, got[1].Equal(bls12377.NewElement(10)))
	assert.True(t, got[2].IsZero())
}

func TestParseRejectsInvalidHex(t *testing.T) {
	data := []byte(`{"m": {"a": ["not-hex"]}}`)

	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.Error(t, err)
}
