package fieldvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotedString_ParseWithEscaping(t *testing.T) {
	v, n, err := QuotedString.Parse(`"hello \"world\""`)
	require.NoError(t, err)
	assert.Equal(t, `hello "world"`, v)
	assert.Equal(t, len(`"hello \"world\""`), n)
}

func TestQuotedString_ParseMissingOpenQuoteFails(t *testing.T) {
	_, _, err := QuotedString.Parse("bare")
	assert.Error(t, err)
}

func TestQuotedString_ParseUnterminatedFails(t *testing.T) {
	_, _, err := QuotedString.Parse(`"no closing quote`)
	assert.Error(t, err)
}

func TestQuotedString_Serialize(t *testing.T) {
	got := QuotedString.Serialize(`say "hi"`)
	assert.Equal(t, `"say \"hi\""`, got)
}

func TestUnquotedString_ParseStripsOneLayer(t *testing.T) {
	v, _, err := UnquotedString.Parse(`"plain"`)
	require.NoError(t, err)
	assert.Equal(t, "plain", v)
}

func TestUnquotedString_ParsePassesThroughBareToken(t *testing.T) {
	v, n, err := UnquotedString.Parse("bare-token")
	require.NoError(t, err)
	assert.Equal(t, "bare-token", v)
	assert.Equal(t, len("bare-token"), n)
}

func TestUnquotedString_SerializeQuotesNonTokenValues(t *testing.T) {
	assert.Equal(t, "token", UnquotedString.Serialize("token"))
	assert.Equal(t, `"has space"`, UnquotedString.Serialize("has space"))
	assert.Equal(t, `""`, UnquotedString.Serialize(""))
}
