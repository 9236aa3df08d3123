package fieldvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommented_ParseWithoutComment(t *testing.T) {
	conv := NewCommentedConverter(Token)
	v, n, err := conv.Parse("gzip")
	require.NoError(t, err)
	assert.Equal(t, "gzip", v.Value)
	assert.Empty(t, v.Comment)
	assert.Equal(t, 4, n)
}

func TestCommented_ParseWithComment(t *testing.T) {
	conv := NewCommentedConverter(Token)
	v, n, err := conv.Parse("MyAgent (compatible; test)")
	require.NoError(t, err)
	assert.Equal(t, "MyAgent", v.Value)
	assert.Equal(t, "compatible; test", v.Comment)
	assert.Equal(t, len("MyAgent (compatible; test)"), n)
}

func TestCommented_NestedParens(t *testing.T) {
	conv := NewCommentedConverter(Token)
	v, _, err := conv.Parse("x (outer (inner) tail)")
	require.NoError(t, err)
	assert.Equal(t, "outer (inner) tail", v.Comment)
}

func TestCommented_UnterminatedFails(t *testing.T) {
	conv := NewCommentedConverter(Token)
	_, _, err := conv.Parse("x (unterminated")
	require.Error(t, err)
}

func TestCommented_Serialize(t *testing.T) {
	conv := NewCommentedConverter(Token)
	s := conv.Serialize(Commented[string]{Value: "x", Comment: "a(b)"})
	assert.Equal(t, `x (a\(b\))`, s)
}
