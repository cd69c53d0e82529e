package lexer

import (
	"testing"

	"github.com/codingersid/liquidgo/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerText(t *testing.T) {
	elements, err := New("Hello World").Tokenize()
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, token.ElementText, elements[0].Kind)
	assert.Equal(t, "Hello World", elements[0].Text)
}

func TestLexerOutput(t *testing.T) {
	elements, err := New("Hi {{ name }}!").Tokenize()
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, token.ElementText, elements[0].Kind)
	assert.Equal(t, token.ElementOutput, elements[1].Kind)
	assert.Equal(t, "name", elements[1].Body)
	assert.Equal(t, token.ElementText, elements[2].Kind)
	assert.Equal(t, "!", elements[2].Text)
}

func TestLexerTag(t *testing.T) {
	elements, err := New("{% if x %}yes{% endif %}").Tokenize()
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, "if x", elements[0].Body)
	assert.Equal(t, "endif", elements[2].Body)
}

func TestLexerTrimMarkers(t *testing.T) {
	elements, err := New("A \n  {{- x -}}  \n B").Tokenize()
	require.NoError(t, err)
	// leading text trimmed of trailing whitespace, trailing text trimmed of leading whitespace
	require.Len(t, elements, 3)
	assert.Equal(t, "A", elements[0].Text)
	assert.Equal(t, "x", elements[1].Body)
	assert.Equal(t, "B", elements[2].Text)
}

func TestLexerUnterminatedOutput(t *testing.T) {
	_, err := New("{{ x").Tokenize()
	assert.Error(t, err)
}

func TestTokenizeBodyExpression(t *testing.T) {
	toks, err := TokenizeBody(`n | minus: 2`, token.Position{})
	require.NoError(t, err)
	require.Len(t, toks, 6) // n, |, minus, :, 2, EOF
}

func TestTokenizeBodyLiterals(t *testing.T) {
	toks, err := TokenizeBody(`"hi" 1 1.5 true false -3`, token.Position{})
	require.NoError(t, err)
	kinds := []token.Kind{}
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.StringLiteral, token.IntegerLiteral, token.FloatLiteral,
		token.BoolLiteral, token.BoolLiteral, token.IntegerLiteral, token.EOF,
	}, kinds)
}

func TestTokenizeBodyOperators(t *testing.T) {
	toks, err := TokenizeBody(`a == b and c contains d`, token.Position{})
	require.NoError(t, err)
	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.Ident, token.Eq, token.Ident, token.And, token.Ident,
		token.Contains, token.Ident, token.EOF,
	}, kinds)
}
