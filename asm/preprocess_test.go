package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderTokens(tokens []Token) string {
	var parts []string
	for _, t := range tokens {
		if t.isNewline() {
			continue
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, "")
}

func TestMacroOverloadByArity(t *testing.T) {
	src := NewSource("test", "")
	text := "%define add(a)    ((a) + 1)\n%define add(a, b) (add(a) + b)\nadd(2, 3)\n"
	tokens, err := Preprocess(src, Lex(text))
	require.NoError(t, err)

	assert.Equal(t, "(((2)+1)+3)", renderTokens(tokens))
}

func TestMacroRecursionLimitReached(t *testing.T) {
	src := NewSource("test", "")
	text := "%define X X\nX\n"
	_, err := Preprocess(src, Lex(text))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursion limit reached during expansion of macro 'X'")
}

func TestMacroConstantSubstitution(t *testing.T) {
	src := NewSource("test", "")
	text := "%define SIZE 10\nLDX #SIZE\n"
	tokens, err := Preprocess(src, Lex(text))
	require.NoError(t, err)
	assert.Equal(t, "LDX#10", renderTokens(tokens))
}

func TestMacroArityMismatchErrors(t *testing.T) {
	src := NewSource("test", "")
	text := "%define add(a) (a)\nadd(1, 2)\n"
	_, err := Preprocess(src, Lex(text))
	require.Error(t, err)
}

func TestPreprocessorIdempotentWithoutDirectives(t *testing.T) {
	src := NewSource("test", "")
	text := "LDA #$10\nSTA $0200\n"
	first, err := Preprocess(src, Lex(text))
	require.NoError(t, err)

	second, err := Preprocess(src, first)
	require.NoError(t, err)
	assert.Equal(t, renderTokens(first), renderTokens(second))
}
