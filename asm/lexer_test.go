package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexerRoundTripsSourceSpans(t *testing.T) {
	src := "LDA #$10 ; load\nSTA $0200\n"
	tokens := Lex(src)

	var rebuilt string
	for _, tok := range tokens {
		rebuilt += tok.Text
	}
	assert.Equal(t, src, rebuilt)
}

func TestLexerCategorizesNumberBases(t *testing.T) {
	tokens := Lex("0b101 0o17 42 0x2A $2A")
	var nums []uint64
	for _, tok := range tokens {
		if tok.Kind == KindNumber {
			nums = append(nums, tok.Number)
		}
	}
	assert.Equal(t, []uint64{5, 15, 42, 42, 42}, nums)
}

func TestLexerCharLiteralEscapes(t *testing.T) {
	tokens := Lex(`'\n' 'a' '\0'`)
	var chars []rune
	for _, tok := range tokens {
		if tok.Kind == KindChar {
			chars = append(chars, tok.Char)
		}
	}
	assert.Equal(t, []rune{'\n', 'a', 0}, chars)
}

func TestLexerDistinguishesModFromPreprocessor(t *testing.T) {
	tokens := Lex("%define\n10 % 3")
	assert.Equal(t, KindPreprocessor, tokens[0].Kind)

	var ops []OpKind
	for _, tok := range tokens {
		if tok.Kind == KindOperator {
			ops = append(ops, tok.Op)
		}
	}
	assert.Equal(t, []OpKind{OpMod}, ops)
}

func TestLexerStringLiteral(t *testing.T) {
	tokens := Lex(`"Hi"`)
	assert.Equal(t, "Hi", tokens[0].Str)
}
