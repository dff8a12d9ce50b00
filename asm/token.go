package asm

// Kind categorizes a raw token, mirroring original_source/asm/src/
// token.rs's RawTokenKind.
type Kind int

const (
	KindPreprocessor Kind = iota
	KindDirective
	KindIdentifier
	KindNumber
	KindChar
	KindString
	KindOperator
	KindComma
	KindColon
	KindHash
	KindLParen
	KindRParen
	KindNewline
	KindWhitespace
	KindComment
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindPreprocessor:
		return "Preprocessor"
	case KindDirective:
		return "Directive"
	case KindIdentifier:
		return "Identifier"
	case KindNumber:
		return "Number"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindOperator:
		return "Operator"
	case KindComma:
		return "Comma"
	case KindColon:
		return "Colon"
	case KindHash:
		return "Hash"
	case KindLParen:
		return "LParen"
	case KindRParen:
		return "RParen"
	case KindNewline:
		return "Newline"
	case KindWhitespace:
		return "Whitespace"
	case KindComment:
		return "Comment"
	default:
		return "Error"
	}
}

// OpKind distinguishes the eleven operator tokens.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNot
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
)

// Token is a single lexed unit with its source span and, for literal
// kinds, its decoded value. Text always holds the exact source slice
// so that concatenating every token's Text reproduces the source
// byte-for-byte (spec.md §8's lexer round-trip invariant).
type Token struct {
	Kind Kind
	Op   OpKind
	Text string
	Pos  int
	End  int

	Number uint64
	Char   rune
	Str    string
}

func (t Token) isWhitespace() bool { return t.Kind == KindWhitespace }
func (t Token) isComment() bool    { return t.Kind == KindComment }
func (t Token) isNewline() bool    { return t.Kind == KindNewline }
func (t Token) isEOL() bool        { return t.isComment() || t.isNewline() }
func (t Token) isIdentifier() bool { return t.Kind == KindIdentifier }
func (t Token) isLParen() bool     { return t.Kind == KindLParen }
func (t Token) isRParen() bool     { return t.Kind == KindRParen }
func (t Token) isComma() bool      { return t.Kind == KindComma }
