package asm

import "fmt"

const recursionLimit = 10

// macroToken is one element of a macro's stored body: either a literal
// token or a reference to one of the macro's parameters by index,
// mirroring original_source/asm/src/preprocessor.rs's MacroToken enum.
type macroToken struct {
	isParam bool
	param   int
	tok     Token
}

// macroDef is one overload (or the constant form, params == nil) of a
// macro name.
type macroDef struct {
	params []string
	body   []macroToken
}

// macroSet holds every definition sharing a name: at most one constant
// form plus any number of function-like overloads distinguished by
// arity, per spec.md §4.8's overloading rule.
type macroSet struct {
	name      string
	constant  *macroDef
	overloads []*macroDef
}

func (s *macroSet) add(def *macroDef) {
	if def.params == nil {
		s.constant = def
		return
	}
	for i, o := range s.overloads {
		if len(o.params) == len(def.params) {
			s.overloads[i] = def
			return
		}
	}
	s.overloads = append(s.overloads, def)
}

func (s *macroSet) overload(arity int) *macroDef {
	for _, o := range s.overloads {
		if len(o.params) == arity {
			return o
		}
	}
	return nil
}

func (s *macroSet) hasOverloads() bool { return len(s.overloads) > 0 }

type macroTable map[string]*macroSet

func (t macroTable) add(name string, def *macroDef) {
	s, ok := t[name]
	if !ok {
		s = &macroSet{name: name}
		t[name] = s
	}
	s.add(def)
}

// Preprocess strips comments and expands %define macros out of a raw
// token stream, returning the cooked stream the assembler passes
// consume. Grounded on original_source/asm/src/preprocessor.rs's
// preprocess_tokens / expand_macro.
func Preprocess(src *Source, tokens []Token) ([]Token, error) {
	defs := make(macroTable)
	c := &cursor{toks: tokens}
	out, err := preprocessTokens(src, c, defs)
	if err != nil {
		return nil, err
	}
	return stripLayoutTokens(out), nil
}

// stripLayoutTokens drops whitespace, comments, and lexical errors
// that survive into macro-expanded output (macro bodies keep internal
// whitespace while being stored, per spec.md §4.8's hygiene note, but
// the cooked stream handed to the assembler never carries it).
func stripLayoutTokens(tokens []Token) []Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		switch t.Kind {
		case KindWhitespace, KindComment, KindError:
			continue
		}
		out = append(out, t)
	}
	return out
}

type cursor struct {
	toks []Token
}

func (c *cursor) takeOne() (Token, bool) {
	if len(c.toks) == 0 {
		return Token{}, false
	}
	t := c.toks[0]
	c.toks = c.toks[1:]
	return t, true
}

func (c *cursor) first() (Token, bool) {
	if len(c.toks) == 0 {
		return Token{}, false
	}
	return c.toks[0], true
}

func (c *cursor) takeIf(pred func(Token) bool) (Token, bool) {
	t, ok := c.first()
	if !ok || !pred(t) {
		return Token{}, false
	}
	c.toks = c.toks[1:]
	return t, true
}

func (c *cursor) takeWhile(pred func(Token) bool) []Token {
	i := 0
	for i < len(c.toks) && pred(c.toks[i]) {
		i++
	}
	out := c.toks[:i]
	c.toks = c.toks[i:]
	return out
}

func (c *cursor) skipWhitespace() {
	c.takeWhile(Token.isWhitespace)
}

func (c *cursor) skipEOL() {
	c.takeIf(Token.isComment)
	c.takeIf(Token.isNewline)
}

func notEOL(t Token) bool { return !t.isEOL() }

func preprocessTokens(src *Source, c *cursor, defs macroTable) ([]Token, error) {
	var out []Token
	for {
		tok, ok := c.takeOne()
		if !ok {
			break
		}
		switch tok.Kind {
		case KindPreprocessor:
			directive := tok.Text[1:]
			if directive == "define" {
				def, name, err := preprocessDefine(src, c)
				if err != nil {
					return nil, err
				}
				if def != nil {
					defs.add(name, def)
				}
			}
		case KindIdentifier:
			if set, ok := defs[tok.Text]; ok {
				expanded, err := expandMacro(src, tok, c, defs, set)
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
			} else {
				out = append(out, tok)
			}
		case KindComment, KindWhitespace, KindError:
			// cooked tokens drop comments, whitespace and lexical errors
		default:
			out = append(out, tok)
		}
	}
	return out, nil
}

// preprocessDefine parses everything after a leading %define up to and
// including its terminating newline, returning the macro name and its
// definition (nil definition for a bare "%define" with nothing after
// it).
func preprocessDefine(src *Source, c *cursor) (*macroDef, string, error) {
	c.skipWhitespace()

	first, ok := c.first()
	if !ok || first.isEOL() {
		c.skipEOL()
		return nil, "", nil
	}

	name, _ := c.takeOne()
	if !name.isIdentifier() {
		return nil, "", newSyntaxError(src, name.Pos, "expected macro name")
	}

	next, ok := c.first()
	if !ok {
		return &macroDef{}, name.Text, nil
	}
	switch {
	case next.isEOL():
		c.skipEOL()
		return &macroDef{}, name.Text, nil
	case next.isWhitespace():
		def, _, err := preprocessDefineConst(src, c)
		return def, name.Text, err
	case next.isLParen():
		def, _, err := preprocessDefineFunc(src, c)
		return def, name.Text, err
	default:
		return nil, "", newSyntaxError(src, next.Pos, "unexpected token")
	}
}

func preprocessDefineConst(src *Source, c *cursor) (*macroDef, string, error) {
	c.skipWhitespace()
	body := c.takeWhile(notEOL)
	c.skipEOL()

	tokens := make([]macroToken, len(body))
	for i, t := range body {
		tokens[i] = macroToken{tok: t}
	}
	return &macroDef{body: tokens}, "", nil
}

func preprocessDefineFunc(src *Source, c *cursor) (*macroDef, string, error) {
	lparen, _ := c.takeOne()

	c.skipWhitespace()
	var params []string
	for {
		param, ok := c.takeIf(notEOL)
		if !ok {
			return nil, "", expectedDelimiter(src, ")", lparen, "macro parameter list")
		}
		if param.isRParen() {
			break
		}
		if !param.isIdentifier() {
			return nil, "", unexpectedToken(src, param, "macro parameter list")
		}
		for i, p := range params {
			if p == param.Text {
				params = append(params[:i], params[i+1:]...)
				break
			}
		}
		params = append(params, param.Text)

		c.skipWhitespace()
		next, ok := c.takeIf(notEOL)
		if !ok {
			return nil, "", expectedDelimiter(src, ")", lparen, "macro parameter list")
		}
		if next.isRParen() {
			break
		}
		if next.isComma() {
			c.skipWhitespace()
			continue
		}
		return nil, "", unexpectedToken(src, next, "macro parameter list")
	}

	c.skipWhitespace()
	body := c.takeWhile(notEOL)
	c.skipEOL() // trailing comment and terminating newline

	tokens := make([]macroToken, len(body))
	for i, t := range body {
		if idx := indexOf(params, t.Text); idx >= 0 {
			tokens[i] = macroToken{isParam: true, param: idx}
		} else {
			tokens[i] = macroToken{tok: t}
		}
	}
	return &macroDef{params: params, body: tokens}, "", nil
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}

// expandMacro fully expands the macro invocation starting at tok,
// re-scanning the result for further macro uses until nothing more can
// be expanded. An explicit working stack of token slices with a depth
// counter replaces the recursive-call structure of the original
// source, per spec.md §9's design note — this makes the depth limit
// precise and lets the error name the outermost call site.
func expandMacro(src *Source, tok Token, c *cursor, defs macroTable, set *macroSet) ([]Token, error) {
	expanded, err := expandMacroOnce(src, tok, c, set)
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		return []Token{tok}, nil
	}

	var out []Token
	working := [][]Token{expanded}
	for len(working) > 0 {
		if len(working) > recursionLimit {
			return nil, newSyntaxError(src, tok.Pos, fmt.Sprintf(
				"recursion limit reached during expansion of macro '%s'", tok.Text))
		}

		inner := &cursor{toks: working[len(working)-1]}
		reentered := false
		for {
			t, ok := inner.takeOne()
			if !ok {
				break
			}
			if t.isIdentifier() {
				if innerSet, ok := defs[t.Text]; ok {
					innerExpanded, err := expandMacroOnce(src, t, inner, innerSet)
					if err != nil {
						return nil, err
					}
					if innerExpanded != nil {
						working[len(working)-1] = inner.toks
						working = append(working, innerExpanded)
						reentered = true
						break
					}
				}
			}
			out = append(out, t)
		}
		if !reentered {
			working = working[:len(working)-1]
		}
	}

	return out, nil
}

// expandMacroOnce performs a single, non-recursive expansion step: it
// returns the macro's substituted body (nil if tok isn't actually
// callable/defined here), consuming a trailing "(args)" from c when
// the name has function overloads.
func expandMacroOnce(src *Source, tok Token, c *cursor, set *macroSet) ([]Token, error) {
	if first, ok := c.first(); ok && first.isLParen() && set.hasOverloads() {
		lparen, _ := c.takeOne()
		args, err := collectMacroArgs(src, lparen, c)
		if err != nil {
			return nil, err
		}
		def := set.overload(len(args))
		if def == nil {
			return nil, newSyntaxError(src, tok.Pos, fmt.Sprintf(
				"no overload of macro '%s' takes %d argument(s)", tok.Text, len(args)))
		}
		return expandMacroFunc(def, args), nil
	}
	if set.constant != nil {
		return expandMacroConst(set.constant), nil
	}
	return nil, nil
}

func expandMacroConst(def *macroDef) []Token {
	out := make([]Token, len(def.body))
	for i, mt := range def.body {
		out[i] = mt.tok
	}
	return out
}

func expandMacroFunc(def *macroDef, args [][]Token) []Token {
	var out []Token
	for _, mt := range def.body {
		if mt.isParam {
			out = append(out, args[mt.param]...)
		} else {
			out = append(out, mt.tok)
		}
	}
	return out
}

func collectMacroArgs(src *Source, lparen Token, c *cursor) ([][]Token, error) {
	var args [][]Token
	for {
		arg, err := takeMacroArg(src, c)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		next, ok := c.takeOne()
		if !ok {
			return nil, expectedDelimiter(src, ")", lparen, "macro call")
		}
		if next.isComma() {
			continue
		}
		if next.isRParen() {
			break
		}
		if next.isEOL() {
			return nil, expectedDelimiter(src, ")", lparen, "macro call")
		}
		return nil, unexpectedToken(src, next, "macro call")
	}
	return args, nil
}

func takeMacroArg(src *Source, c *cursor) ([]Token, error) {
	c.skipWhitespace()

	var parens []Token
	arg := c.takeWhile(func(t Token) bool {
		if t.isLParen() {
			parens = append(parens, t)
			return true
		}
		if t.isRParen() {
			if len(parens) == 0 {
				return false
			}
			parens = parens[:len(parens)-1]
			return true
		}
		return notEOL(t) && !t.isComma()
	})

	if len(parens) > 0 {
		return nil, expectedDelimiter(src, ")", parens[len(parens)-1], "macro arg")
	}
	return arg, nil
}
