package asm

import "fmt"

// SyntaxError is a source-pinned diagnostic: a reason plus the file,
// line and column it applies to. Its Error() rendering is the
// plain three-line form of original_source/asm/src/error.rs's
// SyntaxError — location/reason, the offending source line, and a
// caret underneath it — with the ansi_term colorization dropped per
// spec.md §1's terminal-colorization non-goal.
type SyntaxError struct {
	Source *Source
	Loc    Loc
	Reason string
}

func newSyntaxError(src *Source, pos int, reason string) *SyntaxError {
	return &SyntaxError{Source: src, Loc: src.Locate(pos), Reason: reason}
}

func (e *SyntaxError) Error() string {
	line := e.Source.LineText(e.Loc.Line)
	marker := caretLine(line, e.Loc.Column)
	return fmt.Sprintf("%s:%d:%d: %s\n%s\n%s",
		e.Source.Name, e.Loc.Line, e.Loc.Column, e.Reason, line, marker)
}

func caretLine(line string, column int) string {
	b := make([]byte, 0, column)
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b = append(b, '\t')
		} else {
			b = append(b, ' ')
		}
	}
	for len(b) < column-1 {
		b = append(b, ' ')
	}
	b = append(b, '^')
	return string(b)
}

func unexpectedToken(src *Source, t Token, context string) *SyntaxError {
	reason := fmt.Sprintf("unexpected token %q", t.Text)
	if context != "" {
		reason = fmt.Sprintf("unexpected token %q in %s", t.Text, context)
	}
	return newSyntaxError(src, t.Pos, reason)
}

func expectedDelimiter(src *Source, closing string, opening Token, context string) *SyntaxError {
	reason := fmt.Sprintf("expected %q to end opening %q", closing, opening.Text)
	if context != "" {
		reason = fmt.Sprintf("expected %q to end opening %q in %s", closing, opening.Text, context)
	}
	return newSyntaxError(src, opening.Pos, reason)
}
