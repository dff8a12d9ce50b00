package asm

import "strings"

// Source is a named chunk of assembly text together with its
// line-start index, so byte offsets can be turned into line/column
// locations for diagnostics. Grounded on original_source/asm/src/
// source.rs's File, simplified to the one span operation this module
// actually needs: offset -> Loc.
type Source struct {
	Name       string
	Text       string
	lineStarts []int
}

// NewSource indexes text's line starts once up front.
func NewSource(name, text string) *Source {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Source{Name: name, Text: text, lineStarts: starts}
}

// Loc is a 1-indexed line/column location within a Source.
type Loc struct {
	Line   int
	Column int
}

// Locate converts a byte offset into text into a line/column pair.
func (s *Source) Locate(pos int) Loc {
	line := 0
	for i, start := range s.lineStarts {
		if start > pos {
			break
		}
		line = i
	}
	return Loc{Line: line + 1, Column: pos - s.lineStarts[line] + 1}
}

// LineText returns the source text of the given 1-indexed line, with
// any trailing carriage return trimmed.
func (s *Source) LineText(line int) string {
	if line < 1 || line > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[line-1]
	end := len(s.Text)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(s.Text[start:end], "\r")
}
