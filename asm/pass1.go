package asm

import (
	"go6502/cpu"
)

// opcodesByMnemonic indexes the cpu package's 256-entry decode table
// by mnemonic and addressing mode, so pass 1 never hand-maintains a
// second copy of "which modes does STA support" — the opcode table
// itself is the one source of truth, per SPEC_FULL.md §5.4.
var opcodesByMnemonic = buildMnemonicIndex()

func buildMnemonicIndex() map[string]map[cpu.AddressMode]*cpu.Opcode {
	idx := make(map[string]map[cpu.AddressMode]*cpu.Opcode)
	for i := range cpu.Opcodes {
		op := &cpu.Opcodes[i]
		if op.Sequence == nil {
			continue
		}
		byMode, ok := idx[op.Mnemonic]
		if !ok {
			byMode = make(map[cpu.AddressMode]*cpu.Opcode)
			idx[op.Mnemonic] = byMode
		}
		byMode[op.Mode] = op
	}
	return idx
}

var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BMI": true,
	"BNE": true, "BPL": true, "BVC": true, "BVS": true,
}

// Pass1 walks the cooked token stream one line at a time, folding
// directives, recording labels, and resolving each instruction's
// addressing mode from its operand syntax, per spec.md §4.9.
func Pass1(src *Source, tokens []Token) (*Program, error) {
	prog := &Program{Symbols: make(map[string]uint32)}
	addr := uint16(0)
	emitted := false

	for _, line := range splitLines(tokens) {
		if len(line) == 0 {
			continue
		}

		var label string
		if len(line) >= 2 && line[0].isIdentifier() && line[1].Kind == KindColon {
			label = line[0].Text
			line = line[2:]
		} else if len(line) >= 1 && line[0].isIdentifier() {
			if next, ok := peekDirective(line, 1); ok && next == "eq" {
				name := line[0].Text
				value, err := parseNumberOperand(src, line[2:])
				if err != nil {
					return nil, err
				}
				prog.Symbols[name] = value
				prog.Nodes = append(prog.Nodes, SymbolDef{Name: name, Value: value})
				continue
			}
		}
		if label != "" {
			prog.Nodes = append(prog.Nodes, Label{Name: label, Addr: addr})
			prog.Symbols[label] = uint32(addr)
		}
		if len(line) == 0 {
			continue
		}

		switch {
		case line[0].Kind == KindDirective && line[0].Text[1:] == "org":
			value, err := parseNumberOperand(src, line[1:])
			if err != nil {
				return nil, err
			}
			addr = uint16(value)
			if !emitted {
				prog.Origin = addr
			}
		case line[0].Kind == KindDirective && (line[0].Text[1:] == "db" || line[0].Text[1:] == "bytes"):
			values, err := parseByteList(src, line[1:])
			if err != nil {
				return nil, err
			}
			prog.Nodes = append(prog.Nodes, Bytes{Addr: addr, Value: values})
			addr += uint16(len(values))
			emitted = true
		case line[0].isIdentifier():
			mnemonic := upper(line[0].Text)
			byMode, ok := opcodesByMnemonic[mnemonic]
			if !ok {
				return nil, newSyntaxError(src, line[0].Pos, "unknown mnemonic '"+line[0].Text+"'")
			}
			ref, err := resolveInstruction(src, line[0], mnemonic, byMode, line[1:], prog.Symbols)
			if err != nil {
				return nil, err
			}
			ref.Addr = addr
			prog.Nodes = append(prog.Nodes, ref)
			addr += uint16(ref.Opcode.Bytes)
			emitted = true
		default:
			return nil, unexpectedToken(src, line[0], "start of line")
		}
	}

	return prog, nil
}

func splitLines(tokens []Token) [][]Token {
	var lines [][]Token
	var cur []Token
	for _, t := range tokens {
		if t.isNewline() {
			lines = append(lines, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func peekDirective(line []Token, i int) (string, bool) {
	if i >= len(line) || line[i].Kind != KindDirective {
		return "", false
	}
	return line[i].Text[1:], true
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func parseNumberOperand(src *Source, toks []Token) (uint32, error) {
	if len(toks) == 0 {
		return 0, newSyntaxError(src, 0, "expected a value")
	}
	t := toks[0]
	switch t.Kind {
	case KindNumber:
		return uint32(t.Number), nil
	case KindChar:
		return uint32(t.Char), nil
	default:
		return 0, unexpectedToken(src, t, "expected a number")
	}
}

func parseByteList(src *Source, toks []Token) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case KindNumber:
			out = append(out, byte(t.Number))
		case KindChar:
			out = append(out, byte(t.Char))
		case KindString:
			out = append(out, []byte(t.Str)...)
		default:
			return nil, unexpectedToken(src, t, "byte list")
		}
		i++
		if i < len(toks) {
			if toks[i].Kind != KindComma {
				return nil, unexpectedToken(src, toks[i], "byte list")
			}
			i++
		}
	}
	return out, nil
}

// resolveInstruction determines the addressing mode implied by the
// operand token shape, per spec.md §4.9's operand-syntax table, and
// looks up the matching opcode table entry.
func resolveInstruction(src *Source, mnemonicTok Token, mnemonic string, byMode map[cpu.AddressMode]*cpu.Opcode, operand []Token, symbols map[string]uint32) (OpcodeRef, error) {
	ref := OpcodeRef{IsBranch: branchMnemonics[mnemonic]}

	if len(operand) == 0 {
		if op, ok := byMode[cpu.Implied]; ok {
			ref.Opcode = op
			return ref, nil
		}
		if op, ok := byMode[cpu.Accumulator]; ok {
			ref.Opcode = op
			return ref, nil
		}
		return ref, newSyntaxError(src, mnemonicTok.Pos, "'"+mnemonic+"' requires an operand")
	}

	if ref.IsBranch {
		op, ok := byMode[cpu.Relative]
		if !ok {
			return ref, newSyntaxError(src, mnemonicTok.Pos, "'"+mnemonic+"' has no relative form")
		}
		ref.Opcode = op
		setOperandValue(&ref, operand)
		return ref, nil
	}

	// #<value> -> Immediate
	if operand[0].Kind == KindHash {
		op, ok := byMode[cpu.Immediate]
		if !ok {
			return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no immediate form")
		}
		ref.Opcode = op
		setOperandValue(&ref, operand[1:])
		return ref, nil
	}

	// (<value>,X) / (<value>),Y / (<value>) -> indirect forms
	if operand[0].isLParen() {
		inner, rest := splitParen(operand)
		if len(rest) >= 2 && rest[0].Kind == KindComma && isRegister(rest[1], 'X') {
			op, ok := byMode[cpu.IndirectX]
			if !ok {
				return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no (Indirect,X) form")
			}
			ref.Opcode = op
			setOperandValue(&ref, inner)
			return ref, nil
		}
		if len(rest) >= 2 && rest[0].Kind == KindComma && isRegister(rest[1], 'Y') {
			op, ok := byMode[cpu.IndirectY]
			if !ok {
				return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no (Indirect),Y form")
			}
			ref.Opcode = op
			setOperandValue(&ref, inner)
			return ref, nil
		}
		op, ok := byMode[cpu.Indirect]
		if !ok {
			return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no Indirect form")
		}
		ref.Opcode = op
		setOperandValue(&ref, inner)
		return ref, nil
	}

	// <value>,X or <value>,Y -> indexed
	if idx := indexOfComma(operand); idx >= 0 {
		base := operand[:idx]
		reg := operand[idx+1:]
		zeroPage := fitsZeroPage(base, symbols)
		switch {
		case len(reg) == 1 && isRegister(reg[0], 'X') && zeroPage:
			if op, ok := byMode[cpu.ZeroPageX]; ok {
				ref.Opcode = op
				setOperandValue(&ref, base)
				return ref, nil
			}
			fallthrough
		case len(reg) == 1 && isRegister(reg[0], 'X'):
			op, ok := byMode[cpu.AbsoluteX]
			if !ok {
				return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no Absolute,X form")
			}
			ref.Opcode = op
			setOperandValue(&ref, base)
			return ref, nil
		case len(reg) == 1 && isRegister(reg[0], 'Y') && zeroPage:
			if op, ok := byMode[cpu.ZeroPageY]; ok {
				ref.Opcode = op
				setOperandValue(&ref, base)
				return ref, nil
			}
			fallthrough
		case len(reg) == 1 && isRegister(reg[0], 'Y'):
			op, ok := byMode[cpu.AbsoluteY]
			if !ok {
				return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no Absolute,Y form")
			}
			ref.Opcode = op
			setOperandValue(&ref, base)
			return ref, nil
		}
		return ref, unexpectedToken(src, reg[0], "indexed operand")
	}

	// bare <value> -> ZeroPage or Absolute by magnitude
	if fitsZeroPage(operand, symbols) {
		if op, ok := byMode[cpu.ZeroPage]; ok {
			ref.Opcode = op
			setOperandValue(&ref, operand)
			return ref, nil
		}
	}
	op, ok := byMode[cpu.Absolute]
	if !ok {
		op, ok = byMode[cpu.ZeroPage]
	}
	if !ok {
		return ref, newSyntaxError(src, operand[0].Pos, "'"+mnemonic+"' has no form matching this operand")
	}
	ref.Opcode = op
	setOperandValue(&ref, operand)
	return ref, nil
}

// fitsZeroPage reports whether operand is a value known (at pass 1
// time) to fit in a byte. A ".eq" constant already has a value in
// symbols by the time it's referenced, so it's sized like any other
// literal, and so is a label defined on an earlier line, whose address
// is already recorded. A plain identifier with no entry yet is a
// forward label reference; those are conservatively treated as not
// fitting, so they always resolve to the Absolute-width form — the
// value isn't known until the symbol table is complete, and 16-bit
// code addresses are the common case for labels.
func fitsZeroPage(operand []Token, symbols map[string]uint32) bool {
	if len(operand) != 1 {
		return false
	}
	switch operand[0].Kind {
	case KindNumber:
		return operand[0].Number <= 0xFF
	case KindChar:
		return true
	case KindIdentifier:
		v, ok := symbols[operand[0].Text]
		return ok && v <= 0xFF
	default:
		return false
	}
}

func indexOfComma(toks []Token) int {
	depth := 0
	for i, t := range toks {
		if t.isLParen() {
			depth++
		} else if t.isRParen() {
			depth--
		} else if t.Kind == KindComma && depth == 0 {
			return i
		}
	}
	return -1
}

func isRegister(t Token, name byte) bool {
	return t.isIdentifier() && len(t.Text) == 1 && (t.Text[0] == name || t.Text[0] == name+32)
}

func splitParen(toks []Token) (inner, rest []Token) {
	depth := 0
	for i, t := range toks {
		if t.isLParen() {
			depth++
			if depth == 1 {
				continue
			}
		} else if t.isRParen() {
			depth--
			if depth == 0 {
				return toks[1:i], toks[i+1:]
			}
		}
	}
	return toks[1:], nil
}

func setOperandValue(ref *OpcodeRef, toks []Token) {
	ref.Operand = toks
	if len(toks) == 1 {
		switch toks[0].Kind {
		case KindNumber:
			v := uint32(toks[0].Number)
			ref.Immediate = &v
			return
		case KindChar:
			v := uint32(toks[0].Char)
			ref.Immediate = &v
			return
		case KindIdentifier:
			ref.OperandSymbol = toks[0].Text
			return
		}
	}
}
