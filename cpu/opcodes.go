package cpu

// AddressMode names one of the thirteen addressing modes of spec.md §4.2.
type AddressMode int

const (
	Accumulator AddressMode = iota
	Absolute
	AbsoluteX
	AbsoluteY
	Immediate
	Implied
	Indirect
	IndirectX
	IndirectY
	Relative
	ZeroPage
	ZeroPageX
	ZeroPageY
)

func (m AddressMode) String() string {
	switch m {
	case Accumulator:
		return "Accumulator"
	case Absolute:
		return "Absolute"
	case AbsoluteX:
		return "AbsoluteX"
	case AbsoluteY:
		return "AbsoluteY"
	case Immediate:
		return "Immediate"
	case Implied:
		return "Implied"
	case Indirect:
		return "Indirect"
	case IndirectX:
		return "IndirectX"
	case IndirectY:
		return "IndirectY"
	case Relative:
		return "Relative"
	case ZeroPage:
		return "ZeroPage"
	case ZeroPageX:
		return "ZeroPageX"
	case ZeroPageY:
		return "ZeroPageY"
	default:
		return "Unknown"
	}
}

// Opcode binds one byte value of the decode table to a mnemonic, its
// addressing mode, its instruction length and base cycle count, and
// the concrete micro-op sequence that implements it. A nil Sequence
// marks the byte as an invalid opcode.
type Opcode struct {
	Value      byte
	Mnemonic   string
	Mode       AddressMode
	Bytes      byte
	BaseCycles byte
	Sequence   []MicroOp
}

// Opcodes is the 256-entry static decode table of spec.md §4.3. Bytes
// with no entry below decode to an InvalidOpcodeError.
var Opcodes = buildOpcodes()

func buildOpcodes() [256]Opcode {
	var t [256]Opcode

	bind := func(value byte, mnemonic string, mode AddressMode, bytes, cycles byte, seq []MicroOp) {
		t[value] = Opcode{Value: value, Mnemonic: mnemonic, Mode: mode, Bytes: bytes, BaseCycles: cycles, Sequence: seq}
	}

	// ADC
	bind(0x69, "ADC", Immediate, 2, 2, loadImmediate(adcImpl))
	bind(0x65, "ADC", ZeroPage, 2, 3, loadZeroPage(adcImpl))
	bind(0x75, "ADC", ZeroPageX, 2, 4, loadZeroPageIndexed(adcImpl, registerX))
	bind(0x6D, "ADC", Absolute, 3, 4, loadAbsolute(adcImpl))
	bind(0x7D, "ADC", AbsoluteX, 3, 4, loadAbsoluteIndexed(adcImpl, registerX))
	bind(0x79, "ADC", AbsoluteY, 3, 4, loadAbsoluteIndexed(adcImpl, registerY))
	bind(0x61, "ADC", IndirectX, 2, 6, loadIndirectX(adcImpl))
	bind(0x71, "ADC", IndirectY, 2, 5, loadIndirectY(adcImpl))

	// AND
	bind(0x29, "AND", Immediate, 2, 2, loadImmediate(andImpl))
	bind(0x25, "AND", ZeroPage, 2, 3, loadZeroPage(andImpl))
	bind(0x35, "AND", ZeroPageX, 2, 4, loadZeroPageIndexed(andImpl, registerX))
	bind(0x2D, "AND", Absolute, 3, 4, loadAbsolute(andImpl))
	bind(0x3D, "AND", AbsoluteX, 3, 4, loadAbsoluteIndexed(andImpl, registerX))
	bind(0x39, "AND", AbsoluteY, 3, 4, loadAbsoluteIndexed(andImpl, registerY))
	bind(0x21, "AND", IndirectX, 2, 6, loadIndirectX(andImpl))
	bind(0x31, "AND", IndirectY, 2, 5, loadIndirectY(andImpl))

	// ASL
	bind(0x0A, "ASL", Accumulator, 1, 2, singleByteAccumulator(aslImpl))
	bind(0x06, "ASL", ZeroPage, 2, 5, loadStoreZeroPage(aslImpl))
	bind(0x16, "ASL", ZeroPageX, 2, 6, loadStoreZeroPageX(aslImpl))
	bind(0x0E, "ASL", Absolute, 3, 6, loadStoreAbsolute(aslImpl))
	bind(0x1E, "ASL", AbsoluteX, 3, 7, loadStoreAbsoluteX(aslImpl))

	// branches
	bind(0x90, "BCC", Relative, 2, 2, branchRelative(bccImpl))
	bind(0xB0, "BCS", Relative, 2, 2, branchRelative(bcsImpl))
	bind(0xF0, "BEQ", Relative, 2, 2, branchRelative(beqImpl))
	bind(0x30, "BMI", Relative, 2, 2, branchRelative(bmiImpl))
	bind(0xD0, "BNE", Relative, 2, 2, branchRelative(bneImpl))
	bind(0x10, "BPL", Relative, 2, 2, branchRelative(bplImpl))
	bind(0x50, "BVC", Relative, 2, 2, branchRelative(bvcImpl))
	bind(0x70, "BVS", Relative, 2, 2, branchRelative(bvsImpl))

	// BIT
	bind(0x24, "BIT", ZeroPage, 2, 3, loadZeroPage(bitImpl))
	bind(0x2C, "BIT", Absolute, 3, 4, loadAbsolute(bitImpl))

	// BRK — explicit trap, per spec.md §9.
	bind(0x00, "BRK", Implied, 1, 7, singleByteImplied(brkImpl))

	// flag instructions
	bind(0x18, "CLC", Implied, 1, 2, singleByteImplied(clcImpl))
	bind(0xD8, "CLD", Implied, 1, 2, singleByteImplied(cldImpl))
	bind(0x58, "CLI", Implied, 1, 2, singleByteImplied(cliImpl))
	bind(0xB8, "CLV", Implied, 1, 2, singleByteImplied(clvImpl))
	bind(0x38, "SEC", Implied, 1, 2, singleByteImplied(secImpl))
	bind(0xF8, "SED", Implied, 1, 2, singleByteImplied(sedImpl))
	bind(0x78, "SEI", Implied, 1, 2, singleByteImplied(seiImpl))

	// CMP
	bind(0xC9, "CMP", Immediate, 2, 2, loadImmediate(cmpImpl))
	bind(0xC5, "CMP", ZeroPage, 2, 3, loadZeroPage(cmpImpl))
	bind(0xD5, "CMP", ZeroPageX, 2, 4, loadZeroPageIndexed(cmpImpl, registerX))
	bind(0xCD, "CMP", Absolute, 3, 4, loadAbsolute(cmpImpl))
	bind(0xDD, "CMP", AbsoluteX, 3, 4, loadAbsoluteIndexed(cmpImpl, registerX))
	bind(0xD9, "CMP", AbsoluteY, 3, 4, loadAbsoluteIndexed(cmpImpl, registerY))
	bind(0xC1, "CMP", IndirectX, 2, 6, loadIndirectX(cmpImpl))
	bind(0xD1, "CMP", IndirectY, 2, 5, loadIndirectY(cmpImpl))

	// CPX / CPY
	bind(0xE0, "CPX", Immediate, 2, 2, loadImmediate(cpxImpl))
	bind(0xE4, "CPX", ZeroPage, 2, 3, loadZeroPage(cpxImpl))
	bind(0xEC, "CPX", Absolute, 3, 4, loadAbsolute(cpxImpl))
	bind(0xC0, "CPY", Immediate, 2, 2, loadImmediate(cpyImpl))
	bind(0xC4, "CPY", ZeroPage, 2, 3, loadZeroPage(cpyImpl))
	bind(0xCC, "CPY", Absolute, 3, 4, loadAbsolute(cpyImpl))

	// DEC / DEX / DEY
	bind(0xC6, "DEC", ZeroPage, 2, 5, loadStoreZeroPage(decImpl))
	bind(0xD6, "DEC", ZeroPageX, 2, 6, loadStoreZeroPageX(decImpl))
	bind(0xCE, "DEC", Absolute, 3, 6, loadStoreAbsolute(decImpl))
	bind(0xDE, "DEC", AbsoluteX, 3, 7, loadStoreAbsoluteX(decImpl))
	bind(0xCA, "DEX", Implied, 1, 2, singleByteImplied(dexImpl))
	bind(0x88, "DEY", Implied, 1, 2, singleByteImplied(deyImpl))

	// EOR
	bind(0x49, "EOR", Immediate, 2, 2, loadImmediate(eorImpl))
	bind(0x45, "EOR", ZeroPage, 2, 3, loadZeroPage(eorImpl))
	bind(0x55, "EOR", ZeroPageX, 2, 4, loadZeroPageIndexed(eorImpl, registerX))
	bind(0x4D, "EOR", Absolute, 3, 4, loadAbsolute(eorImpl))
	bind(0x5D, "EOR", AbsoluteX, 3, 4, loadAbsoluteIndexed(eorImpl, registerX))
	bind(0x59, "EOR", AbsoluteY, 3, 4, loadAbsoluteIndexed(eorImpl, registerY))
	bind(0x41, "EOR", IndirectX, 2, 6, loadIndirectX(eorImpl))
	bind(0x51, "EOR", IndirectY, 2, 5, loadIndirectY(eorImpl))

	// INC / INX / INY
	bind(0xE6, "INC", ZeroPage, 2, 5, loadStoreZeroPage(incImpl))
	bind(0xF6, "INC", ZeroPageX, 2, 6, loadStoreZeroPageX(incImpl))
	bind(0xEE, "INC", Absolute, 3, 6, loadStoreAbsolute(incImpl))
	bind(0xFE, "INC", AbsoluteX, 3, 7, loadStoreAbsoluteX(incImpl))
	bind(0xE8, "INX", Implied, 1, 2, singleByteImplied(inxImpl))
	bind(0xC8, "INY", Implied, 1, 2, singleByteImplied(inyImpl))

	// JMP / JSR
	bind(0x4C, "JMP", Absolute, 3, 3, jumpAbsolute(jmpImpl))
	bind(0x6C, "JMP", Indirect, 3, 5, jumpIndirect(jmpImpl))
	bind(0x20, "JSR", Absolute, 3, 6, jumpToSubroutineAbsolute(jsrImpl))

	// LDA / LDX / LDY
	bind(0xA9, "LDA", Immediate, 2, 2, loadImmediate(ldaImpl))
	bind(0xA5, "LDA", ZeroPage, 2, 3, loadZeroPage(ldaImpl))
	bind(0xB5, "LDA", ZeroPageX, 2, 4, loadZeroPageIndexed(ldaImpl, registerX))
	bind(0xAD, "LDA", Absolute, 3, 4, loadAbsolute(ldaImpl))
	bind(0xBD, "LDA", AbsoluteX, 3, 4, loadAbsoluteIndexed(ldaImpl, registerX))
	bind(0xB9, "LDA", AbsoluteY, 3, 4, loadAbsoluteIndexed(ldaImpl, registerY))
	bind(0xA1, "LDA", IndirectX, 2, 6, loadIndirectX(ldaImpl))
	bind(0xB1, "LDA", IndirectY, 2, 5, loadIndirectY(ldaImpl))

	bind(0xA2, "LDX", Immediate, 2, 2, loadImmediate(ldxImpl))
	bind(0xA6, "LDX", ZeroPage, 2, 3, loadZeroPage(ldxImpl))
	bind(0xB6, "LDX", ZeroPageY, 2, 4, loadZeroPageIndexed(ldxImpl, registerY))
	bind(0xAE, "LDX", Absolute, 3, 4, loadAbsolute(ldxImpl))
	bind(0xBE, "LDX", AbsoluteY, 3, 4, loadAbsoluteIndexed(ldxImpl, registerY))

	bind(0xA0, "LDY", Immediate, 2, 2, loadImmediate(ldyImpl))
	bind(0xA4, "LDY", ZeroPage, 2, 3, loadZeroPage(ldyImpl))
	bind(0xB4, "LDY", ZeroPageX, 2, 4, loadZeroPageIndexed(ldyImpl, registerX))
	bind(0xAC, "LDY", Absolute, 3, 4, loadAbsolute(ldyImpl))
	bind(0xBC, "LDY", AbsoluteX, 3, 4, loadAbsoluteIndexed(ldyImpl, registerX))

	// LSR
	bind(0x4A, "LSR", Accumulator, 1, 2, singleByteAccumulator(lsrImpl))
	bind(0x46, "LSR", ZeroPage, 2, 5, loadStoreZeroPage(lsrImpl))
	bind(0x56, "LSR", ZeroPageX, 2, 6, loadStoreZeroPageX(lsrImpl))
	bind(0x4E, "LSR", Absolute, 3, 6, loadStoreAbsolute(lsrImpl))
	bind(0x5E, "LSR", AbsoluteX, 3, 7, loadStoreAbsoluteX(lsrImpl))

	// NOP
	bind(0xEA, "NOP", Implied, 1, 2, singleByteImplied(nopImpl))

	// ORA — 0x0D is corrected here to Absolute addressing; the source
	// this was ported from bound it to the zero-page sequence despite
	// declaring AddressMode::Absolute, bytes=3, cycles=4 for the entry.
	bind(0x09, "ORA", Immediate, 2, 2, loadImmediate(oraImpl))
	bind(0x05, "ORA", ZeroPage, 2, 3, loadZeroPage(oraImpl))
	bind(0x15, "ORA", ZeroPageX, 2, 4, loadZeroPageIndexed(oraImpl, registerX))
	bind(0x0D, "ORA", Absolute, 3, 4, loadAbsolute(oraImpl))
	bind(0x1D, "ORA", AbsoluteX, 3, 4, loadAbsoluteIndexed(oraImpl, registerX))
	bind(0x19, "ORA", AbsoluteY, 3, 4, loadAbsoluteIndexed(oraImpl, registerY))
	bind(0x01, "ORA", IndirectX, 2, 6, loadIndirectX(oraImpl))
	bind(0x11, "ORA", IndirectY, 2, 5, loadIndirectY(oraImpl))

	// stack instructions
	bind(0x48, "PHA", Implied, 1, 3, pushImplied(phaImpl))
	bind(0x08, "PHP", Implied, 1, 3, pushImplied(phpImpl))
	bind(0x68, "PLA", Implied, 1, 4, pullImplied(plaImpl))
	bind(0x28, "PLP", Implied, 1, 4, pullImplied(plpImpl))

	// ROL / ROR
	bind(0x2A, "ROL", Accumulator, 1, 2, singleByteAccumulator(rolImpl))
	bind(0x26, "ROL", ZeroPage, 2, 5, loadStoreZeroPage(rolImpl))
	bind(0x36, "ROL", ZeroPageX, 2, 6, loadStoreZeroPageX(rolImpl))
	bind(0x2E, "ROL", Absolute, 3, 6, loadStoreAbsolute(rolImpl))
	bind(0x3E, "ROL", AbsoluteX, 3, 7, loadStoreAbsoluteX(rolImpl))

	bind(0x6A, "ROR", Accumulator, 1, 2, singleByteAccumulator(rorImpl))
	bind(0x66, "ROR", ZeroPage, 2, 5, loadStoreZeroPage(rorImpl))
	bind(0x76, "ROR", ZeroPageX, 2, 6, loadStoreZeroPageX(rorImpl))
	bind(0x6E, "ROR", Absolute, 3, 6, loadStoreAbsolute(rorImpl))
	bind(0x7E, "ROR", AbsoluteX, 3, 7, loadStoreAbsoluteX(rorImpl))

	// RTI / RTS
	bind(0x40, "RTI", Implied, 1, 6, returnFromInterruptImplied(rtiImpl))
	bind(0x60, "RTS", Implied, 1, 6, returnFromSubroutineImplied(rtsImpl))

	// SBC
	bind(0xE9, "SBC", Immediate, 2, 2, loadImmediate(sbcImpl))
	bind(0xE5, "SBC", ZeroPage, 2, 3, loadZeroPage(sbcImpl))
	bind(0xF5, "SBC", ZeroPageX, 2, 4, loadZeroPageIndexed(sbcImpl, registerX))
	bind(0xED, "SBC", Absolute, 3, 4, loadAbsolute(sbcImpl))
	bind(0xFD, "SBC", AbsoluteX, 3, 4, loadAbsoluteIndexed(sbcImpl, registerX))
	bind(0xF9, "SBC", AbsoluteY, 3, 4, loadAbsoluteIndexed(sbcImpl, registerY))
	bind(0xE1, "SBC", IndirectX, 2, 6, loadIndirectX(sbcImpl))
	bind(0xF1, "SBC", IndirectY, 2, 5, loadIndirectY(sbcImpl))

	// STA / STX / STY
	bind(0x85, "STA", ZeroPage, 2, 3, storeZeroPage(staImpl))
	bind(0x95, "STA", ZeroPageX, 2, 4, storeZeroPageIndexed(staImpl, registerX))
	bind(0x8D, "STA", Absolute, 3, 4, storeAbsolute(staImpl))
	bind(0x9D, "STA", AbsoluteX, 3, 5, storeAbsoluteIndexed(staImpl, registerX))
	bind(0x99, "STA", AbsoluteY, 3, 5, storeAbsoluteIndexed(staImpl, registerY))
	bind(0x81, "STA", IndirectX, 2, 6, storeIndirectX(staImpl))
	bind(0x91, "STA", IndirectY, 2, 6, storeIndirectY(staImpl))

	bind(0x86, "STX", ZeroPage, 2, 3, storeZeroPage(stxImpl))
	bind(0x96, "STX", ZeroPageY, 2, 4, storeZeroPageIndexed(stxImpl, registerY))
	bind(0x8E, "STX", Absolute, 3, 4, storeAbsolute(stxImpl))

	bind(0x84, "STY", ZeroPage, 2, 3, storeZeroPage(styImpl))
	bind(0x94, "STY", ZeroPageX, 2, 4, storeZeroPageIndexed(styImpl, registerX))
	bind(0x8C, "STY", Absolute, 3, 4, storeAbsolute(styImpl))

	// transfers
	bind(0xAA, "TAX", Implied, 1, 2, singleByteImplied(taxImpl))
	bind(0xA8, "TAY", Implied, 1, 2, singleByteImplied(tayImpl))
	bind(0xBA, "TSX", Implied, 1, 2, singleByteImplied(tsxImpl))
	bind(0x8A, "TXA", Implied, 1, 2, singleByteImplied(txaImpl))
	bind(0x9A, "TXS", Implied, 1, 2, singleByteImplied(txsImpl))
	bind(0x98, "TYA", Implied, 1, 2, singleByteImplied(tyaImpl))

	return t
}
