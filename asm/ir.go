package asm

import "go6502/cpu"

// Node is one logical line of pass 1's intermediate representation:
// a Label, SymbolDef, OpcodeRef or Bytes (Go models the tagged union
// as an interface implemented by one struct per variant, there being
// no sum type in the language). There is no separate expression node:
// an operand is resolved only when it is a single number, character or
// identifier carried on its OpcodeRef.
type Node interface{ isNode() }

// Label marks the current output address with a name.
type Label struct {
	Name string
	Addr uint16
}

// SymbolDef binds a name to a constant value via ".eq".
type SymbolDef struct {
	Name  string
	Value uint32
}

// OpcodeRef is one emitted instruction: the resolved opcode table
// entry plus its operand tokens (still unevaluated — forward
// references are resolved in pass 2) and the address it was placed
// at.
type OpcodeRef struct {
	Addr    uint16
	Opcode  *cpu.Opcode
	Operand []Token
	// OperandSymbol is set when the operand is a bare identifier,
	// letting pass 2 resolve it against the completed symbol table.
	OperandSymbol string
	// Immediate holds a literal or pre-resolved operand value; nil
	// when OperandSymbol must be consulted instead.
	Immediate *uint32
	IsBranch  bool
}

// Bytes is a run of literal bytes emitted by ".db"/".bytes".
type Bytes struct {
	Addr  uint16
	Value []byte
}

func (Label) isNode()     {}
func (SymbolDef) isNode() {}
func (OpcodeRef) isNode() {}
func (Bytes) isNode()     {}

// Program is the result of pass 1: the origin address, the ordered IR
// nodes, and the symbol table built while walking them.
type Program struct {
	Origin  uint16
	Nodes   []Node
	Symbols map[string]uint32
}
