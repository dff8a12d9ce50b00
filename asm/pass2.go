package asm

import "fmt"

// Pass2 walks the IR built by Pass1, resolves symbolic operands
// against the completed symbol table, computes branch offsets, and
// writes the final little-endian byte image. The returned slice is
// indexed from prog.Origin: image[0] is the byte at prog.Origin.
func Pass2(src *Source, prog *Program) ([]byte, error) {
	size := uint16(0)
	for _, n := range prog.Nodes {
		switch v := n.(type) {
		case OpcodeRef:
			if end := v.Addr - prog.Origin + uint16(v.Opcode.Bytes); end > size {
				size = end
			}
		case Bytes:
			if end := v.Addr - prog.Origin + uint16(len(v.Value)); end > size {
				size = end
			}
		}
	}

	image := make([]byte, size)
	for _, n := range prog.Nodes {
		switch v := n.(type) {
		case Label:
			// already recorded in the symbol table during pass 1
		case SymbolDef:
			prog.Symbols[v.Name] = v.Value
		case Bytes:
			copy(image[v.Addr-prog.Origin:], v.Value)
		case OpcodeRef:
			if err := emitInstruction(src, prog, image, v); err != nil {
				return nil, err
			}
		}
	}
	return image, nil
}

func emitInstruction(src *Source, prog *Program, image []byte, ref OpcodeRef) error {
	off := ref.Addr - prog.Origin
	image[off] = ref.Opcode.Value
	if ref.Opcode.Bytes == 1 {
		return nil
	}

	if ref.IsBranch {
		target, err := resolveOperandValue(src, prog, ref)
		if err != nil {
			return err
		}
		next := int(ref.Addr) + int(ref.Opcode.Bytes)
		rel := int(target) - next
		if rel < -128 || rel > 127 {
			pos := 0
			if len(ref.Operand) > 0 {
				pos = ref.Operand[0].Pos
			}
			return newSyntaxError(src, pos, fmt.Sprintf("branch target out of range (%d bytes)", rel))
		}
		image[off+1] = byte(int8(rel))
		return nil
	}

	value, err := resolveOperandValue(src, prog, ref)
	if err != nil {
		return err
	}
	image[off+1] = byte(value)
	if ref.Opcode.Bytes == 3 {
		image[off+2] = byte(value >> 8)
	}
	return nil
}

func resolveOperandValue(src *Source, prog *Program, ref OpcodeRef) (uint32, error) {
	if ref.Immediate != nil {
		return *ref.Immediate, nil
	}
	if ref.OperandSymbol != "" {
		v, ok := prog.Symbols[ref.OperandSymbol]
		if !ok {
			pos := 0
			if len(ref.Operand) > 0 {
				pos = ref.Operand[0].Pos
			}
			return 0, newSyntaxError(src, pos, "undefined symbol '"+ref.OperandSymbol+"'")
		}
		return v, nil
	}
	return 0, newSyntaxError(src, 0, "missing operand value")
}
