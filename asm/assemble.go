// Package asm implements the assembler front end of spec.md §4.7–4.9:
// a lexer, a %define macro preprocessor, and a two-pass assembler
// producing a flat byte image from 6502-style source text.
package asm

// Image is the result of assembling one source file: the byte image
// and the address it is meant to be loaded at.
type Image struct {
	Origin uint16
	Bytes  []byte
}

// Assemble runs the full lexer -> preprocessor -> pass 1 -> pass 2
// pipeline over source text named name, returning the flat byte image
// ready to be loaded onto a bus.FlatBus at Origin.
func Assemble(name, text string) (*Image, error) {
	src := NewSource(name, text)

	raw := Lex(text)
	cooked, err := Preprocess(src, raw)
	if err != nil {
		return nil, err
	}

	prog, err := Pass1(src, cooked)
	if err != nil {
		return nil, err
	}

	image, err := Pass2(src, prog)
	if err != nil {
		return nil, err
	}

	return &Image{Origin: prog.Origin, Bytes: image}, nil
}
