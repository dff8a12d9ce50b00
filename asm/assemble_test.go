package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleFibonacciLoop(t *testing.T) {
	source := `.org $8000
LDA #$00
STA $00
LDA #$01
STA $01
LDX #$09
loop:
LDA $00
CLC
ADC $01
PHA
LDA $01
STA $00
PLA
STA $01
DEX
BNE loop
`
	img, err := Assemble("fib.asm", source)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8000), img.Origin)

	expected := []byte{
		0xA9, 0x00,
		0x85, 0x00,
		0xA9, 0x01,
		0x85, 0x01,
		0xA2, 0x09,
		0xA5, 0x00,
		0x18,
		0x65, 0x01,
		0x48,
		0xA5, 0x01,
		0x85, 0x00,
		0x68,
		0x85, 0x01,
		0xCA,
		0xD0, 0xF0,
	}
	assert.Equal(t, expected, img.Bytes)
}

func TestAssembleForwardLabelReference(t *testing.T) {
	source := ".org $9000\nJMP skip\nNOP\nskip:\nLDA #$01\n"
	img, err := Assemble("fwd.asm", source)
	require.NoError(t, err)

	expected := []byte{0x4C, 0x04, 0x90, 0xEA, 0xA9, 0x01}
	assert.Equal(t, expected, img.Bytes)
}

func TestAssembleHelloDeviceProgram(t *testing.T) {
	source := `.org $1000
LDA #'H'
STA $A000
LDA #'i'
STA $A000
LDA #10
STA $A000
`
	img, err := Assemble("hello.asm", source)
	require.NoError(t, err)

	expected := []byte{
		0xA9, 'H',
		0x8D, 0x00, 0xA0,
		0xA9, 'i',
		0x8D, 0x00, 0xA0,
		0xA9, 10,
		0x8D, 0x00, 0xA0,
	}
	assert.Equal(t, expected, img.Bytes)
}

func TestAssembleUndefinedSymbolErrors(t *testing.T) {
	_, err := Assemble("bad.asm", ".org $8000\nJMP nowhere\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined symbol")
}

func TestAssembleSymbolicConstant(t *testing.T) {
	source := "PORT .eq $A000\n.org $1000\nLDA #'x'\nSTA PORT\n"
	img, err := Assemble("const.asm", source)
	require.NoError(t, err)

	expected := []byte{0xA9, 'x', 0x8D, 0x00, 0xA0}
	assert.Equal(t, expected, img.Bytes)
}
