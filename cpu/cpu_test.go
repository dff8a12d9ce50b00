package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBus is a minimal 64 KiB Bus used only by this package's tests.
type flatBus struct {
	mem [1 << 16]byte
}

func (b *flatBus) Read(addr uint16) byte        { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, data byte) { b.mem[addr] = data }

func newTestCpu(t *testing.T, program []byte, origin uint16) (*Cpu, *flatBus) {
	t.Helper()
	bus := &flatBus{}
	copy(bus.mem[origin:], program)
	bus.mem[0xFFFC] = byte(origin)
	bus.mem[0xFFFD] = byte(origin >> 8)

	c := NewCpu(bus)
	c.Reset()
	require.Equal(t, origin, c.Pc)
	return c, bus
}

func TestResetLoadsVectorAndPowerOnState(t *testing.T) {
	c, _ := newTestCpu(t, []byte{0xEA}, 0x8000)
	assert.Equal(t, byte(0xFD), c.Sp)
	assert.True(t, c.Status.Get(FlagInterrupt))
	assert.True(t, c.Status.Get(FlagBreak))
	assert.False(t, c.Status.Get(FlagCarry))
	assert.True(t, c.Cycles > 0)
}

func TestLdaImmediateSetsZeroFlag(t *testing.T) {
	c, _ := newTestCpu(t, []byte{0xA9, 0x00}, 0x8000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, byte(0), c.A)
	assert.True(t, c.Status.Get(FlagZero))
	assert.False(t, c.Status.Get(FlagNegative))
}

func TestLdaImmediateSetsNegativeFlag(t *testing.T) {
	c, _ := newTestCpu(t, []byte{0xA9, 0x80}, 0x8000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, byte(0x80), c.A)
	assert.False(t, c.Status.Get(FlagZero))
	assert.True(t, c.Status.Get(FlagNegative))
}

func TestAdcSignedOverflow(t *testing.T) {
	// 0x7F + 0x01 overflows into negative territory: V and N set, C clear.
	c, _ := newTestCpu(t, []byte{0xA9, 0x7F, 0x69, 0x01}, 0x8000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	_, err = c.StepInstruction()
	require.NoError(t, err)

	assert.Equal(t, byte(0x80), c.A)
	assert.True(t, c.Status.Get(FlagOverflow))
	assert.True(t, c.Status.Get(FlagNegative))
	assert.False(t, c.Status.Get(FlagCarry))
}

func TestSbcBorrow(t *testing.T) {
	// 0x00 - 0x01 with carry set (no incoming borrow) underflows: C clears.
	c, _ := newTestCpu(t, []byte{0xA9, 0x00, 0x38, 0xE9, 0x01}, 0x8000)
	for i := 0; i < 3; i++ {
		_, err := c.StepInstruction()
		require.NoError(t, err)
	}
	assert.Equal(t, byte(0xFF), c.A)
	assert.False(t, c.Status.Get(FlagCarry))
	assert.True(t, c.Status.Get(FlagNegative))
}

func TestJmpIndirectPageWrapBug(t *testing.T) {
	bus := &flatBus{}
	// JMP ($10FF) at 0x8000
	bus.mem[0x8000] = 0x6C
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x10
	// pointer low byte at $10FF
	bus.mem[0x10FF] = 0x34
	// correct high byte would live at $1100, but the bug reads $1000 instead
	bus.mem[0x1100] = 0x12
	bus.mem[0x1000] = 0x56

	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80

	c := NewCpu(bus)
	c.Reset()
	_, err := c.StepInstruction()
	require.NoError(t, err)

	assert.Equal(t, uint16(0x5634), c.Pc, "must reproduce the page-wrap bug, reading the high byte from $1000 not $1100")
}

func TestBranchPageCrossChargesExtraCycle(t *testing.T) {
	// BEQ with offset -128 from just past the branch instruction crosses
	// into the previous page and costs one extra cycle over a same-page
	// taken branch.
	bus := &flatBus{}
	bus.mem[0x8000] = 0xF0 // BEQ
	bus.mem[0x8001] = 0x80 // -128
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80

	c := NewCpu(bus)
	c.Reset()
	c.Status = c.Status.With(FlagZero, true)

	cycles, err := c.StepInstruction()
	require.NoError(t, err)
	assert.Equal(t, 4, cycles, "taken branch (+1) that also crosses a page (+1) over the 2-cycle base")
	assert.Equal(t, uint16(0x7F82), c.Pc)
}

func TestInxWrapsAtByteBoundary(t *testing.T) {
	c, _ := newTestCpu(t, []byte{0xA2, 0xFF, 0xE8}, 0x8000)
	_, err := c.StepInstruction()
	require.NoError(t, err)
	_, err = c.StepInstruction()
	require.NoError(t, err)

	assert.Equal(t, byte(0), c.X)
	assert.True(t, c.Status.Get(FlagZero))
}

func TestZeroPageIndexedWrapsWithinPageZero(t *testing.T) {
	// LDX #$01, LDA $FF,X must read zero page address 0x00, not 0x0100.
	bus := &flatBus{}
	bus.mem[0x8000] = 0xA2 // LDX #$01
	bus.mem[0x8001] = 0x01
	bus.mem[0x8002] = 0xB5 // LDA $FF,X
	bus.mem[0x8003] = 0xFF
	bus.mem[0x0000] = 0x42
	bus.mem[0x0100] = 0x99
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80

	c := NewCpu(bus)
	c.Reset()
	_, err := c.StepInstruction()
	require.NoError(t, err)
	_, err = c.StepInstruction()
	require.NoError(t, err)

	assert.Equal(t, byte(0x42), c.A)
}

func TestInvalidOpcodeTraps(t *testing.T) {
	c, _ := newTestCpu(t, []byte{0x02}, 0x8000) // unbound byte
	_, err := c.StepInstruction()
	require.Error(t, err)

	var ioErr *InvalidOpcodeError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, byte(0x02), ioErr.Opcode)
}

func TestPageCrossOnAbsoluteIndexedAddsCycle(t *testing.T) {
	// LDA $10FF,X with X=1 crosses from page $10 into $11.
	bus := &flatBus{}
	bus.mem[0x8000] = 0xA2 // LDX #$01
	bus.mem[0x8001] = 0x01
	bus.mem[0x8002] = 0xBD // LDA $10FF,X
	bus.mem[0x8003] = 0xFF
	bus.mem[0x8004] = 0x10
	bus.mem[0x1100] = 0x7A
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80

	c := NewCpu(bus)
	c.Reset()
	_, err := c.StepInstruction()
	require.NoError(t, err)
	cycles, err := c.StepInstruction()
	require.NoError(t, err)

	assert.Equal(t, byte(0x7A), c.A)
	assert.Equal(t, 5, cycles, "base 4 cycles plus 1 for the page cross")
}

func TestFibonacciProgram(t *testing.T) {
	// Computes F(11) = 89 into zero page $01 using a simple loop:
	//   LDA #$00        (F0)
	//   STA $00
	//   LDA #$01        (F1)
	//   STA $01
	//   LDX #$0A        (iterations remaining)
	// loop:
	//   LDA $00
	//   CLC
	//   ADC $01
	//   PHA
	//   LDA $01
	//   STA $00
	//   PLA
	//   STA $01
	//   DEX
	//   BNE loop
	program := []byte{
		0xA9, 0x00, 0x85, 0x00,
		0xA9, 0x01, 0x85, 0x01,
		0xA2, 0x0A,
		0xA5, 0x00, 0x18, 0x65, 0x01, 0x48,
		0xA5, 0x01, 0x85, 0x00, 0x68, 0x85, 0x01,
		0xCA, 0xD0, 0xF0,
	}
	c, bus := newTestCpu(t, program, 0x8000)

	for i := 0; i < 200; i++ {
		if c.X == 0 && c.Pc > 0x8009 {
			break
		}
		if _, err := c.StepInstruction(); err != nil {
			t.Fatalf("unexpected error at pc=%#x: %v", c.Pc, err)
		}
	}

	assert.Equal(t, byte(89), bus.mem[0x01])
}
