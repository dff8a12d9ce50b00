package cpu

import (
	"log"
	"os"

	"github.com/pkg/errors"
)

const (
	nmiVector   uint16 = 0xFFFA
	resetVector uint16 = 0xFFFC
	irqVector   uint16 = 0xFFFE
)

// Bus is the external memory interface a Cpu is driven against. A Cpu
// never owns memory itself; every read and write crosses this
// interface, letting the caller assemble whatever address space and
// device layout it needs.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, data byte)
}

// Cpu is a cycle-stepped 6502-style processor. Each call to Cycle
// spends at most one bus cycle: with no instruction in flight it
// fetches and decodes the next one, and otherwise it runs queued
// micro-ops up to and including the first that spends a cycle. A call
// that finds only zero-cost micro-ops left in the instruction spends
// no bus cycle and just completes it.
type Cpu struct {
	Registers
	Status StatusFlags

	bus Bus
	ctx Context

	pipeline []MicroOp
	pc       int // index of the next micro-op to run in pipeline

	// Opcode is the instruction currently in flight and Cycles the
	// running bus-cycle count; both are informational, read by debug
	// tooling and tests.
	Opcode byte
	Cycles uint64 // total bus cycles executed since Reset

	Logger *log.Logger
}

// NewCpu constructs a Cpu wired to bus. Registers read as zero until
// Reset is called.
func NewCpu(bus Bus) *Cpu {
	return &Cpu{
		bus:    bus,
		ctx:    NewContext(),
		Logger: log.New(os.Stderr, "cpu: ", 0),
	}
}

// Scratch returns the instruction-in-flight's scratch context, for
// debug tooling that wants to display it. The pipeline itself reaches
// it through the unexported ctx field.
func (cpu *Cpu) Scratch() *Context {
	return &cpu.ctx
}

// PipelineRemaining reports how many micro-ops are still queued for
// the instruction currently in flight.
func (cpu *Cpu) PipelineRemaining() int {
	if cpu.pipeline == nil {
		return 0
	}
	return len(cpu.pipeline) - cpu.pc
}

func (cpu *Cpu) readVector(addr uint16) uint16 {
	lo := cpu.bus.Read(addr)
	hi := cpu.bus.Read(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// Reset restores power-on register state and loads PC from the reset
// vector at 0xFFFC/0xFFFD, per spec.md §4.7. It runs the same
// micro-op sequence that does so on real hardware (resetSequence,
// ported from ucode_reset) rather than setting PC directly, so Cycles
// reflects the reset's true cost instead of sitting at zero.
func (cpu *Cpu) Reset() {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.Sp = 0xFD

	cpu.ctx = NewContext()
	cpu.pipeline = nil
	cpu.pc = 0
	cpu.Cycles = 0

	for _, op := range resetSequence() {
		cpu.Cycles += uint64(op(cpu))
	}
}

// NMI services a non-maskable interrupt: it pushes PC and status, sets
// the interrupt-disable flag, and loads PC from 0xFFFA/0xFFFB.
func (cpu *Cpu) NMI() {
	cpu.pushWord(cpu.Pc)
	cpu.bus.Write(cpu.StackAddr(), cpu.Status.Raw())
	cpu.Sp--
	cpu.Status = cpu.Status.With(FlagInterrupt, true)
	cpu.Pc = cpu.readVector(nmiVector)
	cpu.Cycles += 7
}

// IRQ services a maskable interrupt request if FlagInterrupt is clear.
func (cpu *Cpu) IRQ() {
	if cpu.Status.Get(FlagInterrupt) {
		return
	}
	cpu.pushWord(cpu.Pc)
	cpu.bus.Write(cpu.StackAddr(), cpu.Status.Raw())
	cpu.Sp--
	cpu.Status = cpu.Status.With(FlagInterrupt, true)
	cpu.Pc = cpu.readVector(irqVector)
	cpu.Cycles += 7
}

func (cpu *Cpu) pushWord(v uint16) {
	cpu.bus.Write(cpu.StackAddr(), byte(v>>8))
	cpu.Sp--
	cpu.bus.Write(cpu.StackAddr(), byte(v&0xFF))
	cpu.Sp--
}

// fetchDecode reads the byte at PC, advances PC, and loads the
// matching opcode's micro-op sequence as the active pipeline, billing
// the fetch itself as the instruction's first bus cycle. An opcode
// with no bound sequence panics with InvalidOpcodeError, which
// StepInstruction recovers at the call boundary.
func (cpu *Cpu) fetchDecode() {
	pc := cpu.Pc
	cpu.Pc = pc + 1

	opcode := cpu.bus.Read(pc)
	entry := Opcodes[opcode]
	if entry.Sequence == nil {
		panic(&InvalidOpcodeError{Opcode: opcode, PC: pc})
	}

	cpu.Opcode = opcode
	cpu.ctx = NewContext()
	cpu.pipeline = entry.Sequence
	cpu.pc = 0
	cpu.Cycles++
}

// Cycle runs exactly one bus cycle: either the fetch/decode of a new
// instruction, or the next run of micro-ops in an instruction already
// in flight (looping past zero-cost steps until one actually spends a
// cycle, or the pipeline ends). It returns true once the instruction
// in flight has completed its last micro-op.
func (cpu *Cpu) Cycle() bool {
	if cpu.pipeline == nil {
		cpu.fetchDecode()
		return false
	}

	for {
		op := cpu.pipeline[cpu.pc]
		cpu.pc++

		done := cpu.pc >= len(cpu.pipeline)
		if done {
			cpu.pipeline = nil
		}

		spent := op(cpu)
		if spent > 0 {
			cpu.Cycles += uint64(spent)
			break
		}
		if done {
			break
		}
	}

	if done := cpu.pipeline == nil; done {
		cpu.checkContextEmpty()
		return true
	}
	return false
}

func (cpu *Cpu) checkContextEmpty() {
	if cpu.ctx.Size() != 0 {
		cpu.Logger.Printf("warning: scratch context not empty at instruction boundary (opcode 0x%02X, %d bytes left)", cpu.Opcode, cpu.ctx.Size())
	}
	cpu.pc = 0
}

// StepInstruction runs Cycle until the in-flight instruction
// completes, returning the number of bus cycles it consumed. It
// recovers an InvalidOpcodeError panic from decode and returns it as
// an ordinary error.
func (cpu *Cpu) StepInstruction() (cycles int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ioErr, ok := r.(*InvalidOpcodeError); ok {
				err = errors.WithStack(ioErr)
				return
			}
			panic(r)
		}
	}()

	before := cpu.Cycles
	for {
		done := cpu.Cycle()
		if done {
			break
		}
	}
	cycles = int(cpu.Cycles - before)
	return cycles, nil
}

// Run executes instructions until n have completed or an error is
// encountered, returning the total number of instructions run.
func (cpu *Cpu) Run(n int) (int, error) {
	for i := 0; i < n; i++ {
		if _, err := cpu.StepInstruction(); err != nil {
			return i, err
		}
	}
	return n, nil
}
