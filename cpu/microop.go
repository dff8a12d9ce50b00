package cpu

// MicroOp is one atomic step of instruction execution. Running it
// advances the instruction by a well-defined amount and reports how
// many bus cycles it consumed — always 0 or 1, never more, so that a
// caller-visible "one cycle" always corresponds to exactly one bus
// transaction (or none, for purely internal steps).
type MicroOp func(cpu *Cpu) int

// InstrFunc is an instruction body: it pops operands off the scratch
// context, mutates registers and flags, and may push a result back for
// a subsequent store. It never by itself spends a bus cycle.
type InstrFunc func(cpu *Cpu)

// EvalFunc inspects the scratch context or register state and returns
// the next MicroOp to run in its place — this is how conditional cycle
// penalties (page crossings, taken branches) are expressed without a
// second instruction dispatcher.
type EvalFunc func(cpu *Cpu) MicroOp

// Execute wraps an instruction body as a zero-cycle MicroOp.
func Execute(fn InstrFunc) MicroOp {
	return func(cpu *Cpu) int {
		fn(cpu)
		return 0
	}
}

// Evaluate wraps an EvalFunc: the returned MicroOp is run immediately
// and its cycle cost is reported as Evaluate's own.
func Evaluate(fn EvalFunc) MicroOp {
	return func(cpu *Cpu) int {
		next := fn(cpu)
		return next(cpu)
	}
}

// EmptyCycle spends one cycle doing nothing; it models internal CPU
// operations with no bus activity.
func EmptyCycle(cpu *Cpu) int {
	return 1
}

// EmptyNoCycle is a structural no-op used by conditional paths that
// decided no further work (and so no further cycle) is needed.
func EmptyNoCycle(cpu *Cpu) int {
	return 0
}

// LoadIncrPC reads the byte at PC, pushes it onto the scratch stack,
// and advances PC by one.
func LoadIncrPC(cpu *Cpu) int {
	v := cpu.bus.Read(cpu.Pc)
	cpu.ctx.Push(v)
	cpu.Pc++
	return 1
}

// StoreDecrSP pops the scratch stack and writes it to the hardware
// stack at 0x0100|Sp, then decrements Sp.
func StoreDecrSP(cpu *Cpu) int {
	v := cpu.ctx.Pop()
	cpu.bus.Write(cpu.StackAddr(), v)
	cpu.Sp--
	return 1
}

// IncrLoadSP increments Sp, reads the byte at the new stack address,
// and pushes it onto the scratch stack.
func IncrLoadSP(cpu *Cpu) int {
	cpu.Sp++
	v := cpu.bus.Read(cpu.StackAddr())
	cpu.ctx.Push(v)
	return 1
}

// PushAcc pushes the accumulator onto the scratch stack.
func PushAcc(cpu *Cpu) int {
	cpu.ctx.Push(cpu.A)
	return 0
}

// PushZero pushes a zero byte onto the scratch stack.
func PushZero(cpu *Cpu) int {
	cpu.ctx.Push(0)
	return 0
}

// PushPCL pushes the low-order byte of PC onto the scratch stack.
func PushPCL(cpu *Cpu) int {
	cpu.ctx.Push(cpu.PcLo())
	return 0
}

// PushPCH pushes the high-order byte of PC onto the scratch stack.
func PushPCH(cpu *Cpu) int {
	cpu.ctx.Push(cpu.PcHi())
	return 0
}

// PopJump pops hi then lo off the scratch stack and loads PC from them.
func PopJump(cpu *Cpu) int {
	hi := cpu.ctx.Pop()
	lo := cpu.ctx.Pop()
	cpu.Pc = uint16(lo) | uint16(hi)<<8
	return 0
}

// PopLoadAddress pops hi then lo off the scratch stack, reads the byte
// at that address, and pushes the value onto the scratch stack.
func PopLoadAddress(cpu *Cpu) int {
	hi := cpu.ctx.Pop()
	lo := cpu.ctx.Pop()
	addr := uint16(lo) | uint16(hi)<<8
	cpu.ctx.Push(cpu.bus.Read(addr))
	return 1
}

// PeekLoadAddress is PopLoadAddress but leaves the address on the
// scratch stack so a subsequent PopStoreAddress can reuse it.
func PeekLoadAddress(cpu *Cpu) int {
	hi := cpu.ctx.Peek(0)
	lo := cpu.ctx.Peek(1)
	addr := uint16(lo) | uint16(hi)<<8
	cpu.ctx.Push(cpu.bus.Read(addr))
	return 1
}

// PopStoreAddress pops a value, then hi, then lo off the scratch stack
// and writes the value to that address.
func PopStoreAddress(cpu *Cpu) int {
	v := cpu.ctx.Pop()
	hi := cpu.ctx.Pop()
	lo := cpu.ctx.Pop()
	addr := uint16(lo) | uint16(hi)<<8
	cpu.bus.Write(addr, v)
	return 1
}

// PopTemp pops the scratch stack into the temp register.
func PopTemp(cpu *Cpu) int {
	cpu.ctx.SetTemp(cpu.ctx.Pop())
	return 0
}

// PushTemp pushes the temp register onto the scratch stack.
func PushTemp(cpu *Cpu) int {
	cpu.ctx.Push(cpu.ctx.Temp())
	return 0
}

// IncrTemp increments the temp register by one, wrapping at 256.
func IncrTemp(cpu *Cpu) int {
	cpu.ctx.SetTemp(cpu.ctx.Temp() + 1)
	return 0
}

// AddTempX adds the X register to the temp register. The carry out of
// the addition is intentionally discarded: the only addressing
// sequences that use this primitive rely on byte-wrap (zero-page
// indexing), not on the carry.
func AddTempX(cpu *Cpu) int {
	result, _ := safeAdd(cpu.ctx.Temp(), cpu.X)
	cpu.ctx.SetTemp(result)
	return 0
}
