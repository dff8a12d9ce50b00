package cpu

// Instruction body functions. Each operates on the CPU's scratch
// context per the protocol of spec.md §4.4:
//
//   - read instructions pop one operand byte and update a register
//     plus flags, pushing nothing back;
//   - modify instructions pop one byte, update flags, and push the
//     result back for PopStoreAddress;
//   - store instructions push the register being stored, letting the
//     addressing sequence supply the address;
//   - branch instructions push the branch-taken flag as 0 or 1;
//   - flag instructions set or clear a single status bit;
//   - transfers copy one register into another;
//   - stack instructions push/pop through the scratch context around
//     StoreDecrSP/IncrLoadSP;
//   - control instructions are mostly structural, the PC manipulation
//     itself living in the addressing sequence.

func adcImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	sum := uint16(cpu.A) + uint16(value)
	if cpu.Status.Get(FlagCarry) {
		sum++
	}
	result := byte(sum)

	carry := sum > 0xFF
	signsMatch := (cpu.A^value)&0x80 == 0
	overflow := signsMatch && (cpu.A^result)&0x80 != 0
	zero, negative := zeroNegative(result)

	cpu.A = result
	cpu.Status = cpu.Status.With(FlagCarry, carry).With(FlagOverflow, overflow).
		With(FlagZero, zero).With(FlagNegative, negative)
}

func andImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	cpu.A &= value
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func aslImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	carry := value&0x80 != 0
	result := value << 1
	zero, negative := zeroNegative(result)

	cpu.Status = cpu.Status.With(FlagCarry, carry).With(FlagZero, zero).With(FlagNegative, negative)
	cpu.ctx.Push(result)
}

func branchTaken(cpu *Cpu, taken bool) {
	if taken {
		cpu.ctx.Push(1)
	} else {
		cpu.ctx.Push(0)
	}
}

func bccImpl(cpu *Cpu) { branchTaken(cpu, !cpu.Status.Get(FlagCarry)) }
func bcsImpl(cpu *Cpu) { branchTaken(cpu, cpu.Status.Get(FlagCarry)) }
func beqImpl(cpu *Cpu) { branchTaken(cpu, cpu.Status.Get(FlagZero)) }
func bmiImpl(cpu *Cpu) { branchTaken(cpu, cpu.Status.Get(FlagNegative)) }
func bneImpl(cpu *Cpu) { branchTaken(cpu, !cpu.Status.Get(FlagZero)) }
func bplImpl(cpu *Cpu) { branchTaken(cpu, !cpu.Status.Get(FlagNegative)) }
func bvcImpl(cpu *Cpu) { branchTaken(cpu, !cpu.Status.Get(FlagOverflow)) }
func bvsImpl(cpu *Cpu) { branchTaken(cpu, cpu.Status.Get(FlagOverflow)) }

func bitImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	result := cpu.A & value
	negative := value&0x80 != 0
	overflow := value&0x40 != 0
	zero := result == 0

	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagOverflow, overflow).With(FlagNegative, negative)
}

// brkImpl is left as an explicit trap: the source marks BRK as
// unimplemented and this spec does not ask for software-interrupt
// semantics beyond that.
func brkImpl(cpu *Cpu) {
	panic(&InvalidOpcodeError{Opcode: 0x00, Reason: "BRK is an explicit trap, not implemented"})
}

func clcImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagCarry, false) }
func cldImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagDecimal, false) }
func cliImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagInterrupt, false) }
func clvImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagOverflow, false) }
func secImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagCarry, true) }
func sedImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagDecimal, true) }
func seiImpl(cpu *Cpu) { cpu.Status = cpu.Status.With(FlagInterrupt, true) }

func compare(cpu *Cpu, reg byte) {
	value := cpu.ctx.Pop()
	result := reg - value
	carry := reg >= value
	zero, negative := zeroNegative(result)
	cpu.Status = cpu.Status.With(FlagCarry, carry).With(FlagZero, zero).With(FlagNegative, negative)
}

func cmpImpl(cpu *Cpu) { compare(cpu, cpu.A) }
func cpxImpl(cpu *Cpu) { compare(cpu, cpu.X) }
func cpyImpl(cpu *Cpu) { compare(cpu, cpu.Y) }

func decImpl(cpu *Cpu) {
	value := cpu.ctx.Pop() - 1
	zero, negative := zeroNegative(value)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
	cpu.ctx.Push(value)
}

func dexImpl(cpu *Cpu) {
	cpu.X--
	zero, negative := zeroNegative(cpu.X)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func deyImpl(cpu *Cpu) {
	cpu.Y--
	zero, negative := zeroNegative(cpu.Y)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func eorImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	cpu.A ^= value
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func incImpl(cpu *Cpu) {
	value := cpu.ctx.Pop() + 1
	zero, negative := zeroNegative(value)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
	cpu.ctx.Push(value)
}

func inxImpl(cpu *Cpu) {
	cpu.X++
	zero, negative := zeroNegative(cpu.X)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func inyImpl(cpu *Cpu) {
	cpu.Y++
	zero, negative := zeroNegative(cpu.Y)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

// jmpImpl and jsrImpl are structural no-ops: the PC manipulation lives
// entirely in their addressing sequences (jumpAbsolute, jumpIndirect,
// jumpToSubroutineAbsolute).
func jmpImpl(cpu *Cpu) {}
func jsrImpl(cpu *Cpu) {}

func ldaImpl(cpu *Cpu) {
	cpu.A = cpu.ctx.Pop()
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func ldxImpl(cpu *Cpu) {
	cpu.X = cpu.ctx.Pop()
	zero, negative := zeroNegative(cpu.X)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func ldyImpl(cpu *Cpu) {
	cpu.Y = cpu.ctx.Pop()
	zero, negative := zeroNegative(cpu.Y)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func lsrImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	carry := value&0x01 != 0
	result := value >> 1
	zero, _ := zeroNegative(result)

	cpu.Status = cpu.Status.With(FlagCarry, carry).With(FlagZero, zero).With(FlagNegative, false)
	cpu.ctx.Push(result)
}

func nopImpl(cpu *Cpu) {}

func oraImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	cpu.A |= value
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func phaImpl(cpu *Cpu) { cpu.ctx.Push(cpu.A) }
func phpImpl(cpu *Cpu) { cpu.ctx.Push(cpu.Status.Raw()) }
func plaImpl(cpu *Cpu) {
	cpu.A = cpu.ctx.Pop()
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}
func plpImpl(cpu *Cpu) { cpu.Status = FromRaw(cpu.ctx.Pop()) }

func rolImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	carryIn := byte(0)
	if cpu.Status.Get(FlagCarry) {
		carryIn = 1
	}
	carryOut := value&0x80 != 0
	result := (value << 1) | carryIn
	zero, negative := zeroNegative(result)

	cpu.Status = cpu.Status.With(FlagCarry, carryOut).With(FlagZero, zero).With(FlagNegative, negative)
	cpu.ctx.Push(result)
}

func rorImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	carryIn := byte(0)
	if cpu.Status.Get(FlagCarry) {
		carryIn = 0x80
	}
	carryOut := value&0x01 != 0
	result := (value >> 1) | carryIn
	zero, negative := zeroNegative(result)

	cpu.Status = cpu.Status.With(FlagCarry, carryOut).With(FlagZero, zero).With(FlagNegative, negative)
	cpu.ctx.Push(result)
}

func rtiImpl(cpu *Cpu) {
	pch := cpu.ctx.Pop()
	pcl := cpu.ctx.Pop()
	status := cpu.ctx.Pop()
	cpu.Status = FromRaw(status)

	cpu.ctx.Push(pcl)
	cpu.ctx.Push(pch)
}

func rtsImpl(cpu *Cpu) {}

func sbcImpl(cpu *Cpu) {
	value := cpu.ctx.Pop()
	borrow := byte(1)
	if cpu.Status.Get(FlagCarry) {
		borrow = 0
	}

	diff := int16(cpu.A) - int16(value) - int16(borrow)
	result := byte(diff)

	carry := diff >= 0
	signsDiffer := (cpu.A^value)&0x80 != 0
	overflow := signsDiffer && (cpu.A^result)&0x80 != 0
	zero, negative := zeroNegative(result)

	cpu.A = result
	cpu.Status = cpu.Status.With(FlagCarry, carry).With(FlagOverflow, overflow).
		With(FlagZero, zero).With(FlagNegative, negative)
}

func staImpl(cpu *Cpu) { cpu.ctx.Push(cpu.A) }
func stxImpl(cpu *Cpu) { cpu.ctx.Push(cpu.X) }
func styImpl(cpu *Cpu) { cpu.ctx.Push(cpu.Y) }

func taxImpl(cpu *Cpu) {
	cpu.X = cpu.A
	zero, negative := zeroNegative(cpu.X)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func tayImpl(cpu *Cpu) {
	cpu.Y = cpu.A
	zero, negative := zeroNegative(cpu.Y)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func tsxImpl(cpu *Cpu) {
	cpu.X = cpu.Sp
	zero, negative := zeroNegative(cpu.X)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func txaImpl(cpu *Cpu) {
	cpu.A = cpu.X
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}

func txsImpl(cpu *Cpu) {
	cpu.Sp = cpu.X
}

func tyaImpl(cpu *Cpu) {
	cpu.A = cpu.Y
	zero, negative := zeroNegative(cpu.A)
	cpu.Status = cpu.Status.With(FlagZero, zero).With(FlagNegative, negative)
}
