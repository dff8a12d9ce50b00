package cpu

// This file builds the canonical micro-op sequences of spec.md §4.5.
// Each function is the Go equivalent of one of the Rust macros in the
// rs6502 `microcode` module (`single_byte_implied!`, `load_zero_page!`,
// `branch_relative!`, and so on) — a sequence constructor parameterized
// by the instruction body it ends with.

// resetSequence is the power-on/reset micro-op sequence, ported from
// original_source/cpu/src/microcode.rs's ucode_reset: clear status
// then set I and B, read the two bytes at the reset vector through
// the same PopLoadAddress primitive ordinary absolute addressing
// uses, and load them into PC. Driven once, directly, by Cpu.Reset
// rather than through the normal fetch/decode pipeline.
func resetSequence() []MicroOp {
	return []MicroOp{
		Execute(func(cpu *Cpu) {
			cpu.Status = FlagInterrupt | FlagBreak
		}),
		Execute(func(cpu *Cpu) {
			cpu.ctx.Push(byte(resetVector))
			cpu.ctx.Push(byte(resetVector >> 8))
		}),
		PopLoadAddress, // load pc low byte
		Execute(func(cpu *Cpu) {
			cpu.ctx.Push(byte(resetVector + 1))
			cpu.ctx.Push(byte((resetVector + 1) >> 8))
		}),
		PopLoadAddress, // load pc high byte
		Execute(func(cpu *Cpu) {
			hi := cpu.ctx.Pop()
			lo := cpu.ctx.Pop()
			cpu.Pc = uint16(lo) | uint16(hi)<<8
		}),
	}
}

func singleByteImplied(fn InstrFunc) []MicroOp {
	return []MicroOp{EmptyCycle, Execute(fn)}
}

func singleByteAccumulator(fn InstrFunc) []MicroOp {
	return []MicroOp{EmptyCycle, PushAcc, Execute(fn), Execute(func(cpu *Cpu) {
		cpu.A = cpu.ctx.Pop()
	})}
}

func loadImmediate(fn InstrFunc) []MicroOp {
	return []MicroOp{LoadIncrPC, Execute(fn)}
}

func loadZeroPage(fn InstrFunc) []MicroOp {
	return []MicroOp{LoadIncrPC, PushZero, PopLoadAddress, Execute(fn)}
}

func loadAbsolute(fn InstrFunc) []MicroOp {
	return []MicroOp{LoadIncrPC, LoadIncrPC, PopLoadAddress, Execute(fn)}
}

func loadIndirectX(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		PopTemp,
		EmptyCycle,

		AddTempX,
		PushTemp,
		PushZero,
		PopLoadAddress,

		IncrTemp,
		PushTemp,
		PushZero,
		PopLoadAddress,

		PopLoadAddress,
		Execute(fn),
	}
}

func loadIndirectY(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		PopTemp,

		PushTemp,
		PushZero,
		PopLoadAddress,

		IncrTemp,
		PushTemp,
		PushZero,
		PopLoadAddress,

		// The effective address (lo, hi) is pushed back unconditionally
		// before branching: a version that only pushes on the
		// page-crossing path leaves the scratch stack empty for the
		// common non-crossing case, and the PopLoadAddress it returns
		// in that case then pops from nothing.
		Evaluate(func(cpu *Cpu) MicroOp {
			bah := cpu.ctx.Pop()
			bal := cpu.ctx.Pop()

			lo, carry := safeAdd(cpu.Y, bal)
			hi := bah
			if carry {
				hi++
			}

			cpu.ctx.Push(lo)
			cpu.ctx.Push(hi)
			if hi != bah {
				return EmptyCycle
			}
			return PopLoadAddress
		}),
		Evaluate(func(cpu *Cpu) MicroOp {
			if cpu.ctx.Size() == 2 {
				return PopLoadAddress
			}
			return EmptyNoCycle
		}),

		Execute(fn),
	}
}

func loadAbsoluteIndexed(fn InstrFunc, index func(cpu *Cpu) byte) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		LoadIncrPC,
		// See loadIndirectY: the effective address must be pushed back
		// before branching, not only on the crossing path.
		Evaluate(func(cpu *Cpu) MicroOp {
			bah := cpu.ctx.Pop()
			bal := cpu.ctx.Pop()

			lo, carry := safeAdd(bal, index(cpu))
			hi := bah
			if carry {
				hi++
			}

			cpu.ctx.Push(lo)
			cpu.ctx.Push(hi)
			if hi != bah {
				return EmptyCycle
			}
			return PopLoadAddress
		}),
		Evaluate(func(cpu *Cpu) MicroOp {
			if cpu.ctx.Size() == 2 {
				return PopLoadAddress
			}
			return EmptyNoCycle
		}),
		Execute(fn),
	}
}

func loadZeroPageIndexed(fn InstrFunc, index func(cpu *Cpu) byte) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		EmptyCycle,
		Evaluate(func(cpu *Cpu) MicroOp {
			bal := cpu.ctx.Pop()
			lo, _ := safeAdd(bal, index(cpu))
			cpu.ctx.Push(lo)
			cpu.ctx.Push(0)
			return PopLoadAddress
		}),
		Execute(fn),
	}
}

func storeZeroPage(fn InstrFunc) []MicroOp {
	return []MicroOp{LoadIncrPC, PushZero, Execute(fn), PopStoreAddress}
}

func storeAbsolute(fn InstrFunc) []MicroOp {
	return []MicroOp{LoadIncrPC, LoadIncrPC, Execute(fn), PopStoreAddress}
}

func storeIndirectX(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		PopTemp,
		EmptyCycle,

		AddTempX,
		PushTemp,
		PushZero,
		PopLoadAddress,

		IncrTemp,
		PushTemp,
		PushZero,
		PopLoadAddress,

		Execute(fn),
		PopStoreAddress,
	}
}

func storeIndirectY(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		PopTemp,

		PushTemp,
		PushZero,
		PopLoadAddress,

		IncrTemp,
		PushTemp,
		PushZero,
		PopLoadAddress,

		Evaluate(func(cpu *Cpu) MicroOp {
			bah := cpu.ctx.Pop()
			bal := cpu.ctx.Pop()

			lo, carry := safeAdd(cpu.Y, bal)
			hi := bah
			if carry {
				hi++
			}

			cpu.ctx.Push(lo)
			cpu.ctx.Push(hi)
			return EmptyCycle
		}),

		Execute(fn),
		PopStoreAddress,
	}
}

func storeAbsoluteIndexed(fn InstrFunc, index func(cpu *Cpu) byte) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		LoadIncrPC,

		Evaluate(func(cpu *Cpu) MicroOp {
			bah := cpu.ctx.Pop()
			bal := cpu.ctx.Pop()

			lo, carry := safeAdd(bal, index(cpu))
			hi := bah
			if carry {
				hi++
			}

			cpu.ctx.Push(lo)
			cpu.ctx.Push(hi)
			return EmptyCycle
		}),

		Execute(fn),
		PopStoreAddress,
	}
}

func storeZeroPageIndexed(fn InstrFunc, index func(cpu *Cpu) byte) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		EmptyCycle,

		Evaluate(func(cpu *Cpu) MicroOp {
			bal := cpu.ctx.Pop()
			lo, _ := safeAdd(bal, index(cpu))
			cpu.ctx.Push(lo)
			cpu.ctx.Push(0)

			fn(cpu)
			return PopStoreAddress
		}),
	}
}

// loadStoreZeroPage and loadStoreAbsolute each insert an EmptyCycle
// between the read and the modify: on real silicon a read-modify-write
// instruction writes the unmodified byte back before writing the
// modified one, and that extra bus turnaround is what brings these in
// at their declared 5- and 6-cycle totals. A sequence built from only
// the named primitives without it undercounts both by one cycle.
func loadStoreZeroPage(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		PushTemp,

		PopTemp,
		PushZero,
		PeekLoadAddress,
		EmptyCycle,
		Execute(fn),
		PopStoreAddress,
	}
}

func loadStoreAbsolute(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		LoadIncrPC,
		PeekLoadAddress,
		EmptyCycle,
		Execute(fn),
		PopStoreAddress,
	}
}

func loadStoreZeroPageX(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		EmptyCycle,
		PopTemp,
		AddTempX,
		PushTemp,
		PushZero,
		EmptyCycle,
		PeekLoadAddress,
		Execute(fn),
		PopStoreAddress,
	}
}

// loadStoreAbsoluteX is a corrected rendering of this read-modify-write
// sequence: a literal transcription duplicates the zero-page,X tail
// (PopTemp/AddTempX/PushTemp/PushZero/PeekLoadAddress/Execute/PopLoadAddress)
// onto the end of an already-computed absolute,X effective address —
// dead arithmetic that ends in PopLoadAddress, a read primitive, where
// the instruction needs a write back to the address it just modified.
// This instead fetches the absolute,X address once and follows the
// same read-pause-modify-write shape as loadStoreZeroPage and
// loadStoreAbsolute, for a fixed 7-cycle total whether or not the
// indexing crosses a page.
func loadStoreAbsoluteX(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		LoadIncrPC,
		EmptyCycle,
		Evaluate(func(cpu *Cpu) MicroOp {
			bah := cpu.ctx.Pop()
			bal := cpu.ctx.Pop()

			lo, carry := safeAdd(bal, cpu.X)
			hi := bah
			if carry {
				hi++
			}

			cpu.ctx.Push(lo)
			cpu.ctx.Push(hi)
			return PeekLoadAddress
		}),
		EmptyCycle,
		Execute(fn),
		PopStoreAddress,
	}
}

func pushImplied(fn InstrFunc) []MicroOp {
	return []MicroOp{EmptyCycle, Execute(fn), StoreDecrSP}
}

func pullImplied(fn InstrFunc) []MicroOp {
	return []MicroOp{EmptyCycle, EmptyCycle, IncrLoadSP, Execute(fn)}
}

func jumpToSubroutineAbsolute(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		EmptyCycle,
		PushPCH,
		StoreDecrSP,
		PushPCL,
		StoreDecrSP,
		LoadIncrPC,
		Execute(fn),
		PopJump,
	}
}

func returnFromSubroutineImplied(fn InstrFunc) []MicroOp {
	return []MicroOp{
		EmptyCycle,
		EmptyCycle,
		IncrLoadSP,
		PopTemp,
		IncrTemp,
		PushTemp,
		IncrLoadSP,
		Execute(fn),
		EmptyCycle,
		PopJump,
	}
}

func returnFromInterruptImplied(fn InstrFunc) []MicroOp {
	return []MicroOp{
		EmptyCycle,
		EmptyCycle,
		IncrLoadSP,
		IncrLoadSP,
		IncrLoadSP,
		Execute(fn),
		PopJump,
	}
}

func jumpAbsolute(fn InstrFunc) []MicroOp {
	return []MicroOp{LoadIncrPC, LoadIncrPC, Execute(fn), PopJump}
}

// jumpIndirect reproduces the famous JMP ($xxFF) page-wrap bug: the
// pointer's high byte is fetched after incrementing only the low byte
// of the indirect address, so a pointer ending in 0xFF wraps within the
// same page instead of crossing into the next one.
func jumpIndirect(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		LoadIncrPC,
		PeekLoadAddress,
		Evaluate(func(cpu *Cpu) MicroOp {
			lo := cpu.ctx.Pop()
			iah := cpu.ctx.Pop()
			ial := cpu.ctx.Pop()

			cpu.ctx.Push(lo)
			cpu.ctx.Push(ial + 1)
			cpu.ctx.Push(iah)
			return PopLoadAddress
		}),
		Execute(fn),
		PopJump,
	}
}

// branchTempState values, threaded through the scratch context's temp
// register across branchRelative's three Evaluate steps.
const (
	branchNotTaken        = 0
	branchTakenSamePage   = 1
	branchTakenPageCross  = 2
)

// branchRelative consumes the branch-taken flag the instruction body
// pushed and resolves the new PC. A not-taken branch costs only the
// fetch and operand read (base_cycles); a taken branch spends one
// further cycle, and a taken branch that crosses a page spends one
// more still — matching cycles_consumed == base_cycles +
// page_cross_penalty with penalty 0, 1 or 2.
//
// This is a deliberate correction: a literal transcription of the
// two-Evaluate version only ever charges the crossing cycle and never
// the taken cycle itself, undercounting every taken-but-same-page
// branch by one cycle. Splitting the resolution into three Evaluate
// steps charges both independently.
func branchRelative(fn InstrFunc) []MicroOp {
	return []MicroOp{
		LoadIncrPC,
		Execute(fn),
		Evaluate(func(cpu *Cpu) MicroOp {
			result := cpu.ctx.Pop()
			offset := int8(cpu.ctx.Pop())

			if result == 0 {
				cpu.ctx.SetTemp(branchNotTaken)
				return EmptyNoCycle
			}

			pcl := cpu.PcLo()
			pch := cpu.PcHi()

			var lo byte
			var crossed bool
			if offset >= 0 {
				lo, crossed = safeAdd(pcl, byte(offset))
			} else {
				sum := int(pcl) - int(-offset)
				lo = byte(sum)
				crossed = sum < 0
			}

			hi := pch
			if crossed {
				if offset >= 0 {
					hi++
				} else {
					hi--
				}
				cpu.ctx.SetTemp(branchTakenPageCross)
			} else {
				cpu.ctx.SetTemp(branchTakenSamePage)
			}
			cpu.ctx.Push(lo)
			cpu.ctx.Push(hi)
			return EmptyCycle
		}),
		Evaluate(func(cpu *Cpu) MicroOp {
			switch cpu.ctx.Temp() {
			case branchTakenSamePage:
				return PopJump
			case branchTakenPageCross:
				return EmptyCycle
			default:
				return EmptyNoCycle
			}
		}),
		Evaluate(func(cpu *Cpu) MicroOp {
			if cpu.ctx.Temp() == branchTakenPageCross {
				return PopJump
			}
			return EmptyNoCycle
		}),
	}
}

func registerX(cpu *Cpu) byte { return cpu.X }
func registerY(cpu *Cpu) byte { return cpu.Y }
