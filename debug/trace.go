// Package debug provides an interactive step debugger for a running
// Cpu: register/flag display, the scratch-context stack, and a log of
// recent bus transactions, advanced one cycle or one instruction at a
// time on keypress. Grounded on hejops-gone/cpu/debugger.go's
// bubbletea model.
package debug

import "go6502/cpu"

// Transaction records one bus access observed by a TracingBus.
type Transaction struct {
	Write bool
	Addr  uint16
	Data  byte
}

// TracingBus wraps a cpu.Bus, recording the most recent transactions
// so the debugger can display what the CPU has been touching. It is
// itself a cpu.Bus, so it drops in between a Cpu and its real bus.
type TracingBus struct {
	under cpu.Bus
	log   []Transaction
	cap   int
}

// NewTracingBus wraps under, keeping the last capacity transactions.
func NewTracingBus(under cpu.Bus, capacity int) *TracingBus {
	if capacity <= 0 {
		capacity = 16
	}
	return &TracingBus{under: under, cap: capacity}
}

func (b *TracingBus) Read(addr uint16) byte {
	data := b.under.Read(addr)
	b.record(Transaction{Write: false, Addr: addr, Data: data})
	return data
}

func (b *TracingBus) Write(addr uint16, data byte) {
	b.under.Write(addr, data)
	b.record(Transaction{Write: true, Addr: addr, Data: data})
}

func (b *TracingBus) record(t Transaction) {
	b.log = append(b.log, t)
	if len(b.log) > b.cap {
		b.log = b.log[len(b.log)-b.cap:]
	}
}

// Recent returns the transaction log, oldest first.
func (b *TracingBus) Recent() []Transaction {
	return b.log
}
