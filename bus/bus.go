// Package bus implements the flat memory space the cpu package drives
// one cycle at a time: a 64 KiB byte array plus an interval registry of
// memory-mapped devices.
package bus

import (
	"github.com/pkg/errors"
)

// Device is a memory-mapped peripheral bound to a half-open address
// range. Reads and writes inside that range are forwarded to it
// instead of touching backing RAM.
type Device interface {
	Read(addr uint16) byte
	Write(addr uint16, data byte)
}

// Range is a half-open address range [Start, End).
type Range struct {
	Start uint16
	End   uint16
}

func (r Range) contains(addr uint16) bool {
	return addr >= r.Start && addr < r.End
}

func (r Range) overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

type binding struct {
	rng    Range
	device Device
}

// FlatBus is a 64 KiB flat address space with zero or more devices
// bound to non-overlapping ranges. It implements cpu.Bus.
type FlatBus struct {
	ram      [1 << 16]byte
	bindings []binding
}

// NewFlatBus returns an empty FlatBus with no devices attached.
func NewFlatBus() *FlatBus {
	return &FlatBus{}
}

// Attach binds device to the half-open range [start, end). It returns
// an error if the range overlaps one already bound.
func (b *FlatBus) Attach(start, end uint16, device Device) error {
	if end <= start {
		return errors.Errorf("bus: empty or inverted range [%#04x, %#04x)", start, end)
	}
	rng := Range{Start: start, End: end}
	for _, existing := range b.bindings {
		if rng.overlaps(existing.rng) {
			return errors.Errorf("bus: range [%#04x, %#04x) overlaps existing [%#04x, %#04x)",
				start, end, existing.rng.Start, existing.rng.End)
		}
	}
	b.bindings = append(b.bindings, binding{rng: rng, device: device})
	return nil
}

// Read implements cpu.Bus.
func (b *FlatBus) Read(addr uint16) byte {
	if d := b.deviceAt(addr); d != nil {
		return d.Read(addr)
	}
	return b.ram[addr]
}

// Write implements cpu.Bus.
func (b *FlatBus) Write(addr uint16, data byte) {
	if d := b.deviceAt(addr); d != nil {
		d.Write(addr, data)
		return
	}
	b.ram[addr] = data
}

// LoadBytes copies image into RAM starting at origin, bypassing any
// device bindings. It is how a driver installs an assembled program
// before running the CPU.
func (b *FlatBus) LoadBytes(origin uint16, image []byte) {
	copy(b.ram[origin:], image)
}

// WriteVector writes a little-endian 16-bit pointer at addr, used to
// set the RES/NMI/IRQ vectors before reset.
func (b *FlatBus) WriteVector(addr uint16, value uint16) {
	b.ram[addr] = byte(value)
	b.ram[addr+1] = byte(value >> 8)
}

func (b *FlatBus) deviceAt(addr uint16) Device {
	for _, bnd := range b.bindings {
		if bnd.rng.contains(addr) {
			return bnd.device
		}
	}
	return nil
}
