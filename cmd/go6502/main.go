// Command go6502 assembles and runs a 6502-style program against a
// flat 64 KiB bus with a stdout device bound at 0xA000.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"go6502/asm"
	"go6502/bus"
	"go6502/cpu"
	"go6502/debug"
	"go6502/device"
)

const stdoutAddr = 0xA000

var (
	flagDebug bool
	flagOrg   uint
	flagRaw   bool
	flagSteps int
)

func main() {
	parseFlags()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: go6502 [flags] <program.asm|program.bin>")
		os.Exit(2)
	}

	b, origin, err := load(flag.Arg(0))
	if err != nil {
		log.Fatalf("go6502: %v", err)
	}

	b.WriteVector(0xFFFC, origin)
	if err := b.Attach(stdoutAddr, stdoutAddr+1, device.NewStdout(os.Stdout)); err != nil {
		log.Fatalf("go6502: %v", err)
	}

	trace := debug.NewTracingBus(b, 32)
	c := cpu.NewCpu(trace)
	c.Reset()

	if flagDebug {
		if err := debug.Run(c, trace); err != nil {
			log.Fatalf("go6502: %v", err)
		}
		return
	}

	if _, err := c.Run(flagSteps); err != nil {
		log.Fatalf("go6502: instruction at %#04x: %v", c.Pc, err)
	}
}

func parseFlags() {
	flag.BoolVar(&flagDebug, "debug", false, "run the interactive step debugger instead of free-running")
	flag.UintVar(&flagOrg, "org", 0x8000, "load address for a raw binary image (ignored for .asm sources, which set their own origin via .org)")
	flag.BoolVar(&flagRaw, "raw", false, "treat the input file as a raw binary image rather than assembly source")
	flag.IntVar(&flagSteps, "steps", 1000, "number of instructions to run in free-running mode")
	flag.Parse()
}

// load reads path and returns a bus preloaded with its program image,
// plus the program's entry address.
func load(path string) (*bus.FlatBus, uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "reading program")
	}

	b := bus.NewFlatBus()
	if flagRaw {
		origin := uint16(flagOrg)
		b.LoadBytes(origin, data)
		return b, origin, nil
	}

	img, err := asm.Assemble(path, string(data))
	if err != nil {
		return nil, 0, errors.Wrap(err, "assembling program")
	}
	b.LoadBytes(img.Origin, img.Bytes)
	return b, img.Origin, nil
}
