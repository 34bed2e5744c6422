// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs LS-8 programs: a CPU, its program listing, and the
// output and trace channels around it.
package emulator

import (
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

const (
	PROGRAM_BASE = 0   // Address the program image is loaded at.
	HISTORY_SIZE = 256 // PRN values kept in the history.
)

var _emulator_defines = map[string]string{
	"PROGRAM_BASE": fmt.Sprintf("%d", PROGRAM_BASE),
}

// Emulator state. CPU + program listing + output channels.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape    io.Tape    // PRN output, as decimal lines.
	History io.Capture // Most recent PRN values.

	Trace stdio.Writer // If set, receives a trace line before each cycle.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Tape.Output = stdio.Discard
	emu.History.Capacity = HISTORY_SIZE
	emu.Cpu.Output = io.Tee{&emu.Tape, &emu.History}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset loads the program into memory and readies the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Output.Rewind()

	err = emu.Cpu.Reset(emu.Program.Binary())
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %d lines, %d bytes", len(emu.Program.Lines), emu.Program.Size())
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line number of the instruction at the PC.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has halted, by HLT or by an unknown instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	if emu.Trace != nil {
		_, err = fmt.Fprintln(emu.Trace, emu.Cpu.Trace())
		if err != nil {
			return
		}
	}

	err = emu.Cpu.Tick()
	done = !emu.Cpu.Running

	if errors.Is(err, cpu.ErrUnknownOpcode) && emu.Verbose {
		log.Printf("emulator: halted: %v", err)
	}

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
