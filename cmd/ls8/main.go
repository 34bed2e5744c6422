// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// defineList collects repeated -D NAME=VALUE flags.
type defineList map[string]string

func (dl defineList) String() string {
	var defs []string
	for name, value := range dl {
		defs = append(defs, name+"="+value)
	}
	return strings.Join(defs, ",")
}

func (dl defineList) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return errors.New(f("expected NAME=VALUE, got '%v'", text))
	}
	dl[name] = value
	return nil
}

// reportUnknown prints the instruction that halted the machine, in decimal.
func reportUnknown(w io.Writer, unknown cpu.ErrUnknownInstruction) {
	translate.Fprintf(w, "Unknown: %d at %d\n", byte(unknown.Opcode), unknown.Pc)
}

func main() {
	var verbose bool
	var trace bool
	var assemble bool
	defines := defineList{}

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&trace, "t", false, "Trace each cycle to stderr")
	flag.BoolVar(&assemble, "a", false, "Program is assembly source, not a binary image")
	flag.Var(defines, "D", "Assembler define NAME=VALUE (repeatable)")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		translate.Fprintf(out, "usage: %v [options] program\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)

	inf, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("%v", f("%v: file not found", path))
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Tape.Output = os.Stdout
	if trace {
		emu.Trace = os.Stderr
	}

	var prog *cpu.Program
	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		for name, value := range defines {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose}
		prog, err = ld.Parse(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = emu.Run()

	var unknown cpu.ErrUnknownInstruction
	if errors.As(err, &unknown) {
		reportUnknown(os.Stdout, unknown)
		return
	}

	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		log.Fatalf("%v: %v", path, err)
	}
}
