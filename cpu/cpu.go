package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ls8/io"
)

// Channel is the output channel PRN writes to.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"SP_INIT":     fmt.Sprintf("0x%02x", SP_INIT),
	"REGISTER_SP": fmt.Sprintf("%d", REGISTER_SP),
}

func init() {
	for _, def := range instructionSet {
		_cpu_defines["OP_"+def.kind.String()] = fmt.Sprintf("0b%08b", byte(def.opcode))
	}
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       int       // Address of the next instruction to fetch.
	Register Registers // Register bank, R7 is the stack pointer.
	Memory   Memory    // Main memory, also hosting the stack.
	Running  bool      // Cleared by HLT, or by a fault.

	Output Channel // Destination of PRN values.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, reset and ready to run from address 0.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset(nil)

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears registers and memory.
// - Loads the image at address 0.
// - Sets the stack pointer to SP_INIT.
// - Marks the CPU as running from address 0.
func (cpu *Cpu) Reset(image []byte) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset, %d byte image", len(image))
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Ticks = 0
	cpu.Pc = 0
	cpu.Running = false

	if len(image) > len(cpu.Memory) {
		err = ErrProgramTooLarge
		return
	}

	err = cpu.Memory.Load(0, image)
	if err != nil {
		return
	}

	cpu.Register.SetSp(SP_INIT)
	cpu.Running = true

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"run",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6",
		"sp",
		"top",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "run":
			strval = "halted"
			if cpu.Running {
				strval = "running"
			}
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6":
			strval = fmt.Sprintf("%02X", cpu.Register[reg[1]-'0'])
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.Register.Sp())
		case "top":
			if cpu.Depth() == 0 {
				strval = "--"
			} else {
				strval = fmt.Sprintf("%02X", cpu.Peek())
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a one line summary of the next cycle:
// the PC, the three bytes from the PC, and all registers.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X | %02X %02X %02X |",
		cpu.Pc,
		cpu.Memory.peek(cpu.Pc),
		cpu.Memory.peek(cpu.Pc+1),
		cpu.Memory.peek(cpu.Pc+2))

	for _, reg := range cpu.Register {
		fmt.Fprintf(&sb, " %02X", reg)
	}

	return sb.String()
}

// Fetch fetches and decodes the instruction at the PC.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	op, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	inst.Pc = cpu.Pc
	inst.Opcode = Opcode(op)

	if inst.Opcode.Kind() == KIND_INVALID {
		err = ErrUnknownInstruction{Pc: cpu.Pc, Opcode: inst.Opcode}
		return
	}

	for n := range inst.Opcode.Operands() {
		inst.Operand[n], err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Any error halts the CPU.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	defer func() {
		if err != nil {
			cpu.Running = false
		}
	}()

	inst, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(inst)

	return
}

// Run ticks the CPU until it halts.
func (cpu *Cpu) Run() (err error) {
	for cpu.Running {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(inst), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%02x: %v", inst.Pc, inst)
	}

	next_pc := inst.Pc + inst.Len()

	kind := inst.Opcode.Kind()

	// A running CPU never holds a PC outside of memory.
	if kind != KIND_HLT && !inst.Opcode.SetsPc() && next_pc >= MEMORY_SIZE {
		err = ErrAddress(next_pc)
		return
	}

	reg_a := int(inst.A())
	reg_b := int(inst.B())

	switch kind {
	case KIND_HLT:
		cpu.Running = false
		next_pc = inst.Pc
	case KIND_LDI:
		err = cpu.Register.Set(reg_a, inst.B())
	case KIND_PRN:
		var value byte
		value, err = cpu.Register.Get(reg_a)
		if err != nil {
			return
		}
		if cpu.Output != nil {
			err = cpu.Output.Send(value)
		}
	case KIND_ADD, KIND_MUL:
		var a, b, output byte
		a, err = cpu.Register.Get(reg_a)
		if err != nil {
			return
		}
		b, err = cpu.Register.Get(reg_b)
		if err != nil {
			return
		}
		output, err = Alu(CodeAluOp(inst.Opcode.Identifier()), a, b)
		if err != nil {
			return
		}
		err = cpu.Register.Set(reg_a, output)
	case KIND_PUSH:
		var value byte
		value, err = cpu.Register.Get(reg_a)
		if err != nil {
			return
		}
		err = cpu.Push(value)
	case KIND_POP:
		err = cpu.Register.Check(reg_a)
		if err != nil {
			return
		}
		var value byte
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		err = cpu.Register.Set(reg_a, value)
	case KIND_CALL:
		var target byte
		target, err = cpu.Register.Get(reg_a)
		if err != nil {
			return
		}
		if next_pc >= MEMORY_SIZE {
			err = ErrAddress(next_pc)
			return
		}
		err = cpu.Push(byte(next_pc))
		if err != nil {
			return
		}
		next_pc = int(target)
	case KIND_RET:
		var target byte
		target, err = cpu.Pop()
		if err != nil {
			return
		}
		next_pc = int(target)
	default:
		err = ErrUnknownInstruction{Pc: inst.Pc, Opcode: inst.Opcode}
		return
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}
