package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an LS-8 instruction byte, laid out as AABCDDDD:
//
//	AA   - number of operand bytes that follow the opcode
//	B    - set if the instruction is an ALU operation
//	C    - set if the instruction sets the PC directly
//	DDDD - instruction identifier
type Opcode byte

const (
	OP_HLT  = Opcode(0b00000001)
	OP_LDI  = Opcode(0b10000010)
	OP_PRN  = Opcode(0b01000111)
	OP_ADD  = Opcode(0b10100000)
	OP_MUL  = Opcode(0b10100010)
	OP_PUSH = Opcode(0b01000101)
	OP_POP  = Opcode(0b01000110)
	OP_CALL = Opcode(0b01010000)
	OP_RET  = Opcode(0b00010001)
)

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op>>6) & 0x3
}

// IsAlu returns true if the opcode is handled by the ALU.
func (op Opcode) IsAlu() bool {
	return (op>>5)&1 != 0
}

// SetsPc returns true if the instruction sets the PC itself.
func (op Opcode) SetsPc() bool {
	return (op>>4)&1 != 0
}

// Identifier returns the instruction identifier bits.
func (op Opcode) Identifier() int {
	return int(op & 0xf)
}

// Kind returns the decoded instruction kind, KIND_INVALID if unassigned.
func (op Opcode) Kind() Kind {
	return kindTable[op]
}

// Kind is the closed set of instructions the CPU executes.
type Kind int

const (
	KIND_INVALID = Kind(iota) // ???
	KIND_HLT                  // HLT
	KIND_LDI                  // LDI
	KIND_PRN                  // PRN
	KIND_ADD                  // ADD
	KIND_MUL                  // MUL
	KIND_PUSH                 // PUSH
	KIND_POP                  // POP
	KIND_CALL                 // CALL
	KIND_RET                  // RET
)

var _kind_names = [...]string{"???", "HLT", "LDI", "PRN", "ADD", "MUL", "PUSH", "POP", "CALL", "RET"}

func (kind Kind) String() string {
	if kind < 0 || int(kind) >= len(_kind_names) {
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
	return _kind_names[kind]
}

// Opcode returns the opcode byte of the instruction kind.
func (kind Kind) Opcode() (op Opcode, ok bool) {
	for _, def := range instructionSet {
		if def.kind == kind {
			return def.opcode, true
		}
	}
	return
}

// CodeArg is the interpretation of an operand byte.
type CodeArg int

const (
	ARG_NONE = CodeArg(0) // none
	ARG_REG  = CodeArg(1) // register index
	ARG_IMM  = CodeArg(2) // immediate value
)

type instructionDef struct {
	kind   Kind
	opcode Opcode
	args   [2]CodeArg
}

// instructionSet is the fixed LS-8 instruction set.
var instructionSet = [...]instructionDef{
	{KIND_HLT, OP_HLT, [2]CodeArg{}},
	{KIND_LDI, OP_LDI, [2]CodeArg{ARG_REG, ARG_IMM}},
	{KIND_PRN, OP_PRN, [2]CodeArg{ARG_REG}},
	{KIND_ADD, OP_ADD, [2]CodeArg{ARG_REG, ARG_REG}},
	{KIND_MUL, OP_MUL, [2]CodeArg{ARG_REG, ARG_REG}},
	{KIND_PUSH, OP_PUSH, [2]CodeArg{ARG_REG}},
	{KIND_POP, OP_POP, [2]CodeArg{ARG_REG}},
	{KIND_CALL, OP_CALL, [2]CodeArg{ARG_REG}},
	{KIND_RET, OP_RET, [2]CodeArg{}},
}

// kindTable decodes every possible opcode byte. Read-only after init.
var kindTable [256]Kind

// argTable holds the operand interpretation per kind. Read-only after init.
var argTable [len(_kind_names)][2]CodeArg

func init() {
	for _, def := range instructionSet {
		args := 0
		for _, arg := range def.args {
			if arg != ARG_NONE {
				args++
			}
		}
		if args != def.opcode.Operands() {
			panic("instruction operand count does not match opcode encoding")
		}
		kindTable[def.opcode] = def.kind
		argTable[def.kind] = def.args
	}
}

// Args returns the interpretation of the operands of an instruction kind.
func (kind Kind) Args() []CodeArg {
	if kind <= KIND_INVALID || int(kind) >= len(argTable) {
		return nil
	}
	args := argTable[kind]
	n := 0
	for n < len(args) && args[n] != ARG_NONE {
		n++
	}
	return args[:n]
}

// Instruction is a fetched opcode and its operand bytes.
type Instruction struct {
	Pc      int    // Address the opcode was fetched from.
	Opcode  Opcode // Opcode byte.
	Operand [2]byte
}

// A returns the first operand byte.
func (inst Instruction) A() byte {
	return inst.Operand[0]
}

// B returns the second operand byte.
func (inst Instruction) B() byte {
	return inst.Operand[1]
}

// Len returns the encoded length of the instruction, in bytes.
func (inst Instruction) Len() int {
	return 1 + inst.Opcode.Operands()
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	kind := inst.Opcode.Kind()
	if kind == KIND_INVALID {
		return fmt.Sprintf("DB 0b%08b", byte(inst.Opcode))
	}

	var words []string
	for n, arg := range kind.Args() {
		switch arg {
		case ARG_REG:
			words = append(words, fmt.Sprintf("R%d", inst.Operand[n]))
		case ARG_IMM:
			words = append(words, fmt.Sprintf("%d", inst.Operand[n]))
		}
	}

	if len(words) == 0 {
		return kind.String()
	}

	return kind.String() + " " + strings.Join(words, ",")
}
