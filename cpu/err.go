package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddressOutOfRange    = errors.New(f("address out of range"))
	ErrUnsupportedOperation = errors.New(f("unsupported alu operation"))
	ErrUnknownOpcode        = errors.New(f("unknown instruction"))
	ErrHalted               = errors.New(f("halted"))

	// Loader errors
	ErrProgramTooLarge = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of byte range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrAddress is a memory address outside of memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%02x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrAddressOutOfRange
}

// ErrRegister is a register index outside of the register file.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d out of range", int(er))
}

func (er ErrRegister) Is(err error) bool {
	return err == ErrAddressOutOfRange
}

type ErrAluOp CodeAluOp

func (eo ErrAluOp) Error() string {
	return f("unsupported alu operation %d", int(eo))
}

func (eo ErrAluOp) Is(err error) bool {
	return err == ErrUnsupportedOperation
}

// ErrUnknownInstruction is an opcode with no handler, and where it was fetched.
type ErrUnknownInstruction struct {
	Pc     int
	Opcode Opcode
}

func (eu ErrUnknownInstruction) Error() string {
	return f("unknown instruction 0b%08b at 0x%02x", byte(eu.Opcode), eu.Pc)
}

func (eu ErrUnknownInstruction) Is(err error) bool {
	return err == ErrUnknownOpcode
}

type ErrInstruction Instruction

func (ei ErrInstruction) Error() string {
	return f("0x%02x: %v", ei.Pc, Instruction(ei).String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
