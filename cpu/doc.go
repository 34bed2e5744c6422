// Package cpu implements the processor, program loader and assembler for the
// LS-8 machine.
//
// The CPU consists of a program counter (PC), eight 8-bit registers (r0-r7,
// with r7 the stack pointer), 256 bytes of memory hosting both the program
// and a downward growing stack, and an ALU. Opcodes encode their operand
// count, ALU use and PC handling in their upper bits, and decode into a
// closed set of instruction kinds.
//
// Programs are read either as an image of binary literals, one byte per line,
// or as assembly mnemonics with labels, equates and compile-time expressions.
package cpu
