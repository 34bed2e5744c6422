package cpu

// CodeAluOp is an ALU operation. Its value is the identifier bits of the
// matching opcode.
type CodeAluOp int

const (
	ALU_OP_ADD = CodeAluOp(OP_ADD & 0xf) // add
	ALU_OP_MUL = CodeAluOp(OP_MUL & 0xf) // mul
)

func (op CodeAluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "add"
	case ALU_OP_MUL:
		return "mul"
	}
	return f("alu(%d)", int(op))
}

// Alu performs the requested ALU action on two values, truncating the
// result to 8 bits.
func Alu(op CodeAluOp, a, b byte) (output byte, err error) {
	switch op {
	case ALU_OP_ADD:
		output = a + b
	case ALU_OP_MUL:
		output = a * b
	default:
		err = ErrAluOp(op)
	}

	return
}
