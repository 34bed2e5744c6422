package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

func FuzzCpu(f *testing.F) {
	for _, def := range instructionSet {
		f.Add(byte(def.opcode), byte(0), byte(1))
		f.Add(byte(def.opcode), byte(7), byte(8))
	}
	f.Add(byte(0), byte(0), byte(0))
	f.Add(byte(0xff), byte(0xff), byte(0xff))

	f.Fuzz(func(t *testing.T, opcode byte, a byte, b byte) {
		assert := assert.New(t)

		cp := NewCpu()
		out := &io.Capture{}
		cp.Output = out
		assert.NoError(cp.Reset([]byte{opcode, a, b}))
		cp.Register[0] = 0x50
		cp.Register[1] = 0x51
		cp.Register[6] = 0x56

		before := *cp
		op := Opcode(opcode)

		err := cp.Tick()

		if op.Kind() == KIND_INVALID {
			assert.ErrorIs(err, ErrUnknownOpcode)
			var unknown ErrUnknownInstruction
			assert.True(errors.As(err, &unknown))
			assert.Equal(ErrUnknownInstruction{Pc: 0, Opcode: op}, unknown)
			assert.False(cp.Running)
			assert.Equal(before.Memory, cp.Memory)
			assert.Equal(before.Register, cp.Register)
			return
		}

		if err != nil {
			assert.ErrorIs(err, ErrAddressOutOfRange)
			assert.False(cp.Running)
			assert.Equal(0, cp.Pc)
			assert.Equal(before.Memory, cp.Memory)
			assert.Equal(before.Register, cp.Register)
			assert.Empty(out.Data)
			return
		}

		assert.Equal(1, cp.Ticks)

		switch op.Kind() {
		case KIND_HLT:
			assert.False(cp.Running)
			assert.Equal(0, cp.Pc)
		case KIND_CALL:
			assert.True(cp.Running)
			assert.Equal(int(before.Register[a]), cp.Pc)
			assert.Equal(byte(2), cp.Peek())
			assert.Equal(byte(SP_INIT-1), cp.Register.Sp())
		case KIND_RET:
			assert.Equal(int(before.Memory[SP_INIT]), cp.Pc)
			assert.Equal(byte(SP_INIT+1), cp.Register.Sp())
		case KIND_PRN:
			assert.Equal([]byte{before.Register[a]}, out.Data)
			assert.Equal(2, cp.Pc)
		case KIND_ADD:
			assert.Equal(before.Register[a]+before.Register[b], cp.Register[a])
			assert.Equal(3, cp.Pc)
		case KIND_MUL:
			assert.Equal(before.Register[a]*before.Register[b], cp.Register[a])
			assert.Equal(3, cp.Pc)
		case KIND_LDI:
			assert.Equal(b, cp.Register[a])
			assert.Equal(3, cp.Pc)
		case KIND_PUSH:
			assert.Equal(before.Register[a], cp.Peek())
			assert.Equal(2, cp.Pc)
		case KIND_POP:
			assert.Equal(2, cp.Pc)
			assert.Equal(before.Memory[SP_INIT], cp.Register[a])
			if a != REGISTER_SP {
				assert.Equal(byte(SP_INIT+1), cp.Register.Sp())
			}
		}
	})
}
