package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	assert.Equal(0, cp.Depth())

	assert.NoError(cp.Push(0x12))
	assert.Equal(1, cp.Depth())
	assert.Equal(byte(SP_INIT-1), cp.Register.Sp())
	assert.Equal(byte(0x12), cp.Memory[SP_INIT-1])
	assert.Equal(byte(0x12), cp.Peek())
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	assert.NoError(cp.Push(0x12))
	assert.NoError(cp.Push(0xab))

	val, err := cp.Pop()
	assert.NoError(err)
	assert.Equal(byte(0xab), val)
	assert.Equal(1, cp.Depth())

	val, err = cp.Pop()
	assert.NoError(err)
	assert.Equal(byte(0x12), val)
	assert.Equal(0, cp.Depth())
	assert.Equal(byte(SP_INIT), cp.Register.Sp())
}

func TestStack_WrapDown(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	cp.Register.SetSp(0)

	assert.NoError(cp.Push(7))
	assert.Equal(byte(0xff), cp.Register.Sp())
	assert.Equal(byte(7), cp.Memory[0xff])

	val, err := cp.Pop()
	assert.NoError(err)
	assert.Equal(byte(7), val)
	assert.Equal(byte(0), cp.Register.Sp())
}

func TestStack_WrapUp(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()
	cp.Register.SetSp(0xff)
	cp.Memory[0xff] = 3

	val, err := cp.Pop()
	assert.NoError(err)
	assert.Equal(byte(3), val)
	assert.Equal(byte(0), cp.Register.Sp())
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	cp := NewCpu()

	// Popping an empty stack reads above SP_INIT without complaint.
	val, err := cp.Pop()
	assert.NoError(err)
	assert.Equal(byte(0), val)
	assert.Equal(byte(SP_INIT+1), cp.Register.Sp())
	assert.Equal(MEMORY_SIZE-1, cp.Depth())
}
