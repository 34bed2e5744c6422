package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Nil(emu.Trace)
}

func doLoad(emu *Emulator, image []string, t *testing.T) {
	assert := assert.New(t)

	ld := &cpu.Loader{}
	prog, err := ld.Parse(strings.NewReader(strings.Join(image, "\n")))
	assert.NoError(err)
	emu.Program = prog

	err = emu.Reset()
	assert.NoError(err)
}

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	err = emu.Reset()
	assert.NoError(err)
}

var multImage = []string{
	"# mult.ls8",
	"10000010 # LDI R0,8",
	"00000000",
	"00001000",
	"10000010 # LDI R1,9",
	"00000001",
	"00001001",
	"10100010 # MUL R0,R1",
	"00000000",
	"00000001",
	"01000111 # PRN R0",
	"00000000",
	"00000001 # HLT",
}

func TestEmulatorMultiply(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := &bytes.Buffer{}
	emu.Tape.Output = output

	doLoad(emu, multImage, t)

	assert.NoError(emu.Run())
	assert.Equal("72\n", output.String())
	assert.Equal([]byte{72}, emu.History.Data)
	assert.False(emu.Cpu.Running)
	assert.Equal(5, emu.Ticks())
	assert.Equal(11, emu.Pc())
	assert.Equal(13, emu.LineNo())

	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(5, emu.Ticks())
}

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(emu, multImage, t)

	lines := []int{2, 5, 8, 11, 13}
	for n, lineno := range lines {
		assert.Equal(lineno, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(lines)-1, done)
	}
}

func TestEmulatorTrace(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	trace := &bytes.Buffer{}
	emu.Trace = trace

	doLoad(emu, multImage, t)
	assert.NoError(emu.Run())

	lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
	assert.Len(lines, 5)
	assert.Equal("TRACE: 00 | 82 00 08 | 00 00 00 00 00 00 00 F4", lines[0])
	assert.Equal("TRACE: 09 | 47 00 01 | 48 09 00 00 00 00 00 F4", lines[3])
	assert.Equal("TRACE: 0B | 01 00 00 | 48 09 00 00 00 00 00 F4", lines[4])
}

func TestEmulatorUnknownInstruction(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Verbose = true

	doAssemble(emu, []string{
		"LDI R0,1",
		"PRN R0",
		"DB 0",
		"PRN R0",
		"HLT",
	}, t)

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrUnknownOpcode)

	var unknown cpu.ErrUnknownInstruction
	assert.True(errors.As(err, &unknown))
	assert.Equal(5, unknown.Pc)
	assert.Equal(cpu.Opcode(0), unknown.Opcode)

	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal(3, runtime.LineNo)
	assert.Equal(5, runtime.Pc)

	assert.Equal([]byte{1}, emu.History.Data)
	assert.False(emu.Cpu.Running)

	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	doAssemble(emu, []string{
		"LDI R0,1",
		"DB OP_PRN 9",
		"HLT",
	}, t)

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrAddressOutOfRange)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
		assert.Equal(3, runtime.Pc)
		assert.Contains(runtime.Error(), "line 2")
	}
}

func TestEmulatorRuntimeError_NoListing(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Cpu.Memory[0] = byte(cpu.OP_PRN)
	emu.Cpu.Memory[1] = 0x10

	err := emu.Run()
	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(0, runtime.LineNo)
		assert.NotContains(runtime.Error(), "line")
	}
}

func TestEmulatorCallRet(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	doAssemble(emu, []string{
		"        LDI R1,Double",
		"        LDI R0,3",
		"        CALL R1",
		"        CALL R1",
		"        PRN R0",
		"        HLT",
		"Double: PUSH R2",
		"        LDI R2,2",
		"        MUL R0,R2",
		"        POP R2",
		"        RET",
	}, t)

	assert.NoError(emu.Run())
	assert.Equal([]byte{12}, emu.History.Data)
	assert.Equal(byte(cpu.SP_INIT), emu.Cpu.Register.Sp())
	assert.Equal(byte(0), emu.Cpu.Register[2])
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(emu, multImage, t)
	assert.NoError(emu.Run())
	assert.Equal([]byte{72}, emu.History.Data)

	assert.NoError(emu.Reset())
	assert.True(emu.Cpu.Running)
	assert.Empty(emu.History.Data)
	assert.Equal(0, emu.Ticks())

	assert.NoError(emu.Run())
	assert.Equal([]byte{72}, emu.History.Data)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}

	assert.Equal("0", defines["PROGRAM_BASE"])
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("0b01000111", defines["OP_PRN"])
}
