package cpu

// Push decrements the stack pointer, then stores value at the new top.
// The stack pointer wraps within the 0x00-0xff range; overflow into
// program memory is not detected.
func (cpu *Cpu) Push(value byte) (err error) {
	sp := cpu.Register.Sp() - 1

	err = cpu.Memory.Write(int(sp), value)
	if err != nil {
		return
	}

	cpu.Register.SetSp(sp)
	return
}

// Pop loads the value at the top of the stack, then increments the stack
// pointer, wrapping within 0x00-0xff.
func (cpu *Cpu) Pop() (value byte, err error) {
	sp := cpu.Register.Sp()

	value, err = cpu.Memory.Read(int(sp))
	if err != nil {
		return
	}

	cpu.Register.SetSp(sp + 1)
	return
}

// Peek returns the value at the top of the stack without moving it.
func (cpu *Cpu) Peek() (value byte) {
	return cpu.Memory.peek(int(cpu.Register.Sp()))
}

// Depth returns the number of bytes pushed below SP_INIT.
// A wrapped stack pointer reports the wrapped distance.
func (cpu *Cpu) Depth() int {
	return int(byte(SP_INIT - cpu.Register.Sp()))
}
