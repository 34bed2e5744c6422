package cpu

const (
	REGISTER_COUNT = 8 // General purpose registers.
	REGISTER_SP    = 7 // Register holding the stack pointer.
)

// Registers is the register file. R7 doubles as the stack pointer.
type Registers [REGISTER_COUNT]byte

// Get returns the value of register index.
func (reg *Registers) Get(index int) (value byte, err error) {
	if err = reg.Check(index); err != nil {
		return
	}

	value = reg[index]
	return
}

// Set sets register index to value.
func (reg *Registers) Set(index int, value byte) (err error) {
	if err = reg.Check(index); err != nil {
		return
	}

	reg[index] = value
	return
}

// Check verifies index names a register.
func (reg *Registers) Check(index int) (err error) {
	if index < 0 || index >= len(reg) {
		err = ErrRegister(index)
	}
	return
}

// Sp returns the stack pointer.
func (reg *Registers) Sp() byte {
	return reg[REGISTER_SP]
}

// SetSp sets the stack pointer.
func (reg *Registers) SetSp(sp byte) {
	reg[REGISTER_SP] = sp
}
