package cpu

const (
	MEMORY_SIZE = 256  // Addressable bytes of memory.
	SP_INIT     = 0xf4 // Initial stack pointer; the stack grows down from here.
)

// Memory is the flat byte-addressable store of the machine.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(mem) {
		err = ErrAddress(address)
		return
	}

	value = mem[address]
	return
}

// Write stores value at address.
func (mem *Memory) Write(address int, value byte) (err error) {
	if address < 0 || address >= len(mem) {
		err = ErrAddress(address)
		return
	}

	mem[address] = value
	return
}

// Load copies data into memory starting at base.
// Nothing is written if data does not fit.
func (mem *Memory) Load(base int, data []byte) (err error) {
	if base < 0 || base+len(data) > len(mem) {
		err = ErrAddress(base + len(data) - 1)
		return
	}

	copy(mem[base:], data)
	return
}

// peek reads without bounds errors, for diagnostics.
func (mem *Memory) peek(address int) byte {
	if address < 0 || address >= len(mem) {
		return 0
	}
	return mem[address]
}
