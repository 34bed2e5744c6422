package cpu

import (
	"iter"
)

// Line is a source line of a program and the bytes it produced.
type Line struct {
	LineNo    int      // Source line number, from 1.
	Address   int      // Memory address of the first byte.
	Words     []string // Source words of the line.
	Bytes     []byte   // Generated bytes.
	LinkLabel string   // Label to resolve into the last byte, if any.
}

// Program is a listing of source lines and the memory image they build.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the byte at address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, line := range prog.Lines {
		if address >= line.Address && address < line.Address+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: address - line.Address,
			}
			break
		}
	}

	return
}

// Size returns the number of bytes spanned by the program image.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size = max(size, line.Address+len(line.Bytes))
	}

	return
}

// Binary returns the memory image of the program, from address 0.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, prog.Size())
	for address, value := range prog.Bytes() {
		bins[address] = value
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(address int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+n, value) {
					return
				}
			}
		}
	}
}
