package io

import (
	"io"
	"strconv"
)

// Tape writes each value as a line of decimal text to Output.
type Tape struct {
	Output io.Writer

	Lines int // Lines written since the last rewind.
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape, only the line count is reset.
func (tc *Tape) Rewind() {
	tc.Lines = 0
}

// Send writes value followed by a newline.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelMissing
		return
	}

	line := strconv.AppendUint(nil, uint64(value), 10)
	line = append(line, '\n')

	_, err = tc.Output.Write(line)
	if err != nil {
		return
	}

	tc.Lines++
	return
}
