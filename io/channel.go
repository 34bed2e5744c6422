// Package io provides the output channels of the LS-8 machine.
// PRN hands each printed register value to a Channel; Tape renders
// them as decimal text lines, Capture keeps them for inspection.
package io

// Channel defines the interface for all output channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single value to the channel.
	Send(value byte) error
}
