package io

import (
	"iter"
	"slices"
)

// Capture records the values sent to it. With a Capacity set, only the
// most recent Capacity values are kept.
type Capture struct {
	Capacity int // Maximum values kept, 0 for unlimited.

	Data    []byte
	Dropped int // Values discarded to honor Capacity.
}

var _ Channel = (*Capture)(nil)

// Rewind drops all captured values.
func (cc *Capture) Rewind() {
	cc.Data = cc.Data[:0]
	cc.Dropped = 0
}

// Send appends value to the captured data.
func (cc *Capture) Send(value byte) (err error) {
	if cc.Capacity > 0 && len(cc.Data) >= cc.Capacity {
		drop := len(cc.Data) - cc.Capacity + 1
		cc.Data = slices.Delete(cc.Data, 0, drop)
		cc.Dropped += drop
	}

	cc.Data = append(cc.Data, value)
	return
}

// Values returns an iterator over the captured values.
func (cc *Capture) Values() iter.Seq[byte] {
	return slices.Values(cc.Data)
}
