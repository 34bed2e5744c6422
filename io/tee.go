package io

// Tee sends each value to every channel, stopping at the first error.
type Tee []Channel

var _ Channel = (Tee)(nil)

// Rewind rewinds every channel.
func (tc Tee) Rewind() {
	for _, ch := range tc {
		ch.Rewind()
	}
}

// Send sends value to every channel.
func (tc Tee) Send(value byte) (err error) {
	for _, ch := range tc {
		err = ch.Send(value)
		if err != nil {
			return
		}
	}
	return
}
