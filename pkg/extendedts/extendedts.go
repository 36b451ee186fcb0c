// Package extendedts lifts 32-bit RTP timestamps into a 64-bit counter
// that is robust to wraparound.
package extendedts

// Tracker extends 32-bit RTP timestamps into a 64-bit counter.
//
// Each call to Extend interprets the new 32-bit value as the sample
// nearest to the previously stored extended counter, which correctly
// lifts across the 2^32 wraparound as long as successive timestamps are
// closer than 2^31 clock ticks apart — true for any realistic media
// clock rate.
type Tracker struct {
	initialized bool
	ext         uint64
}

// Extend extends a 32-bit observed RTP timestamp.
func (t *Tracker) Extend(observed uint32) uint64 {
	if !t.initialized {
		t.initialized = true
		t.ext = uint64(observed)
		return t.ext
	}

	diff := int32(observed - uint32(t.ext))
	t.ext = uint64(int64(t.ext) + int64(diff))
	return t.ext
}

// Initialized reports whether Extend has ever been called.
func (t *Tracker) Initialized() bool {
	return t.initialized
}
