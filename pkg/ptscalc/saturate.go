package ptscalc

import "math"

// Sat carries a saturating PTS value together with the two wrap flags
// that the spec's arithmetic table threads through successive
// adjustments: wrappedDown once a subtraction has saturated at zero,
// wrappedUp once an addition has saturated at 2^64-1.
type Sat struct {
	PTS         uint64
	WrappedDown bool
	WrappedUp   bool
}

// Add applies a saturating, signed-magnitude addition of d to the
// current value, per spec section 4.3's table. A prior down-wrap
// dominates any later add (the value stays pinned at zero); otherwise an
// add that would overflow saturates high and latches WrappedUp.
func (s Sat) Add(d uint64) Sat {
	if s.WrappedDown {
		return Sat{PTS: 0, WrappedDown: true, WrappedUp: s.WrappedUp}
	}
	if d > math.MaxUint64-s.PTS {
		return Sat{PTS: math.MaxUint64, WrappedDown: s.WrappedDown, WrappedUp: true}
	}
	return Sat{PTS: s.PTS + d, WrappedDown: s.WrappedDown, WrappedUp: s.WrappedUp}
}

// Sub applies a saturating, signed-magnitude subtraction of d from the
// current value, per spec section 4.3's table. A prior up-wrap dominates
// any later subtract (the value stays pinned at max); otherwise a
// subtract that would underflow saturates low and latches WrappedDown.
func (s Sat) Sub(d uint64) Sat {
	if s.WrappedUp {
		return Sat{PTS: math.MaxUint64, WrappedDown: s.WrappedDown, WrappedUp: true}
	}
	if d > s.PTS {
		return Sat{PTS: 0, WrappedDown: true, WrappedUp: s.WrappedUp}
	}
	return Sat{PTS: s.PTS - d, WrappedDown: s.WrappedDown, WrappedUp: s.WrappedUp}
}

// Signed applies a signed delta: positive deltas add, negative deltas
// subtract their magnitude. This is the shape every step in section 4.3
// actually needs ("if greater, add the difference; if less, subtract the
// difference").
func (s Sat) Signed(positive bool, magnitude uint64) Sat {
	if magnitude == 0 {
		if s.WrappedDown {
			return Sat{PTS: 0, WrappedDown: true, WrappedUp: s.WrappedUp}
		}
		if s.WrappedUp {
			return Sat{PTS: math.MaxUint64, WrappedDown: s.WrappedDown, WrappedUp: true}
		}
		return s
	}
	if positive {
		return s.Add(magnitude)
	}
	return s.Sub(magnitude)
}
