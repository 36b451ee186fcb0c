// Package ptscalc computes presentation timestamps from an extended RTP
// timestamp and the current synchronization anchor, with full-range
// saturating arithmetic (spec section 4.3).
package ptscalc

// InterpolationInput is the anchor data needed before any RTCP sender
// report has been observed.
type InterpolationInput struct {
	BaseExtTS uint64
	BasePTS   uint64
}

// Interpolate computes the PTS of extended timestamp r relative to the
// interpolation anchor, scaling the RTP delta through clockRate.
func Interpolate(in InterpolationInput, r uint64, clockRate int64) uint64 {
	s := Sat{PTS: in.BasePTS}
	s = s.Signed(signedDelta(r, in.BaseExtTS, clockRate))
	return s.PTS
}

// SyncInput is the anchor data needed once at least one RTCP sender
// report has been observed.
type SyncInput struct {
	BaseNTPTimeNS   uint64
	BaseSyncTimeNS  uint64
	LastSRExtTS     uint64
	LastSRNTPTimeNS uint64
}

// Synchronize computes the PTS of extended timestamp r in the
// synchronized regime: base sync time, offset by the NTP delta between
// the most recent and the base sender report, offset by the RTP delta
// between r and the most recent sender report's extended timestamp.
func Synchronize(in SyncInput, r uint64, clockRate int64) uint64 {
	s := Sat{PTS: in.BaseSyncTimeNS}

	if in.LastSRNTPTimeNS > in.BaseNTPTimeNS {
		s = s.Add(in.LastSRNTPTimeNS - in.BaseNTPTimeNS)
	} else if in.LastSRNTPTimeNS < in.BaseNTPTimeNS {
		s = s.Sub(in.BaseNTPTimeNS - in.LastSRNTPTimeNS)
	}

	positive, magnitude := signedMagnitude(r, in.LastSRExtTS)
	s = s.Signed(positive, scaleTicksToNanos(magnitude, clockRate))

	return s.PTS
}

// signedDelta returns the (positive, magnitude) pair for r-base, the
// magnitude already scaled from clock ticks to nanoseconds.
func signedDelta(r, base uint64, clockRate int64) (bool, uint64) {
	positive, magnitude := signedMagnitude(r, base)
	return positive, scaleTicksToNanos(magnitude, clockRate)
}

func signedMagnitude(a, b uint64) (positive bool, magnitude uint64) {
	if a >= b {
		return true, a - b
	}
	return false, b - a
}

// scaleTicksToNanos converts a duration expressed in clockRate ticks
// into nanoseconds, splitting the multiply/divide the way the teacher's
// RTP timestamp decoders do to avoid a 64-bit overflow on the
// multiplication.
func scaleTicksToNanos(ticks uint64, clockRate int64) uint64 {
	if clockRate <= 0 {
		return 0
	}
	cr := uint64(clockRate)
	secs := ticks / cr
	rem := ticks % cr
	return secs*1e9 + (rem*1e9)/cr
}
