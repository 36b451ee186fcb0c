// Package anchor holds the NTP/RTP correlation anchors a Synchronizer
// uses to translate extended RTP timestamps into presentation
// timestamps (spec section 4.2).
package anchor

import "github.com/worldeddt/rtpsync/pkg/extendedts"

// Store holds the primary (synchronized-regime) anchor, the rolling
// most-recent-sender-report anchor, and the interpolation anchor used
// before any sender report has been seen.
//
// Once BaseInitiated becomes true it never clears; the interpolation
// anchor is then no longer consulted (spec section 4.2's one-way regime
// transition).
type Store struct {
	tracker extendedts.Tracker

	BaseInitiated  bool
	BaseNTPTimeNS  uint64
	BaseSyncTimeNS uint64

	LastRTCPExtTS     uint64
	LastRTCPNTPTimeNS uint64

	BaseInterpolateInitiated bool
	BaseInterpolateExtTS     uint64
	BaseInterpolatePTS       uint64
}

// Synchronized reports whether at least one sender report has been
// observed.
func (s *Store) Synchronized() bool {
	return s.BaseInitiated
}

// ExtendMediaTimestamp lifts a 32-bit RTP media timestamp through the
// shared extended-timestamp tracker.
//
// The RTCP sender report's RTP timestamp is fed through the same
// tracker (see ObserveSenderReport) even though RFC 3550 does not
// guarantee it aligns with the adjacent RTP stream; this mirrors the
// source behavior called out as an open question in the design notes
// and is preserved rather than "fixed" silently.
func (s *Store) ExtendMediaTimestamp(observed uint32) uint64 {
	ext := s.tracker.Extend(observed)

	if !s.BaseInterpolateInitiated && !s.BaseInitiated {
		s.BaseInterpolateInitiated = true
		s.BaseInterpolateExtTS = ext
	}

	return ext
}

// CaptureInterpolationPTS records the arrival-side PTS for the first RTP
// packet seen before any sender report, completing the interpolation
// anchor started by ExtendMediaTimestamp.
func (s *Store) CaptureInterpolationPTS(arrivalPTS uint64) {
	s.BaseInterpolatePTS = arrivalPTS
}

// ObserveSenderReport updates the rolling sender-report anchor with a
// newly received RTCP SR, and on the first SR ever observed also latches
// the primary anchor. rtcpRTPTimestamp is the 32-bit RTP timestamp
// carried in the SR's sender-info block; ntpTimeNS is the SR's NTP
// timestamp converted to nanoseconds; arrivalSyncTimeNS is the pipeline
// clock reading at the moment the SR was processed.
func (s *Store) ObserveSenderReport(rtcpRTPTimestamp uint32, ntpTimeNS, arrivalSyncTimeNS uint64) {
	ext := s.tracker.Extend(rtcpRTPTimestamp)

	if !s.BaseInitiated {
		s.BaseInitiated = true
		s.BaseNTPTimeNS = ntpTimeNS
		s.BaseSyncTimeNS = arrivalSyncTimeNS
	}

	s.LastRTCPExtTS = ext
	s.LastRTCPNTPTimeNS = ntpTimeNS
}
