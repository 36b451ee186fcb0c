package rtpsync

import (
	"github.com/pion/rtcp"

	"github.com/worldeddt/rtpsync/pkg/ntpconv"
	"github.com/worldeddt/rtpsync/pkg/syncerrors"
)

// ProcessRTCP parses buf as one or more RTCP packets and, if the first
// one is a Sender Report, refreshes the synchronization anchor from it.
// Per spec section 4.6 only the first packet in the buffer is inspected;
// a non-SR first packet is silently ignored, and an empty buffer is
// logged as an internal warning but is not itself an error.
//
// The first sender report switches the Synchronizer from interpolation
// to the synchronized regime. PTS values of later packets are computed
// from that report's arrival time and are not spliced onto the PTS
// values emitted before it, so the emitted timeline can step there.
//
// arrivalSyncTimeNS is the caller's pipeline clock reading, in
// nanoseconds, at the moment this RTCP packet was received.
func (s *Synchronizer) ProcessRTCP(buf []byte, arrivalSyncTimeNS uint64) error {
	if len(buf) == 0 {
		s.log.Warn().Msg("received empty RTCP buffer")
		return nil
	}

	packets, err := rtcp.Unmarshal(buf)
	if err != nil {
		return syncerrors.ErrMalformedRTCP{Err: err}
	}

	sr, ok := packets[0].(*rtcp.SenderReport)
	if !ok {
		s.log.Debug().Msg("ignoring non sender-report RTCP packet")
		return nil
	}

	ntpNS := ntpconv.ToNanoseconds(sr.NTPTime)

	s.mutex.Lock()
	// The SR's RTP timestamp is fed through the same extended-timestamp
	// tracker used for media packets, even though RFC 3550 does not
	// guarantee the two are adjacent. This preserves prior behavior
	// rather than silently changing synchronization semantics; flagged
	// here for review rather than "fixed".
	s.anchor.ObserveSenderReport(sr.RTPTime, ntpNS, arrivalSyncTimeNS)
	s.mutex.Unlock()

	return nil
}
