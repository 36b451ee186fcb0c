// Package rtpsync synchronizes a single RTP media stream to a wall
// clock, using the stream's accompanying RTCP sender reports.
//
// One Synchronizer is created per inbound stream (one SSRC, one payload
// type). It is fed two independent event streams by the caller: RTCP
// packets (ProcessRTCP, filtered internally to sender reports) and RTP
// packets (ProcessRTP). ProcessRTP assigns a presentation timestamp to
// every packet on a monotonic nanosecond timeline anchored to the
// sender's NTP wall clock, interpolating before any sender report has
// ever been seen.
package rtpsync

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/worldeddt/rtpsync/pkg/anchor"
	"github.com/worldeddt/rtpsync/pkg/ptscalc"
	"github.com/worldeddt/rtpsync/pkg/sortedguard"
	"github.com/worldeddt/rtpsync/pkg/statssink"
	"github.com/worldeddt/rtpsync/pkg/syncerrors"
)

// Buffer is the mutable RTP buffer shape crossing the core's boundary
// (spec section 6): Data is the wire-format RTP packet, PTS is
// overwritten by ProcessRTP, DTS is read-only and carried through only
// for observability.
//
// Before the first sender report is observed, callers must set PTS on
// the very first packet to the arrival-side wall-clock timestamp
// assigned upstream; every later packet's incoming PTS value is
// ignored.
type Buffer struct {
	Data []byte
	PTS  uint64
	DTS  uint64
}

// Stats is a snapshot of a Synchronizer's observable state, taken under
// its instance lock. Grounded on the teacher's rtpreceiver.Receiver.Stats
// accessor: a plain copy, no reference into internal state survives the
// call.
type Stats struct {
	SSRC              uint32
	PayloadType       int
	ClockRate         int
	FeededSorted      bool
	Synchronized      bool
	LastRTCPExtTS     uint64
	LastRTCPNTPTimeNS uint64
}

// Synchronizer assigns presentation timestamps to one SSRC's RTP stream.
// It is safe for concurrent use by multiple goroutines: every exported
// method that reads or mutates synchronization state acquires the
// instance lock for the duration of its state inspection/mutation, and
// releases it before touching the stats sink. Close only touches the
// stats sink, which has its own lock, and does not take the instance
// lock.
type Synchronizer struct {
	// ID uniquely identifies this instance and is attached to every log
	// line the Synchronizer emits. A fresh random ID is minted by each
	// call to New; it is not written to the stats file or its name.
	ID uuid.UUID

	log zerolog.Logger

	mutex sync.Mutex

	ssrcLearned bool
	ssrc        uint32

	configured  bool
	payloadType int
	clockRate   int

	feededSorted bool

	anchor anchor.Store
	guard  sortedguard.Guard
	stats  *statssink.Sink
}

// New creates a Synchronizer. feededSorted declares whether the caller
// promises to feed RTP packets in non-decreasing timestamp order;
// statsName, if non-empty, enables the CSV stats sink subject to
// statssink.EnvVar also being set (spec section 4.5).
func New(feededSorted bool, statsName string) *Synchronizer {
	id := uuid.New()

	return &Synchronizer{
		ID:           id,
		log:          log.Logger.With().Str("synchronizer", id.String()).Logger(),
		feededSorted: feededSorted,
		stats:        statssink.New(statsName),
	}
}

// Configure sets the payload type and clock rate. It can only succeed
// once: clockRate must be positive, and a second call — even with
// identical arguments — fails with ErrAlreadyConfigured.
func (s *Synchronizer) Configure(payloadType int, clockRate int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if clockRate <= 0 {
		return syncerrors.ErrInvalidClockRate{ClockRate: clockRate}
	}

	if s.configured {
		return syncerrors.ErrAlreadyConfigured{PayloadType: s.payloadType, ClockRate: s.clockRate}
	}

	s.configured = true
	s.payloadType = payloadType
	s.clockRate = clockRate

	return nil
}

// Close releases resources held by the Synchronizer, including its
// stats file, if open.
func (s *Synchronizer) Close() error {
	return s.stats.Close()
}

// Stats returns a snapshot of the Synchronizer's current state.
func (s *Synchronizer) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return Stats{
		SSRC:              s.ssrc,
		PayloadType:       s.payloadType,
		ClockRate:         s.clockRate,
		FeededSorted:      s.feededSorted,
		Synchronized:      s.anchor.Synchronized(),
		LastRTCPExtTS:     s.anchor.LastRTCPExtTS,
		LastRTCPNTPTimeNS: s.anchor.LastRTCPNTPTimeNS,
	}
}

// ProcessRTP parses buf.Data as one RTP packet, computes its
// presentation timestamp, and writes it into buf.PTS. buf.DTS is never
// modified.
//
// It returns syncerrors.ErrMalformedRTP if buf.Data cannot be parsed,
// syncerrors.ErrNotConfigured if Configure has not succeeded yet,
// syncerrors.ErrSSRCMismatch if the packet's SSRC differs from the one
// learned from the first packet processed (in which case buf.PTS is left
// untouched), syncerrors.ErrUnexpectedPayloadType if the packet's payload
// type differs from the configured one, and
// syncerrors.ErrSortedModeRegression the first time a sorted-mode stream
// is observed to go backwards — in that last case the packet is still
// fully processed and buf.PTS is still written; only the guarantee is
// broken, not the operation.
func (s *Synchronizer) ProcessRTP(buf *Buffer) error {
	var pkt rtp.Packet
	if err := pkt.Unmarshal(buf.Data); err != nil {
		return syncerrors.ErrMalformedRTP{Err: err}
	}

	s.mutex.Lock()

	if !s.configured {
		s.mutex.Unlock()
		return syncerrors.ErrNotConfigured{}
	}

	if !s.ssrcLearned {
		s.ssrcLearned = true
		s.ssrc = pkt.SSRC
	} else if pkt.SSRC != s.ssrc {
		s.mutex.Unlock()
		return syncerrors.ErrSSRCMismatch{Learned: s.ssrc, Observed: pkt.SSRC}
	}

	if int(pkt.PayloadType) != s.payloadType {
		s.mutex.Unlock()
		return syncerrors.ErrUnexpectedPayloadType{Configured: s.payloadType, Observed: pkt.PayloadType}
	}

	ptsOrig := buf.PTS

	wasInterpolating := !s.anchor.Synchronized() && !s.anchor.BaseInterpolateInitiated
	ext := s.anchor.ExtendMediaTimestamp(pkt.Timestamp)
	if wasInterpolating {
		s.anchor.CaptureInterpolationPTS(buf.PTS)
	}

	var regressionErr error
	skipComputation := false

	if s.feededSorted {
		pre := s.guard.PreCheck(ext)
		switch {
		case pre.Regressed:
			s.feededSorted = false
			regressionErr = syncerrors.ErrSortedModeRegression{}
			s.log.Warn().Uint64("ext_rtp", ext).Msg("sorted-mode contract violated, demoting to unsorted")

		case pre.Duplicate:
			buf.PTS = pre.PTSIfDuplicate
			skipComputation = true
		}
	}

	if !skipComputation {
		pts := s.computePTS(ext)

		if s.feededSorted {
			pts = s.guard.PostFix(ext, pts)
		}

		buf.PTS = pts
	}

	row := statssink.Row{
		SSRC:        s.ssrc,
		ClockRate:   s.clockRate,
		PTSOrig:     ptsOrig,
		PTS:         buf.PTS,
		DTS:         buf.DTS,
		ExtRTP:      ext,
		SRNTPTimeNS: s.anchor.LastRTCPNTPTimeNS,
		SRExtRTP:    s.anchor.LastRTCPExtTS,
	}

	s.mutex.Unlock()

	s.stats.Write(row)

	return regressionErr
}

func (s *Synchronizer) computePTS(ext uint64) uint64 {
	if s.anchor.Synchronized() {
		return ptscalc.Synchronize(ptscalc.SyncInput{
			BaseNTPTimeNS:   s.anchor.BaseNTPTimeNS,
			BaseSyncTimeNS:  s.anchor.BaseSyncTimeNS,
			LastSRExtTS:     s.anchor.LastRTCPExtTS,
			LastSRNTPTimeNS: s.anchor.LastRTCPNTPTimeNS,
		}, ext, int64(s.clockRate))
	}

	return ptscalc.Interpolate(ptscalc.InterpolationInput{
		BaseExtTS: s.anchor.BaseInterpolateExtTS,
		BasePTS:   s.anchor.BaseInterpolatePTS,
	}, ext, int64(s.clockRate))
}

