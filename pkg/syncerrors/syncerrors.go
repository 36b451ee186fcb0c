// Package syncerrors contains the error kinds a Synchronizer can return
// (spec section 7): InvalidData for caller-visible contract violations,
// and Unexpected for buffers that cannot be parsed at all.
package syncerrors

import "fmt"

// ErrInvalidClockRate is returned by Configure when clockRate <= 0.
type ErrInvalidClockRate struct {
	ClockRate int
}

// Error implements the error interface.
func (e ErrInvalidClockRate) Error() string {
	return fmt.Sprintf("invalid clock rate: %d (must be > 0)", e.ClockRate)
}

// ErrAlreadyConfigured is returned by a second call to Configure.
type ErrAlreadyConfigured struct {
	PayloadType int
	ClockRate   int
}

// Error implements the error interface.
func (e ErrAlreadyConfigured) Error() string {
	return fmt.Sprintf("already configured with payload type %d, clock rate %d",
		e.PayloadType, e.ClockRate)
}

// ErrNotConfigured is returned by ProcessRTP when no clock rate has been
// set yet.
type ErrNotConfigured struct{}

// Error implements the error interface.
func (e ErrNotConfigured) Error() string {
	return "clock rate is not configured"
}

// ErrSSRCMismatch is returned by ProcessRTP when a packet's SSRC differs
// from the one learned from the first packet.
type ErrSSRCMismatch struct {
	Learned  uint32
	Observed uint32
}

// Error implements the error interface.
func (e ErrSSRCMismatch) Error() string {
	return fmt.Sprintf("ssrc mismatch: learned %d, got %d", e.Learned, e.Observed)
}

// ErrUnexpectedPayloadType is returned by ProcessRTP when a packet's
// payload type differs from the configured one.
type ErrUnexpectedPayloadType struct {
	Configured int
	Observed   uint8
}

// Error implements the error interface.
func (e ErrUnexpectedPayloadType) Error() string {
	return fmt.Sprintf("unexpected payload type: configured %d, got %d", e.Configured, e.Observed)
}

// ErrSortedModeRegression is returned by ProcessRTP the first time a
// sorted-mode stream is observed to regress. The packet is still fully
// processed and its PTS is still written; this error only signals that
// the caller's ordering contract was broken.
type ErrSortedModeRegression struct{}

// Error implements the error interface.
func (e ErrSortedModeRegression) Error() string {
	return "sorted-mode contract violated: RTP timestamp regressed, demoting to unsorted"
}

// ErrMalformedRTP is returned when an RTP buffer cannot be parsed.
type ErrMalformedRTP struct {
	Err error
}

// Error implements the error interface.
func (e ErrMalformedRTP) Error() string {
	return fmt.Sprintf("malformed RTP packet: %v", e.Err)
}

// ErrMalformedRTCP is returned when an RTCP buffer cannot be parsed.
type ErrMalformedRTCP struct {
	Err error
}

// Error implements the error interface.
func (e ErrMalformedRTCP) Error() string {
	return fmt.Sprintf("malformed RTCP packet: %v", e.Err)
}
