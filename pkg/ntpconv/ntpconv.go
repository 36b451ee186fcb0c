// Package ntpconv converts RTCP sender-report NTP timestamps (64-bit
// fixed-point, RFC 3550 section 4) into nanosecond scalars.
package ntpconv

// ToNanoseconds converts a 64-bit NTP fixed-point timestamp (upper 32
// bits seconds since 1900, lower 32 bits fraction) into nanoseconds
// since the same epoch.
//
// The multiplication is split into an integer and a fractional part to
// avoid overflowing 64 bits, the same technique the teacher package uses
// for RTP-clock scaling.
func ToNanoseconds(ntp64 uint64) uint64 {
	secs := ntp64 >> 32
	frac := ntp64 & 0xFFFFFFFF

	return secs*1e9 + (frac*1e9)/(1<<32)
}
