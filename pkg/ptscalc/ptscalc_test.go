package ptscalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpolateUniformFeed(t *testing.T) {
	in := InterpolationInput{BaseExtTS: 1000, BasePTS: 100_000_000}

	require.Equal(t, uint64(100_000_000), Interpolate(in, 1000, 90000))
	require.Equal(t, uint64(140_000_000), Interpolate(in, 4600, 90000))
	require.Equal(t, uint64(180_000_000), Interpolate(in, 8200, 90000))
}

func TestInterpolateWraparound(t *testing.T) {
	in := InterpolationInput{BaseExtTS: 0xFFFFFFF0, BasePTS: 100_000_000}

	got := Interpolate(in, 0x100000010, 90000)
	want := uint64(100_000_000) + uint64(32)*1e9/90000
	require.Equal(t, want, got)
}

func TestSynchronizeMidStream(t *testing.T) {
	in := SyncInput{
		BaseNTPTimeNS:   0,
		BaseSyncTimeNS:  500_000_000,
		LastSRExtTS:     8200,
		LastSRNTPTimeNS: 0,
	}

	got := Synchronize(in, 11800, 90000)
	require.Equal(t, uint64(540_000_000), got)
}

func TestSynchronizeSaturatesLowOnBackwardSR(t *testing.T) {
	in := SyncInput{
		BaseNTPTimeNS:   1_000_000_000,
		BaseSyncTimeNS:  10,
		LastSRExtTS:     5000,
		LastSRNTPTimeNS: 0,
	}

	got := Synchronize(in, 5000, 90000)
	require.Equal(t, uint64(0), got)
}

func TestSynchronizeSaturatesHighOnForwardOverflow(t *testing.T) {
	in := SyncInput{
		BaseNTPTimeNS:   0,
		BaseSyncTimeNS:  math.MaxUint64 - 1,
		LastSRExtTS:     1000,
		LastSRNTPTimeNS: math.MaxUint64,
	}

	got := Synchronize(in, 1000, 90000)
	require.Equal(t, uint64(math.MaxUint64), got)
}

func TestSaturatingAddOverflow(t *testing.T) {
	s := Sat{PTS: math.MaxUint64 - 5}
	s = s.Add(10)
	require.Equal(t, uint64(math.MaxUint64), s.PTS)
	require.True(t, s.WrappedUp)
}

func TestSaturatingSubUnderflow(t *testing.T) {
	s := Sat{PTS: 5}
	s = s.Sub(10)
	require.Equal(t, uint64(0), s.PTS)
	require.True(t, s.WrappedDown)
}

func TestDownWrapDominatesLaterAdd(t *testing.T) {
	s := Sat{PTS: 5}
	s = s.Sub(10) // saturates to 0, WrappedDown=true
	s = s.Add(1000)
	require.Equal(t, uint64(0), s.PTS)
}

func TestUpWrapDominatesLaterSub(t *testing.T) {
	s := Sat{PTS: math.MaxUint64 - 5}
	s = s.Add(10) // saturates high, WrappedUp=true
	s = s.Sub(1000)
	require.Equal(t, uint64(math.MaxUint64), s.PTS)
}

func TestEqualCaseForcesSaturatedValue(t *testing.T) {
	s := Sat{PTS: 42, WrappedDown: true}
	s = s.Signed(true, 0)
	require.Equal(t, uint64(0), s.PTS)

	s2 := Sat{PTS: 42, WrappedUp: true}
	s2 = s2.Signed(true, 0)
	require.Equal(t, uint64(math.MaxUint64), s2.PTS)

	s3 := Sat{PTS: 42}
	s3 = s3.Signed(true, 0)
	require.Equal(t, uint64(42), s3.PTS)
}

func BenchmarkSynchronize(b *testing.B) {
	in := SyncInput{BaseSyncTimeNS: 1, LastSRExtTS: 1000, LastSRNTPTimeNS: 1}
	for i := 0; i < b.N; i++ {
		Synchronize(in, uint64(1000+i), 90000)
	}
}
