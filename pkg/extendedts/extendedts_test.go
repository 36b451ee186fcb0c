package extendedts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstCallZeroExtends(t *testing.T) {
	var tr Tracker
	require.False(t, tr.Initialized())
	v := tr.Extend(12345)
	require.Equal(t, uint64(12345), v)
	require.True(t, tr.Initialized())
}

func TestAscendingSequence(t *testing.T) {
	var tr Tracker
	require.Equal(t, uint64(1000), tr.Extend(1000))
	require.Equal(t, uint64(4600), tr.Extend(4600))
	require.Equal(t, uint64(8200), tr.Extend(8200))
}

func TestWraparound(t *testing.T) {
	var tr Tracker
	require.Equal(t, uint64(0xFFFFFFF0), tr.Extend(0xFFFFFFF0))
	v := tr.Extend(0x00000010)
	require.Equal(t, uint64(0x100000010), v)
}

func TestWraparoundThenBack(t *testing.T) {
	var tr Tracker
	tr.Extend(0xFFFFFFF0)
	tr.Extend(0x00000010) // wraps to 0x1_0000_0010
	v := tr.Extend(0xFFFFFFF0)
	require.Equal(t, uint64(0xFFFFFFF0), v)
}

func TestStrictlyAscendingPreservesFirstDifferenceModulo2Pow32(t *testing.T) {
	var tr Tracker
	prev := tr.Extend(0)
	for i := uint32(1); i < 50; i++ {
		ts := i * 3000
		ext := tr.Extend(ts)
		require.Equal(t, uint64(ts-uint32(prev)), ext-prev)
		prev = ext
	}
}

func BenchmarkExtend(b *testing.B) {
	var tr Tracker
	ts := uint32(0)
	for i := 0; i < b.N; i++ {
		ts += 3000
		tr.Extend(ts)
	}
}
