package sortedguard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstPacketNeverRegressesOrDuplicates(t *testing.T) {
	var g Guard
	res := g.PreCheck(1000)
	require.False(t, res.Regressed)
	require.False(t, res.Duplicate)
}

func TestRegressionDetected(t *testing.T) {
	var g Guard
	g.PreCheck(8200)
	g.PostFix(8200, 180_000_000)

	res := g.PreCheck(4600)
	require.True(t, res.Regressed)
}

func TestDuplicateReturnsPriorPTSExactly(t *testing.T) {
	var g Guard
	g.PreCheck(8200)
	g.PostFix(8200, 180_000_000)

	res := g.PreCheck(8200)
	require.True(t, res.Duplicate)
	require.Equal(t, uint64(180_000_000), res.PTSIfDuplicate)
}

func TestPostFixClampsToMonotonic(t *testing.T) {
	var g Guard
	g.PostFix(1000, 100_000_000)
	clamped := g.PostFix(2000, 50_000_000)
	require.Equal(t, uint64(100_000_000), clamped)
}

func TestPostFixPassesThroughAscendingPTS(t *testing.T) {
	var g Guard
	g.PostFix(1000, 100_000_000)
	got := g.PostFix(2000, 200_000_000)
	require.Equal(t, uint64(200_000_000), got)
}
