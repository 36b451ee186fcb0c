package ntpconv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToNanoseconds(t *testing.T) {
	cases := []struct {
		name string
		ntp  uint64
		ns   uint64
	}{
		{"zero", 0, 0},
		{"one second", uint64(1) << 32, 1e9},
		{"one second half fraction", (uint64(1) << 32) | (uint64(1) << 31), 1_500_000_000},
		{"fraction only quarter", uint64(1) << 30, 250_000_000},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.ns, ToNanoseconds(c.ntp))
		})
	}
}
