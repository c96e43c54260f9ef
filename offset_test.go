package fsenv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitJoinOffsetBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		offset int64
		lo     uint32
		hi     uint32
	}{
		{name: "zero", offset: 0, lo: 0, hi: 0},
		{name: "max int32", offset: math.MaxInt32, lo: 0x7fffffff, hi: 0},
		{name: "2^31", offset: 1 << 31, lo: 0x80000000, hi: 0},
		{name: "2^32", offset: 1 << 32, lo: 0, hi: 1},
		{name: "max int64", offset: math.MaxInt64, lo: 0xffffffff, hi: 0x7fffffff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := splitOffset(tt.offset)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
			assert.Equal(t, tt.offset, joinOffset(lo, hi))
		})
	}
}

func TestJoinOffsetSignedInterpretation(t *testing.T) {
	// The combined halves form one signed 64-bit value; no separate sign
	// handling is needed.
	lo, hi := splitOffset(-1)
	assert.Equal(t, uint32(0xffffffff), lo)
	assert.Equal(t, uint32(0xffffffff), hi)
	assert.Equal(t, int64(-1), joinOffset(lo, hi))
}
