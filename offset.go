package fsenv

// Some positioning primitives accept a 64-bit offset only as two 32-bit
// halves which the kernel recombines into a single signed 64-bit value.
// The split is isolated here so the rest of the package deals in plain
// int64 offsets.

// splitOffset splits a 64-bit offset into its low and high 32-bit halves.
func splitOffset(off int64) (lo, hi uint32) {
	return uint32(uint64(off) & 0xffffffff), uint32(uint64(off) >> 32)
}

// joinOffset recombines the two halves produced by splitOffset. The
// combined value is interpreted as signed 64 bits, matching the native
// primitive; no separate sign handling is required.
func joinOffset(lo, hi uint32) int64 {
	return int64(uint64(hi)<<32 | uint64(lo))
}
