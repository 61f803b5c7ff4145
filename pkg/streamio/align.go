// Package streamio provides the byte-level plumbing the WAD engine is
// built on: alignment arithmetic, a stream "pin" that remembers a
// logical origin, a bounded "view" over a sub-range of a stream, and
// padded C-string I/O. None of it knows anything about tickets,
// title metadata or certificates — it is the generic substrate every
// higher package composes.
package streamio

// Align rounds v up to the next multiple of b. Align(0, b) is 0 for
// any b, matching the WAD format's convention that an empty section
// contributes no padding.
func Align(v, b uint64) uint64 {
	if v == 0 {
		return 0
	}
	if b == 0 {
		return v
	}
	rem := v % b
	if rem == 0 {
		return v
	}
	return v + (b - rem)
}

// Align64 is the 64-byte section alignment used throughout the WAD
// container format.
func Align64(v uint64) uint64 {
	return Align(v, 64)
}

// AlignInt is the int64-offset convenience form used when aligning
// seek positions rather than sizes.
func AlignInt(v, b int64) int64 {
	return int64(Align(uint64(v), uint64(b)))
}
