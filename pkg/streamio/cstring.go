package streamio

import "bytes"

// ReadPaddedString reads a fixed-size, null-terminated, zero-padded
// ASCII field (the issuer/identity fields of the signed blob header
// and certificates) and returns the string up to the first NUL.
func ReadPaddedString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// WritePaddedString writes s null-terminated and zero-padded into a
// buffer of exactly size bytes. It panics if s does not fit, matching
// the fixed-layout invariant these fields carry on disk.
func WritePaddedString(s string, size int) []byte {
	if len(s) >= size {
		panic("streamio: string too long for padded field")
	}
	buf := make([]byte, size)
	copy(buf, s)
	return buf
}
