package streamio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewReadTruncatesAtLimit(t *testing.T) {
	s := NewMemStream(bytes.Repeat([]byte{0xAB}, 100))
	_, err := s.Seek(10, io.SeekStart)
	require.NoError(t, err)

	v, err := NewView(s, 20)
	require.NoError(t, err)

	got, err := ReadAll(v)
	require.NoError(t, err)
	require.Len(t, got, 20)
	for _, b := range got {
		require.Equal(t, byte(0xAB), b)
	}
}

func TestViewSeekOutOfRangeFails(t *testing.T) {
	s := NewMemStream(make([]byte, 100))
	v, err := NewView(s, 10)
	require.NoError(t, err)

	_, err = v.Seek(11, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = v.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestViewWriteStaysWithinBounds(t *testing.T) {
	s := NewMemStream(make([]byte, 100))
	_, err := s.Seek(50, io.SeekStart)
	require.NoError(t, err)

	v, err := NewView(s, 10)
	require.NoError(t, err)

	n, err := v.Write(bytes.Repeat([]byte{0xFF}, 20))
	require.NoError(t, err)
	require.Equal(t, 10, n)

	require.Equal(t, byte(0), s.Bytes()[60])
}

func TestPinAlignZeroedPadsToBoundary(t *testing.T) {
	s := NewMemStream(nil)
	pin, err := NewPin(s)
	require.NoError(t, err)

	_, err = pin.Write([]byte{1, 2, 3})
	require.NoError(t, err)

	pos, err := pin.AlignZeroed(64)
	require.NoError(t, err)
	require.Equal(t, int64(64), pos)
	require.Len(t, s.Bytes(), 64)
	require.Equal(t, byte(0), s.Bytes()[63])
}
