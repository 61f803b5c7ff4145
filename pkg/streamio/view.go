package streamio

import (
	"errors"
	"io"
)

// ErrOutOfRange is returned when a View seek would land outside
// [0, limit] (seeking to limit itself, the end, is allowed).
var ErrOutOfRange = errors.New("streamio: seek out of range")

// View is a bounded seekable sub-stream over [origin, origin+limit)
// of an underlying stream. Reads are truncated at the limit; seeks
// outside [0, limit] fail. Views exist so callers can be handed
// "the raw bytes of the ticket" or "the encrypted bytes of content k"
// without ever seeing absolute file offsets.
type View struct {
	stream io.ReadWriteSeeker
	origin int64
	limit  int64
	pos    int64 // relative to origin
}

// NewView creates a view of exactly limit bytes starting at the
// stream's current position.
func NewView(stream io.ReadWriteSeeker, limit int64) (*View, error) {
	origin, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &View{stream: stream, origin: origin, limit: limit}, nil
}

// NewViewAt creates a view of exactly limit bytes starting at the
// given absolute offset.
func NewViewAt(stream io.ReadWriteSeeker, origin, limit int64) *View {
	return &View{stream: stream, origin: origin, limit: limit}
}

func (v *View) Len() int64 { return v.limit }

func (v *View) Read(p []byte) (int, error) {
	if v.pos >= v.limit {
		return 0, io.EOF
	}
	if remaining := v.limit - v.pos; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	if _, err := v.stream.Seek(v.origin+v.pos, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := v.stream.Read(p)
	v.pos += int64(n)
	return n, err
}

func (v *View) Write(p []byte) (int, error) {
	if v.pos >= v.limit {
		return 0, io.ErrShortWrite
	}
	if remaining := v.limit - v.pos; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	if _, err := v.stream.Seek(v.origin+v.pos, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := v.stream.Write(p)
	v.pos += int64(n)
	return n, err
}

func (v *View) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = v.pos + offset
	case io.SeekEnd:
		target = v.limit + offset
	default:
		return 0, errors.New("streamio: invalid whence")
	}
	if target < 0 || target > v.limit {
		return 0, ErrOutOfRange
	}
	v.pos = target
	return v.pos, nil
}

// ReadAll reads the view to completion from its current position.
func ReadAll(v *View) ([]byte, error) {
	buf := make([]byte, v.limit-v.pos)
	_, err := io.ReadFull(v, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf, nil
}
