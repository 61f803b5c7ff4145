package streamio

import "io"

// Pin wraps a stream and remembers the position it was at when
// created as a logical origin. Editor code pins the file at offset 0
// and pins nested structures (a certificate inside a chain, a ticket
// inside a WAD) at their own start, so offsets inside that structure
// can be expressed relative to it instead of to the file.
type Pin struct {
	stream io.ReadWriteSeeker
	origin int64
}

// NewPin records the stream's current position as the pin's origin.
func NewPin(stream io.ReadWriteSeeker) (*Pin, error) {
	origin, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &Pin{stream: stream, origin: origin}, nil
}

// NewPinAt creates a pin with an explicit origin, seeking the stream
// there first.
func NewPinAt(stream io.ReadWriteSeeker, origin int64) (*Pin, error) {
	if _, err := stream.Seek(origin, io.SeekStart); err != nil {
		return nil, err
	}
	return &Pin{stream: stream, origin: origin}, nil
}

func (p *Pin) Origin() int64 { return p.origin }

func (p *Pin) Read(b []byte) (int, error)  { return p.stream.Read(b) }
func (p *Pin) Write(b []byte) (int, error) { return p.stream.Write(b) }
func (p *Pin) Seek(offset int64, whence int) (int64, error) {
	return p.stream.Seek(offset, whence)
}

// Position returns the stream's current absolute position.
func (p *Pin) Position() (int64, error) {
	return p.stream.Seek(0, io.SeekCurrent)
}

// RelativePosition returns the current position minus the pin's
// origin.
func (p *Pin) RelativePosition() (int64, error) {
	pos, err := p.Position()
	if err != nil {
		return 0, err
	}
	return pos - p.origin, nil
}

// SeekFromPin seeks to origin+off.
func (p *Pin) SeekFromPin(off int64) (int64, error) {
	return p.stream.Seek(p.origin+off, io.SeekStart)
}

// AlignPosition seeks to origin + Align(position-origin, b).
func (p *Pin) AlignPosition(b uint64) (int64, error) {
	rel, err := p.RelativePosition()
	if err != nil {
		return 0, err
	}
	aligned := AlignInt(rel, int64(b))
	return p.SeekFromPin(aligned)
}

// AlignZeroed writes zero bytes from the current position up to the
// next b-byte boundary relative to the pin's origin. Used on the
// write path to pad a section to the next 64-byte boundary.
func (p *Pin) AlignZeroed(b uint64) (int64, error) {
	rel, err := p.RelativePosition()
	if err != nil {
		return 0, err
	}
	aligned := AlignInt(rel, int64(b))
	if pad := aligned - rel; pad > 0 {
		if _, err := p.stream.Write(make([]byte, pad)); err != nil {
			return 0, err
		}
	}
	return p.SeekFromPin(aligned)
}
