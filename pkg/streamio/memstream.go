package streamio

import "io"

// MemStream is a minimal in-memory io.ReadWriteSeeker, used by tests
// throughout this module to exercise parsing and the "safe write"
// protocol without touching a real file.
type MemStream struct {
	data []byte
	pos  int64
}

// NewMemStream creates a MemStream seeded with data (copied).
func NewMemStream(data []byte) *MemStream {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &MemStream{data: buf}
}

func (m *MemStream) Bytes() []byte { return m.data }

func (m *MemStream) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MemStream) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	n := copy(m.data[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *MemStream) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.data)) + offset
	}
	if target < 0 {
		return 0, ErrOutOfRange
	}
	m.pos = target
	return m.pos, nil
}

// Truncate resizes the backing buffer to size bytes, matching
// os.File's Truncate signature so MemStream can stand in for a file
// in tests of the safe-write-and-trim path.
func (m *MemStream) Truncate(size int64) error {
	if size < int64(len(m.data)) {
		m.data = m.data[:size]
	} else if size > int64(len(m.data)) {
		grown := make([]byte, size)
		copy(grown, m.data)
		m.data = grown
	}
	return nil
}
